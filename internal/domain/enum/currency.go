package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// Currency tags an amount as base (NPR) or converted (USD)
type Currency int

const (
	CurrencyNPR Currency = 1
	CurrencyUSD Currency = 2
)

var currencyNames = []string{"", "NPR", "USD"}

func (c Currency) String() string {
	return nameOf(currencyNames, int(c))
}

func (c Currency) IsValid() bool {
	return c == CurrencyNPR || c == CurrencyUSD
}

func (c Currency) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Currency) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	i, err := lookup("currency", currencyNames, str)
	if err != nil {
		return err
	}
	*c = Currency(i)
	return nil
}

func (c Currency) Value() (driver.Value, error) {
	return int64(c), nil
}

func (c *Currency) Scan(value interface{}) error {
	*c = Currency(scanInt(value))
	return nil
}
