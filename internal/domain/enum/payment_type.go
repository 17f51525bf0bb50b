package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// PaymentType decides whether a POS order is settled now or billed to a stay
type PaymentType int

const (
	PaymentTypeInstant PaymentType = 1
	PaymentTypeBill    PaymentType = 2
)

var paymentTypeNames = []string{"", "instant", "bill"}

func (p PaymentType) String() string {
	return nameOf(paymentTypeNames, int(p))
}

func (p PaymentType) IsValid() bool {
	return p == PaymentTypeInstant || p == PaymentTypeBill
}

func (p PaymentType) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

func (p *PaymentType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	i, err := lookup("payment type", paymentTypeNames, str)
	if err != nil {
		return err
	}
	*p = PaymentType(i)
	return nil
}

func (p PaymentType) Value() (driver.Value, error) {
	return int64(p), nil
}

func (p *PaymentType) Scan(value interface{}) error {
	*p = PaymentType(scanInt(value))
	return nil
}
