package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// DiscountType represents how a discount value is interpreted
type DiscountType int

const (
	DiscountTypePercentage DiscountType = 1
	DiscountTypeFlat       DiscountType = 2
)

var discountTypeNames = []string{"", "percentage", "flat"}

func (t DiscountType) String() string {
	return nameOf(discountTypeNames, int(t))
}

func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFlat
}

func (t DiscountType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *DiscountType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	i, err := lookup("discount type", discountTypeNames, str)
	if err != nil {
		return err
	}
	*t = DiscountType(i)
	return nil
}

func (t DiscountType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *DiscountType) Scan(value interface{}) error {
	*t = DiscountType(scanInt(value))
	return nil
}

// DiscountScope is what a discount applies to. Only whole-order discounts exist today.
type DiscountScope int

const (
	DiscountScopeOrder DiscountScope = 1
)

var discountScopeNames = []string{"", "order"}

func (s DiscountScope) String() string {
	return nameOf(discountScopeNames, int(s))
}

func (s DiscountScope) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s DiscountScope) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *DiscountScope) Scan(value interface{}) error {
	*s = DiscountScope(scanInt(value))
	return nil
}
