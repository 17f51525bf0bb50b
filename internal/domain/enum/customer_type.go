package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// CustomerType identifies who an invoice or POS order is billed to
type CustomerType int

const (
	CustomerTypeWalkIn  CustomerType = 1
	CustomerTypeBooking CustomerType = 2
	CustomerTypeMember  CustomerType = 3
)

var customerTypeNames = []string{"", "walkIn", "booking", "member"}

func (t CustomerType) String() string {
	return nameOf(customerTypeNames, int(t))
}

func (t CustomerType) IsValid() bool {
	return t >= CustomerTypeWalkIn && t <= CustomerTypeMember
}

func ParseCustomerType(str string) (CustomerType, error) {
	i, err := lookup("customer type", customerTypeNames, str)
	return CustomerType(i), err
}

func (t CustomerType) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

func (t *CustomerType) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseCustomerType(str)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

func (t CustomerType) Value() (driver.Value, error) {
	return int64(t), nil
}

func (t *CustomerType) Scan(value interface{}) error {
	*t = CustomerType(scanInt(value))
	return nil
}
