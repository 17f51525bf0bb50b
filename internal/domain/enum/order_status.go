package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// OrderStatus represents the status of a POS order
type OrderStatus int

const (
	OrderStatusBilled OrderStatus = 1
	OrderStatusPaid   OrderStatus = 2
)

var orderStatusNames = []string{"", "billed", "paid"}

func (s OrderStatus) String() string {
	return nameOf(orderStatusNames, int(s))
}

func (s OrderStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s OrderStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *OrderStatus) Scan(value interface{}) error {
	*s = OrderStatus(scanInt(value))
	return nil
}
