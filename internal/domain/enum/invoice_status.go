package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// InvoiceStatus represents the lifecycle of an invoice
type InvoiceStatus int

const (
	InvoiceStatusInProgress InvoiceStatus = 1
	InvoiceStatusPaid       InvoiceStatus = 2
	InvoiceStatusPosted     InvoiceStatus = 3
)

var invoiceStatusNames = []string{"", "in_progress", "paid", "posted"}

func (s InvoiceStatus) String() string {
	return nameOf(invoiceStatusNames, int(s))
}

// IsFinal reports whether the invoice is locked against further mutation.
func (s InvoiceStatus) IsFinal() bool {
	return s == InvoiceStatusPaid || s == InvoiceStatusPosted
}

func ParseInvoiceStatus(str string) (InvoiceStatus, error) {
	i, err := lookup("invoice status", invoiceStatusNames, str)
	return InvoiceStatus(i), err
}

func (s InvoiceStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *InvoiceStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseInvoiceStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s InvoiceStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *InvoiceStatus) Scan(value interface{}) error {
	*s = InvoiceStatus(scanInt(value))
	return nil
}
