package request

import (
	"encoding/json"
	"time"

	"github.com/sangkips/hotel-billing-api/pkg/utils"
)

// Date accepts "2006-01-02" or an RFC3339 timestamp.
type Date struct {
	time.Time
}

func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	t, err := utils.ParseDate(s)
	if err != nil {
		return err
	}
	d.Time = t
	return nil
}

// TimePtr returns nil for a nil Date.
func (d *Date) TimePtr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}
