package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// ReservationStatus represents where a stay is in its lifecycle
type ReservationStatus int

const (
	ReservationStatusPending    ReservationStatus = 1
	ReservationStatusConfirmed  ReservationStatus = 2
	ReservationStatusCheckedIn  ReservationStatus = 3
	ReservationStatusCheckedOut ReservationStatus = 4
	ReservationStatusCancelled  ReservationStatus = 5
	ReservationStatusNoShow     ReservationStatus = 6
)

var reservationStatusNames = []string{"", "pending", "confirmed", "checked_in", "checked_out", "cancelled", "no_show"}

var reservationTransitions = map[ReservationStatus][]ReservationStatus{
	ReservationStatusPending: {
		ReservationStatusConfirmed,
		ReservationStatusCheckedIn,
		ReservationStatusCancelled,
		ReservationStatusNoShow,
	},
	ReservationStatusConfirmed: {
		ReservationStatusCheckedIn,
		ReservationStatusCancelled,
		ReservationStatusNoShow,
	},
	ReservationStatusCheckedIn: {
		ReservationStatusCheckedOut,
	},
}

// ActiveReservationStatuses block a room for their date range.
var ActiveReservationStatuses = []ReservationStatus{
	ReservationStatusPending,
	ReservationStatusConfirmed,
	ReservationStatusCheckedIn,
}

func (s ReservationStatus) String() string {
	return nameOf(reservationStatusNames, int(s))
}

func (s ReservationStatus) IsValid() bool {
	return s >= ReservationStatusPending && s <= ReservationStatusNoShow
}

// IsActive reports whether a reservation in this status occupies its rooms.
func (s ReservationStatus) IsActive() bool {
	for _, a := range ActiveReservationStatuses {
		if s == a {
			return true
		}
	}
	return false
}

// CanTransitionTo reports whether next is a legal successor of s.
func (s ReservationStatus) CanTransitionTo(next ReservationStatus) bool {
	for _, allowed := range reservationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// ParseReservationStatus parses a wire name such as "checked_in".
func ParseReservationStatus(str string) (ReservationStatus, error) {
	i, err := lookup("reservation status", reservationStatusNames, str)
	return ReservationStatus(i), err
}

func (s ReservationStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReservationStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	parsed, err := ParseReservationStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s ReservationStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReservationStatus) Scan(value interface{}) error {
	*s = ReservationStatus(scanInt(value))
	return nil
}
