package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// RoomStatus is the catalog-level state of a physical room
type RoomStatus int

const (
	RoomStatusAvailable    RoomStatus = 1
	RoomStatusNotAvailable RoomStatus = 2
)

var roomStatusNames = []string{"", "available", "not_available"}

func (s RoomStatus) String() string {
	return nameOf(roomStatusNames, int(s))
}

func (s RoomStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *RoomStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	i, err := lookup("room status", roomStatusNames, str)
	if err != nil {
		return err
	}
	*s = RoomStatus(i)
	return nil
}

func (s RoomStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *RoomStatus) Scan(value interface{}) error {
	*s = RoomStatus(scanInt(value))
	return nil
}
