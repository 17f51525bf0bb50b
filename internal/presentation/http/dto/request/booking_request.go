package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
)

// RoomRequest asks for one room number of a room type
type RoomRequest struct {
	RoomTypeID uuid.UUID `json:"room_type_id" binding:"required"`
	RoomNumber string    `json:"room_number" binding:"required,max=20"`
	Adults     int       `json:"adults" binding:"min=0"`
	Children   int       `json:"children" binding:"min=0"`
}

// CreateBookingRequest represents a reservation request
type CreateBookingRequest struct {
	GuestName  string        `json:"guest_name" binding:"omitempty,max=255"`
	GuestEmail string        `json:"guest_email" binding:"omitempty,email"`
	GuestPhone string        `json:"guest_phone" binding:"omitempty,max=50"`
	CheckIn    Date          `json:"check_in"`
	CheckOut   Date          `json:"check_out"`
	Adults     int           `json:"adults" binding:"min=0"`
	Children   int           `json:"children" binding:"min=0"`
	Rooms      []RoomRequest `json:"rooms" binding:"required,min=1,dive"`
}

// UpdateBookingRequest changes any of the dates, the rooms or the status
type UpdateBookingRequest struct {
	CheckIn  *Date                   `json:"check_in"`
	CheckOut *Date                   `json:"check_out"`
	Rooms    []RoomRequest           `json:"rooms" binding:"omitempty,dive"`
	Status   *enum.ReservationStatus `json:"status"`
}

// AvailabilityRequest is the query of GET /booking/available
type AvailabilityRequest struct {
	CheckIn  string `form:"check_in" binding:"required"`
	CheckOut string `form:"check_out" binding:"required"`
	Adults   int    `form:"adults,default=1"`
	Children int    `form:"children"`
}

// BookingFilterRequest represents reservation list filters
type BookingFilterRequest struct {
	Status  string `form:"status"`
	From    string `form:"from"`
	To      string `form:"to"`
	Page    int    `form:"page,default=1"`
	PerPage int    `form:"per_page,default=15"`
}
