package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
)

// PosItemRequest is one cart line
type PosItemRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id" binding:"required"`
	Quantity   int       `json:"quantity"`
}

// CreatePosRequest is shared by the booking, walk-in and member POS routes.
// The route decides the customer type; fields that do not apply are ignored.
type CreatePosRequest struct {
	BookingID   *uuid.UUID       `json:"booking_id"`
	UserID      *uuid.UUID       `json:"user_id"`
	RoomNumber  string           `json:"room_number" binding:"max=20"`
	GuestName   string           `json:"guest_name" binding:"max=255"`
	PaymentType enum.PaymentType `json:"payment_type"`
	Items       []PosItemRequest `json:"items" binding:"dive"`
}

// ListRequest is a plain page request
type ListRequest struct {
	Page    int `form:"page,default=1"`
	PerPage int `form:"per_page,default=15"`
}
