package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Reservation represents one guest's stay
type Reservation struct {
	ID            uuid.UUID              `gorm:"type:uuid;primary_key" json:"id"`
	ReferenceCode string                 `gorm:"size:50;uniqueIndex;not null" json:"reference_code"`
	UserID        *uuid.UUID             `gorm:"type:uuid;index" json:"user_id,omitempty"`
	GuestName     string                 `gorm:"size:255" json:"guest_name,omitempty"`
	GuestEmail    string                 `gorm:"size:255" json:"guest_email,omitempty"`
	GuestPhone    string                 `gorm:"size:50" json:"guest_phone,omitempty"`
	CheckIn       time.Time              `gorm:"not null;index" json:"check_in"`
	CheckOut      time.Time              `gorm:"not null;index" json:"check_out"`
	Adults        int                    `gorm:"not null;default:1" json:"adults"`
	Children      int                    `gorm:"not null;default:0" json:"children"`
	Status        enum.ReservationStatus `gorm:"not null;default:1;index" json:"status"`
	TotalPrice    decimal.Decimal        `gorm:"type:numeric;not null;default:0" json:"total_price"`
	TotalPriceUSD decimal.Decimal        `gorm:"type:numeric;not null;default:0" json:"total_price_usd"`
	CheckedInAt   *time.Time             `json:"checked_in_at,omitempty"`
	CheckedOutAt  *time.Time             `json:"checked_out_at,omitempty"`
	CancelledAt   *time.Time             `json:"cancelled_at,omitempty"`
	CreatedAt     time.Time              `json:"created_at"`
	UpdatedAt     time.Time              `json:"updated_at"`

	// Relationships
	Rooms    []RoomAssignment     `gorm:"foreignKey:ReservationID" json:"rooms,omitempty"`
	Charges  []ReservationCharge  `gorm:"foreignKey:ReservationID" json:"charges,omitempty"`
	Payments []ReservationPayment `gorm:"foreignKey:ReservationID" json:"payments,omitempty"`
}

// BeforeCreate generates a UUID before creating a new reservation
func (r *Reservation) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Reservation model
func (Reservation) TableName() string {
	return "reservations"
}

// RecomputeTotals rebuilds the running totals from assignments and charges.
func (r *Reservation) RecomputeTotals() {
	total := decimal.Zero
	totalUSD := decimal.Zero
	for _, room := range r.Rooms {
		total = total.Add(room.TotalPrice)
		totalUSD = totalUSD.Add(room.TotalPriceUSD)
	}
	for _, charge := range r.Charges {
		total = total.Add(charge.Amount)
		totalUSD = totalUSD.Add(charge.AmountUSD)
	}
	r.TotalPrice = total
	r.TotalPriceUSD = totalUSD
}

// HasRoom reports whether the stay includes the given room number
func (r *Reservation) HasRoom(roomNumber string) bool {
	for _, room := range r.Rooms {
		if room.RoomNumber == roomNumber {
			return true
		}
	}
	return false
}

// RoomAssignment ties a reservation to one physical room
type RoomAssignment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReservationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"reservation_id"`
	RoomTypeID    uuid.UUID       `gorm:"type:uuid;not null;index:idx_assignment_room" json:"room_type_id"`
	RoomNumber    string          `gorm:"size:50;not null;index:idx_assignment_room" json:"room_number"`
	RoomTypeName  string          `gorm:"size:255" json:"room_type_name"`
	Adults        int             `gorm:"not null" json:"adults"`
	Children      int             `gorm:"not null;default:0" json:"children"`
	Nights        int             `gorm:"not null" json:"nights"`
	PricePerNight decimal.Decimal `gorm:"type:numeric;not null" json:"price_per_night"`
	TotalPrice    decimal.Decimal `gorm:"type:numeric;not null" json:"total_price"`
	TotalPriceUSD decimal.Decimal `gorm:"type:numeric;not null" json:"total_price_usd"`
}

// BeforeCreate generates a UUID before creating a new assignment
func (a *RoomAssignment) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RoomAssignment model
func (RoomAssignment) TableName() string {
	return "room_assignments"
}

// ReservationCharge is an append-only room-service posting billed to the stay
type ReservationCharge struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReservationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"reservation_id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	Description   string          `gorm:"size:255" json:"description"`
	Amount        decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	AmountUSD     decimal.Decimal `gorm:"type:numeric;not null" json:"amount_usd"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new charge
func (c *ReservationCharge) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReservationCharge model
func (ReservationCharge) TableName() string {
	return "reservation_charges"
}

// ReservationPayment records a POS order the guest settled on the spot
type ReservationPayment struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	ReservationID uuid.UUID       `gorm:"type:uuid;not null;index" json:"reservation_id"`
	OrderID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	InvoiceID     uuid.UUID       `gorm:"type:uuid;not null" json:"invoice_id"`
	Amount        decimal.Decimal `gorm:"type:numeric;not null" json:"amount"`
	AmountUSD     decimal.Decimal `gorm:"type:numeric;not null" json:"amount_usd"`
	CreatedAt     time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new payment
func (p *ReservationPayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReservationPayment model
func (ReservationPayment) TableName() string {
	return "reservation_payments"
}

// RoomNight marks one night of a room as held by an active reservation.
// The unique index rejects a second holder of the same night.
type RoomNight struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	RoomTypeID    uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_room_night"`
	RoomNumber    string    `gorm:"size:50;not null;uniqueIndex:idx_room_night"`
	Night         time.Time `gorm:"not null;uniqueIndex:idx_room_night"`
	ReservationID uuid.UUID `gorm:"type:uuid;not null;index"`
}

// BeforeCreate generates a UUID before creating a new marker
func (n *RoomNight) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RoomNight model
func (RoomNight) TableName() string {
	return "room_nights"
}
