package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// RoomType is a catalog entry with occupancy-tiered pricing and its physical rooms
type RoomType struct {
	ID          uuid.UUID                   `gorm:"type:uuid;primary_key" json:"id"`
	Name        string                      `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	MaxChildren int                         `gorm:"not null;default:0" json:"max_children"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities"`
	CreatedAt   time.Time                   `json:"created_at"`
	UpdatedAt   time.Time                   `json:"updated_at"`

	// Relationships
	Pricing []RoomPricing  `gorm:"foreignKey:RoomTypeID" json:"pricing,omitempty"`
	Rooms   []RoomInstance `gorm:"foreignKey:RoomTypeID" json:"rooms,omitempty"`
}

// BeforeCreate generates a UUID before creating a new room type
func (rt *RoomType) BeforeCreate(tx *gorm.DB) error {
	if rt.ID == uuid.Nil {
		rt.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RoomType model
func (RoomType) TableName() string {
	return "room_types"
}

// TierFor returns the pricing tier whose occupancy equals adults exactly.
func (rt *RoomType) TierFor(adults int) (RoomPricing, bool) {
	for _, tier := range rt.Pricing {
		if tier.Occupancy == adults {
			return tier, true
		}
	}
	return RoomPricing{}, false
}

// MaxAdults is the largest occupancy any tier is priced for.
func (rt *RoomType) MaxAdults() int {
	max := 0
	for _, tier := range rt.Pricing {
		if tier.Occupancy > max {
			max = tier.Occupancy
		}
	}
	return max
}

// Room finds a physical room by number
func (rt *RoomType) Room(number string) (RoomInstance, bool) {
	for _, room := range rt.Rooms {
		if room.RoomNumber == number {
			return room, true
		}
	}
	return RoomInstance{}, false
}

// RoomPricing is one (occupancy, price per night) tier of a room type
type RoomPricing struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	RoomTypeID    uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_room_pricing_tier" json:"room_type_id"`
	Occupancy     int             `gorm:"not null;uniqueIndex:idx_room_pricing_tier;check:occupancy >= 1" json:"occupancy"`
	PricePerNight decimal.Decimal `gorm:"type:numeric;not null" json:"price_per_night"`
}

// BeforeCreate generates a UUID before creating a new pricing tier
func (p *RoomPricing) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RoomPricing model
func (RoomPricing) TableName() string {
	return "room_pricings"
}

// RoomInstance is a physical room of a room type
type RoomInstance struct {
	ID         uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	RoomTypeID uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_room_instance_number" json:"room_type_id"`
	RoomNumber string          `gorm:"size:50;not null;uniqueIndex:idx_room_instance_number" json:"room_number"`
	Status     enum.RoomStatus `gorm:"not null;default:1" json:"status"`
}

// BeforeCreate generates a UUID before creating a new room
func (r *RoomInstance) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the RoomInstance model
func (RoomInstance) TableName() string {
	return "room_instances"
}
