package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Order represents a POS purchase (room service, walk-in or member)
type Order struct {
	ID            uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	OrderNo       string            `gorm:"size:50;uniqueIndex;not null" json:"order_no"`
	CustomerType  enum.CustomerType `gorm:"not null" json:"customer_type"`
	ReservationID *uuid.UUID        `gorm:"type:uuid;index" json:"reservation_id,omitempty"`
	CustomerID    *uuid.UUID        `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	GuestName     string            `gorm:"size:255" json:"guest_name,omitempty"`
	RoomNumber    string            `gorm:"size:50" json:"room_number,omitempty"`
	PaymentType   enum.PaymentType  `gorm:"not null" json:"payment_type"`
	Status        enum.OrderStatus  `gorm:"not null" json:"status"`
	TotalPrice    decimal.Decimal   `gorm:"type:numeric;not null" json:"total_price"`
	TotalPriceUSD decimal.Decimal   `gorm:"type:numeric;not null" json:"total_price_usd"`
	InvoiceID     *uuid.UUID        `gorm:"type:uuid;index" json:"invoice_id,omitempty"`
	CreatedBy     uuid.UUID         `gorm:"type:uuid;not null;index" json:"created_by"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`

	// Relationships
	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items,omitempty"`
}

// BeforeCreate generates a UUID before creating a new order
func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Order model
func (Order) TableName() string {
	return "orders"
}

// OrderItem snapshots a catalog item's name and prices at posting time
type OrderItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	OrderID      uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	MenuItemID   uuid.UUID       `gorm:"type:uuid;not null" json:"menu_item_id"`
	Name         string          `gorm:"size:255;not null" json:"name"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	UnitPriceUSD decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price_usd"`
	Total        decimal.Decimal `gorm:"type:numeric;not null" json:"total"`
	TotalUSD     decimal.Decimal `gorm:"type:numeric;not null" json:"total_usd"`
}

// BeforeCreate generates a UUID before creating a new order item
func (oi *OrderItem) BeforeCreate(tx *gorm.DB) error {
	if oi.ID == uuid.Nil {
		oi.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the OrderItem model
func (OrderItem) TableName() string {
	return "order_items"
}

// MenuItem is a sellable catalog item for the POS
type MenuItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	Name      string          `gorm:"size:255;not null;uniqueIndex" json:"name"`
	Category  string          `gorm:"size:100" json:"category"`
	Price     decimal.Decimal `gorm:"type:numeric;not null" json:"price"`
	Available bool            `gorm:"not null;default:true" json:"available"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// BeforeCreate generates a UUID before creating a new menu item
func (m *MenuItem) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the MenuItem model
func (MenuItem) TableName() string {
	return "menu_items"
}
