package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Invoice is the running bill for a stay, a walk-in or a member purchase.
// Totals are derived; only billing.Recompute writes them.
type Invoice struct {
	ID               uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceNumber    string             `gorm:"size:50;uniqueIndex;not null" json:"invoice_number"`
	Sequence         int64              `gorm:"uniqueIndex;not null" json:"sequence"`
	CustomerType     enum.CustomerType  `gorm:"not null" json:"customer_type"`
	ReservationID    *uuid.UUID         `gorm:"type:uuid;index" json:"reservation_id,omitempty"`
	CustomerID       *uuid.UUID         `gorm:"type:uuid;index" json:"customer_id,omitempty"`
	GuestName        string             `gorm:"size:255" json:"guest_name,omitempty"`
	// IsStayBill marks the one invoice of a reservation that carries its room nights
	// and every bill-to-room order. Instant orders get invoices of their own.
	IsStayBill       bool               `gorm:"not null;default:false;index" json:"is_stay_bill"`
	SubTotal         decimal.Decimal    `gorm:"type:numeric;not null;default:0" json:"sub_total"`
	SubTotalUSD      decimal.Decimal    `gorm:"type:numeric;not null;default:0" json:"sub_total_usd"`
	DiscountTotal    decimal.Decimal    `gorm:"type:numeric;not null;default:0" json:"discount_total"`
	DiscountTotalUSD decimal.Decimal    `gorm:"type:numeric;not null;default:0" json:"discount_total_usd"`
	VATRate          decimal.Decimal    `gorm:"column:vat_rate;type:numeric;not null;default:0" json:"vat_rate"`
	VATAmount        decimal.Decimal    `gorm:"column:vat_amount;type:numeric;not null;default:0" json:"vat_amount"`
	VATAmountUSD     decimal.Decimal    `gorm:"column:vat_amount_usd;type:numeric;not null;default:0" json:"vat_amount_usd"`
	NetTotal         decimal.Decimal    `gorm:"type:numeric;not null;default:0" json:"net_total"`
	NetTotalUSD      decimal.Decimal    `gorm:"type:numeric;not null;default:0" json:"net_total_usd"`
	Status           enum.InvoiceStatus `gorm:"not null;default:1;index" json:"status"`
	FinalizedAt      *time.Time         `json:"finalized_at,omitempty"`
	CreatedAt        time.Time          `json:"created_at"`
	UpdatedAt        time.Time          `json:"updated_at"`

	// Relationships
	Items     []InvoiceLineItem `gorm:"foreignKey:InvoiceID" json:"items"`
	Discounts []InvoiceDiscount `gorm:"foreignKey:InvoiceID" json:"discounts"`
}

// BeforeCreate generates a UUID before creating a new invoice
func (i *Invoice) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Invoice model
func (Invoice) TableName() string {
	return "invoices"
}

// IsFinal reports whether the invoice is locked
func (i *Invoice) IsFinal() bool {
	return i.Status.IsFinal()
}

// HasValidOwner checks that exactly the reference matching the customer type is set.
// Only booking invoices can be stay bills.
func (i *Invoice) HasValidOwner() bool {
	if i.IsStayBill && i.CustomerType != enum.CustomerTypeBooking {
		return false
	}
	switch i.CustomerType {
	case enum.CustomerTypeBooking:
		return i.ReservationID != nil && i.CustomerID == nil
	case enum.CustomerTypeMember:
		return i.CustomerID != nil && i.ReservationID == nil
	case enum.CustomerTypeWalkIn:
		return i.ReservationID == nil && i.CustomerID == nil
	}
	return false
}

// InvoiceLineItem is one billed line. TotalUSD is accumulated from the
// converted unit amount, not converted from Total.
type InvoiceLineItem struct {
	ID           uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Position     int             `gorm:"not null" json:"position"`
	Description  string          `gorm:"size:255;not null" json:"description"`
	OrderID      *uuid.UUID      `gorm:"type:uuid;index" json:"order_id,omitempty"`
	Quantity     int             `gorm:"not null" json:"quantity"`
	UnitPrice    decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price"`
	UnitPriceUSD decimal.Decimal `gorm:"type:numeric;not null" json:"unit_price_usd"`
	Total        decimal.Decimal `gorm:"type:numeric;not null" json:"total"`
	TotalUSD     decimal.Decimal `gorm:"type:numeric;not null" json:"total_usd"`
	CreatedAt    time.Time       `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new line item
func (l *InvoiceLineItem) BeforeCreate(tx *gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceLineItem model
func (InvoiceLineItem) TableName() string {
	return "invoice_line_items"
}

// InvoiceDiscount is a discount entry; the invoice's discount totals are derived from these
type InvoiceDiscount struct {
	ID          uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID   uuid.UUID          `gorm:"type:uuid;not null;index" json:"invoice_id"`
	Type        enum.DiscountType  `gorm:"not null" json:"type"`
	Currency    enum.Currency      `gorm:"not null" json:"currency"`
	Value       decimal.Decimal    `gorm:"type:numeric;not null" json:"value"`
	Description string             `gorm:"size:255" json:"description"`
	AppliedTo   enum.DiscountScope `gorm:"not null;default:1" json:"applied_to"`
	CreatedAt   time.Time          `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new discount
func (d *InvoiceDiscount) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceDiscount model
func (InvoiceDiscount) TableName() string {
	return "invoice_discounts"
}

// InvoiceSnapshot keeps the document as it was when it was finalized
type InvoiceSnapshot struct {
	ID        uuid.UUID          `gorm:"type:uuid;primary_key" json:"id"`
	InvoiceID uuid.UUID          `gorm:"type:uuid;not null;uniqueIndex" json:"invoice_id"`
	Status    enum.InvoiceStatus `gorm:"not null" json:"status"`
	Snapshot  datatypes.JSON     `json:"snapshot"`
	CreatedAt time.Time          `json:"created_at"`
}

// BeforeCreate generates a UUID before creating a new snapshot
func (s *InvoiceSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the InvoiceSnapshot model
func (InvoiceSnapshot) TableName() string {
	return "invoice_snapshots"
}

// InvoiceSequence is the counter behind invoice numbers
type InvoiceSequence struct {
	Name  string `gorm:"size:50;primaryKey"`
	Value int64  `gorm:"not null;default:0"`
}

// TableName returns the table name for the InvoiceSequence model
func (InvoiceSequence) TableName() string {
	return "invoice_sequences"
}
