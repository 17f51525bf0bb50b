package request

import (
	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// ApplyDiscountRequest appends one discount to an invoice
type ApplyDiscountRequest struct {
	InvoiceID   uuid.UUID         `json:"invoice_id" binding:"required"`
	Type        enum.DiscountType `json:"type" binding:"required"`
	Value       decimal.Decimal   `json:"value"`
	Currency    enum.Currency     `json:"currency" binding:"required"`
	Description string            `json:"description" binding:"max=255"`
}

// ApplyVATRequest sets the VAT percentage of an invoice
type ApplyVATRequest struct {
	InvoiceID uuid.UUID       `json:"invoice_id" binding:"required"`
	VATRate   decimal.Decimal `json:"vat_rate"`
}

// InvoiceRefRequest names the invoice to act on
type InvoiceRefRequest struct {
	InvoiceID uuid.UUID `json:"invoice_id" binding:"required"`
}

// FinalizeInvoiceRequest picks the final status; paid when omitted
type FinalizeInvoiceRequest struct {
	Status *enum.InvoiceStatus `json:"status"`
}

// InvoiceFilterRequest represents invoice list filters
type InvoiceFilterRequest struct {
	Status        string `form:"status"`
	CustomerType  string `form:"customer_type"`
	ReservationID string `form:"reservation_id"`
	Page          int    `form:"page,default=1"`
	PerPage       int    `form:"per_page,default=15"`
}
