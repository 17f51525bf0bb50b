package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// InvoiceRepository defines the interface for invoice data operations
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// GetForUpdate loads the invoice with items and discounts and locks its row
	GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error)
	// GetOpenForReservation returns the in-progress stay bill of a reservation, locked
	GetOpenForReservation(ctx context.Context, reservationID uuid.UUID) (*entity.Invoice, error)
	// SaveTotals writes the derived totals, VAT rate and status columns
	SaveTotals(ctx context.Context, invoice *entity.Invoice) error
	AddItems(ctx context.Context, items []entity.InvoiceLineItem) error
	AddDiscount(ctx context.Context, discount *entity.InvoiceDiscount) error
	ClearDiscounts(ctx context.Context, invoiceID uuid.UUID) error
	CreateSnapshot(ctx context.Context, snapshot *entity.InvoiceSnapshot) error
	// NextSequence advances the named invoice counter and returns the new value
	NextSequence(ctx context.Context, name string) (int64, error)
	List(ctx context.Context, params *InvoiceFilterParams) ([]entity.Invoice, int64, error)
}

// InvoiceFilterParams contains filtering parameters for invoice queries
type InvoiceFilterParams struct {
	Pagination    *pagination.PaginationParams
	Status        *enum.InvoiceStatus
	CustomerType  *enum.CustomerType
	ReservationID *uuid.UUID
}
