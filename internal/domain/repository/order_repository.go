package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
)

// OrderRepository defines the interface for POS order data operations
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error)
	AttachInvoice(ctx context.Context, orderID, invoiceID uuid.UUID) error
	List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error)
}

// MenuItemRepository reads the POS catalog
type MenuItemRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error)
	List(ctx context.Context) ([]entity.MenuItem, error)
	Create(ctx context.Context, item *entity.MenuItem) error
}
