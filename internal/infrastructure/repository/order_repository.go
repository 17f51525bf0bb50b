package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
	"gorm.io/gorm"
)

type orderRepository struct {
	db *gorm.DB
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *gorm.DB) domainRepo.OrderRepository {
	return &orderRepository{db: db}
}

// Create stores the order together with its items
func (r *orderRepository) Create(ctx context.Context, order *entity.Order) error {
	return dbFrom(ctx, r.db).Create(order).Error
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	var order entity.Order
	err := dbFrom(ctx, r.db).
		Preload("Items").
		First(&order, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &order, err
}

func (r *orderRepository) AttachInvoice(ctx context.Context, orderID, invoiceID uuid.UUID) error {
	return dbFrom(ctx, r.db).Model(&entity.Order{}).
		Where("id = ?", orderID).
		Update("invoice_id", invoiceID).Error
}

func (r *orderRepository) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error) {
	var orders []entity.Order
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Order{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if params == nil {
		params = pagination.DefaultPagination()
	}
	params.Validate()
	err := query.Offset(params.Offset()).Limit(params.PerPage).
		Preload("Items").
		Order("created_at DESC").
		Find(&orders).Error

	return orders, total, err
}

type menuItemRepository struct {
	db *gorm.DB
}

// NewMenuItemRepository creates a new menu item repository
func NewMenuItemRepository(db *gorm.DB) domainRepo.MenuItemRepository {
	return &menuItemRepository{db: db}
}

func (r *menuItemRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.MenuItem, error) {
	var item entity.MenuItem
	err := dbFrom(ctx, r.db).First(&item, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *menuItemRepository) List(ctx context.Context) ([]entity.MenuItem, error) {
	var items []entity.MenuItem
	err := dbFrom(ctx, r.db).Order("category ASC, name ASC").Find(&items).Error
	return items, err
}

func (r *menuItemRepository) Create(ctx context.Context, item *entity.MenuItem) error {
	return dbFrom(ctx, r.db).Create(item).Error
}
