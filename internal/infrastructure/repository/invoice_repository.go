package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	domainRepo "github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type invoiceRepository struct {
	db *gorm.DB
}

// NewInvoiceRepository creates a new invoice repository
func NewInvoiceRepository(db *gorm.DB) domainRepo.InvoiceRepository {
	return &invoiceRepository{db: db}
}

func withLines(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Preload("Discounts", func(db *gorm.DB) *gorm.DB { return db.Order("created_at ASC") })
}

// Create stores the invoice together with any items it carries
func (r *invoiceRepository) Create(ctx context.Context, invoice *entity.Invoice) error {
	return dbFrom(ctx, r.db).Create(invoice).Error
}

func (r *invoiceRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := withLines(dbFrom(ctx, r.db)).First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetForUpdate(ctx context.Context, id uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := withLines(dbFrom(ctx, r.db)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&invoice, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) GetOpenForReservation(ctx context.Context, reservationID uuid.UUID) (*entity.Invoice, error) {
	var invoice entity.Invoice
	err := withLines(dbFrom(ctx, r.db)).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("reservation_id = ? AND is_stay_bill = ? AND status = ?", reservationID, true, enum.InvoiceStatusInProgress).
		Order("created_at DESC").
		First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &invoice, err
}

func (r *invoiceRepository) SaveTotals(ctx context.Context, invoice *entity.Invoice) error {
	return dbFrom(ctx, r.db).Model(invoice).
		Select(
			"sub_total", "sub_total_usd",
			"discount_total", "discount_total_usd",
			"vat_rate", "vat_amount", "vat_amount_usd",
			"net_total", "net_total_usd",
			"status", "finalized_at", "updated_at",
		).
		Updates(invoice).Error
}

func (r *invoiceRepository) AddItems(ctx context.Context, items []entity.InvoiceLineItem) error {
	if len(items) == 0 {
		return nil
	}
	return dbFrom(ctx, r.db).Create(&items).Error
}

func (r *invoiceRepository) AddDiscount(ctx context.Context, discount *entity.InvoiceDiscount) error {
	return dbFrom(ctx, r.db).Create(discount).Error
}

func (r *invoiceRepository) ClearDiscounts(ctx context.Context, invoiceID uuid.UUID) error {
	return dbFrom(ctx, r.db).Where("invoice_id = ?", invoiceID).Delete(&entity.InvoiceDiscount{}).Error
}

func (r *invoiceRepository) CreateSnapshot(ctx context.Context, snapshot *entity.InvoiceSnapshot) error {
	return dbFrom(ctx, r.db).Create(snapshot).Error
}

func (r *invoiceRepository) NextSequence(ctx context.Context, name string) (int64, error) {
	db := dbFrom(ctx, r.db)

	res := db.Model(&entity.InvoiceSequence{}).
		Where("name = ?", name).
		Update("value", gorm.Expr("value + 1"))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		seq := entity.InvoiceSequence{Name: name, Value: 1}
		if err := db.Create(&seq).Error; err != nil {
			return 0, err
		}
		return seq.Value, nil
	}

	var seq entity.InvoiceSequence
	if err := db.First(&seq, "name = ?", name).Error; err != nil {
		return 0, err
	}
	return seq.Value, nil
}

func (r *invoiceRepository) List(ctx context.Context, params *domainRepo.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	var invoices []entity.Invoice
	var total int64

	query := dbFrom(ctx, r.db).Model(&entity.Invoice{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerType != nil {
		query = query.Where("customer_type = ?", *params.CustomerType)
	}
	if params.ReservationID != nil {
		query = query.Where("reservation_id = ?", *params.ReservationID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	page := params.Pagination
	if page == nil {
		page = pagination.DefaultPagination()
	}
	page.Validate()
	err := query.Offset(page.Offset()).Limit(page.PerPage).
		Order("sequence DESC").
		Find(&invoices).Error

	return invoices, total, err
}
