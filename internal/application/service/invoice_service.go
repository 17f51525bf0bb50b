package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/billing"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/internal/infrastructure/database"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/broker"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// InvoiceService owns the running bills. Every mutation locks the invoice row,
// changes its inputs and lets billing.Recompute derive the totals.
type InvoiceService struct {
	tx          repository.Transactor
	invoiceRepo repository.InvoiceRepository
	events      broker.Publisher
	prefix      string
}

// NewInvoiceService creates a new invoice service
func NewInvoiceService(
	tx repository.Transactor,
	invoiceRepo repository.InvoiceRepository,
	events broker.Publisher,
	prefix string,
) *InvoiceService {
	if prefix == "" {
		prefix = "INV"
	}
	return &InvoiceService{
		tx:          tx,
		invoiceRepo: invoiceRepo,
		events:      events,
		prefix:      prefix,
	}
}

// Open numbers and stores a new in-progress invoice with whatever items it
// already carries. It joins the caller's transaction when there is one.
func (s *InvoiceService) Open(ctx context.Context, inv *entity.Invoice) error {
	if !inv.HasValidOwner() {
		return apperror.NewBadRequestError("Invoice must reference exactly the owner its customer type requires")
	}

	return s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		seq, err := s.invoiceRepo.NextSequence(ctx, database.InvoiceSequenceName)
		if err != nil {
			return fmt.Errorf("next invoice number: %w", err)
		}

		inv.Sequence = seq
		inv.InvoiceNumber = utils.FormatInvoiceNo(s.prefix, seq)
		inv.Status = enum.InvoiceStatusInProgress
		for i := range inv.Items {
			inv.Items[i].Position = i + 1
		}
		*inv = billing.Recompute(*inv)

		return s.invoiceRepo.Create(ctx, inv)
	})
}

// AppendItems adds lines to an invoice the caller has already locked inside
// its transaction, then recomputes and stores the totals.
func (s *InvoiceService) AppendItems(ctx context.Context, inv *entity.Invoice, items []entity.InvoiceLineItem) error {
	if inv.IsFinal() {
		return apperror.ErrInvoiceFinalized
	}

	next := len(inv.Items) + 1
	for i := range items {
		items[i].InvoiceID = inv.ID
		items[i].Position = next + i
	}
	if err := s.invoiceRepo.AddItems(ctx, items); err != nil {
		return err
	}

	inv.Items = append(inv.Items, items...)
	*inv = billing.Recompute(*inv)
	return s.invoiceRepo.SaveTotals(ctx, inv)
}

// DiscountInput represents a discount to append to an invoice
type DiscountInput struct {
	InvoiceID   uuid.UUID
	Type        enum.DiscountType
	Currency    enum.Currency
	Value       decimal.Decimal
	Description string
}

// ApplyDiscount appends an order-level discount. Discount totals are rebuilt
// from the whole list, and discounts may never exceed the subtotal.
func (s *InvoiceService) ApplyDiscount(ctx context.Context, input *DiscountInput) (*entity.Invoice, error) {
	discount := entity.InvoiceDiscount{
		InvoiceID:   input.InvoiceID,
		Type:        input.Type,
		Currency:    input.Currency,
		Value:       input.Value,
		Description: input.Description,
		AppliedTo:   enum.DiscountScopeOrder,
	}
	if err := billing.CheckDiscount(discount); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	return s.mutate(ctx, input.InvoiceID, func(ctx context.Context, inv *entity.Invoice) error {
		candidate := *inv
		candidate.Discounts = append(append([]entity.InvoiceDiscount(nil), inv.Discounts...), discount)
		if err := billing.CheckDiscountCap(billing.Recompute(candidate)); err != nil {
			return apperror.NewBadRequestError(err.Error())
		}

		if err := s.invoiceRepo.AddDiscount(ctx, &discount); err != nil {
			return err
		}
		inv.Discounts = append(inv.Discounts, discount)
		return nil
	})
}

// ApplyVAT sets the VAT rate, a percentage in [0, 100] charged on the post-discount base.
func (s *InvoiceService) ApplyVAT(ctx context.Context, invoiceID uuid.UUID, rate decimal.Decimal) (*entity.Invoice, error) {
	if err := billing.CheckVATRate(rate); err != nil {
		return nil, apperror.NewBadRequestError(err.Error())
	}

	return s.mutate(ctx, invoiceID, func(ctx context.Context, inv *entity.Invoice) error {
		inv.VATRate = rate
		return nil
	})
}

// Reset removes every discount and the VAT rate.
func (s *InvoiceService) Reset(ctx context.Context, invoiceID uuid.UUID) (*entity.Invoice, error) {
	return s.mutate(ctx, invoiceID, func(ctx context.Context, inv *entity.Invoice) error {
		if len(inv.Discounts) > 0 {
			if err := s.invoiceRepo.ClearDiscounts(ctx, inv.ID); err != nil {
				return err
			}
		}
		*inv = billing.Reset(*inv)
		return nil
	})
}

// Finalize locks the invoice as paid or posted and keeps a snapshot of it.
func (s *InvoiceService) Finalize(ctx context.Context, invoiceID uuid.UUID, status enum.InvoiceStatus) (*entity.Invoice, error) {
	if status == 0 {
		status = enum.InvoiceStatusPaid
	}
	if !status.IsFinal() {
		return nil, apperror.NewBadRequestError("Invoice can only be finalized as paid or posted")
	}

	inv, err := s.mutate(ctx, invoiceID, func(ctx context.Context, inv *entity.Invoice) error {
		now := time.Now().UTC()
		inv.Status = status
		inv.FinalizedAt = &now

		doc, err := json.Marshal(billing.Recompute(*inv))
		if err != nil {
			return fmt.Errorf("snapshot invoice: %w", err)
		}
		return s.invoiceRepo.CreateSnapshot(ctx, &entity.InvoiceSnapshot{
			InvoiceID: inv.ID,
			Status:    status,
			Snapshot:  doc,
		})
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, EventInvoiceFinalized, inv)
	return inv, nil
}

// Get returns an invoice with its lines and discounts
func (s *InvoiceService) Get(ctx context.Context, invoiceID uuid.UUID) (*entity.Invoice, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}
	return inv, nil
}

// OpenForReservation returns the locked in-progress stay bill of a reservation, or nil.
// One-order invoices of instant payments are never returned.
func (s *InvoiceService) OpenForReservation(ctx context.Context, reservationID uuid.UUID) (*entity.Invoice, error) {
	return s.invoiceRepo.GetOpenForReservation(ctx, reservationID)
}

// List returns a page of invoices
func (s *InvoiceService) List(ctx context.Context, params *repository.InvoiceFilterParams) ([]entity.Invoice, int64, error) {
	return s.invoiceRepo.List(ctx, params)
}

// mutate runs fn against the locked, still-open invoice and stores the
// recomputed totals in the same transaction.
func (s *InvoiceService) mutate(
	ctx context.Context,
	invoiceID uuid.UUID,
	fn func(ctx context.Context, inv *entity.Invoice) error,
) (*entity.Invoice, error) {
	var result *entity.Invoice

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		inv, err := s.invoiceRepo.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return apperror.NewNotFoundError("Invoice")
		}
		if inv.IsFinal() {
			return apperror.ErrInvoiceFinalized
		}

		if err := fn(ctx, inv); err != nil {
			return err
		}

		*inv = billing.Recompute(*inv)
		if err := s.invoiceRepo.SaveTotals(ctx, inv); err != nil {
			return err
		}
		result = inv
		return nil
	})

	return result, err
}
