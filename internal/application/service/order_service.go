package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/broker"
	"github.com/sangkips/hotel-billing-api/pkg/pagination"
	"github.com/sangkips/hotel-billing-api/pkg/utils"
	"github.com/shopspring/decimal"
)

// OrderService posts POS orders. An order, its effect on the stay's ledger and
// its invoice lines are committed together or not at all.
type OrderService struct {
	tx              repository.Transactor
	orderRepo       repository.OrderRepository
	menuRepo        repository.MenuItemRepository
	reservationRepo repository.ReservationRepository
	userRepo        repository.UserRepository
	invoices        *InvoiceService
	rates           RateProvider
	ids             *utils.IDGenerator
	events          broker.Publisher
}

// NewOrderService creates a new order service
func NewOrderService(
	tx repository.Transactor,
	orderRepo repository.OrderRepository,
	menuRepo repository.MenuItemRepository,
	reservationRepo repository.ReservationRepository,
	userRepo repository.UserRepository,
	invoices *InvoiceService,
	rates RateProvider,
	ids *utils.IDGenerator,
	events broker.Publisher,
) *OrderService {
	return &OrderService{
		tx:              tx,
		orderRepo:       orderRepo,
		menuRepo:        menuRepo,
		reservationRepo: reservationRepo,
		userRepo:        userRepo,
		invoices:        invoices,
		rates:           rates,
		ids:             ids,
		events:          events,
	}
}

// OrderItemInput represents an item in an order
type OrderItemInput struct {
	MenuItemID uuid.UUID
	Quantity   int
}

// PostOrderInput represents a POS order
type PostOrderInput struct {
	Source        enum.CustomerType
	ReservationID *uuid.UUID
	CustomerID    *uuid.UUID
	GuestName     string
	RoomNumber    string
	PaymentType   enum.PaymentType
	Items         []OrderItemInput
	StaffID       uuid.UUID
}

func (in *PostOrderInput) validate() error {
	if len(in.Items) == 0 {
		return apperror.NewBadRequestError("Cart is empty")
	}

	var fieldErrors []apperror.FieldError
	for i, item := range in.Items {
		if item.MenuItemID == uuid.Nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("items[%d].menu_item_id", i), Message: "menu_item_id is required"})
		}
		if item.Quantity < 1 {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: fmt.Sprintf("items[%d].quantity", i), Message: "quantity must be at least 1"})
		}
	}
	if !in.PaymentType.IsValid() {
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_type", Message: "payment_type must be instant or bill"})
	}

	switch in.Source {
	case enum.CustomerTypeBooking:
		if in.ReservationID == nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "booking_id", Message: "booking_id is required"})
		}
	case enum.CustomerTypeMember:
		if in.CustomerID == nil {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "user_id", Message: "user_id is required"})
		}
		if in.PaymentType == enum.PaymentTypeBill {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_type", Message: "member orders are paid instantly"})
		}
	case enum.CustomerTypeWalkIn:
		if in.PaymentType == enum.PaymentTypeBill {
			fieldErrors = append(fieldErrors, apperror.FieldError{Field: "payment_type", Message: "walk-in orders are paid instantly"})
		}
	default:
		fieldErrors = append(fieldErrors, apperror.FieldError{Field: "customer_type", Message: "unknown customer type"})
	}

	if len(fieldErrors) > 0 {
		return apperror.NewValidationError(fieldErrors)
	}
	return nil
}

// PostOrder snapshots catalog prices onto a new order and posts it. A bill
// order is charged to the stay and added to its open invoice; an instant order
// gets an invoice of its own.
func (s *OrderService) PostOrder(ctx context.Context, input *PostOrderInput) (*entity.Order, error) {
	if err := input.validate(); err != nil {
		return nil, err
	}

	rate := s.rates.Rate()
	var order *entity.Order

	err := s.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		items, err := s.resolveItems(ctx, input.Items, rate)
		if err != nil {
			return err
		}

		var reservation *entity.Reservation
		switch input.Source {
		case enum.CustomerTypeBooking:
			if reservation, err = s.stayFor(ctx, *input.ReservationID, input.RoomNumber); err != nil {
				return err
			}
		case enum.CustomerTypeMember:
			member, err := s.userRepo.GetByID(ctx, *input.CustomerID)
			if err != nil {
				return err
			}
			if member == nil {
				return apperror.NewNotFoundError("Member")
			}
		}

		o := &entity.Order{
			OrderNo:       s.ids.Next("ORD"),
			CustomerType:  input.Source,
			ReservationID: input.ReservationID,
			CustomerID:    input.CustomerID,
			GuestName:     strings.TrimSpace(input.GuestName),
			RoomNumber:    strings.TrimSpace(input.RoomNumber),
			PaymentType:   input.PaymentType,
			Status:        enum.OrderStatusPaid,
			CreatedBy:     input.StaffID,
			Items:         items,
		}
		if input.Source != enum.CustomerTypeBooking {
			o.ReservationID = nil
		}
		if input.Source != enum.CustomerTypeMember {
			o.CustomerID = nil
		}
		if input.PaymentType == enum.PaymentTypeBill {
			o.Status = enum.OrderStatusBilled
		}
		o.TotalPrice, o.TotalPriceUSD = orderTotals(items)

		if err := s.orderRepo.Create(ctx, o); err != nil {
			return err
		}

		var invoiceID uuid.UUID
		if input.PaymentType == enum.PaymentTypeBill {
			invoiceID, err = s.billToStay(ctx, reservation, o)
		} else {
			invoiceID, err = s.settleInstantly(ctx, reservation, o)
		}
		if err != nil {
			return err
		}

		if err := s.orderRepo.AttachInvoice(ctx, o.ID, invoiceID); err != nil {
			return err
		}
		o.InvoiceID = &invoiceID
		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	publish(ctx, s.events, EventOrderPosted, order)
	return order, nil
}

// resolveItems prices every requested item from the catalog as it is now.
func (s *OrderService) resolveItems(ctx context.Context, inputs []OrderItemInput, rate decimal.Decimal) ([]entity.OrderItem, error) {
	items := make([]entity.OrderItem, 0, len(inputs))
	for _, in := range inputs {
		menuItem, err := s.menuRepo.GetByID(ctx, in.MenuItemID)
		if err != nil {
			return nil, err
		}
		if menuItem == nil {
			return nil, apperror.NewNotFoundError(fmt.Sprintf("Menu item %s", in.MenuItemID))
		}
		if !menuItem.Available {
			return nil, apperror.NewBadRequestError(fmt.Sprintf("%s is not available", menuItem.Name))
		}

		qty := decimal.NewFromInt(int64(in.Quantity))
		unitUSD := Convert(menuItem.Price, rate)
		items = append(items, entity.OrderItem{
			MenuItemID:   menuItem.ID,
			Name:         menuItem.Name,
			Quantity:     in.Quantity,
			UnitPrice:    menuItem.Price,
			UnitPriceUSD: unitUSD,
			Total:        menuItem.Price.Mul(qty),
			TotalUSD:     unitUSD.Mul(qty),
		})
	}
	return items, nil
}

// stayFor locks the reservation an order is posted against.
func (s *OrderService) stayFor(ctx context.Context, reservationID uuid.UUID, roomNumber string) (*entity.Reservation, error) {
	reservation, err := s.reservationRepo.GetForUpdate(ctx, reservationID)
	if err != nil {
		return nil, err
	}
	if reservation == nil {
		return nil, apperror.NewNotFoundError("Reservation")
	}
	if !reservation.Status.IsActive() {
		return nil, apperror.NewConflictError(fmt.Sprintf("Reservation is %s", reservation.Status))
	}
	if roomNumber = strings.TrimSpace(roomNumber); roomNumber != "" && !reservation.HasRoom(roomNumber) {
		return nil, apperror.NewNotFoundError("Room assignment")
	}
	return reservation, nil
}

// billToStay charges the order to the reservation and appends it to the stay's open invoice.
func (s *OrderService) billToStay(ctx context.Context, reservation *entity.Reservation, o *entity.Order) (uuid.UUID, error) {
	charge := entity.ReservationCharge{
		ReservationID: reservation.ID,
		OrderID:       o.ID,
		Description:   "Order " + o.OrderNo,
		Amount:        o.TotalPrice,
		AmountUSD:     o.TotalPriceUSD,
	}
	if err := s.reservationRepo.AddCharge(ctx, &charge); err != nil {
		return uuid.Nil, err
	}
	reservation.Charges = append(reservation.Charges, charge)
	reservation.RecomputeTotals()
	if err := s.reservationRepo.Update(ctx, reservation); err != nil {
		return uuid.Nil, err
	}

	inv, err := s.invoices.OpenForReservation(ctx, reservation.ID)
	if err != nil {
		return uuid.Nil, err
	}
	if inv == nil {
		return uuid.Nil, apperror.NewNotFoundError("Open invoice for reservation")
	}
	if err := s.invoices.AppendItems(ctx, inv, invoiceLines(o)); err != nil {
		return uuid.Nil, err
	}
	return inv.ID, nil
}

// settleInstantly opens a one-order invoice. Stays also record the payment on their ledger.
func (s *OrderService) settleInstantly(ctx context.Context, reservation *entity.Reservation, o *entity.Order) (uuid.UUID, error) {
	inv := &entity.Invoice{
		CustomerType:  o.CustomerType,
		ReservationID: o.ReservationID,
		CustomerID:    o.CustomerID,
		GuestName:     o.GuestName,
		Items:         invoiceLines(o),
	}
	if reservation != nil && inv.GuestName == "" {
		inv.GuestName = reservation.GuestName
	}
	if err := s.invoices.Open(ctx, inv); err != nil {
		return uuid.Nil, err
	}

	if reservation != nil {
		err := s.reservationRepo.AddPayment(ctx, &entity.ReservationPayment{
			ReservationID: reservation.ID,
			OrderID:       o.ID,
			InvoiceID:     inv.ID,
			Amount:        o.TotalPrice,
			AmountUSD:     o.TotalPriceUSD,
		})
		if err != nil {
			return uuid.Nil, err
		}
	}
	return inv.ID, nil
}

// Get returns a POS order with its items
func (s *OrderService) Get(ctx context.Context, id uuid.UUID) (*entity.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, apperror.NewNotFoundError("Order")
	}
	return order, nil
}

// List returns a page of POS orders
func (s *OrderService) List(ctx context.Context, params *pagination.PaginationParams) ([]entity.Order, int64, error) {
	return s.orderRepo.List(ctx, params)
}

// Menu lists the POS catalog
func (s *OrderService) Menu(ctx context.Context) ([]entity.MenuItem, error) {
	return s.menuRepo.List(ctx)
}

func orderTotals(items []entity.OrderItem) (decimal.Decimal, decimal.Decimal) {
	total := decimal.Zero
	totalUSD := decimal.Zero
	for _, item := range items {
		total = total.Add(item.Total)
		totalUSD = totalUSD.Add(item.TotalUSD)
	}
	return total, totalUSD
}

func invoiceLines(o *entity.Order) []entity.InvoiceLineItem {
	orderID := o.ID
	lines := make([]entity.InvoiceLineItem, 0, len(o.Items))
	for _, item := range o.Items {
		lines = append(lines, entity.InvoiceLineItem{
			Description:  item.Name,
			OrderID:      &orderID,
			Quantity:     item.Quantity,
			UnitPrice:    item.UnitPrice,
			UnitPriceUSD: item.UnitPriceUSD,
			Total:        item.Total,
			TotalUSD:     item.TotalUSD,
		})
	}
	return lines
}
