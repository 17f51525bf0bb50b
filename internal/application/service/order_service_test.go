package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/shopspring/decimal"
)

func (e *testEnv) checkedInStay(t *testing.T, room string) *entity.Reservation {
	t.Helper()
	r := e.mustBook(t, room, "2025-06-01", "2025-06-04")
	r, err := e.setStatus(t, r.ID, enum.ReservationStatusCheckedIn)
	if err != nil {
		t.Fatalf("check in: %v", err)
	}
	return r
}

func TestOrderService_BillToStay(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stay := env.checkedInStay(t, "D1")

	before, err := env.invoices.OpenForReservation(ctx, stay.ID)
	if err != nil || before == nil {
		t.Fatalf("open invoice: %v, %v", before, err)
	}

	order, err := env.orders.PostOrder(ctx, &PostOrderInput{
		Source:        enum.CustomerTypeBooking,
		ReservationID: &stay.ID,
		RoomNumber:    "D1",
		PaymentType:   enum.PaymentTypeBill,
		StaffID:       env.staffID,
		Items: []OrderItemInput{
			{MenuItemID: env.tea.ID, Quantity: 2},
			{MenuItemID: env.sandwich.ID, Quantity: 1},
		},
	})
	if err != nil {
		t.Fatalf("post order: %v", err)
	}

	// 2 x 150 + 650
	if !order.TotalPrice.Equal(decimal.NewFromInt(950)) {
		t.Errorf("order total = %s, want 950", order.TotalPrice)
	}
	// 2 x 1.13 + 4.89, each unit converted before it is multiplied
	if !order.TotalPriceUSD.Equal(dec("7.15")) {
		t.Errorf("order total usd = %s, want 7.15", order.TotalPriceUSD)
	}
	if order.Status != enum.OrderStatusBilled || order.InvoiceID == nil || *order.InvoiceID != before.ID {
		t.Errorf("order not attached to the stay invoice: %+v", order)
	}

	after, err := env.bookings.Get(ctx, stay.ID)
	if err != nil {
		t.Fatalf("get stay: %v", err)
	}
	if delta := after.TotalPrice.Sub(stay.TotalPrice); !delta.Equal(order.TotalPrice) {
		t.Errorf("stay total grew by %s, want %s", delta, order.TotalPrice)
	}
	if len(after.Charges) != 1 || after.Charges[0].OrderID != order.ID {
		t.Errorf("charges = %+v", after.Charges)
	}

	inv, err := env.invoices.Get(ctx, before.ID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if delta := inv.SubTotal.Sub(before.SubTotal); !delta.Equal(order.TotalPrice) {
		t.Errorf("invoice subtotal grew by %s, want %s", delta, order.TotalPrice)
	}
	if delta := inv.SubTotalUSD.Sub(before.SubTotalUSD); !delta.Equal(order.TotalPriceUSD) {
		t.Errorf("invoice usd subtotal grew by %s, want %s", delta, order.TotalPriceUSD)
	}
	if len(inv.Items) != len(before.Items)+2 {
		t.Errorf("invoice lines = %d, want %d", len(inv.Items), len(before.Items)+2)
	}
	assertBalanced(t, inv)
}

func TestOrderService_BillRollsBackWithoutOpenInvoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stay := env.mustBook(t, "D1", "2025-06-01", "2025-06-03") // pending, so no invoice yet

	_, err := env.orders.PostOrder(ctx, &PostOrderInput{
		Source:        enum.CustomerTypeBooking,
		ReservationID: &stay.ID,
		PaymentType:   enum.PaymentTypeBill,
		StaffID:       env.staffID,
		Items:         []OrderItemInput{{MenuItemID: env.tea.ID, Quantity: 1}},
	})
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if n := env.count(t, &entity.Order{}); n != 0 {
		t.Errorf("orders = %d, want 0", n)
	}
	if n := env.count(t, &entity.ReservationCharge{}); n != 0 {
		t.Errorf("charges = %d, want 0", n)
	}
	after, err := env.bookings.Get(ctx, stay.ID)
	if err != nil {
		t.Fatalf("get stay: %v", err)
	}
	if !after.TotalPrice.Equal(stay.TotalPrice) {
		t.Errorf("stay total changed from %s to %s", stay.TotalPrice, after.TotalPrice)
	}
}

func TestOrderService_WalkInFailureLeavesNothing(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.orders.PostOrder(context.Background(), &PostOrderInput{
		Source:      enum.CustomerTypeWalkIn,
		GuestName:   "Passer-by",
		PaymentType: enum.PaymentTypeInstant,
		StaffID:     env.staffID,
		Items: []OrderItemInput{
			{MenuItemID: env.tea.ID, Quantity: 1},
			{MenuItemID: uuid.New(), Quantity: 1},
		},
	})
	if !apperror.IsKind(err, apperror.KindNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}

	if n := env.count(t, &entity.Order{}); n != 0 {
		t.Errorf("orders = %d, want 0", n)
	}
	if n := env.count(t, &entity.Invoice{}); n != 0 {
		t.Errorf("invoices = %d, want 0", n)
	}
}

func TestOrderService_InstantOpensInvoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.orders.PostOrder(ctx, &PostOrderInput{
		Source:      enum.CustomerTypeWalkIn,
		GuestName:   "Passer-by",
		PaymentType: enum.PaymentTypeInstant,
		StaffID:     env.staffID,
		Items:       []OrderItemInput{{MenuItemID: env.sandwich.ID, Quantity: 3}},
	})
	if err != nil {
		t.Fatalf("post order: %v", err)
	}
	if order.Status != enum.OrderStatusPaid || order.InvoiceID == nil {
		t.Fatalf("order = %+v", order)
	}

	inv, err := env.invoices.Get(ctx, *order.InvoiceID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if inv.CustomerType != enum.CustomerTypeWalkIn || inv.ReservationID != nil || inv.CustomerID != nil {
		t.Errorf("invoice owner = %s %v %v", inv.CustomerType, inv.ReservationID, inv.CustomerID)
	}
	if !inv.SubTotal.Equal(order.TotalPrice) || !inv.SubTotalUSD.Equal(order.TotalPriceUSD) {
		t.Errorf("invoice subtotal %s/%s, want %s/%s", inv.SubTotal, inv.SubTotalUSD, order.TotalPrice, order.TotalPriceUSD)
	}
	assertBalanced(t, inv)

	// later price changes do not touch posted orders
	if err := env.db.Model(&entity.MenuItem{}).Where("id = ?", env.sandwich.ID).Update("price", 900).Error; err != nil {
		t.Fatalf("update price: %v", err)
	}
	stored, err := env.orders.Get(ctx, order.ID)
	if err != nil {
		t.Fatalf("get order: %v", err)
	}
	if !stored.Items[0].UnitPrice.Equal(decimal.NewFromInt(650)) {
		t.Errorf("snapshot price = %s, want 650", stored.Items[0].UnitPrice)
	}
}

func TestOrderService_InstantForStayRecordsPayment(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stay := env.checkedInStay(t, "D1")

	order, err := env.orders.PostOrder(ctx, &PostOrderInput{
		Source:        enum.CustomerTypeBooking,
		ReservationID: &stay.ID,
		PaymentType:   enum.PaymentTypeInstant,
		StaffID:       env.staffID,
		Items:         []OrderItemInput{{MenuItemID: env.tea.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("post order: %v", err)
	}

	after, err := env.bookings.Get(ctx, stay.ID)
	if err != nil {
		t.Fatalf("get stay: %v", err)
	}
	if !after.TotalPrice.Equal(stay.TotalPrice) {
		t.Errorf("instant orders must not grow the stay total: %s -> %s", stay.TotalPrice, after.TotalPrice)
	}
	if len(after.Payments) != 1 || after.Payments[0].InvoiceID != *order.InvoiceID {
		t.Errorf("payments = %+v", after.Payments)
	}
	if n := env.count(t, &entity.Invoice{}); n != 2 {
		t.Errorf("invoices = %d, want the stay invoice and the order invoice", n)
	}
}

func (e *testEnv) postForStay(t *testing.T, stay *entity.Reservation, payment enum.PaymentType, items ...OrderItemInput) *entity.Order {
	t.Helper()
	order, err := e.orders.PostOrder(context.Background(), &PostOrderInput{
		Source:        enum.CustomerTypeBooking,
		ReservationID: &stay.ID,
		PaymentType:   payment,
		StaffID:       e.staffID,
		Items:         items,
	})
	if err != nil {
		t.Fatalf("post %s order: %v", payment, err)
	}
	return order
}

func (e *testEnv) stayBill(t *testing.T, reservationID uuid.UUID) *entity.Invoice {
	t.Helper()
	inv, err := e.invoices.OpenForReservation(context.Background(), reservationID)
	if err != nil || inv == nil {
		t.Fatalf("stay bill: %v, %v", inv, err)
	}
	if !inv.IsStayBill {
		t.Fatalf("invoice %s is not a stay bill", inv.InvoiceNumber)
	}
	return inv
}

func TestOrderService_InstantBeforeCheckInKeepsRoomBill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	booked := env.mustBook(t, "D1", "2025-06-01", "2025-06-04")

	instant := env.postForStay(t, booked, enum.PaymentTypeInstant, OrderItemInput{MenuItemID: env.tea.ID, Quantity: 1})

	if inv, err := env.invoices.OpenForReservation(ctx, booked.ID); err != nil || inv != nil {
		t.Fatalf("before check-in the stay has no bill, got %v, %v", inv, err)
	}

	if _, err := env.setStatus(t, booked.ID, enum.ReservationStatusCheckedIn); err != nil {
		t.Fatalf("check in: %v", err)
	}

	bill := env.stayBill(t, booked.ID)
	if bill.ID == *instant.InvoiceID {
		t.Fatal("check-in reused the instant order invoice")
	}
	// three nights at 100 and nothing else
	if !bill.SubTotal.Equal(booked.TotalPrice) || len(bill.Items) != 1 {
		t.Errorf("stay bill = %s with %d lines, want %s with the room line", bill.SubTotal, len(bill.Items), booked.TotalPrice)
	}

	instantInv, err := env.invoices.Get(ctx, *instant.InvoiceID)
	if err != nil {
		t.Fatalf("instant invoice: %v", err)
	}
	if instantInv.IsStayBill || !instantInv.SubTotal.Equal(instant.TotalPrice) {
		t.Errorf("instant invoice = stay bill %v, subtotal %s", instantInv.IsStayBill, instantInv.SubTotal)
	}
}

func TestOrderService_BillAfterInstantGrowsStayBill(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	stay := env.checkedInStay(t, "D1")
	before := env.stayBill(t, stay.ID)

	instant := env.postForStay(t, stay, enum.PaymentTypeInstant, OrderItemInput{MenuItemID: env.tea.ID, Quantity: 1})
	billed := env.postForStay(t, stay, enum.PaymentTypeBill, OrderItemInput{MenuItemID: env.sandwich.ID, Quantity: 2})

	if billed.InvoiceID == nil || *billed.InvoiceID != before.ID {
		t.Fatalf("bill order went to %v, want the stay bill %s", billed.InvoiceID, before.ID)
	}

	after := env.stayBill(t, stay.ID)
	if grown := after.SubTotal.Sub(before.SubTotal); !grown.Equal(billed.TotalPrice) {
		t.Errorf("stay bill grew by %s, want exactly the bill order %s", grown, billed.TotalPrice)
	}
	if grown := after.SubTotalUSD.Sub(before.SubTotalUSD); !grown.Equal(billed.TotalPriceUSD) {
		t.Errorf("stay bill grew by %s USD, want %s", grown, billed.TotalPriceUSD)
	}

	instantInv, err := env.invoices.Get(ctx, *instant.InvoiceID)
	if err != nil {
		t.Fatalf("instant invoice: %v", err)
	}
	if len(instantInv.Items) != 1 || !instantInv.SubTotal.Equal(instant.TotalPrice) {
		t.Errorf("instant invoice changed: %d lines, subtotal %s", len(instantInv.Items), instantInv.SubTotal)
	}
}

func TestOrderService_Validation(t *testing.T) {
	env := newTestEnv(t)
	stay := env.checkedInStay(t, "D1")
	item := []OrderItemInput{{MenuItemID: env.tea.ID, Quantity: 1}}

	tests := []struct {
		name  string
		input PostOrderInput
		kind  apperror.Kind
	}{
		{"empty cart", PostOrderInput{Source: enum.CustomerTypeWalkIn, PaymentType: enum.PaymentTypeInstant}, apperror.KindValidation},
		{"zero quantity", PostOrderInput{Source: enum.CustomerTypeWalkIn, PaymentType: enum.PaymentTypeInstant,
			Items: []OrderItemInput{{MenuItemID: env.tea.ID}}}, apperror.KindValidation},
		{"walk-in on bill", PostOrderInput{Source: enum.CustomerTypeWalkIn, PaymentType: enum.PaymentTypeBill, Items: item}, apperror.KindValidation},
		{"member without id", PostOrderInput{Source: enum.CustomerTypeMember, PaymentType: enum.PaymentTypeInstant, Items: item}, apperror.KindValidation},
		{"booking without id", PostOrderInput{Source: enum.CustomerTypeBooking, PaymentType: enum.PaymentTypeBill, Items: item}, apperror.KindValidation},
		{"missing payment type", PostOrderInput{Source: enum.CustomerTypeWalkIn, Items: item}, apperror.KindValidation},
		{"unknown member", PostOrderInput{Source: enum.CustomerTypeMember, CustomerID: ptr(uuid.New()), PaymentType: enum.PaymentTypeInstant, Items: item}, apperror.KindNotFound},
		{"unknown reservation", PostOrderInput{Source: enum.CustomerTypeBooking, ReservationID: ptr(uuid.New()), PaymentType: enum.PaymentTypeBill, Items: item}, apperror.KindNotFound},
		{"room not on stay", PostOrderInput{Source: enum.CustomerTypeBooking, ReservationID: &stay.ID, RoomNumber: "D2", PaymentType: enum.PaymentTypeBill, Items: item}, apperror.KindNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := tt.input
			input.StaffID = env.staffID
			if _, err := env.orders.PostOrder(context.Background(), &input); !apperror.IsKind(err, tt.kind) {
				t.Fatalf("expected %s error, got %v", tt.kind, err)
			}
		})
	}

	if n := env.count(t, &entity.Order{}); n != 0 {
		t.Errorf("orders = %d, want 0", n)
	}
}

func ptr[T any](v T) *T { return &v }
