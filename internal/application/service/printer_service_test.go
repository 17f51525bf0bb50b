package service

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	infraRepo "github.com/sangkips/hotel-billing-api/internal/infrastructure/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
)

type capturePrinter struct {
	data []byte
	err  error
}

func (p *capturePrinter) Print(_ context.Context, data []byte) error {
	p.data = append([]byte(nil), data...)
	return p.err
}

func (p *capturePrinter) IsConnected() bool { return p.err == nil }
func (p *capturePrinter) Type() string      { return "network" }

func TestPrinterService_PrintInvoice(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.orders.PostOrder(ctx, &PostOrderInput{
		Source:      enum.CustomerTypeWalkIn,
		GuestName:   "Counter",
		PaymentType: enum.PaymentTypeInstant,
		Items:       []OrderItemInput{{MenuItemID: env.tea.ID, Quantity: 2}},
		StaffID:     env.staffID,
	})
	if err != nil {
		t.Fatalf("post order: %v", err)
	}

	p := &capturePrinter{}
	svc := NewPrinterService(p, infraRepo.NewInvoiceRepository(env.db),
		ReceiptHeader{HotelName: "Hotel Everest"},
		ReceiptOptions{PaperWidth: 48, AutoCut: true},
	)

	receipt, err := svc.PrintInvoice(ctx, *order.InvoiceID)
	if err != nil {
		t.Fatalf("print: %v", err)
	}
	inv, err := env.invoices.Get(ctx, *order.InvoiceID)
	if err != nil {
		t.Fatalf("get invoice: %v", err)
	}
	if receipt.InvoiceNumber != inv.InvoiceNumber || len(receipt.Lines) != 1 {
		t.Errorf("receipt = %s with %d lines", receipt.InvoiceNumber, len(receipt.Lines))
	}
	if !receipt.Total.Equal(dec("300")) || !receipt.TotalUSD.Equal(inv.NetTotalUSD) {
		t.Errorf("total = %s / %s, want 300 / %s", receipt.Total, receipt.TotalUSD, inv.NetTotalUSD)
	}

	for _, want := range []string{"Hotel Everest", inv.InvoiceNumber, "TOTAL", "300.00", inv.NetTotalUSD.StringFixed(2)} {
		if !bytes.Contains(p.data, []byte(want)) {
			t.Errorf("printed receipt is missing %q", want)
		}
	}
	if !bytes.HasSuffix(p.data, []byte{0x1D, 'V', 0x01}) {
		t.Error("receipt does not end with a cut")
	}
}

func TestPrinterService_PrintFailureReturnsReceipt(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	order, err := env.orders.PostOrder(ctx, &PostOrderInput{
		Source:      enum.CustomerTypeWalkIn,
		PaymentType: enum.PaymentTypeInstant,
		Items:       []OrderItemInput{{MenuItemID: env.sandwich.ID, Quantity: 1}},
	})
	if err != nil {
		t.Fatalf("post order: %v", err)
	}

	svc := NewPrinterService(&capturePrinter{err: errors.New("connection refused")},
		infraRepo.NewInvoiceRepository(env.db), ReceiptHeader{HotelName: "Hotel"}, ReceiptOptions{})

	receipt, err := svc.PrintInvoice(ctx, *order.InvoiceID)
	if err == nil || receipt == nil {
		t.Fatalf("want receipt and error, got %v / %v", receipt, err)
	}
	if svc.GetStatus().Connected {
		t.Error("status reports a failing printer as connected")
	}

	if _, err := svc.PrintInvoice(ctx, uuid.New()); !apperror.IsKind(err, apperror.KindNotFound) {
		t.Errorf("unknown invoice err = %v, want not found", err)
	}
}
