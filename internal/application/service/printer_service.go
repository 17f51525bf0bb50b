package service

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/repository"
	"github.com/sangkips/hotel-billing-api/pkg/apperror"
	"github.com/sangkips/hotel-billing-api/pkg/printer"
	"github.com/shopspring/decimal"
)

// ReceiptHeader is printed at the top of every receipt
type ReceiptHeader struct {
	HotelName string `json:"hotel_name"`
	Address   string `json:"address,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

// ReceiptOptions controls paper width and the cutter and drawer
type ReceiptOptions struct {
	PaperWidth int
	AutoCut    bool
	OpenDrawer bool
}

// ReceiptLine is one printed invoice line
type ReceiptLine struct {
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Total       decimal.Decimal `json:"total"`
	TotalUSD    decimal.Decimal `json:"total_usd"`
}

// Receipt is what gets printed for an invoice. It is also returned as JSON
// when no printer is attached.
type Receipt struct {
	Header        ReceiptHeader   `json:"header"`
	InvoiceNumber string          `json:"invoice_number"`
	Date          string          `json:"date"`
	Status        string          `json:"status"`
	Customer      string          `json:"customer,omitempty"`
	Lines         []ReceiptLine   `json:"lines"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	SubTotalUSD   decimal.Decimal `json:"sub_total_usd"`
	Discount      decimal.Decimal `json:"discount"`
	DiscountUSD   decimal.Decimal `json:"discount_usd"`
	VATRate       decimal.Decimal `json:"vat_rate"`
	VAT           decimal.Decimal `json:"vat"`
	VATUSD        decimal.Decimal `json:"vat_usd"`
	Total         decimal.Decimal `json:"total"`
	TotalUSD      decimal.Decimal `json:"total_usd"`
}

// PrinterService formats invoices as thermal receipts.
type PrinterService struct {
	printer     printer.Printer
	invoiceRepo repository.InvoiceRepository
	header      ReceiptHeader
	opts        ReceiptOptions
}

// NewPrinterService creates a new printer service.
func NewPrinterService(
	p printer.Printer,
	invoiceRepo repository.InvoiceRepository,
	header ReceiptHeader,
	opts ReceiptOptions,
) *PrinterService {
	return &PrinterService{
		printer:     p,
		invoiceRepo: invoiceRepo,
		header:      header,
		opts:        opts,
	}
}

// PrinterStatus returns the current printer status information.
type PrinterStatus struct {
	Configured bool   `json:"configured"`
	Connected  bool   `json:"connected"`
	Type       string `json:"type"`
}

// GetStatus returns printer connection status.
func (s *PrinterService) GetStatus() *PrinterStatus {
	return &PrinterStatus{
		Configured: s.printer.Type() != "none",
		Connected:  s.printer.IsConnected(),
		Type:       s.printer.Type(),
	}
}

// PrintInvoice builds the receipt of an invoice and sends it to the printer.
// The receipt is returned even when printing fails.
func (s *PrinterService) PrintInvoice(ctx context.Context, invoiceID uuid.UUID) (*Receipt, error) {
	inv, err := s.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, apperror.NewNotFoundError("Invoice")
	}

	receipt := s.buildReceipt(inv)
	if err := s.printer.Print(ctx, FormatReceipt(receipt, s.opts)); err != nil {
		log.Printf("Printer error (invoice %s): %v", inv.InvoiceNumber, err)
		return receipt, fmt.Errorf("failed to print receipt: %w", err)
	}
	return receipt, nil
}

func (s *PrinterService) buildReceipt(inv *entity.Invoice) *Receipt {
	receipt := &Receipt{
		Header:        s.header,
		InvoiceNumber: inv.InvoiceNumber,
		Date:          inv.CreatedAt.Format("2006-01-02 15:04"),
		Status:        inv.Status.String(),
		Customer:      inv.GuestName,
		SubTotal:      inv.SubTotal,
		SubTotalUSD:   inv.SubTotalUSD,
		Discount:      inv.DiscountTotal,
		DiscountUSD:   inv.DiscountTotalUSD,
		VATRate:       inv.VATRate,
		VAT:           inv.VATAmount,
		VATUSD:        inv.VATAmountUSD,
		Total:         inv.NetTotal,
		TotalUSD:      inv.NetTotalUSD,
	}
	for _, item := range inv.Items {
		receipt.Lines = append(receipt.Lines, ReceiptLine{
			Description: item.Description,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Total:       item.Total,
			TotalUSD:    item.TotalUSD,
		})
	}
	return receipt
}

// FormatReceipt converts a Receipt into ESC/POS bytes. Amounts print in NPR
// with the USD figure beside them.
func FormatReceipt(r *Receipt, opts ReceiptOptions) []byte {
	doc := printer.NewDocument(opts.PaperWidth)

	doc.SetAlign(printer.AlignCenter).
		SetBold(true).
		SetFontSize(printer.FontDouble).
		Text(r.Header.HotelName).
		SetFontSize(printer.FontNormal).
		SetBold(false)
	if r.Header.Address != "" {
		doc.Text(r.Header.Address)
	}
	if r.Header.Phone != "" {
		doc.Text(r.Header.Phone)
	}

	doc.SetAlign(printer.AlignLeft).
		Separator('-').
		KeyValue("Invoice:", r.InvoiceNumber).
		KeyValue("Date:", r.Date).
		KeyValue("Status:", r.Status)
	if r.Customer != "" {
		doc.KeyValue("Guest:", r.Customer)
	}
	doc.Separator('-')

	for _, line := range r.Lines {
		doc.ItemLine(line.Quantity, line.Description, line.Total.StringFixed(2))
		if line.Quantity > 1 {
			doc.TextF("  @ %s each", line.UnitPrice.StringFixed(2))
		}
	}

	doc.Separator('-').
		Amounts("", "NPR", "USD").
		Amounts("Subtotal", r.SubTotal.StringFixed(2), r.SubTotalUSD.StringFixed(2))
	if r.Discount.IsPositive() {
		doc.Amounts("Discount", "-"+r.Discount.StringFixed(2), "-"+r.DiscountUSD.StringFixed(2))
	}
	if r.VATRate.IsPositive() {
		doc.Amounts("VAT "+r.VATRate.String()+"%", r.VAT.StringFixed(2), r.VATUSD.StringFixed(2))
	}
	doc.SetBold(true).
		Amounts("TOTAL", r.Total.StringFixed(2), r.TotalUSD.StringFixed(2)).
		SetBold(false).
		Separator('-')

	doc.SetAlign(printer.AlignCenter).
		LineFeed().
		Text("Thank you for staying with us!").
		LineFeed().
		SetAlign(printer.AlignLeft).
		FeedLines(3)

	if opts.AutoCut {
		doc.Cut()
	}
	if opts.OpenDrawer {
		doc.KickDrawer()
	}
	return doc.Bytes()
}
