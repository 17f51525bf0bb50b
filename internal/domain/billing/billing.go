// Package billing holds the pure invoice arithmetic. Nothing in here touches
// storage; the same invoice always recomputes to the same totals.
package billing

import (
	"errors"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

var (
	ErrInvalidDiscountType  = errors.New("discount type must be percentage or flat")
	ErrInvalidCurrency      = errors.New("discount currency must be NPR or USD")
	ErrInvalidDiscountValue = errors.New("discount value must be greater than zero")
	ErrPercentageTooLarge   = errors.New("percentage discount cannot exceed 100")
	ErrInvalidVATRate       = errors.New("vat rate must be between 0 and 100")
	ErrDiscountExceedsTotal = errors.New("discounts cannot exceed the invoice subtotal")
)

// Recompute returns inv with subtotals, discount totals, VAT amounts and net
// totals rebuilt from its line items, discount list and VAT rate. Each
// currency is accumulated on its own. The slices of inv are only read.
func Recompute(inv entity.Invoice) entity.Invoice {
	sub, subUSD := Subtotals(inv.Items)
	disc, discUSD := DiscountTotals(inv.Discounts, sub, subUSD)
	vat := VAT(sub.Sub(disc), inv.VATRate)
	vatUSD := VAT(subUSD.Sub(discUSD), inv.VATRate)

	inv.SubTotal = sub
	inv.SubTotalUSD = subUSD
	inv.DiscountTotal = disc
	inv.DiscountTotalUSD = discUSD
	inv.VATAmount = vat
	inv.VATAmountUSD = vatUSD
	inv.NetTotal = sub.Sub(disc).Add(vat)
	inv.NetTotalUSD = subUSD.Sub(discUSD).Add(vatUSD)
	return inv
}

// Reset drops every discount and the VAT rate, leaving net totals equal to subtotals.
func Reset(inv entity.Invoice) entity.Invoice {
	inv.Discounts = nil
	inv.VATRate = decimal.Zero
	return Recompute(inv)
}

// Subtotals sums line totals per currency.
func Subtotals(items []entity.InvoiceLineItem) (decimal.Decimal, decimal.Decimal) {
	sub := decimal.Zero
	subUSD := decimal.Zero
	for _, item := range items {
		sub = sub.Add(item.Total)
		subUSD = subUSD.Add(item.TotalUSD)
	}
	return sub, subUSD
}

// DiscountTotals recomputes the discount totals from the full list.
func DiscountTotals(discounts []entity.InvoiceDiscount, sub, subUSD decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	total := decimal.Zero
	totalUSD := decimal.Zero
	for _, d := range discounts {
		npr, usd := DiscountAmounts(d, sub, subUSD)
		total = total.Add(npr)
		totalUSD = totalUSD.Add(usd)
	}
	return total, totalUSD
}

// DiscountAmounts evaluates one discount in its own currency and carries it
// to the other currency through the invoice's subtotal ratio, never the live
// exchange rate.
func DiscountAmounts(d entity.InvoiceDiscount, sub, subUSD decimal.Decimal) (decimal.Decimal, decimal.Decimal) {
	base := sub
	if d.Currency == enum.CurrencyUSD {
		base = subUSD
	}

	var amount decimal.Decimal
	switch d.Type {
	case enum.DiscountTypePercentage:
		amount = base.Mul(d.Value).Div(hundred)
	case enum.DiscountTypeFlat:
		amount = d.Value
	default:
		return decimal.Zero, decimal.Zero
	}

	if d.Currency == enum.CurrencyUSD {
		return byRatio(amount, subUSD, sub), amount
	}
	return amount, byRatio(amount, sub, subUSD)
}

// VAT is rate percent of the post-discount base.
func VAT(base, rate decimal.Decimal) decimal.Decimal {
	return base.Mul(rate).Div(hundred)
}

// byRatio scales amount (expressed against from) onto to.
func byRatio(amount, from, to decimal.Decimal) decimal.Decimal {
	if from.IsZero() {
		return decimal.Zero
	}
	return amount.Mul(to).Div(from)
}

// Balanced reports whether net == sub - discount + vat holds in both currencies.
func Balanced(inv entity.Invoice) bool {
	return inv.NetTotal.Equal(inv.SubTotal.Sub(inv.DiscountTotal).Add(inv.VATAmount)) &&
		inv.NetTotalUSD.Equal(inv.SubTotalUSD.Sub(inv.DiscountTotalUSD).Add(inv.VATAmountUSD))
}

// CheckDiscount validates a discount on its own, before it touches an invoice.
func CheckDiscount(d entity.InvoiceDiscount) error {
	if !d.Type.IsValid() {
		return ErrInvalidDiscountType
	}
	if !d.Currency.IsValid() {
		return ErrInvalidCurrency
	}
	if !d.Value.IsPositive() {
		return ErrInvalidDiscountValue
	}
	if d.Type == enum.DiscountTypePercentage && d.Value.GreaterThan(hundred) {
		return ErrPercentageTooLarge
	}
	return nil
}

// CheckVATRate accepts rates in [0, 100].
func CheckVATRate(rate decimal.Decimal) error {
	if rate.IsNegative() || rate.GreaterThan(hundred) {
		return ErrInvalidVATRate
	}
	return nil
}

// CheckDiscountCap rejects a recomputed invoice whose discounts outgrow its subtotal.
func CheckDiscountCap(inv entity.Invoice) error {
	if inv.DiscountTotal.GreaterThan(inv.SubTotal) || inv.DiscountTotalUSD.GreaterThan(inv.SubTotalUSD) {
		return ErrDiscountExceedsTotal
	}
	return nil
}
