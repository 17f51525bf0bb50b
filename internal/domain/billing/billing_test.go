package billing

import (
	"testing"

	"github.com/sangkips/hotel-billing-api/internal/domain/entity"
	"github.com/sangkips/hotel-billing-api/internal/domain/enum"
	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func invoiceWithSubtotal(npr, usd string) entity.Invoice {
	return entity.Invoice{
		CustomerType: enum.CustomerTypeWalkIn,
		Status:       enum.InvoiceStatusInProgress,
		Items: []entity.InvoiceLineItem{
			{Description: "Room", Quantity: 1, UnitPrice: dec(npr), UnitPriceUSD: dec(usd), Total: dec(npr), TotalUSD: dec(usd)},
		},
	}
}

func assertEqual(t *testing.T, name string, got decimal.Decimal, want string) {
	t.Helper()
	if !got.Equal(dec(want)) {
		t.Errorf("%s = %s, want %s", name, got, want)
	}
}

func TestRecompute_DiscountThenVAT(t *testing.T) {
	inv := invoiceWithSubtotal("1000", "7.58")
	inv.Discounts = []entity.InvoiceDiscount{
		{Type: enum.DiscountTypePercentage, Currency: enum.CurrencyNPR, Value: dec("10")},
	}
	inv = Recompute(inv)

	assertEqual(t, "discountTotal", inv.DiscountTotal, "100")
	assertEqual(t, "discountTotalUSD", inv.DiscountTotalUSD, "0.758")

	inv.VATRate = dec("13")
	inv = Recompute(inv)

	assertEqual(t, "vatAmount", inv.VATAmount, "117")
	assertEqual(t, "netTotal", inv.NetTotal, "1017")
	assertEqual(t, "vatAmountUSD", inv.VATAmountUSD, "0.88686")
	assertEqual(t, "netTotalUSD", inv.NetTotalUSD, "7.70886")
	if !Balanced(inv) {
		t.Fatalf("invoice not balanced: %+v", inv)
	}
}

func TestDiscountAmounts(t *testing.T) {
	tests := []struct {
		name    string
		d       entity.InvoiceDiscount
		wantNPR string
		wantUSD string
	}{
		{"percentage npr", entity.InvoiceDiscount{Type: enum.DiscountTypePercentage, Currency: enum.CurrencyNPR, Value: dec("10")}, "100", "0.758"},
		{"percentage usd", entity.InvoiceDiscount{Type: enum.DiscountTypePercentage, Currency: enum.CurrencyUSD, Value: dec("50")}, "500", "3.79"},
		{"flat npr", entity.InvoiceDiscount{Type: enum.DiscountTypeFlat, Currency: enum.CurrencyNPR, Value: dec("250")}, "250", "1.895"},
		{"flat usd", entity.InvoiceDiscount{Type: enum.DiscountTypeFlat, Currency: enum.CurrencyUSD, Value: dec("3.79")}, "500", "3.79"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			npr, usd := DiscountAmounts(tt.d, dec("1000"), dec("7.58"))
			assertEqual(t, "npr", npr, tt.wantNPR)
			assertEqual(t, "usd", usd, tt.wantUSD)
		})
	}
}

func TestDiscountTotals_RecomputedFromList(t *testing.T) {
	inv := invoiceWithSubtotal("1000", "7.58")
	inv.Discounts = []entity.InvoiceDiscount{
		{Type: enum.DiscountTypePercentage, Currency: enum.CurrencyNPR, Value: dec("10")},
		{Type: enum.DiscountTypeFlat, Currency: enum.CurrencyNPR, Value: dec("50")},
	}
	first := Recompute(inv)
	second := Recompute(first)

	assertEqual(t, "discountTotal", second.DiscountTotal, "150")
	if !first.DiscountTotal.Equal(second.DiscountTotal) || !first.NetTotalUSD.Equal(second.NetTotalUSD) {
		t.Fatalf("recompute is not stable: %s vs %s", first.DiscountTotal, second.DiscountTotal)
	}
}

func TestDiscountAmounts_ZeroSubtotal(t *testing.T) {
	d := entity.InvoiceDiscount{Type: enum.DiscountTypeFlat, Currency: enum.CurrencyNPR, Value: dec("10")}
	npr, usd := DiscountAmounts(d, decimal.Zero, decimal.Zero)
	assertEqual(t, "npr", npr, "10")
	assertEqual(t, "usd", usd, "0")
}

func TestReset_Idempotent(t *testing.T) {
	inv := invoiceWithSubtotal("1000", "7.58")
	inv.Discounts = []entity.InvoiceDiscount{
		{Type: enum.DiscountTypePercentage, Currency: enum.CurrencyNPR, Value: dec("10")},
	}
	inv.VATRate = dec("13")
	inv = Recompute(inv)

	once := Reset(inv)
	twice := Reset(once)

	if len(once.Discounts) != 0 || !once.VATRate.IsZero() {
		t.Fatalf("reset kept adjustments: %+v", once)
	}
	assertEqual(t, "netTotal", once.NetTotal, "1000")
	assertEqual(t, "netTotalUSD", once.NetTotalUSD, "7.58")
	if !once.NetTotal.Equal(twice.NetTotal) || !once.NetTotalUSD.Equal(twice.NetTotalUSD) ||
		!once.DiscountTotal.Equal(twice.DiscountTotal) || !once.VATAmount.Equal(twice.VATAmount) {
		t.Fatalf("reset not idempotent: %+v vs %+v", once, twice)
	}
}

func TestRecompute_DoesNotMutateInput(t *testing.T) {
	inv := invoiceWithSubtotal("1000", "7.58")
	inv.VATRate = dec("13")
	_ = Recompute(inv)
	if !inv.NetTotal.IsZero() {
		t.Fatalf("input invoice was modified")
	}
}

func TestRecompute_BalancedAcrossMutations(t *testing.T) {
	inv := invoiceWithSubtotal("1234.5", "9.27")
	steps := []func(entity.Invoice) entity.Invoice{
		func(i entity.Invoice) entity.Invoice {
			i.Discounts = append(i.Discounts, entity.InvoiceDiscount{Type: enum.DiscountTypeFlat, Currency: enum.CurrencyUSD, Value: dec("1.11")})
			return i
		},
		func(i entity.Invoice) entity.Invoice {
			i.VATRate = dec("13")
			return i
		},
		func(i entity.Invoice) entity.Invoice {
			i.Items = append(i.Items, entity.InvoiceLineItem{Quantity: 3, Total: dec("450"), TotalUSD: dec("3.39")})
			return i
		},
		Reset,
	}
	for n, step := range steps {
		inv = Recompute(step(inv))
		if !Balanced(inv) {
			t.Fatalf("step %d left invoice unbalanced: %+v", n, inv)
		}
	}
}

func TestCheckDiscount(t *testing.T) {
	tests := []struct {
		name string
		d    entity.InvoiceDiscount
		want error
	}{
		{"valid", entity.InvoiceDiscount{Type: enum.DiscountTypeFlat, Currency: enum.CurrencyNPR, Value: dec("5")}, nil},
		{"missing type", entity.InvoiceDiscount{Currency: enum.CurrencyNPR, Value: dec("5")}, ErrInvalidDiscountType},
		{"missing currency", entity.InvoiceDiscount{Type: enum.DiscountTypeFlat, Value: dec("5")}, ErrInvalidCurrency},
		{"zero value", entity.InvoiceDiscount{Type: enum.DiscountTypeFlat, Currency: enum.CurrencyUSD}, ErrInvalidDiscountValue},
		{"over 100 percent", entity.InvoiceDiscount{Type: enum.DiscountTypePercentage, Currency: enum.CurrencyUSD, Value: dec("101")}, ErrPercentageTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CheckDiscount(tt.d); got != tt.want {
				t.Fatalf("CheckDiscount() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCheckVATRate(t *testing.T) {
	for _, rate := range []string{"0", "13", "100"} {
		if err := CheckVATRate(dec(rate)); err != nil {
			t.Errorf("rate %s rejected: %v", rate, err)
		}
	}
	for _, rate := range []string{"-1", "100.01"} {
		if err := CheckVATRate(dec(rate)); err == nil {
			t.Errorf("rate %s accepted", rate)
		}
	}
}
