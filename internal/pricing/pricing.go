package pricing

import (
	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat tax applied to the discounted subtotal.
var TaxRate = decimal.RequireFromString("0.12")

type Line struct {
	UnitPrice decimal.Decimal
	Quantity  int
}

type Quote struct {
	Subtotal decimal.Decimal
	Discount decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeTotals is a pure function: identical inputs always produce the same
// quote. Tax and total are rounded half-up to 2 decimal places; subtotal and
// discount stay exact.
func ComputeTotals(lines []Line, coupon *domain.Coupon) Quote {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	discount := computeDiscount(subtotal, coupon)
	discounted := subtotal.Sub(discount)
	tax := discounted.Mul(TaxRate).Round(2)
	total := discounted.Add(tax).Round(2)

	return Quote{
		Subtotal: subtotal,
		Discount: discount,
		Tax:      tax,
		Total:    total,
	}
}

func computeDiscount(subtotal decimal.Decimal, coupon *domain.Coupon) decimal.Decimal {
	if coupon == nil {
		return decimal.Zero
	}

	var discount decimal.Decimal
	switch coupon.DiscountType {
	case domain.DiscountTypePercentage:
		discount = subtotal.Mul(coupon.DiscountValue).Div(decimal.NewFromInt(100))
		if coupon.MaxDiscount.Valid && discount.GreaterThan(coupon.MaxDiscount.Decimal) {
			discount = coupon.MaxDiscount.Decimal
		}
	case domain.DiscountTypeFixed:
		discount = coupon.DiscountValue
	default:
		return decimal.Zero
	}

	// A fixed discount may exceed the subtotal; the discounted subtotal
	// floors at zero.
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount
}
