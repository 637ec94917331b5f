package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

type Coupon struct {
	ID            int64
	Code          string
	Description   string
	DiscountType  DiscountType
	DiscountValue decimal.Decimal
	MaxDiscount   decimal.NullDecimal
	MinPurchase   decimal.Decimal
	StartDate     time.Time
	EndDate       time.Time
	UsageLimit    *int
	UsedCount     int
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// UsageExhausted reports whether the coupon has reached its usage limit.
// A nil limit means unlimited use.
func (c *Coupon) UsageExhausted() bool {
	return c.UsageLimit != nil && c.UsedCount >= *c.UsageLimit
}

// NormalizeCouponCode canonicalizes user-entered coupon codes; codes are
// matched case-insensitively and stored uppercase.
func NormalizeCouponCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
