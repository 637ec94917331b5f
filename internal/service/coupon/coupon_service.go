package coupon

import (
	"context"
	"time"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/anirudhpn/eventbooking/internal/repository"
	"github.com/shopspring/decimal"
)

type CouponUseCase interface {
	Validate(ctx context.Context, code string, amount decimal.Decimal) (*domain.Coupon, error)
	DeactivateExpired(ctx context.Context) (int64, error)
}

type CouponService struct {
	coupons repository.CouponRepository
	now     func() time.Time
}

func NewCouponService(coupons repository.CouponRepository) *CouponService {
	return &CouponService{coupons: coupons, now: time.Now}
}

// Validate checks eligibility only; the usage counter is incremented inside
// the booking transaction so the limit holds across concurrent bookings.
func (s *CouponService) Validate(ctx context.Context, code string, amount decimal.Decimal) (*domain.Coupon, error) {
	normalized := domain.NormalizeCouponCode(code)

	coupon, err := s.coupons.FindActiveByCode(ctx, normalized, s.now())
	if err != nil {
		return nil, err
	}

	if amount.LessThan(coupon.MinPurchase) {
		return nil, &repository.CouponBelowMinimumError{MinPurchase: coupon.MinPurchase}
	}
	if coupon.UsageExhausted() {
		return nil, repository.ErrCouponUsageExceeded
	}

	return coupon, nil
}

func (s *CouponService) DeactivateExpired(ctx context.Context) (int64, error) {
	return s.coupons.DeactivateExpired(ctx, s.now())
}

var _ CouponUseCase = (*CouponService)(nil)
