package coupon

import (
	"context"
	"testing"
	"time"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/anirudhpn/eventbooking/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockCouponRepository struct {
	mock.Mock
}

func (m *MockCouponRepository) FindActiveByCode(ctx context.Context, code string, now time.Time) (*domain.Coupon, error) {
	args := m.Called(ctx, code, now)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Coupon), args.Error(1)
}

func (m *MockCouponRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	args := m.Called(ctx, now)
	return args.Get(0).(int64), args.Error(1)
}

func d(value string) decimal.Decimal {
	return decimal.RequireFromString(value)
}

var fixedNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService() (*CouponService, *MockCouponRepository) {
	repo := &MockCouponRepository{}
	service := &CouponService{coupons: repo, now: func() time.Time { return fixedNow }}
	return service, repo
}

func welcome50() *domain.Coupon {
	limit := 1
	return &domain.Coupon{
		Code:          "WELCOME50",
		DiscountType:  domain.DiscountTypePercentage,
		DiscountValue: d("50"),
		MaxDiscount:   decimal.NullDecimal{Decimal: d("1000"), Valid: true},
		MinPurchase:   d("500"),
		UsageLimit:    &limit,
		IsActive:      true,
	}
}

func TestCouponService_Validate_Success(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("FindActiveByCode", ctx, "WELCOME50", fixedNow).Return(welcome50(), nil).Once()

	coupon, err := service.Validate(ctx, "WELCOME50", d("1000"))

	assert.NoError(t, err)
	assert.Equal(t, "WELCOME50", coupon.Code)
	repo.AssertExpectations(t)
}

func TestCouponService_Validate_NormalizesCode(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("FindActiveByCode", ctx, "WELCOME50", fixedNow).Return(welcome50(), nil).Once()

	_, err := service.Validate(ctx, "  welcome50 ", d("1000"))

	assert.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCouponService_Validate_NotFound(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("FindActiveByCode", ctx, "BOGUS", fixedNow).Return(nil, repository.ErrCouponNotFound).Once()

	coupon, err := service.Validate(ctx, "BOGUS", d("1000"))

	assert.Nil(t, coupon)
	assert.ErrorIs(t, err, repository.ErrCouponNotFound)
}

func TestCouponService_Validate_BelowMinimum(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("FindActiveByCode", ctx, "WELCOME50", fixedNow).Return(welcome50(), nil).Once()

	coupon, err := service.Validate(ctx, "WELCOME50", d("499"))

	assert.Nil(t, coupon)
	var belowMin *repository.CouponBelowMinimumError
	assert.ErrorAs(t, err, &belowMin)
	assert.True(t, belowMin.MinPurchase.Equal(d("500")))
}

func TestCouponService_Validate_AtMinimum(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("FindActiveByCode", ctx, "WELCOME50", fixedNow).Return(welcome50(), nil).Once()

	_, err := service.Validate(ctx, "WELCOME50", d("500"))

	assert.NoError(t, err)
}

func TestCouponService_Validate_UsageExceeded(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	exhausted := welcome50()
	exhausted.UsedCount = 1

	repo.On("FindActiveByCode", ctx, "WELCOME50", fixedNow).Return(exhausted, nil).Once()

	coupon, err := service.Validate(ctx, "WELCOME50", d("1000"))

	assert.Nil(t, coupon)
	assert.ErrorIs(t, err, repository.ErrCouponUsageExceeded)
}

func TestCouponService_DeactivateExpired(t *testing.T) {
	service, repo := newTestService()
	ctx := context.Background()

	repo.On("DeactivateExpired", ctx, fixedNow).Return(int64(3), nil).Once()

	count, err := service.DeactivateExpired(ctx)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
	repo.AssertExpectations(t)
}
