package repository

import (
	"context"
	"errors"
	"time"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type CouponRepository interface {
	FindActiveByCode(ctx context.Context, code string, now time.Time) (*domain.Coupon, error)
	DeactivateExpired(ctx context.Context, now time.Time) (int64, error)
}

type PGCouponRepository struct {
	db *pgxpool.Pool
}

func NewCouponRepository(db *pgxpool.Pool) CouponRepository {
	return &PGCouponRepository{db: db}
}

// FindActiveByCode matches active coupons inside their validity window only;
// anything else reads as ErrCouponNotFound so callers cannot distinguish a
// missing code from an expired one.
func (r *PGCouponRepository) FindActiveByCode(ctx context.Context, code string, now time.Time) (*domain.Coupon, error) {
	row := r.db.QueryRow(ctx, `SELECT id, coupon_code, description, discount_type, discount_value, max_discount, min_purchase, start_date, end_date, usage_limit, used_count, is_active, created_at, updated_at
		FROM coupons WHERE coupon_code=$1 AND is_active = true AND start_date <= $2 AND end_date >= $2`, code, now)

	var c domain.Coupon
	if err := row.Scan(&c.ID, &c.Code, &c.Description, &c.DiscountType, &c.DiscountValue, &c.MaxDiscount, &c.MinPurchase,
		&c.StartDate, &c.EndDate, &c.UsageLimit, &c.UsedCount, &c.IsActive, &c.CreatedAt, &c.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrCouponNotFound
		}
		return nil, &PersistenceError{Op: "get coupon", Err: err}
	}
	return &c, nil
}

func (r *PGCouponRepository) DeactivateExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.Exec(ctx, `UPDATE coupons SET is_active = false, updated_at = now() WHERE is_active = true AND end_date < $1`, now)
	if err != nil {
		return 0, &PersistenceError{Op: "deactivate expired coupons", Err: err}
	}
	return res.RowsAffected(), nil
}

var _ CouponRepository = (*PGCouponRepository)(nil)
