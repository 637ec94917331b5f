package repository

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrEventNotFound       = errors.New("event not found")
	ErrTariffNotFound      = errors.New("tariff not found")
	ErrBookingNotFound     = errors.New("booking not found")
	ErrDuplicateBooking    = errors.New("event already booked by user")
	ErrCouponNotFound      = errors.New("invalid coupon code")
	ErrCouponUsageExceeded = errors.New("coupon usage limit exceeded")
)

// InsufficientSeatsError names the tier that could not satisfy the requested
// quantity. The whole booking transaction rolls back when it is returned.
type InsufficientSeatsError struct {
	TariffID   int64
	TariffType string
	Requested  int
}

func (e *InsufficientSeatsError) Error() string {
	return fmt.Sprintf("not enough seats available for %s", e.TariffType)
}

// CouponBelowMinimumError carries the threshold so callers can surface the
// localized minimum in the user-facing message.
type CouponBelowMinimumError struct {
	MinPurchase decimal.Decimal
}

func (e *CouponBelowMinimumError) Error() string {
	return fmt.Sprintf("minimum purchase amount of %s required", e.MinPurchase.StringFixed(2))
}

// PersistenceError wraps storage faults, including bounded-timeout expiry.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
