package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusPaid      BookingStatus = "paid"
	BookingStatusCancelled BookingStatus = "cancelled"
	BookingStatusCompleted BookingStatus = "completed"
)

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type TransactionStatus string

const (
	TransactionStatusInitiated  TransactionStatus = "initiated"
	TransactionStatusProcessing TransactionStatus = "processing"
	TransactionStatusSuccess    TransactionStatus = "success"
	TransactionStatusFailed     TransactionStatus = "failed"
)

type RefundStatus string

const (
	RefundStatusPending  RefundStatus = "pending"
	RefundStatusRefunded RefundStatus = "refunded"
	RefundStatusFailed   RefundStatus = "failed"
)

type Booking struct {
	ID             int64
	BookingID      string
	UserID         string
	EventID        string
	Status         BookingStatus
	TotalAmount    decimal.Decimal
	DiscountAmount decimal.Decimal
	TaxAmount      decimal.Decimal
	FinalAmount    decimal.Decimal
	PaymentStatus  PaymentStatus
	CouponCode     string
	BookingDate    time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (b *Booking) Validate() error {
	if b.BookingID == "" {
		return errors.New("booking id is required")
	}
	if b.UserID == "" {
		return errors.New("user id is required")
	}
	if b.EventID == "" {
		return errors.New("event id is required")
	}
	for _, amount := range []decimal.Decimal{b.TotalAmount, b.DiscountAmount, b.TaxAmount, b.FinalAmount} {
		if amount.IsNegative() {
			return errors.New("booking amounts must be non-negative")
		}
	}
	return nil
}

// Active reports whether the booking counts against the one-active-booking
// per (user, event) invariant.
func (b *Booking) Active() bool {
	return b.Status != BookingStatusCancelled
}

// BookingSeat is one line item of a booking: a quantity of seats in a single
// tariff, with the unit price snapshotted at booking time.
type BookingSeat struct {
	ID           int64
	BookingID    string
	TariffID     int64
	TariffType   string
	Quantity     int
	PricePerSeat decimal.Decimal
	TotalPrice   decimal.Decimal
	CreatedAt    time.Time
}

type BookingTransaction struct {
	ID              int64
	TransactionID   string
	BookingID       string
	Amount          decimal.Decimal
	Status          TransactionStatus
	PaymentMethod   string
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type BookingCancellation struct {
	ID           int64
	BookingID    string
	Reason       string
	RefundAmount decimal.Decimal
	RefundStatus RefundStatus
	CancelledAt  time.Time
	CreatedAt    time.Time
}

type BookingDetails struct {
	Booking      Booking
	Seats        []BookingSeat
	Transactions []BookingTransaction
	Cancellation *BookingCancellation
}

type BookingWithEvent struct {
	BookingDetails
	Event Event
}
