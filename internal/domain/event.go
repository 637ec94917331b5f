package domain

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

type Event struct {
	ID              string
	Title           string
	Description     string
	Date            time.Time
	DurationMinutes int
	Location        string
	City            string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Tariff is a priced seating tier for an event. Seats is the remaining
// capacity and is only ever mutated inside the booking transaction.
type Tariff struct {
	ID        int64
	EventID   string
	Type      string
	Price     decimal.Decimal
	Seats     int
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Tariff) Validate() error {
	if t.EventID == "" {
		return errors.New("tariff event id is required")
	}
	if t.Type == "" {
		return errors.New("tariff type is required")
	}
	if t.Price.IsNegative() {
		return errors.New("tariff price must be non-negative")
	}
	if t.Seats < 0 {
		return errors.New("tariff seats must be non-negative")
	}
	return nil
}
