package repository

import (
	"context"
	"errors"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	bookingIDConstraint       = "bookings_booking_id_key"
	activeUserEventConstraint = "bookings_active_user_event_idx"

	createAttempts = 3
)

// errBookingIDCollision restarts the create transaction with a fresh id.
var errBookingIDCollision = errors.New("booking id collision")

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking, seats []domain.BookingSeat) error
	FindActive(ctx context.Context, userID, eventID string) (*domain.Booking, error)
	GetDetails(ctx context.Context, bookingID string) (*domain.BookingDetails, error)
	ListByUser(ctx context.Context, userID string) ([]domain.BookingDetails, error)
	Cancel(ctx context.Context, bookingID, reason string, restoreSeats bool) error
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

// Create runs the reserve-and-record protocol in a single transaction: the
// duplicate-booking check, the conditional seat decrements, the booking,
// seat and transaction inserts, and the coupon usage increment either all
// commit or none do. A booking-id collision restarts the whole transaction
// with a regenerated id.
func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking, seats []domain.BookingSeat) error {
	for attempt := 0; attempt < createAttempts; attempt++ {
		err := r.createTx(ctx, booking, seats)
		if errors.Is(err, errBookingIDCollision) {
			booking.BookingID = domain.NewBookingID()
			for i := range seats {
				seats[i].BookingID = booking.BookingID
			}
			continue
		}
		return err
	}
	return &PersistenceError{Op: "create booking", Err: errBookingIDCollision}
}

func (r *PGBookingRepository) createTx(ctx context.Context, booking *domain.Booking, seats []domain.BookingSeat) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &PersistenceError{Op: "begin booking tx", Err: err}
	}
	defer tx.Rollback(ctx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM bookings WHERE user_id=$1 AND event_id=$2 AND status <> 'cancelled')`,
		booking.UserID, booking.EventID).Scan(&exists); err != nil {
		return &PersistenceError{Op: "check duplicate booking", Err: err}
	}
	if exists {
		return ErrDuplicateBooking
	}

	// Conditional decrement: the availability check and the write are one
	// statement, so two concurrent requests for the last seat cannot both
	// pass. Zero rows affected means the tier is short (or gone) and the
	// whole transaction rolls back.
	for _, seat := range seats {
		res, err := tx.Exec(ctx, `UPDATE tariffs SET seats = seats - $1, updated_at = now() WHERE id=$2 AND event_id=$3 AND seats >= $1`,
			seat.Quantity, seat.TariffID, booking.EventID)
		if err != nil {
			return &PersistenceError{Op: "decrement tariff seats", Err: err}
		}
		if res.RowsAffected() == 0 {
			return &InsufficientSeatsError{TariffID: seat.TariffID, TariffType: seat.TariffType, Requested: seat.Quantity}
		}
	}

	if err := tx.QueryRow(ctx, `INSERT INTO bookings (booking_id, user_id, event_id, status, total_amount, discount_amount, tax_amount, final_amount, payment_status, coupon_code, booking_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, NULLIF($10, ''), now())
		RETURNING id, booking_date, created_at, updated_at`,
		booking.BookingID, booking.UserID, booking.EventID, booking.Status,
		booking.TotalAmount, booking.DiscountAmount, booking.TaxAmount, booking.FinalAmount,
		booking.PaymentStatus, booking.CouponCode).
		Scan(&booking.ID, &booking.BookingDate, &booking.CreatedAt, &booking.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			switch pgErr.ConstraintName {
			case bookingIDConstraint:
				return errBookingIDCollision
			case activeUserEventConstraint:
				return ErrDuplicateBooking
			}
		}
		return &PersistenceError{Op: "insert booking", Err: err}
	}

	for i := range seats {
		seats[i].BookingID = booking.BookingID
		if err := tx.QueryRow(ctx, `INSERT INTO booking_seats (booking_id, tariff_id, tariff_type, quantity, price_per_seat, total_price)
			VALUES ($1, $2, $3, $4, $5, $6) RETURNING id, created_at`,
			seats[i].BookingID, seats[i].TariffID, seats[i].TariffType, seats[i].Quantity, seats[i].PricePerSeat, seats[i].TotalPrice).
			Scan(&seats[i].ID, &seats[i].CreatedAt); err != nil {
			return &PersistenceError{Op: "insert booking seat", Err: err}
		}
	}

	if _, err := tx.Exec(ctx, `INSERT INTO booking_transactions (transaction_id, booking_id, amount, status, payment_method, transaction_date)
		VALUES ($1, $2, $3, $4, $5, now())`,
		uuid.NewString(), booking.BookingID, booking.FinalAmount, domain.TransactionStatusInitiated, "pending"); err != nil {
		return &PersistenceError{Op: "insert booking transaction", Err: err}
	}

	if booking.CouponCode != "" {
		res, err := tx.Exec(ctx, `UPDATE coupons SET used_count = used_count + 1, updated_at = now() WHERE coupon_code=$1 AND (usage_limit IS NULL OR used_count < usage_limit)`,
			booking.CouponCode)
		if err != nil {
			return &PersistenceError{Op: "increment coupon usage", Err: err}
		}
		if res.RowsAffected() == 0 {
			return ErrCouponUsageExceeded
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &PersistenceError{Op: "commit booking tx", Err: err}
	}
	return nil
}

func (r *PGBookingRepository) FindActive(ctx context.Context, userID, eventID string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, selectBooking+` WHERE user_id=$1 AND event_id=$2 AND status <> 'cancelled' LIMIT 1`, userID, eventID)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, &PersistenceError{Op: "find active booking", Err: err}
	}
	return booking, nil
}

func (r *PGBookingRepository) GetDetails(ctx context.Context, bookingID string) (*domain.BookingDetails, error) {
	row := r.db.QueryRow(ctx, selectBooking+` WHERE booking_id=$1`, bookingID)
	booking, err := scanBooking(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, &PersistenceError{Op: "get booking", Err: err}
	}
	return r.loadDetails(ctx, *booking)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, userID string) ([]domain.BookingDetails, error) {
	rows, err := r.db.Query(ctx, selectBooking+` WHERE user_id=$1 ORDER BY booking_date DESC`, userID)
	if err != nil {
		return nil, &PersistenceError{Op: "list bookings", Err: err}
	}
	defer rows.Close()

	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			return nil, &PersistenceError{Op: "scan booking", Err: err}
		}
		bookings = append(bookings, *booking)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list bookings", Err: err}
	}

	details := make([]domain.BookingDetails, 0, len(bookings))
	for _, booking := range bookings {
		d, err := r.loadDetails(ctx, booking)
		if err != nil {
			return nil, err
		}
		details = append(details, *d)
	}
	return details, nil
}

// Cancel marks the booking cancelled and records the refund in one
// transaction. The refund amount snapshots the booking's final amount.
// Restoring tariff seats is a policy decision carried by the caller.
func (r *PGBookingRepository) Cancel(ctx context.Context, bookingID, reason string, restoreSeats bool) error {
	tx, err := r.db.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return &PersistenceError{Op: "begin cancel tx", Err: err}
	}
	defer tx.Rollback(ctx)

	res, err := tx.Exec(ctx, `UPDATE bookings SET status='cancelled', updated_at=now() WHERE booking_id=$1 AND status <> 'cancelled'`, bookingID)
	if err != nil {
		return &PersistenceError{Op: "cancel booking", Err: err}
	}
	if res.RowsAffected() == 0 {
		return ErrBookingNotFound
	}

	if _, err := tx.Exec(ctx, `INSERT INTO booking_cancellations (booking_id, reason, refund_amount, refund_status, cancelled_at)
		SELECT booking_id, $2, final_amount, $3, now() FROM bookings WHERE booking_id=$1`,
		bookingID, reason, domain.RefundStatusRefunded); err != nil {
		return &PersistenceError{Op: "insert cancellation", Err: err}
	}

	if restoreSeats {
		if _, err := tx.Exec(ctx, `UPDATE tariffs t SET seats = t.seats + bs.quantity, updated_at = now()
			FROM booking_seats bs WHERE bs.booking_id=$1 AND bs.tariff_id = t.id`, bookingID); err != nil {
			return &PersistenceError{Op: "restore tariff seats", Err: err}
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return &PersistenceError{Op: "commit cancel tx", Err: err}
	}
	return nil
}

const selectBooking = `SELECT id, booking_id, user_id, event_id, status, total_amount, discount_amount, tax_amount, final_amount, payment_status, COALESCE(coupon_code, ''), booking_date, created_at, updated_at FROM bookings`

func scanBooking(row pgx.Row) (*domain.Booking, error) {
	var b domain.Booking
	if err := row.Scan(&b.ID, &b.BookingID, &b.UserID, &b.EventID, &b.Status,
		&b.TotalAmount, &b.DiscountAmount, &b.TaxAmount, &b.FinalAmount,
		&b.PaymentStatus, &b.CouponCode, &b.BookingDate, &b.CreatedAt, &b.UpdatedAt); err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) loadDetails(ctx context.Context, booking domain.Booking) (*domain.BookingDetails, error) {
	details := &domain.BookingDetails{Booking: booking}

	rows, err := r.db.Query(ctx, `SELECT id, booking_id, tariff_id, tariff_type, quantity, price_per_seat, total_price, created_at FROM booking_seats WHERE booking_id=$1 ORDER BY id`, booking.BookingID)
	if err != nil {
		return nil, &PersistenceError{Op: "list booking seats", Err: err}
	}
	defer rows.Close()
	for rows.Next() {
		var s domain.BookingSeat
		if err := rows.Scan(&s.ID, &s.BookingID, &s.TariffID, &s.TariffType, &s.Quantity, &s.PricePerSeat, &s.TotalPrice, &s.CreatedAt); err != nil {
			return nil, &PersistenceError{Op: "scan booking seat", Err: err}
		}
		details.Seats = append(details.Seats, s)
	}
	if err := rows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list booking seats", Err: err}
	}

	txRows, err := r.db.Query(ctx, `SELECT id, transaction_id, booking_id, amount, status, payment_method, transaction_date, created_at, updated_at FROM booking_transactions WHERE booking_id=$1 ORDER BY id`, booking.BookingID)
	if err != nil {
		return nil, &PersistenceError{Op: "list booking transactions", Err: err}
	}
	defer txRows.Close()
	for txRows.Next() {
		var t domain.BookingTransaction
		if err := txRows.Scan(&t.ID, &t.TransactionID, &t.BookingID, &t.Amount, &t.Status, &t.PaymentMethod, &t.TransactionDate, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, &PersistenceError{Op: "scan booking transaction", Err: err}
		}
		details.Transactions = append(details.Transactions, t)
	}
	if err := txRows.Err(); err != nil {
		return nil, &PersistenceError{Op: "list booking transactions", Err: err}
	}

	row := r.db.QueryRow(ctx, `SELECT id, booking_id, reason, refund_amount, refund_status, cancelled_at, created_at FROM booking_cancellations WHERE booking_id=$1 LIMIT 1`, booking.BookingID)
	var c domain.BookingCancellation
	if err := row.Scan(&c.ID, &c.BookingID, &c.Reason, &c.RefundAmount, &c.RefundStatus, &c.CancelledAt, &c.CreatedAt); err != nil {
		if !errors.Is(err, pgx.ErrNoRows) {
			return nil, &PersistenceError{Op: "get cancellation", Err: err}
		}
	} else {
		details.Cancellation = &c
	}

	return details, nil
}

var _ BookingRepository = (*PGBookingRepository)(nil)
