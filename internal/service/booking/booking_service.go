package booking

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/anirudhpn/eventbooking/internal/kafka"
	"github.com/anirudhpn/eventbooking/internal/pricing"
	"github.com/anirudhpn/eventbooking/internal/repository"
	"github.com/shopspring/decimal"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (string, error)
	CancelBooking(ctx context.Context, eventID, userID, reason string) error
	IsEventBooked(ctx context.Context, eventID, userID string) (bool, error)
	GetBookingDetails(ctx context.Context, bookingID string) (*domain.BookingDetails, error)
	ListUserBookings(ctx context.Context, userID string) ([]domain.BookingWithEvent, error)
}

// CouponValidator checks a coupon against the running subtotal; usage
// accounting happens inside the booking transaction, not here.
type CouponValidator interface {
	Validate(ctx context.Context, code string, amount decimal.Decimal) (*domain.Coupon, error)
}

type Cache interface {
	InvalidateEvents(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type SeatSelection struct {
	TariffID int64 `json:"tariff_id"`
	Quantity int   `json:"quantity"`
}

type CreateBookingInput struct {
	UserID     string
	EventID    string
	Seats      []SeatSelection
	CouponCode string
}

type BookingService struct {
	bookings           repository.BookingRepository
	events             repository.EventRepository
	engagement         repository.EngagementRepository
	coupons            CouponValidator
	cache              Cache
	producer           Producer
	bookingTopic       string
	notificationsTopic string
	storageTimeout     time.Duration
	restoreSeats       bool
}

type BookingServiceOption func(*BookingService)

func WithNotificationsTopic(topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.notificationsTopic = topic
	}
}

// WithSeatRestoreOnCancel makes cancellation return the booked quantities to
// their tariffs. Off by default: a cancelled slot is not resold.
func WithSeatRestoreOnCancel(restore bool) BookingServiceOption {
	return func(s *BookingService) {
		s.restoreSeats = restore
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	events repository.EventRepository,
	engagement repository.EngagementRepository,
	coupons CouponValidator,
	cache Cache,
	producer Producer,
	bookingTopic string,
	storageTimeout time.Duration,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:       bookings,
		events:         events,
		engagement:     engagement,
		coupons:        coupons,
		cache:          cache,
		producer:       producer,
		bookingTopic:   bookingTopic,
		storageTimeout: storageTimeout,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

// CreateBooking reserves the requested seats and records the booking, the
// seat line items and the payment transaction atomically. On success the
// event is cleared from the user's wishlist and recently-viewed lists and a
// booking_created event is published; those side effects are best-effort.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (string, error) {
	if input.UserID == "" {
		return "", errors.New("user id is required")
	}
	if input.EventID == "" {
		return "", errors.New("event id is required")
	}
	if len(input.Seats) == 0 {
		return "", errors.New("at least one seat selection is required")
	}
	for _, sel := range input.Seats {
		if sel.Quantity <= 0 {
			return "", errors.New("seat quantity must be positive")
		}
	}

	ctx, cancel := s.withStorageTimeout(ctx)
	defer cancel()

	event, err := s.events.GetByID(ctx, input.EventID)
	if err != nil {
		return "", err
	}

	tariffs, err := s.events.GetTariffs(ctx, event.ID)
	if err != nil {
		return "", err
	}
	tariffByID := make(map[int64]domain.Tariff, len(tariffs))
	for _, t := range tariffs {
		tariffByID[t.ID] = t
	}

	lines := make([]pricing.Line, 0, len(input.Seats))
	seats := make([]domain.BookingSeat, 0, len(input.Seats))
	for _, sel := range input.Seats {
		tariff, ok := tariffByID[sel.TariffID]
		if !ok {
			return "", repository.ErrTariffNotFound
		}
		lines = append(lines, pricing.Line{UnitPrice: tariff.Price, Quantity: sel.Quantity})
		seats = append(seats, domain.BookingSeat{
			TariffID:     tariff.ID,
			TariffType:   tariff.Type,
			Quantity:     sel.Quantity,
			PricePerSeat: tariff.Price,
			TotalPrice:   tariff.Price.Mul(decimal.NewFromInt(int64(sel.Quantity))),
		})
	}

	var coupon *domain.Coupon
	couponCode := ""
	if input.CouponCode != "" {
		subtotal := pricing.ComputeTotals(lines, nil).Subtotal
		coupon, err = s.coupons.Validate(ctx, input.CouponCode, subtotal)
		if err != nil {
			return "", err
		}
		couponCode = coupon.Code
	}

	quote := pricing.ComputeTotals(lines, coupon)

	booking := &domain.Booking{
		BookingID:      domain.NewBookingID(),
		UserID:         input.UserID,
		EventID:        event.ID,
		Status:         domain.BookingStatusPaid,
		TotalAmount:    quote.Subtotal,
		DiscountAmount: quote.Discount,
		TaxAmount:      quote.Tax,
		FinalAmount:    quote.Total,
		PaymentStatus:  domain.PaymentStatusPaid,
		CouponCode:     couponCode,
	}
	if err := booking.Validate(); err != nil {
		return "", err
	}
	for i := range seats {
		seats[i].BookingID = booking.BookingID
	}

	if err := s.bookings.Create(ctx, booking, seats); err != nil {
		return "", err
	}

	if err := s.engagement.ClearForUserEvent(ctx, input.UserID, event.ID); err != nil {
		log.Printf("clear wishlist/recently viewed for user %s event %s: %v", input.UserID, event.ID, err)
	}
	if s.cache != nil {
		if err := s.cache.InvalidateEvents(ctx); err != nil {
			log.Printf("invalidate events cache: %v", err)
		}
	}
	if err := s.publish(ctx, "booking_created", booking); err != nil {
		log.Printf("publish booking_created for booking %s: %v", booking.BookingID, err)
	}

	return booking.BookingID, nil
}

// CancelBooking cancels the user's active booking for the event and records
// the refund. Seat restoration follows the configured policy.
func (s *BookingService) CancelBooking(ctx context.Context, eventID, userID, reason string) error {
	ctx, cancel := s.withStorageTimeout(ctx)
	defer cancel()

	booking, err := s.bookings.FindActive(ctx, userID, eventID)
	if err != nil {
		return err
	}

	if err := s.bookings.Cancel(ctx, booking.BookingID, reason, s.restoreSeats); err != nil {
		return err
	}

	booking.Status = domain.BookingStatusCancelled
	if s.restoreSeats && s.cache != nil {
		if err := s.cache.InvalidateEvents(ctx); err != nil {
			log.Printf("invalidate events cache: %v", err)
		}
	}
	if err := s.publish(ctx, "booking_cancelled", booking); err != nil {
		log.Printf("publish booking_cancelled for booking %s: %v", booking.BookingID, err)
	}

	return nil
}

// IsEventBooked reflects the same non-cancelled definition the duplicate
// check in CreateBooking uses.
func (s *BookingService) IsEventBooked(ctx context.Context, eventID, userID string) (bool, error) {
	ctx, cancel := s.withStorageTimeout(ctx)
	defer cancel()

	_, err := s.bookings.FindActive(ctx, userID, eventID)
	if err != nil {
		if errors.Is(err, repository.ErrBookingNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

func (s *BookingService) GetBookingDetails(ctx context.Context, bookingID string) (*domain.BookingDetails, error) {
	ctx, cancel := s.withStorageTimeout(ctx)
	defer cancel()

	return s.bookings.GetDetails(ctx, bookingID)
}

func (s *BookingService) ListUserBookings(ctx context.Context, userID string) ([]domain.BookingWithEvent, error) {
	ctx, cancel := s.withStorageTimeout(ctx)
	defer cancel()

	details, err := s.bookings.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := make([]domain.BookingWithEvent, 0, len(details))
	for _, d := range details {
		event, err := s.events.GetByID(ctx, d.Booking.EventID)
		if err != nil {
			if errors.Is(err, repository.ErrEventNotFound) {
				continue
			}
			return nil, err
		}
		result = append(result, domain.BookingWithEvent{BookingDetails: d, Event: *event})
	}
	return result, nil
}

func (s *BookingService) withStorageTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.storageTimeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, s.storageTimeout)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) error {
	if s.producer == nil || s.bookingTopic == "" {
		return nil
	}
	event := kafka.BookingEvent{
		Type:        eventType,
		BookingID:   booking.BookingID,
		UserID:      booking.UserID,
		EventID:     booking.EventID,
		Status:      string(booking.Status),
		FinalAmount: booking.FinalAmount.StringFixed(2),
		OccurredAt:  time.Now(),
	}
	if err := s.producer.Publish(ctx, s.bookingTopic, booking.BookingID, event); err != nil {
		return err
	}
	if s.notificationsTopic != "" {
		return s.producer.Publish(ctx, s.notificationsTopic, booking.BookingID, event)
	}
	return nil
}

var _ BookingUseCase = (*BookingService)(nil)
