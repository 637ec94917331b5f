package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/anirudhpn/eventbooking/internal/repository"
	"github.com/anirudhpn/eventbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type MockBookingUseCase struct {
	mock.Mock
}

func (m *MockBookingUseCase) CreateBooking(ctx context.Context, input booking.CreateBookingInput) (string, error) {
	args := m.Called(ctx, input)
	return args.String(0), args.Error(1)
}

func (m *MockBookingUseCase) CancelBooking(ctx context.Context, eventID, userID, reason string) error {
	args := m.Called(ctx, eventID, userID, reason)
	return args.Error(0)
}

func (m *MockBookingUseCase) IsEventBooked(ctx context.Context, eventID, userID string) (bool, error) {
	args := m.Called(ctx, eventID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *MockBookingUseCase) GetBookingDetails(ctx context.Context, bookingID string) (*domain.BookingDetails, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BookingDetails), args.Error(1)
}

func (m *MockBookingUseCase) ListUserBookings(ctx context.Context, userID string) ([]domain.BookingWithEvent, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BookingWithEvent), args.Error(1)
}

func newBookingRouter(service booking.BookingUseCase) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewBookingHandler(service).Register(router.Group("/api/v1/bookings"))
	return router
}

func doJSON(router *gin.Engine, method, path string, body interface{}, withUser bool) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if withUser {
		req.Header.Set(userIDHeader, "user-1")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestBookingHandler_Create_Success(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	service.On("CreateBooking", mock.Anything, booking.CreateBookingInput{
		UserID:     "user-1",
		EventID:    "EVT-1",
		Seats:      []booking.SeatSelection{{TariffID: 2, Quantity: 2}},
		CouponCode: "WELCOME50",
	}).Return("BKG_TEST_ABC123", nil).Once()

	rec := doJSON(router, http.MethodPost, "/api/v1/bookings/", gin.H{
		"event_id":    "EVT-1",
		"seats":       []gin.H{{"tariff_id": 2, "quantity": 2}},
		"coupon_code": "WELCOME50",
	}, true)

	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp map[string]string
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BKG_TEST_ABC123", resp["booking_id"])
	service.AssertExpectations(t)
}

func TestBookingHandler_Create_MissingUserHeader(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	rec := doJSON(router, http.MethodPost, "/api/v1/bookings/", gin.H{
		"event_id": "EVT-1",
		"seats":    []gin.H{{"tariff_id": 2, "quantity": 2}},
	}, false)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	service.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_Create_InvalidBody(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	rec := doJSON(router, http.MethodPost, "/api/v1/bookings/", gin.H{
		"seats": []gin.H{{"tariff_id": 2, "quantity": 2}},
	}, true)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	service.AssertNotCalled(t, "CreateBooking")
}

func TestBookingHandler_Create_Duplicate(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	service.On("CreateBooking", mock.Anything, mock.Anything).
		Return("", repository.ErrDuplicateBooking).Once()

	rec := doJSON(router, http.MethodPost, "/api/v1/bookings/", gin.H{
		"event_id": "EVT-1",
		"seats":    []gin.H{{"tariff_id": 2, "quantity": 2}},
	}, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "already booked")
}

func TestBookingHandler_Create_InsufficientSeats(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	service.On("CreateBooking", mock.Anything, mock.Anything).
		Return("", &repository.InsufficientSeatsError{TariffID: 2, TariffType: "gold", Requested: 11}).Once()

	rec := doJSON(router, http.MethodPost, "/api/v1/bookings/", gin.H{
		"event_id": "EVT-1",
		"seats":    []gin.H{{"tariff_id": 2, "quantity": 11}},
	}, true)

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "gold")
}

func TestBookingHandler_Create_EventNotFound(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	service.On("CreateBooking", mock.Anything, mock.Anything).
		Return("", repository.ErrEventNotFound).Once()

	rec := doJSON(router, http.MethodPost, "/api/v1/bookings/", gin.H{
		"event_id": "EVT-MISSING",
		"seats":    []gin.H{{"tariff_id": 2, "quantity": 1}},
	}, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingHandler_Create_CouponRejected(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	service.On("CreateBooking", mock.Anything, mock.Anything).
		Return("", &repository.CouponBelowMinimumError{MinPurchase: decimal.NewFromInt(500)}).Once()

	rec := doJSON(router, http.MethodPost, "/api/v1/bookings/", gin.H{
		"event_id":    "EVT-1",
		"seats":       []gin.H{{"tariff_id": 2, "quantity": 1}},
		"coupon_code": "WELCOME50",
	}, true)

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	assert.Contains(t, rec.Body.String(), "minimum purchase")
}

func TestBookingHandler_Create_StorageFailure(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	service.On("CreateBooking", mock.Anything, mock.Anything).
		Return("", &repository.PersistenceError{Op: "create booking", Err: assert.AnError}).Once()

	rec := doJSON(router, http.MethodPost, "/api/v1/bookings/", gin.H{
		"event_id": "EVT-1",
		"seats":    []gin.H{{"tariff_id": 2, "quantity": 1}},
	}, true)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "storage failure")
}

func TestBookingHandler_Cancel_Success(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	service.On("CancelBooking", mock.Anything, "EVT-1", "user-1", "change of plans").Return(nil).Once()

	rec := doJSON(router, http.MethodDelete, "/api/v1/bookings/event/EVT-1", gin.H{
		"reason": "change of plans",
	}, true)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp map[string]bool
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp["cancelled"])
	service.AssertExpectations(t)
}

func TestBookingHandler_Cancel_NotFound(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	service.On("CancelBooking", mock.Anything, "EVT-1", "user-1", "late").
		Return(repository.ErrBookingNotFound).Once()

	rec := doJSON(router, http.MethodDelete, "/api/v1/bookings/event/EVT-1", gin.H{
		"reason": "late",
	}, true)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingHandler_Details(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	details := &domain.BookingDetails{
		Booking: domain.Booking{
			BookingID:     "BKG_TEST_ABC123",
			UserID:        "user-1",
			EventID:       "EVT-1",
			Status:        domain.BookingStatusPaid,
			TotalAmount:   decimal.NewFromInt(1000),
			TaxAmount:     decimal.NewFromInt(120),
			FinalAmount:   decimal.NewFromInt(1120),
			PaymentStatus: domain.PaymentStatusPaid,
		},
		Seats: []domain.BookingSeat{
			{TariffID: 2, TariffType: "gold", Quantity: 2, PricePerSeat: decimal.NewFromInt(500), TotalPrice: decimal.NewFromInt(1000)},
		},
		Transactions: []domain.BookingTransaction{
			{TransactionID: "txn-1", Amount: decimal.NewFromInt(1120), Status: domain.TransactionStatusInitiated, PaymentMethod: "pending"},
		},
	}

	service.On("GetBookingDetails", mock.Anything, "BKG_TEST_ABC123").Return(details, nil).Once()

	rec := doJSON(router, http.MethodGet, "/api/v1/bookings/BKG_TEST_ABC123", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp bookingDetailsResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "BKG_TEST_ABC123", resp.Booking.BookingID)
	assert.Equal(t, "1120.00", resp.Booking.FinalAmount)
	assert.Len(t, resp.Seats, 1)
	assert.Equal(t, "500.00", resp.Seats[0].PricePerSeat)
	assert.Len(t, resp.Transactions, 1)
	assert.Nil(t, resp.Cancellation)
}

func TestBookingHandler_List(t *testing.T) {
	service := &MockBookingUseCase{}
	router := newBookingRouter(service)

	bookings := []domain.BookingWithEvent{
		{
			BookingDetails: domain.BookingDetails{
				Booking: domain.Booking{BookingID: "BKG_A", EventID: "EVT-1", FinalAmount: decimal.NewFromInt(1120)},
			},
			Event: domain.Event{ID: "EVT-1", Title: "Indie Night", City: "Bengaluru"},
		},
	}

	service.On("ListUserBookings", mock.Anything, "user-1").Return(bookings, nil).Once()

	rec := doJSON(router, http.MethodGet, "/api/v1/bookings/", nil, true)

	assert.Equal(t, http.StatusOK, rec.Code)

	var resp []bookingWithEventResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)
	assert.Equal(t, "BKG_A", resp[0].Booking.BookingID)
	assert.Equal(t, "Indie Night", resp[0].Event.Title)
}
