package api

import (
	"net/http"
	"time"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/anirudhpn/eventbooking/internal/service/booking"
	"github.com/gin-gonic/gin"
)

type BookingHandler struct {
	service booking.BookingUseCase
}

type createBookingRequest struct {
	EventID    string                  `json:"event_id" binding:"required"`
	Seats      []booking.SeatSelection `json:"seats" binding:"required"`
	CouponCode string                  `json:"coupon_code"`
}

type cancelBookingRequest struct {
	Reason string `json:"reason" binding:"required"`
}

type bookingResponse struct {
	BookingID      string `json:"booking_id"`
	UserID         string `json:"user_id"`
	EventID        string `json:"event_id"`
	Status         string `json:"status"`
	TotalAmount    string `json:"total_amount"`
	DiscountAmount string `json:"discount_amount"`
	TaxAmount      string `json:"tax_amount"`
	FinalAmount    string `json:"final_amount"`
	PaymentStatus  string `json:"payment_status"`
	CouponCode     string `json:"coupon_code,omitempty"`
	BookingDate    string `json:"booking_date"`
}

type bookingSeatResponse struct {
	TariffID     int64  `json:"tariff_id"`
	TariffType   string `json:"tariff_type"`
	Quantity     int    `json:"quantity"`
	PricePerSeat string `json:"price_per_seat"`
	TotalPrice   string `json:"total_price"`
}

type transactionResponse struct {
	TransactionID string `json:"transaction_id"`
	Amount        string `json:"amount"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
}

type cancellationResponse struct {
	Reason       string `json:"reason"`
	RefundAmount string `json:"refund_amount"`
	RefundStatus string `json:"refund_status"`
	CancelledAt  string `json:"cancelled_at"`
}

type bookingDetailsResponse struct {
	Booking      bookingResponse       `json:"booking"`
	Seats        []bookingSeatResponse `json:"seats"`
	Transactions []transactionResponse `json:"transactions"`
	Cancellation *cancellationResponse `json:"cancellation,omitempty"`
}

type bookingWithEventResponse struct {
	bookingDetailsResponse
	Event eventResponse `json:"event"`
}

func NewBookingHandler(service booking.BookingUseCase) *BookingHandler {
	return &BookingHandler{service: service}
}

func (h *BookingHandler) Register(router *gin.RouterGroup) {
	router.POST("/", h.create)
	router.GET("/", h.list)
	router.GET("/:bookingID", h.details)
	router.DELETE("/event/:eventID", h.cancel)
}

func (h *BookingHandler) create(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req createBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	bookingID, err := h.service.CreateBooking(c.Request.Context(), booking.CreateBookingInput{
		UserID:     uid,
		EventID:    req.EventID,
		Seats:      req.Seats,
		CouponCode: req.CouponCode,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"booking_id": bookingID})
}

func (h *BookingHandler) cancel(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	var req cancelBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.service.CancelBooking(c.Request.Context(), c.Param("eventID"), uid, req.Reason); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"cancelled": true})
}

func (h *BookingHandler) list(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	bookings, err := h.service.ListUserBookings(c.Request.Context(), uid)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := make([]bookingWithEventResponse, 0, len(bookings))
	for _, b := range bookings {
		resp = append(resp, bookingWithEventResponse{
			bookingDetailsResponse: toDetailsResponse(b.BookingDetails),
			Event:                  toEventResponse(b.Event),
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *BookingHandler) details(c *gin.Context) {
	details, err := h.service.GetBookingDetails(c.Request.Context(), c.Param("bookingID"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toDetailsResponse(*details))
}

func toBookingResponse(b domain.Booking) bookingResponse {
	return bookingResponse{
		BookingID:      b.BookingID,
		UserID:         b.UserID,
		EventID:        b.EventID,
		Status:         string(b.Status),
		TotalAmount:    b.TotalAmount.StringFixed(2),
		DiscountAmount: b.DiscountAmount.StringFixed(2),
		TaxAmount:      b.TaxAmount.StringFixed(2),
		FinalAmount:    b.FinalAmount.StringFixed(2),
		PaymentStatus:  string(b.PaymentStatus),
		CouponCode:     b.CouponCode,
		BookingDate:    b.BookingDate.Format(time.RFC3339),
	}
}

func toDetailsResponse(d domain.BookingDetails) bookingDetailsResponse {
	resp := bookingDetailsResponse{
		Booking:      toBookingResponse(d.Booking),
		Seats:        make([]bookingSeatResponse, 0, len(d.Seats)),
		Transactions: make([]transactionResponse, 0, len(d.Transactions)),
	}
	for _, s := range d.Seats {
		resp.Seats = append(resp.Seats, bookingSeatResponse{
			TariffID:     s.TariffID,
			TariffType:   s.TariffType,
			Quantity:     s.Quantity,
			PricePerSeat: s.PricePerSeat.StringFixed(2),
			TotalPrice:   s.TotalPrice.StringFixed(2),
		})
	}
	for _, t := range d.Transactions {
		resp.Transactions = append(resp.Transactions, transactionResponse{
			TransactionID: t.TransactionID,
			Amount:        t.Amount.StringFixed(2),
			Status:        string(t.Status),
			PaymentMethod: t.PaymentMethod,
		})
	}
	if d.Cancellation != nil {
		resp.Cancellation = &cancellationResponse{
			Reason:       d.Cancellation.Reason,
			RefundAmount: d.Cancellation.RefundAmount.StringFixed(2),
			RefundStatus: string(d.Cancellation.RefundStatus),
			CancelledAt:  d.Cancellation.CancelledAt.Format(time.RFC3339),
		}
	}
	return resp
}
