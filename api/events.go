package api

import (
	"net/http"
	"time"

	"github.com/anirudhpn/eventbooking/internal/domain"
	"github.com/anirudhpn/eventbooking/internal/service/booking"
	"github.com/anirudhpn/eventbooking/internal/service/catalog"
	"github.com/gin-gonic/gin"
)

type EventHandler struct {
	catalog  catalog.CatalogUseCase
	bookings booking.BookingUseCase
}

type eventResponse struct {
	ID              string `json:"id"`
	Title           string `json:"title"`
	Description     string `json:"description"`
	Date            string `json:"date"`
	DurationMinutes int    `json:"duration_minutes"`
	Location        string `json:"location"`
	City            string `json:"city"`
}

type tariffResponse struct {
	ID    int64  `json:"id"`
	Type  string `json:"type"`
	Price string `json:"price"`
	Seats int    `json:"seats"`
}

type eventDetailResponse struct {
	eventResponse
	Tariffs []tariffResponse `json:"tariffs"`
}

func NewEventHandler(catalogSvc catalog.CatalogUseCase, bookingSvc booking.BookingUseCase) *EventHandler {
	return &EventHandler{catalog: catalogSvc, bookings: bookingSvc}
}

func (h *EventHandler) Register(router *gin.RouterGroup) {
	router.GET("/", h.list)
	router.GET("/:id", h.get)
	router.GET("/:id/booked", h.booked)
}

func (h *EventHandler) list(c *gin.Context) {
	events, err := h.catalog.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := make([]eventResponse, 0, len(events))
	for _, e := range events {
		resp = append(resp, toEventResponse(e))
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) get(c *gin.Context) {
	id := c.Param("id")

	event, err := h.catalog.GetByID(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	tariffs, err := h.catalog.GetTariffs(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	resp := eventDetailResponse{eventResponse: toEventResponse(*event)}
	for _, t := range tariffs {
		resp.Tariffs = append(resp.Tariffs, tariffResponse{
			ID:    t.ID,
			Type:  t.Type,
			Price: t.Price.StringFixed(2),
			Seats: t.Seats,
		})
	}
	c.JSON(http.StatusOK, resp)
}

func (h *EventHandler) booked(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}

	booked, err := h.bookings.IsEventBooked(c.Request.Context(), c.Param("id"), uid)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"booked": booked})
}

func toEventResponse(e domain.Event) eventResponse {
	return eventResponse{
		ID:              e.ID,
		Title:           e.Title,
		Description:     e.Description,
		Date:            e.Date.Format(time.RFC3339),
		DurationMinutes: e.DurationMinutes,
		Location:        e.Location,
		City:            e.City,
	}
}
