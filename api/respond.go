package api

import (
	"errors"
	"net/http"

	"github.com/anirudhpn/eventbooking/internal/repository"
	"github.com/gin-gonic/gin"
)

const userIDHeader = "X-User-ID"

func userID(c *gin.Context) (string, bool) {
	id := c.GetHeader(userIDHeader)
	if id == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing " + userIDHeader + " header"})
		return "", false
	}
	return id, true
}

// respondError maps the failure taxonomy onto HTTP statuses. Booking
// failures keep their specific message (offending tier, duplicate, coupon
// condition) so clients never see a generic error for them.
func respondError(c *gin.Context, err error) {
	var insufficient *repository.InsufficientSeatsError
	var persistence *repository.PersistenceError

	switch {
	case errors.Is(err, repository.ErrEventNotFound),
		errors.Is(err, repository.ErrTariffNotFound),
		errors.Is(err, repository.ErrBookingNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrDuplicateBooking):
		c.JSON(http.StatusConflict, gin.H{"error": "you have already booked this event"})
	case errors.As(err, &insufficient):
		c.JSON(http.StatusConflict, gin.H{"error": insufficient.Error()})
	case errors.Is(err, repository.ErrCouponNotFound),
		errors.Is(err, repository.ErrCouponUsageExceeded):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, new(*repository.CouponBelowMinimumError)):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &persistence):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
