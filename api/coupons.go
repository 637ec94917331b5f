package api

import (
	"errors"
	"net/http"

	"github.com/anirudhpn/eventbooking/internal/repository"
	"github.com/anirudhpn/eventbooking/internal/service/coupon"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CouponHandler struct {
	service coupon.CouponUseCase
}

type validateCouponRequest struct {
	Code   string `json:"code" binding:"required"`
	Amount string `json:"amount" binding:"required"`
}

type couponResponse struct {
	Code          string `json:"code"`
	Description   string `json:"description"`
	DiscountType  string `json:"discount_type"`
	DiscountValue string `json:"discount_value"`
	MaxDiscount   string `json:"max_discount,omitempty"`
	MinPurchase   string `json:"min_purchase"`
}

type validateCouponResponse struct {
	IsValid bool            `json:"is_valid"`
	Coupon  *couponResponse `json:"coupon,omitempty"`
	Error   string          `json:"error,omitempty"`
}

func NewCouponHandler(service coupon.CouponUseCase) *CouponHandler {
	return &CouponHandler{service: service}
}

func (h *CouponHandler) Register(router *gin.RouterGroup) {
	router.POST("/validate", h.validate)
}

// validate answers 200 for both outcomes; an ineligible coupon is a normal
// response with is_valid=false, not an HTTP failure.
func (h *CouponHandler) validate(c *gin.Context) {
	var req validateCouponRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid amount"})
		return
	}

	validated, err := h.service.Validate(c.Request.Context(), req.Code, amount)
	if err != nil {
		var persistence *repository.PersistenceError
		if errors.As(err, &persistence) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "storage failure"})
			return
		}
		c.JSON(http.StatusOK, validateCouponResponse{IsValid: false, Error: err.Error()})
		return
	}

	resp := &couponResponse{
		Code:          validated.Code,
		Description:   validated.Description,
		DiscountType:  string(validated.DiscountType),
		DiscountValue: validated.DiscountValue.StringFixed(2),
		MinPurchase:   validated.MinPurchase.StringFixed(2),
	}
	if validated.MaxDiscount.Valid {
		resp.MaxDiscount = validated.MaxDiscount.Decimal.StringFixed(2)
	}
	c.JSON(http.StatusOK, validateCouponResponse{IsValid: true, Coupon: resp})
}
