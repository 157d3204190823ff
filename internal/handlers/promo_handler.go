package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/httpresp"
	"github.com/shopthebarber/marketplace-api/internal/middleware"
	"github.com/shopthebarber/marketplace-api/internal/usecase/promo"
)

// ======================================================
// HANDLER
// ======================================================

type PromoHandler struct {
	validator *promo.Validator
}

func NewPromoHandler(validator *promo.Validator) *PromoHandler {
	return &PromoHandler{validator: validator}
}

// ======================================================
// REQUESTS
// ======================================================

type ValidatePromoRequest struct {
	Code        string  `json:"code"`
	BarberID    string  `json:"barber_id"`
	ShopID      *string `json:"shop_id"`
	BasePrice   float64 `json:"base_price"`
	ContextType string  `json:"context_type"`
}

// ======================================================
// VALIDATE
// ======================================================

func (h *PromoHandler) Validate(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(string)

	var req ValidatePromoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	result, err := h.validator.Validate(c.Request.Context(), promo.Input{
		Code:        req.Code,
		BarberID:    req.BarberID,
		ShopID:      req.ShopID,
		BasePrice:   req.BasePrice,
		UserID:      userID,
		ContextType: req.ContextType,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, result)
}
