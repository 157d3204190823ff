package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/shopthebarber/marketplace-api/internal/domain/booking"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/httpresp"
	"github.com/shopthebarber/marketplace-api/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type AvailabilityHandler struct {
	validate *booking.ValidateAvailability
}

func NewAvailabilityHandler(validate *booking.ValidateAvailability) *AvailabilityHandler {
	return &AvailabilityHandler{validate: validate}
}

// ======================================================
// REQUESTS
// ======================================================

type ValidateAvailabilityRequest struct {
	BarberID        string  `json:"barber_id" binding:"required"`
	ShopID          *string `json:"shop_id"`
	StartDatetime   string  `json:"start_datetime" binding:"required"`
	DurationMinutes int     `json:"duration_minutes"`
	ContextType     string  `json:"context_type"`
}

// ======================================================
// VALIDATE
// ======================================================

func (h *AvailabilityHandler) Validate(c *gin.Context) {
	var req ValidateAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	start, err := time.Parse(time.RFC3339, req.StartDatetime)
	if err != nil {
		httperr.BadRequest(c, "invalid_datetime", "start_datetime must be RFC3339.")
		return
	}

	duration := req.DurationMinutes
	if duration <= 0 {
		duration = 30
	}

	result, err := h.validate.Execute(c.Request.Context(), domain.AvailabilityInput{
		BarberID:        req.BarberID,
		ShopID:          req.ShopID,
		StartDatetime:   start,
		DurationMinutes: duration,
		ContextType:     req.ContextType,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, result)
}
