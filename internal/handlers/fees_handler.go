package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/httpresp"
	"github.com/shopthebarber/marketplace-api/internal/usecase/fees"
)

// ======================================================
// HANDLER
// ======================================================

type FeesHandler struct {
	engine *fees.Engine
}

func NewFeesHandler(engine *fees.Engine) *FeesHandler {
	return &FeesHandler{engine: engine}
}

// ======================================================
// REQUESTS
// ======================================================

// CalculateFeesRequest is a single action-dispatched endpoint: the action
// field selects which payload fields apply.
type CalculateFeesRequest struct {
	Action string `json:"action" binding:"required"`

	BookingID      string  `json:"booking_id"`
	BasePrice      float64 `json:"base_price"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxAmount      float64 `json:"tax_amount"`
	BarberID       string  `json:"barber_id"`
	ShopID         *string `json:"shop_id"`
	ContextType    string  `json:"context_type"`
}

// ======================================================
// HANDLE
// ======================================================

func (h *FeesHandler) Handle(c *gin.Context) {
	var req CalculateFeesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	ctx := c.Request.Context()

	switch req.Action {
	case "calculateFees":
		result, err := h.engine.CalculateFees(ctx, fees.CalculateFeesInput{
			BookingID:      req.BookingID,
			BasePrice:      req.BasePrice,
			DiscountAmount: req.DiscountAmount,
			TaxAmount:      req.TaxAmount,
			BarberID:       req.BarberID,
			ShopID:         req.ShopID,
			ContextType:    req.ContextType,
		})
		if err != nil {
			writeBusinessError(c, err)
			return
		}
		httpresp.OK(c, result)

	case "calculateRefund":
		quote, err := h.engine.CalculateRefund(ctx, req.BookingID)
		if err != nil {
			writeBusinessError(c, err)
			return
		}
		httpresp.OK(c, quote)

	case "verifyLocked":
		status, err := h.engine.VerifyLocked(ctx, req.BookingID)
		if err != nil {
			writeBusinessError(c, err)
			return
		}
		httpresp.OK(c, status)

	default:
		httperr.BadRequest(c, "unknown_action", "action must be calculateFees, calculateRefund or verifyLocked.")
	}
}
