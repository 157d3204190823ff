package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/shopthebarber/marketplace-api/internal/audit"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/httpresp"
	"github.com/shopthebarber/marketplace-api/internal/middleware"
	"github.com/shopthebarber/marketplace-api/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type PayoutHandler struct {
	db    *gorm.DB
	audit *audit.Dispatcher
}

func NewPayoutHandler(db *gorm.DB, auditor *audit.Dispatcher) *PayoutHandler {
	return &PayoutHandler{db: db, audit: auditor}
}

// ======================================================
// REQUESTS
// ======================================================

type CreatePayoutRequest struct {
	ProviderID string  `json:"provider_id" binding:"required"`
	Amount     float64 `json:"amount" binding:"required,gt=0"`
}

// ======================================================
// CREATE (admin; payout.paid / payout.failed events finalize it)
// ======================================================

func (h *PayoutHandler) Create(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(string)

	var req CreatePayoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	payout := models.Payout{
		ProviderID: req.ProviderID,
		Amount:     req.Amount,
	}
	if err := h.db.Create(&payout).Error; err != nil {
		httperr.Internal(c, "payout_creation_failed", "Could not create payout.")
		return
	}

	h.audit.Dispatch(audit.Event{
		Action:       "PAYOUT_CREATED",
		ResourceType: "Payout",
		ResourceID:   payout.ID,
		ActorID:      actorID,
		Details:      map[string]any{"provider_id": req.ProviderID, "amount": req.Amount},
	})

	httpresp.Created(c, payout)
}

// ======================================================
// LIST
// ======================================================

func (h *PayoutHandler) List(c *gin.Context) {
	q := h.db.Order("created_at DESC")
	if providerID := c.Query("provider_id"); providerID != "" {
		q = q.Where("provider_id = ?", providerID)
	}
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}

	var payouts []models.Payout
	if err := q.Find(&payouts).Error; err != nil {
		httperr.Internal(c, "payouts_unavailable", "Could not load payouts.")
		return
	}

	httpresp.List(c, payouts)
}
