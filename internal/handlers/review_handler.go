package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/httpresp"
	"github.com/shopthebarber/marketplace-api/internal/middleware"
	"github.com/shopthebarber/marketplace-api/internal/usecase/review"
)

// ======================================================
// HANDLER
// ======================================================

type ReviewHandler struct {
	submit *review.SubmitReview
}

func NewReviewHandler(submit *review.SubmitReview) *ReviewHandler {
	return &ReviewHandler{submit: submit}
}

// ======================================================
// REQUESTS
// ======================================================

type SubmitReviewRequest struct {
	BookingID string `json:"booking_id" binding:"required"`
	TargetID  string `json:"target_id" binding:"required"`
	Rating    int    `json:"rating" binding:"required"`
	Content   string `json:"content"`
}

// ======================================================
// CREATE
// ======================================================

func (h *ReviewHandler) Create(c *gin.Context) {
	reviewerID := c.MustGet(middleware.ContextUserID).(string)

	var req SubmitReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	rv, err := h.submit.Execute(c.Request.Context(), review.SubmitReviewInput{
		BookingID:  req.BookingID,
		ReviewerID: reviewerID,
		TargetID:   req.TargetID,
		Rating:     req.Rating,
		Content:    req.Content,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.Created(c, rv)
}
