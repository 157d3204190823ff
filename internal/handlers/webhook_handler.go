package handlers

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/httpresp"
	"github.com/shopthebarber/marketplace-api/internal/webhook"
)

// ======================================================
// HANDLER
// ======================================================

type WebhookHandler struct {
	reconciler *webhook.Reconciler
}

func NewWebhookHandler(reconciler *webhook.Reconciler) *WebhookHandler {
	return &WebhookHandler{reconciler: reconciler}
}

// ======================================================
// HANDLE
// ======================================================

// Handle passes the raw bytes through untouched: the signature is computed
// over the exact payload, so any re-serialization breaks verification.
func (h *WebhookHandler) Handle(c *gin.Context) {
	rawBody, err := c.GetRawData()
	if err != nil {
		httperr.BadRequest(c, "invalid_body", "Could not read request body.")
		return
	}

	result, err := h.reconciler.HandleWebhook(
		c.Request.Context(),
		rawBody,
		c.GetHeader("Stripe-Signature"),
	)
	if errors.Is(err, webhook.ErrUnauthorized) {
		httperr.Unauthorized(c, "invalid_signature", "Webhook signature verification failed.")
		return
	}
	if err != nil {
		// Non-2xx makes the processor redeliver.
		httperr.Internal(c, "webhook_failed", "Event processing failed.")
		return
	}

	httpresp.OK(c, result)
}
