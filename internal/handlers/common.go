package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/shopthebarber/marketplace-api/internal/httperr"
)

// writeBusinessError maps a use case error onto an HTTP response. Unknown
// errors become 500 without leaking internals.
func writeBusinessError(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "internal_error", "Something went wrong.")
		return
	}

	switch code {
	case "booking_not_found", "order_not_found", "payout_not_found":
		httperr.NotFound(c, code, err.Error())
	case "booking_conflict", "slot_unavailable":
		httperr.Write(c, 409, code, err.Error())
	default:
		httperr.BadRequest(c, code, err.Error())
	}
}
