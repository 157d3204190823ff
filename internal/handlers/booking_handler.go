package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/shopthebarber/marketplace-api/internal/domain/booking"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/httpresp"
	"github.com/shopthebarber/marketplace-api/internal/middleware"
	"github.com/shopthebarber/marketplace-api/internal/usecase/booking"
	"github.com/shopthebarber/marketplace-api/internal/usecase/fees"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	create   *booking.CreateBooking
	cancel   *booking.CancelBooking
	complete *booking.CompleteBooking
	engine   *fees.Engine
	repo     domain.Repository
}

func NewBookingHandler(
	create *booking.CreateBooking,
	cancel *booking.CancelBooking,
	complete *booking.CompleteBooking,
	engine *fees.Engine,
	repo domain.Repository,
) *BookingHandler {
	return &BookingHandler{
		create:   create,
		cancel:   cancel,
		complete: complete,
		engine:   engine,
		repo:     repo,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	BarberID           string         `json:"barber_id" binding:"required"`
	ShopID             *string        `json:"shop_id"`
	DateText           string         `json:"date_text" binding:"required"`
	TimeText           string         `json:"time_text" binding:"required"`
	DurationAtBooking  int            `json:"duration_at_booking"`
	ContextType        string         `json:"context_type"`
	Status             string         `json:"status"`
	PriceAtBooking     float64        `json:"price_at_booking"`
	ServiceName        string         `json:"service_name"`
	DiscountCode       string         `json:"discount_code"`
	Notes              string         `json:"notes"`
	FinancialBreakdown map[string]any `json:"financial_breakdown"`
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(string)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid request body.")
		return
	}

	// Only admin paths may pre-set a status.
	if req.Status != "" {
		role, _ := c.Get(middleware.ContextUserRole)
		if role != "admin" {
			req.Status = ""
		}
	}

	b, err := h.create.Execute(c.Request.Context(), booking.CreateBookingInput{
		ClientID:           clientID,
		BarberID:           req.BarberID,
		ShopID:             req.ShopID,
		DateText:           req.DateText,
		TimeText:           req.TimeText,
		DurationAtBooking:  req.DurationAtBooking,
		ContextType:        req.ContextType,
		Status:             req.Status,
		PriceAtBooking:     req.PriceAtBooking,
		ServiceName:        req.ServiceName,
		DiscountCode:       req.DiscountCode,
		Notes:              req.Notes,
		FinancialBreakdown: req.FinancialBreakdown,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.Created(c, b)
}

// ======================================================
// LIST (provider agenda)
// ======================================================

func (h *BookingHandler) ListForBarber(c *gin.Context) {
	barberID := c.Param("barberId")

	from, err := time.Parse("2006-01-02", c.DefaultQuery("from", time.Now().Format("2006-01-02")))
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "from must be YYYY-MM-DD.")
		return
	}

	to := from.AddDate(0, 0, 7)
	if raw := c.Query("to"); raw != "" {
		to, err = time.Parse("2006-01-02", raw)
		if err != nil {
			httperr.BadRequest(c, "invalid_date", "to must be YYYY-MM-DD.")
			return
		}
		to = to.AddDate(0, 0, 1) // inclusive end date
	}

	bookings, err := h.repo.ListBookingsForPeriod(c.Request.Context(), barberID, from, to)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.List(c, bookings)
}

// ======================================================
// GET
// ======================================================

func (h *BookingHandler) Get(c *gin.Context) {
	b, err := h.repo.GetBooking(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, b)
}

// ======================================================
// CANCEL (returns the refund quote when fees are locked)
// ======================================================

func (h *BookingHandler) Cancel(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(string)
	bookingID := c.Param("id")

	// Quote the refund before the transition; a cancelled booking keeps its
	// locked breakdown either way.
	quote, quoteErr := h.engine.CalculateRefund(c.Request.Context(), bookingID)

	b, err := h.cancel.Execute(c.Request.Context(), bookingID, actorID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	resp := gin.H{"booking": b}
	if quoteErr == nil {
		resp["refund"] = quote
	}
	httpresp.OK(c, resp)
}

// ======================================================
// COMPLETE
// ======================================================

func (h *BookingHandler) Complete(c *gin.Context) {
	actorID := c.MustGet(middleware.ContextUserID).(string)

	b, err := h.complete.Execute(c.Request.Context(), c.Param("id"), actorID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, b)
}
