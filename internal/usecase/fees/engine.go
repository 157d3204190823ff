package fees

import (
	"context"
	"encoding/json"
	"math"
	"time"

	"github.com/shopthebarber/marketplace-api/internal/audit"
	domain "github.com/shopthebarber/marketplace-api/internal/domain/booking"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
)

const (
	StatusCalculated        = "CALCULATED"
	StatusAlreadyCalculated = "ALREADY_CALCULATED"
)

type Store interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)

	// LockBreakdown persists the breakdown only while the booking is not
	// already locked (breakdown present AND status confirmed). Returns false
	// when the guard rejected the write.
	LockBreakdown(ctx context.Context, bookingID, breakdownJSON string, finalPrice float64) (bool, error)
}

type Engine struct {
	store Store
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewEngine(store Store, auditor *audit.Dispatcher) *Engine {
	return &Engine{
		store: store,
		audit: auditor,
		now:   time.Now,
	}
}

// ======================================================
// CALCULATE FEES
// ======================================================

type CalculateFeesInput struct {
	BookingID      string
	BasePrice      float64
	DiscountAmount float64
	TaxAmount      float64
	BarberID       string
	ShopID         *string
	ContextType    string
}

type CalculateFeesResult struct {
	Status             string    `json:"status"`
	BookingID          string    `json:"booking_id"`
	FinancialBreakdown Breakdown `json:"financial_breakdown"`
	ProviderPayout     float64   `json:"provider_payout,omitempty"`
	PlatformRevenue    float64   `json:"platform_revenue,omitempty"`
	Locked             bool      `json:"locked"`
	Message            string    `json:"message,omitempty"`
}

func (e *Engine) CalculateFees(
	ctx context.Context,
	in CalculateFeesInput,
) (*CalculateFeesResult, error) {

	if in.BookingID == "" || in.BarberID == "" || in.ContextType == "" {
		return nil, httperr.ErrBusiness("missing_required_fields")
	}
	if in.BasePrice < 0 || in.DiscountAmount < 0 || in.TaxAmount < 0 {
		return nil, httperr.ErrBusiness("negative_amount")
	}

	b, err := e.store.GetBooking(ctx, in.BookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if locked, existing := lockedBreakdown(b); locked {
		return &CalculateFeesResult{
			Status:             StatusAlreadyCalculated,
			BookingID:          b.ID,
			FinancialBreakdown: existing,
			Locked:             true,
			Message:            "Fees already locked for this booking",
		}, nil
	}

	breakdown := Compute(in.BasePrice, in.DiscountAmount, in.TaxAmount, in.ContextType, e.now())

	raw, err := json.Marshal(breakdown)
	if err != nil {
		return nil, err
	}

	updated, err := e.store.LockBreakdown(ctx, in.BookingID, string(raw), breakdown.FinalPrice)
	if err != nil {
		return nil, err
	}
	if !updated {
		// A concurrent caller won the write. Return its breakdown, not ours.
		b, err = e.store.GetBooking(ctx, in.BookingID)
		if err != nil {
			return nil, err
		}
		_, existing := lockedBreakdown(b)
		return &CalculateFeesResult{
			Status:             StatusAlreadyCalculated,
			BookingID:          b.ID,
			FinancialBreakdown: existing,
			Locked:             true,
			Message:            "Fees already locked for this booking",
		}, nil
	}

	e.audit.Dispatch(audit.Event{
		Action:       "COMMISSION_CALCULATED",
		ResourceType: "Booking",
		ResourceID:   in.BookingID,
		ActorID:      "system",
		Changes:      map[string]any{"financial_breakdown": breakdown, "locked": true},
		Details: map[string]any{
			"barber_id":    in.BarberID,
			"shop_id":      in.ShopID,
			"context_type": in.ContextType,
			"fee_rate":     breakdown.CommissionRateSnapshot,
		},
	})

	return &CalculateFeesResult{
		Status:             StatusCalculated,
		BookingID:          in.BookingID,
		FinancialBreakdown: breakdown,
		ProviderPayout:     breakdown.ProviderPayout,
		PlatformRevenue:    breakdown.PlatformFee,
		Locked:             true,
	}, nil
}

// ======================================================
// CALCULATE REFUND
// ======================================================

// RefundQuote is evaluated against wall-clock "now" at cancellation time;
// it is meaningless if stored and replayed later.
type RefundQuote struct {
	RefundAmount           float64   `json:"refund_amount"`
	PlatformFeeRefund      float64   `json:"platform_fee_refund"`
	RefundPercentage       float64   `json:"refund_percentage"`
	HoursBeforeAppointment int       `json:"hours_before_appointment"`
	LockedBreakdown        Breakdown `json:"locked_breakdown"`
}

func (e *Engine) CalculateRefund(ctx context.Context, bookingID string) (*RefundQuote, error) {
	b, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	breakdown, ok := parseBreakdown(b)
	if !ok {
		return nil, httperr.ErrBusinessMsg("no_financial_breakdown", "Cannot refund: no financial breakdown found")
	}

	hoursBefore := b.StartTime.Sub(e.now()).Hours()

	var pct float64
	switch {
	case hoursBefore > 24:
		pct = 1.0
	case hoursBefore > 2:
		pct = 0.5
	default:
		pct = 0.0
	}

	return &RefundQuote{
		RefundAmount:           Round2(breakdown.FinalPrice * pct),
		PlatformFeeRefund:      Round2(breakdown.PlatformFee * pct),
		RefundPercentage:       pct,
		HoursBeforeAppointment: int(math.Round(hoursBefore)),
		LockedBreakdown:        breakdown,
	}, nil
}

// ======================================================
// VERIFY LOCKED
// ======================================================

type LockStatus struct {
	Locked       bool      `json:"locked"`
	Breakdown    Breakdown `json:"breakdown"`
	CannotModify bool      `json:"cannot_modify"`
}

func (e *Engine) VerifyLocked(ctx context.Context, bookingID string) (*LockStatus, error) {
	b, err := e.store.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	breakdown, ok := parseBreakdown(b)
	if !ok {
		return nil, httperr.ErrBusinessMsg("no_financial_breakdown", "Booking has no financial breakdown locked")
	}

	return &LockStatus{
		Locked:       true,
		Breakdown:    breakdown,
		CannotModify: true,
	}, nil
}

// ======================================================
// HELPERS
// ======================================================

func parseBreakdown(b *models.Booking) (Breakdown, bool) {
	if b.FinancialBreakdown == nil || *b.FinancialBreakdown == "" {
		return Breakdown{}, false
	}
	var out Breakdown
	if err := json.Unmarshal([]byte(*b.FinancialBreakdown), &out); err != nil {
		return Breakdown{}, false
	}
	return out, true
}

func lockedBreakdown(b *models.Booking) (bool, Breakdown) {
	breakdown, ok := parseBreakdown(b)
	if !ok {
		return false, Breakdown{}
	}
	if domain.Status(b.Status) != domain.StatusConfirmed {
		return false, Breakdown{}
	}
	return true, breakdown
}
