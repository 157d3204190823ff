package fees

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/shopthebarber/marketplace-api/internal/audit"
	dbpkg "github.com/shopthebarber/marketplace-api/internal/db"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
)

// ======================================================
// FAKE STORE
// ======================================================

type fakeStore struct {
	bookings map[string]*models.Booking
}

func newFakeStore() *fakeStore {
	return &fakeStore{bookings: map[string]*models.Booking{}}
}

func (s *fakeStore) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	b, ok := s.bookings[id]
	if !ok {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	cp := *b
	return &cp, nil
}

func (s *fakeStore) LockBreakdown(_ context.Context, id, breakdownJSON string, finalPrice float64) (bool, error) {
	b, ok := s.bookings[id]
	if !ok {
		return false, nil
	}
	if b.FinancialBreakdown != nil && b.Status == "confirmed" {
		return false, nil
	}
	b.FinancialBreakdown = &breakdownJSON
	b.PriceAtBooking = finalPrice
	return true, nil
}

var _ Store = (*fakeStore)(nil)

// ======================================================
// HELPERS
// ======================================================

func testEngine(t *testing.T, store Store) *Engine {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))

	e := NewEngine(store, audit.NewDispatcher(audit.New(db), zap.NewNop()))
	return e
}

func feesInput(bookingID, contextType string) CalculateFeesInput {
	return CalculateFeesInput{
		BookingID:   bookingID,
		BasePrice:   100,
		BarberID:    "barber-1",
		ContextType: contextType,
	}
}

// ======================================================
// CALCULATE FEES
// ======================================================

func TestCalculateFeesRateDifferential(t *testing.T) {
	store := newFakeStore()
	store.bookings["b-shop"] = &models.Booking{ID: "b-shop", Status: "pending"}
	store.bookings["b-ind"] = &models.Booking{ID: "b-ind", Status: "pending"}
	e := testEngine(t, store)

	shop, err := e.CalculateFees(context.Background(), feesInput("b-shop", "shop"))
	require.NoError(t, err)
	assert.Equal(t, StatusCalculated, shop.Status)
	assert.Equal(t, 20.00, shop.FinancialBreakdown.PlatformFee)
	assert.Equal(t, 0.20, shop.FinancialBreakdown.CommissionRateSnapshot)
	assert.Equal(t, 80.00, shop.FinancialBreakdown.ProviderPayout)

	ind, err := e.CalculateFees(context.Background(), feesInput("b-ind", "independent"))
	require.NoError(t, err)
	assert.Equal(t, 15.00, ind.FinancialBreakdown.PlatformFee)
	assert.Equal(t, 0.15, ind.FinancialBreakdown.CommissionRateSnapshot)
	assert.Equal(t, 85.00, ind.FinancialBreakdown.ProviderPayout)
}

func TestCalculateFeesIdempotentOnConfirmedBooking(t *testing.T) {
	store := newFakeStore()
	store.bookings["b-1"] = &models.Booking{ID: "b-1", Status: "confirmed"}
	e := testEngine(t, store)

	first, err := e.CalculateFees(context.Background(), feesInput("b-1", "shop"))
	require.NoError(t, err)
	require.Equal(t, StatusCalculated, first.Status)

	// The persisted snapshot must come back untouched, even with different
	// inputs on the second call.
	in := feesInput("b-1", "independent")
	in.BasePrice = 500
	second, err := e.CalculateFees(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, StatusAlreadyCalculated, second.Status)
	assert.True(t, second.Locked)
	assert.Equal(t, first.FinancialBreakdown, second.FinancialBreakdown)
}

func TestCalculateFeesValidation(t *testing.T) {
	e := testEngine(t, newFakeStore())

	_, err := e.CalculateFees(context.Background(), CalculateFeesInput{BookingID: "b-1"})
	assert.True(t, httperr.IsBusiness(err, "missing_required_fields"))

	in := feesInput("b-1", "shop")
	in.DiscountAmount = -5
	_, err = e.CalculateFees(context.Background(), in)
	assert.True(t, httperr.IsBusiness(err, "negative_amount"))

	_, err = e.CalculateFees(context.Background(), feesInput("missing", "shop"))
	assert.True(t, httperr.IsBusiness(err, "booking_not_found"))
}

func TestComputePayoutFloor(t *testing.T) {
	// Discount plus tax exceeding the base price cannot produce a negative
	// payout.
	b := Compute(10, 9, 5, "shop", time.Now())
	assert.Equal(t, 0.00, b.ProviderPayout)
	assert.Equal(t, 1.00, b.FinalPrice)
}

// ======================================================
// CALCULATE REFUND
// ======================================================

func lockedTestBooking(id string, start time.Time) *models.Booking {
	raw, _ := json.Marshal(Breakdown{FinalPrice: 100, PlatformFee: 20})
	s := string(raw)
	return &models.Booking{
		ID:                 id,
		Status:             "confirmed",
		StartTime:          start,
		FinancialBreakdown: &s,
	}
}

func TestCalculateRefundDecaySchedule(t *testing.T) {
	now := time.Date(2030, 7, 24, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		hoursAhead  float64
		wantPct     float64
		wantRefund  float64
		wantFee     float64
	}{
		{25, 1.0, 100.00, 20.00},
		{10, 0.5, 50.00, 10.00},
		{1, 0.0, 0.00, 0.00},
	}

	for _, tc := range cases {
		store := newFakeStore()
		start := now.Add(time.Duration(tc.hoursAhead * float64(time.Hour)))
		store.bookings["b-1"] = lockedTestBooking("b-1", start)

		e := testEngine(t, store)
		e.now = func() time.Time { return now }

		quote, err := e.CalculateRefund(context.Background(), "b-1")
		require.NoError(t, err)
		assert.Equal(t, tc.wantPct, quote.RefundPercentage, "hours=%v", tc.hoursAhead)
		assert.Equal(t, tc.wantRefund, quote.RefundAmount, "hours=%v", tc.hoursAhead)
		assert.Equal(t, tc.wantFee, quote.PlatformFeeRefund, "hours=%v", tc.hoursAhead)
		assert.Equal(t, int(tc.hoursAhead), quote.HoursBeforeAppointment)
	}
}

func TestCalculateRefundRequiresLockedBreakdown(t *testing.T) {
	store := newFakeStore()
	store.bookings["b-1"] = &models.Booking{ID: "b-1", Status: "pending"}
	e := testEngine(t, store)

	_, err := e.CalculateRefund(context.Background(), "b-1")
	assert.True(t, httperr.IsBusiness(err, "no_financial_breakdown"))
}

// ======================================================
// VERIFY LOCKED
// ======================================================

func TestVerifyLocked(t *testing.T) {
	store := newFakeStore()
	store.bookings["b-1"] = lockedTestBooking("b-1", time.Now().Add(48*time.Hour))
	e := testEngine(t, store)

	status, err := e.VerifyLocked(context.Background(), "b-1")
	require.NoError(t, err)
	assert.True(t, status.Locked)
	assert.True(t, status.CannotModify)
	assert.Equal(t, 100.00, status.Breakdown.FinalPrice)

	store.bookings["b-2"] = &models.Booking{ID: "b-2", Status: "pending"}
	_, err = e.VerifyLocked(context.Background(), "b-2")
	assert.True(t, httperr.IsBusiness(err, "no_financial_breakdown"))
}
