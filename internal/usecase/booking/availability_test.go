package booking

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/shopthebarber/marketplace-api/internal/domain/booking"
	"github.com/shopthebarber/marketplace-api/internal/models"
	"github.com/shopthebarber/marketplace-api/internal/timeparse"
)

// ======================================================
// FAKE REPOSITORY
// ======================================================

type fakeRepo struct {
	shifts    []models.Shift
	conflicts []models.Booking
	created   []*models.Booking

	users   map[string]*models.User
	barbers map[string]*models.Barber
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		users:   map[string]*models.User{},
		barbers: map[string]*models.Barber{},
	}
}

func (f *fakeRepo) ShiftsForDay(
	_ context.Context, _ string, weekday time.Weekday, _ *string, _ bool,
) ([]models.Shift, error) {
	var out []models.Shift
	for _, s := range f.shifts {
		if s.Weekday == int(weekday) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeRepo) OverlappingBookings(
	_ context.Context, _ string, start, end time.Time,
) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.conflicts {
		if timeparse.Overlaps(b.StartTime, b.EndTime, start, end) {
			out = append(out, b)
		}
	}
	return out, nil
}

func (f *fakeRepo) CreateBookingIfFree(_ context.Context, b *models.Booking) error {
	b.ID = "test-booking-id"
	f.created = append(f.created, b)
	return nil
}

func (f *fakeRepo) GetBooking(_ context.Context, id string) (*models.Booking, error) {
	for _, b := range f.created {
		if b.ID == id {
			return b, nil
		}
	}
	return nil, context.Canceled
}

func (f *fakeRepo) UpdateBooking(_ context.Context, _ *models.Booking) error { return nil }

func (f *fakeRepo) ListBookingsForPeriod(
	_ context.Context, _ string, _, _ time.Time,
) ([]models.Booking, error) {
	return nil, nil
}

func (f *fakeRepo) GetUser(_ context.Context, id string) (*models.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, context.Canceled
}

func (f *fakeRepo) GetBarber(_ context.Context, id string) (*models.Barber, error) {
	if b, ok := f.barbers[id]; ok {
		return b, nil
	}
	return nil, context.Canceled
}

var _ domain.Repository = (*fakeRepo)(nil)

// ======================================================
// HELPERS
// ======================================================

var testDay = time.Date(2030, 7, 24, 0, 0, 0, 0, time.UTC)

func slotAt(hour, min int) time.Time {
	return time.Date(2030, 7, 24, hour, min, 0, 0, time.UTC)
}

func validatorAt(repo *fakeRepo, now time.Time) *ValidateAvailability {
	uc := NewValidateAvailability(repo)
	uc.now = func() time.Time { return now }
	return uc
}

func shift(start, end string) models.Shift {
	return models.Shift{
		BarberID:  "barber-1",
		Weekday:   int(testDay.Weekday()),
		StartTime: start,
		EndTime:   end,
	}
}

func check(t *testing.T, uc *ValidateAvailability, start time.Time, minutes int) domain.AvailabilityResult {
	t.Helper()
	res, err := uc.Execute(context.Background(), domain.AvailabilityInput{
		BarberID:        "barber-1",
		StartDatetime:   start,
		DurationMinutes: minutes,
	})
	require.NoError(t, err)
	return res
}

// ======================================================
// TESTS
// ======================================================

func TestAvailabilityPastSlot(t *testing.T) {
	repo := newFakeRepo()
	repo.shifts = []models.Shift{shift("09:00", "17:00")}
	uc := validatorAt(repo, slotAt(12, 0))

	res := check(t, uc, slotAt(10, 0), 30)
	assert.Equal(t, domain.CheckError, res.Status)
	assert.Equal(t, "Cannot book in the past", res.Message)
}

func TestAvailabilityNoShiftsFailClosed(t *testing.T) {
	repo := newFakeRepo()
	uc := validatorAt(repo, testDay)

	res := check(t, uc, slotAt(10, 0), 30)
	assert.Equal(t, domain.Unavailable, res.Status)
	assert.Equal(t, domain.ReasonNoShifts, res.Reason)
	assert.Contains(t, res.Message, testDay.Weekday().String())
}

func TestAvailabilityShiftBoundariesInclusive(t *testing.T) {
	repo := newFakeRepo()
	repo.shifts = []models.Shift{shift("09:00", "17:00")}
	uc := validatorAt(repo, testDay)

	// Exactly at shift start and exactly ending at shift end are both fine.
	assert.Equal(t, domain.Available, check(t, uc, slotAt(9, 0), 30).Status)
	assert.Equal(t, domain.Available, check(t, uc, slotAt(16, 30), 30).Status)

	// One minute outside either edge is not.
	early := check(t, uc, slotAt(8, 59), 30)
	assert.Equal(t, domain.Unavailable, early.Status)
	assert.Equal(t, domain.ReasonOutsideShift, early.Reason)

	late := check(t, uc, slotAt(16, 31), 30)
	assert.Equal(t, domain.Unavailable, late.Status)
	assert.Equal(t, domain.ReasonOutsideShift, late.Reason)
	assert.Contains(t, late.Message, "09:00 - 17:00")
}

func TestAvailabilityUnionOfSameDayShifts(t *testing.T) {
	repo := newFakeRepo()
	repo.shifts = []models.Shift{shift("09:00", "12:00"), shift("14:00", "18:00")}
	uc := validatorAt(repo, testDay)

	assert.Equal(t, domain.Available, check(t, uc, slotAt(10, 0), 60).Status)
	assert.Equal(t, domain.Available, check(t, uc, slotAt(15, 0), 60).Status)

	// The lunch gap is not bookable even though both shifts exist.
	gap := check(t, uc, slotAt(12, 30), 60)
	assert.Equal(t, domain.Unavailable, gap.Status)
	assert.Equal(t, domain.ReasonOutsideShift, gap.Reason)

	// Nor is a slot straddling a window edge.
	straddle := check(t, uc, slotAt(11, 30), 60)
	assert.Equal(t, domain.Unavailable, straddle.Status)
}

func TestAvailabilityBookingConflict(t *testing.T) {
	repo := newFakeRepo()
	repo.shifts = []models.Shift{shift("09:00", "17:00")}
	repo.conflicts = []models.Booking{
		{BarberID: "barber-1", StartTime: slotAt(10, 0), EndTime: slotAt(11, 0), Status: "confirmed"},
	}
	uc := validatorAt(repo, testDay)

	res := check(t, uc, slotAt(10, 30), 30)
	assert.Equal(t, domain.Unavailable, res.Status)
	assert.Equal(t, domain.ReasonConflict, res.Reason)
	assert.Equal(t, "Slot is already taken", res.Message)

	// Back-to-back with the existing booking is allowed.
	assert.Equal(t, domain.Available, check(t, uc, slotAt(11, 0), 30).Status)
}
