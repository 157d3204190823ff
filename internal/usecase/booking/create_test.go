package booking

import (
	"context"
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
	"github.com/shopthebarber/marketplace-api/internal/notify"
)

type fakeMailer struct {
	sent []notify.BookingConfirmationPayload
}

func (m *fakeMailer) EnqueueBookingConfirmation(p notify.BookingConfirmationPayload) error {
	m.sent = append(m.sent, p)
	return nil
}

func testDispatcher(t *testing.T) *audit.Dispatcher {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))
	return audit.NewDispatcher(audit.New(db), zap.NewNop())
}

func newCreateUC(t *testing.T, repo *fakeRepo, mailer *fakeMailer) *CreateBooking {
	t.Helper()
	validate := validatorAt(repo, testDay)
	uc := NewCreateBooking(repo, validate, mailer, testDispatcher(t), zap.NewNop(), time.UTC)
	return uc
}

func TestCreateBookingHappyPath(t *testing.T) {
	repo := newFakeRepo()
	repo.shifts = []models.Shift{shift("09:00", "17:00")}
	repo.users["client-1"] = &models.User{ID: "client-1", FullName: "Ada", Email: "ada@example.com"}
	repo.barbers["barber-1"] = &models.Barber{ID: "barber-1", Name: "Sam"}

	mailer := &fakeMailer{}
	uc := newCreateUC(t, repo, mailer)

	b, err := uc.Execute(context.Background(), CreateBookingInput{
		ClientID:       "client-1",
		BarberID:       "barber-1",
		DateText:       testDay.Format("January 2, 2006"),
		TimeText:       "10:00",
		PriceAtBooking: 45,
		ServiceName:    "Fade",
	})
	require.NoError(t, err)

	assert.Equal(t, "pending", b.Status)
	assert.Equal(t, 30, b.DurationAtBooking) // default duration
	assert.True(t, b.StartTime.Equal(slotAt(10, 0)))
	assert.True(t, b.EndTime.Equal(slotAt(10, 30)))
	require.Len(t, repo.created, 1)

	require.Len(t, mailer.sent, 1)
	assert.Equal(t, "ada@example.com", mailer.sent[0].To)
	assert.Equal(t, "Sam", mailer.sent[0].BarberName)
	assert.Equal(t, "Fade", mailer.sent[0].ServiceName)
	assert.Equal(t, "45.00 EUR", mailer.sent[0].Price)
}

func TestCreateBookingBadDateText(t *testing.T) {
	repo := newFakeRepo()
	uc := newCreateUC(t, repo, &fakeMailer{})

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		ClientID: "client-1",
		BarberID: "barber-1",
		DateText: "sometime next week",
		TimeText: "10:00",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_date_or_time"))
	assert.Contains(t, err.Error(), "invalid date/time format")
	assert.Empty(t, repo.created)
}

func TestCreateBookingSlotUnavailable(t *testing.T) {
	repo := newFakeRepo()
	repo.shifts = []models.Shift{shift("09:00", "12:00")}
	uc := newCreateUC(t, repo, &fakeMailer{})

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		ClientID: "client-1",
		BarberID: "barber-1",
		DateText: testDay.Format("January 2, 2006"),
		TimeText: "3:00 PM",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "slot_unavailable"))
	assert.Empty(t, repo.created)
}

func TestCreateBookingMissingClientSkipsEmail(t *testing.T) {
	repo := newFakeRepo()
	repo.shifts = []models.Shift{shift("09:00", "17:00")}

	mailer := &fakeMailer{}
	uc := newCreateUC(t, repo, mailer)

	// Unknown client: the booking still persists, only the email is skipped.
	b, err := uc.Execute(context.Background(), CreateBookingInput{
		ClientID: "ghost",
		BarberID: "barber-1",
		DateText: testDay.Format("January 2, 2006"),
		TimeText: "10:00",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, b.ID)
	assert.Empty(t, mailer.sent)
}

func TestCreateBookingRejectsUnknownStatus(t *testing.T) {
	repo := newFakeRepo()
	repo.shifts = []models.Shift{shift("09:00", "17:00")}
	uc := newCreateUC(t, repo, &fakeMailer{})

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		ClientID: "client-1",
		BarberID: "barber-1",
		DateText: testDay.Format("January 2, 2006"),
		TimeText: "10:00",
		Status:   "teleported",
	})
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "invalid_status"))
}
