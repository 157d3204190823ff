package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	dbpkg "github.com/shopthebarber/marketplace-api/internal/db"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, dbpkg.Migrate(db))
	return db
}

func at(hour, min int) time.Time {
	return time.Date(2030, 7, 24, hour, min, 0, 0, time.UTC)
}

// ======================================================
// BOOKING REPOSITORY
// ======================================================

func TestShiftsForDayScoping(t *testing.T) {
	db := testDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	shopA := "shop-a"
	shopB := "shop-b"
	require.NoError(t, db.Create(&[]models.Shift{
		{BarberID: "barber-1", Weekday: 3, ShopID: &shopA, StartTime: "09:00", EndTime: "12:00"},
		{BarberID: "barber-1", Weekday: 3, ShopID: &shopB, StartTime: "14:00", EndTime: "18:00"},
		{BarberID: "barber-1", Weekday: 4, ShopID: &shopA, StartTime: "09:00", EndTime: "12:00"},
		{BarberID: "barber-2", Weekday: 3, StartTime: "09:00", EndTime: "17:00"},
	}).Error)

	// Unscoped: every window the barber works that weekday.
	shifts, err := repo.ShiftsForDay(ctx, "barber-1", time.Wednesday, nil, false)
	require.NoError(t, err)
	assert.Len(t, shifts, 2)

	// Shop-scoped: only that shop's window.
	shifts, err = repo.ShiftsForDay(ctx, "barber-1", time.Wednesday, &shopA, true)
	require.NoError(t, err)
	require.Len(t, shifts, 1)
	assert.Equal(t, "09:00", shifts[0].StartTime)
}

func TestOverlappingBookingsIgnoresCancelled(t *testing.T) {
	db := testDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&[]models.Booking{
		{ID: "b-live", BarberID: "barber-1", StartTime: at(10, 0), EndTime: at(11, 0), Status: "confirmed"},
		{ID: "b-cancelled", BarberID: "barber-1", StartTime: at(10, 0), EndTime: at(11, 0), Status: "cancelled"},
		{ID: "b-noshow", BarberID: "barber-1", StartTime: at(10, 0), EndTime: at(11, 0), Status: "no_show"},
		{ID: "b-other", BarberID: "barber-2", StartTime: at(10, 0), EndTime: at(11, 0), Status: "confirmed"},
	}).Error)

	overlapping, err := repo.OverlappingBookings(ctx, "barber-1", at(10, 30), at(11, 30))
	require.NoError(t, err)
	require.Len(t, overlapping, 1)
	assert.Equal(t, "b-live", overlapping[0].ID)

	// Half-open interval: a slot starting exactly at the existing end is free.
	overlapping, err = repo.OverlappingBookings(ctx, "barber-1", at(11, 0), at(12, 0))
	require.NoError(t, err)
	assert.Empty(t, overlapping)
}

func TestCreateBookingIfFreeDetectsLateConflict(t *testing.T) {
	db := testDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	first := &models.Booking{BarberID: "barber-1", StartTime: at(10, 0), EndTime: at(11, 0), Status: "pending"}
	require.NoError(t, repo.CreateBookingIfFree(ctx, first))
	assert.NotEmpty(t, first.ID)

	// Same window again loses the conflict recheck.
	second := &models.Booking{BarberID: "barber-1", StartTime: at(10, 30), EndTime: at(11, 30), Status: "pending"}
	err := repo.CreateBookingIfFree(ctx, second)
	require.Error(t, err)
	assert.True(t, httperr.IsBusiness(err, "booking_conflict"))

	var count int64
	db.Model(&models.Booking{}).Count(&count)
	assert.Equal(t, int64(1), count)
}

func TestListBookingsForPeriod(t *testing.T) {
	db := testDB(t)
	repo := NewBookingRepository(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&[]models.Booking{
		{ID: "b-1", BarberID: "barber-1", StartTime: at(9, 0), EndTime: at(10, 0)},
		{ID: "b-2", BarberID: "barber-1", StartTime: at(15, 0), EndTime: at(16, 0)},
		{ID: "b-next-day", BarberID: "barber-1", StartTime: at(9, 0).AddDate(0, 0, 1), EndTime: at(10, 0).AddDate(0, 0, 1)},
	}).Error)

	bookings, err := repo.ListBookingsForPeriod(ctx, "barber-1", at(0, 0), at(0, 0).AddDate(0, 0, 1))
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, "b-1", bookings[0].ID)
	assert.Equal(t, "b-2", bookings[1].ID)
}

// ======================================================
// FEES STORE
// ======================================================

func TestLockBreakdownGuard(t *testing.T) {
	db := testDB(t)
	store := NewFeesStore(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Booking{ID: "b-1", BarberID: "barber-1", Status: "pending"}).Error)

	// First write while unlocked.
	updated, err := store.LockBreakdown(ctx, "b-1", `{"final_price":80}`, 80)
	require.NoError(t, err)
	assert.True(t, updated)

	// Still pending: recomputation is allowed until confirmation.
	updated, err = store.LockBreakdown(ctx, "b-1", `{"final_price":75}`, 75)
	require.NoError(t, err)
	assert.True(t, updated)

	// Confirmed with a breakdown present: the guard rejects the write.
	require.NoError(t, db.Model(&models.Booking{}).Where("id = ?", "b-1").Update("status", "confirmed").Error)
	updated, err = store.LockBreakdown(ctx, "b-1", `{"final_price":1}`, 1)
	require.NoError(t, err)
	assert.False(t, updated)

	var b models.Booking
	require.NoError(t, db.First(&b, "id = ?", "b-1").Error)
	require.NotNil(t, b.FinancialBreakdown)
	assert.Equal(t, `{"final_price":75}`, *b.FinancialBreakdown)
	assert.Equal(t, 75.0, b.PriceAtBooking)
}

// ======================================================
// PROMO STORE
// ======================================================

func TestPromoStoreCounting(t *testing.T) {
	db := testDB(t)
	store := NewPromoStore(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Promotion{Code: "SAVE20", Type: "general", DiscountText: "20% OFF"}).Error)
	require.NoError(t, db.Create(&[]models.Booking{
		{ID: "b-1", ClientID: "u-1", BarberID: "barber-1", DiscountCode: "SAVE20", Status: "confirmed"},
		{ID: "b-2", ClientID: "u-2", BarberID: "barber-1", DiscountCode: "SAVE20", Status: "pending"},
		// Cancelled redemptions still count: the code was spent.
		{ID: "b-3", ClientID: "u-1", BarberID: "barber-1", DiscountCode: "SAVE20", Status: "cancelled"},
		{ID: "b-4", ClientID: "u-1", BarberID: "barber-1", DiscountCode: "OTHER", Status: "confirmed"},
	}).Error)

	p, err := store.PromotionByCode(ctx, "SAVE20")
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "20% OFF", p.DiscountText)

	// Missing code is (nil, nil), not an error.
	p, err = store.PromotionByCode(ctx, "NOPE")
	require.NoError(t, err)
	assert.Nil(t, p)

	total, err := store.CountUses(ctx, "SAVE20")
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)

	byUser, err := store.CountUsesByUser(ctx, "SAVE20", "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(2), byUser)
}

func TestPromoStoreCancelDoesNotFreeRedemption(t *testing.T) {
	db := testDB(t)
	store := NewPromoStore(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Booking{
		ID: "b-1", ClientID: "u-1", BarberID: "barber-1",
		DiscountCode: "ONCE", Status: "cancelled",
	}).Error)

	byUser, err := store.CountUsesByUser(ctx, "ONCE", "u-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), byUser)
}

// ======================================================
// WEBHOOK STORE
// ======================================================

func TestWebhookStoreTransitions(t *testing.T) {
	db := testDB(t)
	store := NewWebhookStore(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&models.Booking{ID: "b-1", BarberID: "barber-1", Status: "pending", PaymentStatus: "unpaid"}).Error)

	require.NoError(t, store.MarkBookingPaidConfirmed(ctx, "b-1"))
	b, err := store.GetBooking(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", b.Status)
	assert.Equal(t, "paid", b.PaymentStatus)

	// Replaying the same transition converges to the same row.
	require.NoError(t, store.MarkBookingPaidConfirmed(ctx, "b-1"))
	b, err = store.GetBooking(ctx, "b-1")
	require.NoError(t, err)
	assert.Equal(t, "confirmed", b.Status)

	require.NoError(t, store.MarkBookingRefunded(ctx, "b-1"))
	b, _ = store.GetBooking(ctx, "b-1")
	assert.Equal(t, "refunded", b.PaymentStatus)
}

func TestWebhookStoreLoyaltyAccrual(t *testing.T) {
	db := testDB(t)
	store := NewWebhookStore(db)
	ctx := context.Background()

	// First accrual creates the profile.
	require.NoError(t, store.AccrueLoyaltyPoints(ctx, "u-1", 86, "Order STB-1"))

	var profile models.LoyaltyProfile
	require.NoError(t, db.First(&profile, "user_id = ?", "u-1").Error)
	assert.Equal(t, 86, profile.CurrentPoints)
	assert.Equal(t, 86, profile.LifetimePoints)
	assert.Equal(t, "Bronze", profile.Tier)

	// Subsequent accruals add.
	require.NoError(t, store.AccrueLoyaltyPoints(ctx, "u-1", 10, "Order STB-2"))
	require.NoError(t, db.First(&profile, "user_id = ?", "u-1").Error)
	assert.Equal(t, 96, profile.CurrentPoints)

	var txCount int64
	db.Model(&models.LoyaltyTransaction{}).Where("user_id = ?", "u-1").Count(&txCount)
	assert.Equal(t, int64(2), txCount)
}

func TestWebhookStoreClearCart(t *testing.T) {
	db := testDB(t)
	store := NewWebhookStore(db)
	ctx := context.Background()

	require.NoError(t, db.Create(&[]models.CartItem{
		{UserID: "u-1", ProductName: "Pomade", Quantity: 2, Price: 12},
		{UserID: "u-1", ProductName: "Comb", Quantity: 1, Price: 4},
		{UserID: "u-2", ProductName: "Pomade", Quantity: 1, Price: 12},
	}).Error)

	require.NoError(t, store.ClearCart(ctx, "u-1"))

	var remaining []models.CartItem
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	assert.Equal(t, "u-2", remaining[0].UserID)
}
