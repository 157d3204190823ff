package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/shopthebarber/marketplace-api/internal/domain/booking"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
)

// Statuses that do not block a slot.
var nonBlockingStatuses = []string{"cancelled", "no_show"}

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

var _ domain.Repository = (*BookingRepository)(nil)

func (r *BookingRepository) ShiftsForDay(
	ctx context.Context,
	barberID string,
	weekday time.Weekday,
	shopID *string,
	shopScoped bool,
) ([]models.Shift, error) {
	q := r.db.WithContext(ctx).
		Where("barber_id = ? AND weekday = ?", barberID, int(weekday))
	if shopScoped {
		q = q.Where("shop_id = ?", *shopID)
	}

	var shifts []models.Shift
	if err := q.Order("start_time asc").Find(&shifts).Error; err != nil {
		return nil, err
	}
	return shifts, nil
}

func (r *BookingRepository) OverlappingBookings(
	ctx context.Context,
	barberID string,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("barber_id = ? AND status NOT IN ? AND start_time < ? AND end_time > ?",
			barberID, nonBlockingStatuses, end, start).
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// CreateBookingIfFree re-checks the slot under FOR UPDATE so two clients
// racing for the same window cannot both insert.
func (r *BookingRepository) CreateBookingIfFree(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var conflicts []models.Booking
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("barber_id = ? AND status NOT IN ? AND start_time < ? AND end_time > ?",
				b.BarberID, nonBlockingStatuses, b.EndTime, b.StartTime).
			Find(&conflicts).Error
		if err != nil {
			return err
		}
		if len(conflicts) > 0 {
			return httperr.ErrBusinessMsg("booking_conflict", "Slot is already taken")
		}

		return tx.Create(b).Error
	})
}

func (r *BookingRepository) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *BookingRepository) UpdateBooking(ctx context.Context, b *models.Booking) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingRepository) ListBookingsForPeriod(
	ctx context.Context,
	barberID string,
	start time.Time,
	end time.Time,
) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Where("barber_id = ? AND start_time >= ? AND start_time < ?", barberID, start, end).
		Order("start_time asc").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *BookingRepository) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := r.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *BookingRepository) GetBarber(ctx context.Context, id string) (*models.Barber, error) {
	var b models.Barber
	if err := r.db.WithContext(ctx).First(&b, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &b, nil
}
