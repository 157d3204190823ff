package booking

import (
	"context"
	"time"

	"github.com/shopthebarber/marketplace-api/internal/models"
)

type Repository interface {
	// -------- Shifts (read-only to the booking core) --------
	ShiftsForDay(
		ctx context.Context,
		barberID string,
		weekday time.Weekday,
		shopID *string,
		shopScoped bool,
	) ([]models.Shift, error)

	// -------- Booking (availability) --------
	OverlappingBookings(
		ctx context.Context,
		barberID string,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Booking (create / state change) --------

	// CreateBookingIfFree inserts the booking inside a transaction that
	// re-checks conflicts under a row lock. A lost race surfaces as a
	// booking_conflict business error.
	CreateBookingIfFree(ctx context.Context, b *models.Booking) error

	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	UpdateBooking(ctx context.Context, b *models.Booking) error

	ListBookingsForPeriod(
		ctx context.Context,
		barberID string,
		start time.Time,
		end time.Time,
	) ([]models.Booking, error)

	// -------- Display info for notifications --------
	GetUser(ctx context.Context, id string) (*models.User, error)
	GetBarber(ctx context.Context, id string) (*models.Barber, error)
}
