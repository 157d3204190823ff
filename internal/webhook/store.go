package webhook

import (
	"context"
	"time"

	"github.com/shopthebarber/marketplace-api/internal/models"
)

// Store is the persistence surface the reconciler mutates. Every method is
// a single idempotent state transition; replaying one is harmless.
type Store interface {
	GetBooking(ctx context.Context, id string) (*models.Booking, error)
	MarkBookingPaidConfirmed(ctx context.Context, id string) error
	MarkBookingFailedCancelled(ctx context.Context, id string) error
	MarkBookingRefunded(ctx context.Context, id string) error

	GetOrder(ctx context.Context, id string) (*models.Order, error)
	FinalizeOrder(ctx context.Context, id, orderNumber string, estimatedDelivery time.Time) error
	ClearCart(ctx context.Context, userID string) error
	AccrueLoyaltyPoints(ctx context.Context, userID string, points int, description string) error

	MarkPayoutPaid(ctx context.Context, id, stripePayoutID string, paidAt time.Time) error
	MarkPayoutFailed(ctx context.Context, id, reason string) error

	GetUser(ctx context.Context, id string) (*models.User, error)
}
