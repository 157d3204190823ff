package booking

import (
	"context"
	"time"

	"github.com/shopthebarber/marketplace-api/internal/audit"
	domain "github.com/shopthebarber/marketplace-api/internal/domain/booking"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
)

type CancelBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCancelBooking(repo domain.Repository, auditor *audit.Dispatcher) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		audit: auditor,
		now:   time.Now,
	}
}

func (uc *CancelBooking) Execute(
	ctx context.Context,
	bookingID string,
	actorID string,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.CanCancel(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	now := uc.now()
	b.Status = string(domain.StatusCancelled)
	b.CancelledAt = &now

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:       "BOOKING_CANCELLED",
		ResourceType: "Booking",
		ResourceID:   b.ID,
		ActorID:      actorID,
		Details:      map[string]any{"cancelled_at": now},
	})

	return b, nil
}
