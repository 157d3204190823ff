package booking

import (
	"context"
	"time"

	"github.com/shopthebarber/marketplace-api/internal/audit"
	domain "github.com/shopthebarber/marketplace-api/internal/domain/booking"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
)

type CompleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewCompleteBooking(repo domain.Repository, auditor *audit.Dispatcher) *CompleteBooking {
	return &CompleteBooking{
		repo:  repo,
		audit: auditor,
		now:   time.Now,
	}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	bookingID string,
	actorID string,
) (*models.Booking, error) {

	b, err := uc.repo.GetBooking(ctx, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness("booking_not_found")
	}

	if err := domain.CanComplete(domain.Status(b.Status)); err != nil {
		return nil, err
	}

	now := uc.now()
	b.Status = string(domain.StatusCompleted)
	b.CompletedAt = &now

	if err := uc.repo.UpdateBooking(ctx, b); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		Action:       "BOOKING_COMPLETED",
		ResourceType: "Booking",
		ResourceID:   b.ID,
		ActorID:      actorID,
	})

	return b, nil
}
