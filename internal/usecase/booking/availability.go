package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	domain "github.com/shopthebarber/marketplace-api/internal/domain/booking"
	"github.com/shopthebarber/marketplace-api/internal/timeparse"
)

// ValidateAvailability decides whether a candidate slot is bookable. It
// performs two reads and no writes, so callers may invoke it speculatively.
type ValidateAvailability struct {
	repo domain.Repository
	now  func() time.Time
}

func NewValidateAvailability(repo domain.Repository) *ValidateAvailability {
	return &ValidateAvailability{
		repo: repo,
		now:  time.Now,
	}
}

func (uc *ValidateAvailability) Execute(
	ctx context.Context,
	in domain.AvailabilityInput,
) (domain.AvailabilityResult, error) {

	start := in.StartDatetime
	end := start.Add(time.Duration(in.DurationMinutes) * time.Minute)

	if start.Before(uc.now()) {
		return domain.Errorf("Cannot book in the past"), nil
	}

	shopScoped := in.ContextType == "shop" && in.ShopID != nil

	shifts, err := uc.repo.ShiftsForDay(ctx, in.BarberID, start.Weekday(), in.ShopID, shopScoped)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}

	// No shift defined means closed, never "open all day".
	if len(shifts) == 0 {
		return domain.NotAvailable(
			domain.ReasonNoShifts,
			fmt.Sprintf("Barber has no shifts on %s", start.Weekday()),
		), nil
	}

	startMin := timeparse.MinutesOfDay(start)
	endMin := timeparse.MinutesOfDay(end)

	// Same-day shifts form a union of windows: the slot must fit entirely
	// inside one of them.
	within := false
	windows := make([]string, 0, len(shifts))
	for _, shift := range shifts {
		shiftStart, err := timeparse.ParseWallClock(shift.StartTime)
		if err != nil {
			return domain.AvailabilityResult{}, err
		}
		shiftEnd, err := timeparse.ParseWallClock(shift.EndTime)
		if err != nil {
			return domain.AvailabilityResult{}, err
		}

		windows = append(windows, fmt.Sprintf("%s - %s", shift.StartTime, shift.EndTime))
		if startMin >= shiftStart && endMin <= shiftEnd && endMin >= startMin {
			within = true
		}
	}

	if !within {
		return domain.NotAvailable(
			domain.ReasonOutsideShift,
			fmt.Sprintf("Booking outside shift hours (%s)", strings.Join(windows, ", ")),
		), nil
	}

	conflicts, err := uc.repo.OverlappingBookings(ctx, in.BarberID, start, end)
	if err != nil {
		return domain.AvailabilityResult{}, err
	}
	if len(conflicts) > 0 {
		return domain.NotAvailable(domain.ReasonConflict, "Slot is already taken"), nil
	}

	return domain.Ok(), nil
}
