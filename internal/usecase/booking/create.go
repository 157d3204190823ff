package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shopthebarber/marketplace-api/internal/audit"
	domain "github.com/shopthebarber/marketplace-api/internal/domain/booking"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
	"github.com/shopthebarber/marketplace-api/internal/notify"
	"github.com/shopthebarber/marketplace-api/internal/timeparse"
)

// ======================================================
// INPUT
// ======================================================

type CreateBookingInput struct {
	ClientID string
	BarberID string
	ShopID   *string

	DateText string // "July 24th, 2024"
	TimeText string // "3:30 PM"

	DurationAtBooking int // minutes; 0 means the 30-minute default
	ContextType       string

	Status         string // optional, admin paths only
	PriceAtBooking float64
	ServiceName    string
	DiscountCode   string
	Notes          string

	// Pre-computed breakdown supplied by the checkout flow, if any. The fee
	// engine is the only component that computes one.
	FinancialBreakdown map[string]any
}

// Mailer enqueues outbound confirmation email. Delivery is best-effort and
// decoupled from booking persistence.
type Mailer interface {
	EnqueueBookingConfirmation(p notify.BookingConfirmationPayload) error
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	repo     domain.Repository
	validate *ValidateAvailability
	mailer   Mailer
	audit    *audit.Dispatcher
	log      *zap.Logger
	loc      *time.Location
}

func NewCreateBooking(
	repo domain.Repository,
	validate *ValidateAvailability,
	mailer Mailer,
	auditor *audit.Dispatcher,
	log *zap.Logger,
	loc *time.Location,
) *CreateBooking {
	return &CreateBooking{
		repo:     repo,
		validate: validate,
		mailer:   mailer,
		audit:    auditor,
		log:      log,
		loc:      loc,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	start, err := timeparse.ResolveStart(in.DateText, in.TimeText, uc.loc)
	if err != nil {
		return nil, httperr.ErrBusinessMsg("invalid_date_or_time", err.Error())
	}

	duration := in.DurationAtBooking
	if duration <= 0 {
		duration = 30
	}
	end := start.Add(time.Duration(duration) * time.Minute)

	result, err := uc.validate.Execute(ctx, domain.AvailabilityInput{
		BarberID:        in.BarberID,
		ShopID:          in.ShopID,
		StartDatetime:   start,
		DurationMinutes: duration,
		ContextType:     in.ContextType,
	})
	if err != nil {
		return nil, err
	}
	if result.Status != domain.Available {
		return nil, httperr.ErrBusinessMsg("slot_unavailable", result.Message)
	}

	status := in.Status
	if status == "" {
		status = string(domain.StatusPending)
	}
	if !domain.IsValidStatus(status) {
		return nil, httperr.ErrBusiness("invalid_status")
	}

	b := &models.Booking{
		ClientID:          in.ClientID,
		BarberID:          in.BarberID,
		ShopID:            in.ShopID,
		StartTime:         start,
		EndTime:           end,
		Status:            status,
		ServiceName:       in.ServiceName,
		DurationAtBooking: duration,
		PriceAtBooking:    in.PriceAtBooking,
		DiscountCode:      in.DiscountCode,
		Notes:             in.Notes,
	}

	if in.FinancialBreakdown != nil {
		raw, err := json.Marshal(in.FinancialBreakdown)
		if err != nil {
			return nil, httperr.ErrBusiness("invalid_financial_breakdown")
		}
		s := string(raw)
		b.FinancialBreakdown = &s
	}

	if err := uc.repo.CreateBookingIfFree(ctx, b); err != nil {
		return nil, err
	}

	uc.sendConfirmation(ctx, b, in)

	uc.audit.Dispatch(audit.Event{
		Action:       "BOOKING_CREATED",
		ResourceType: "Booking",
		ResourceID:   b.ID,
		ActorID:      in.ClientID,
		Details: map[string]any{
			"barber_id":  in.BarberID,
			"start_time": start,
			"end_time":   end,
		},
	})

	return b, nil
}

// sendConfirmation is fire-and-forget: a missing client, a missing email
// or a full queue never fails the booking.
func (uc *CreateBooking) sendConfirmation(ctx context.Context, b *models.Booking, in CreateBookingInput) {
	client, err := uc.repo.GetUser(ctx, in.ClientID)
	if err != nil || client.Email == "" {
		uc.log.Warn("skipping booking confirmation email",
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
		return
	}

	barberName := "Your Barber"
	if barber, err := uc.repo.GetBarber(ctx, in.BarberID); err == nil {
		barberName = barber.Name
	}

	serviceName := in.ServiceName
	if serviceName == "" {
		serviceName = "Barber Service"
	}

	err = uc.mailer.EnqueueBookingConfirmation(notify.BookingConfirmationPayload{
		To:          client.Email,
		ClientName:  client.FullName,
		BarberName:  barberName,
		Date:        in.DateText,
		Time:        in.TimeText,
		ServiceName: serviceName,
		Price:       fmt.Sprintf("%.2f EUR", in.PriceAtBooking),
	})
	if err != nil {
		uc.log.Warn("failed to enqueue booking confirmation email",
			zap.String("booking_id", b.ID),
			zap.Error(err),
		)
	}
}
