package webhook

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	stripewebhook "github.com/stripe/stripe-go/v76/webhook"
	"go.uber.org/zap"

	"github.com/shopthebarber/marketplace-api/internal/audit"
	"github.com/shopthebarber/marketplace-api/internal/notify"
)

// ErrUnauthorized rejects the delivery before any event dispatch. The
// endpoint maps it to 401 so the processor knows the signature failed.
var ErrUnauthorized = errors.New("webhook: invalid or missing signature")

type Result struct {
	Received  bool   `json:"received"`
	EventType string `json:"event_type"`
	EventID   string `json:"event_id"`
	Processed bool   `json:"processed"`
	Reason    string `json:"reason,omitempty"`
}

// Dedupe claims event ids so a redelivered event becomes a no-op.
type Dedupe interface {
	Claim(ctx context.Context, eventID string) bool
	Release(ctx context.Context, eventID string)
}

// Notifier enqueues the outbound emails triggered by payment events.
type Notifier interface {
	EnqueueOrderConfirmation(p notify.OrderConfirmationPayload) error
	EnqueuePaymentReceipt(p notify.PaymentReceiptPayload) error
}

type Reconciler struct {
	secret   string
	store    Store
	dedupe   Dedupe
	audit    *audit.Dispatcher
	notifier Notifier
	log      *zap.Logger
	now      func() time.Time
}

func NewReconciler(
	secret string,
	store Store,
	dedupe Dedupe,
	auditor *audit.Dispatcher,
	notifier Notifier,
	log *zap.Logger,
) *Reconciler {
	return &Reconciler{
		secret:   secret,
		store:    store,
		dedupe:   dedupe,
		audit:    auditor,
		notifier: notifier,
		log:      log,
		now:      time.Now,
	}
}

// HandleWebhook verifies the signature over the exact bytes received, claims
// the event id, and applies exactly one state transition per event type.
func (r *Reconciler) HandleWebhook(ctx context.Context, rawBody []byte, signature string) (*Result, error) {
	if signature == "" || r.secret == "" {
		return nil, ErrUnauthorized
	}

	event, err := stripewebhook.ConstructEvent(rawBody, signature, r.secret)
	if err != nil {
		r.log.Warn("webhook signature verification failed", zap.Error(err))
		return nil, ErrUnauthorized
	}

	res := &Result{
		Received:  true,
		EventType: string(event.Type),
		EventID:   event.ID,
	}

	if !r.dedupe.Claim(ctx, event.ID) {
		res.Reason = "duplicate_event"
		return res, nil
	}

	processed, reason, err := r.dispatch(ctx, event)
	if err != nil {
		// Let the processor retry the delivery.
		r.dedupe.Release(ctx, event.ID)
		return nil, err
	}

	res.Processed = processed
	res.Reason = reason
	return res, nil
}

func (r *Reconciler) dispatch(ctx context.Context, event stripe.Event) (bool, string, error) {
	switch event.Type {
	case "charge.succeeded":
		return r.handleChargeSucceeded(ctx, event)
	case "charge.failed":
		return r.handleChargeFailed(ctx, event)
	case "charge.refunded":
		return r.handleChargeRefunded(ctx, event)
	case "checkout.session.completed":
		return r.handleCheckoutCompleted(ctx, event)
	case "payout.paid":
		return r.handlePayoutPaid(ctx, event)
	case "payout.failed":
		return r.handlePayoutFailed(ctx, event)
	default:
		return false, "unhandled_event_type", nil
	}
}

// ---------------------------------------------------------------
// Charges
// ---------------------------------------------------------------

func (r *Reconciler) handleChargeSucceeded(ctx context.Context, event stripe.Event) (bool, string, error) {
	var ch stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
		return false, "malformed_payload", nil
	}
	bookingID := ch.Metadata["booking_id"]
	if bookingID == "" {
		return false, "no_booking_id", nil
	}

	if err := r.store.MarkBookingPaidConfirmed(ctx, bookingID); err != nil {
		return false, "", err
	}

	r.audit.Dispatch(audit.Event{
		Action:       "BOOKING_CONFIRMED",
		ResourceType: "Booking",
		ResourceID:   bookingID,
		Details:      map[string]any{"event_id": event.ID, "charge_id": ch.ID},
	})

	r.sendPaymentReceipt(ctx, bookingID, float64(ch.Amount)/100)
	return true, "", nil
}

func (r *Reconciler) handleChargeFailed(ctx context.Context, event stripe.Event) (bool, string, error) {
	var ch stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
		return false, "malformed_payload", nil
	}
	bookingID := ch.Metadata["booking_id"]
	if bookingID == "" {
		return false, "no_booking_id", nil
	}

	if err := r.store.MarkBookingFailedCancelled(ctx, bookingID); err != nil {
		return false, "", err
	}

	r.audit.Dispatch(audit.Event{
		Action:       "BOOKING_CANCELLED",
		ResourceType: "Booking",
		ResourceID:   bookingID,
		Details:      map[string]any{"event_id": event.ID, "failure_message": ch.FailureMessage},
	})
	return true, "", nil
}

func (r *Reconciler) handleChargeRefunded(ctx context.Context, event stripe.Event) (bool, string, error) {
	var ch stripe.Charge
	if err := json.Unmarshal(event.Data.Raw, &ch); err != nil {
		return false, "malformed_payload", nil
	}
	bookingID := ch.Metadata["booking_id"]
	if bookingID == "" {
		return false, "no_booking_id", nil
	}

	if err := r.store.MarkBookingRefunded(ctx, bookingID); err != nil {
		return false, "", err
	}

	r.audit.Dispatch(audit.Event{
		Action:       "REFUND_PROCESSED",
		ResourceType: "Booking",
		ResourceID:   bookingID,
		Details:      map[string]any{"event_id": event.ID, "amount_refunded": float64(ch.AmountRefunded) / 100},
	})
	return true, "", nil
}

// ---------------------------------------------------------------
// Checkout sessions
// ---------------------------------------------------------------

func (r *Reconciler) handleCheckoutCompleted(ctx context.Context, event stripe.Event) (bool, string, error) {
	var cs stripe.CheckoutSession
	if err := json.Unmarshal(event.Data.Raw, &cs); err != nil {
		return false, "malformed_payload", nil
	}

	if cs.Metadata["type"] == "product" {
		return r.completeProductOrder(ctx, event, cs)
	}
	return r.completeBookingSession(ctx, event, cs)
}

func (r *Reconciler) completeProductOrder(ctx context.Context, event stripe.Event, cs stripe.CheckoutSession) (bool, string, error) {
	orderID := cs.Metadata["order_id"]
	if orderID == "" {
		return false, "no_order_id", nil
	}

	order, err := r.store.GetOrder(ctx, orderID)
	if err != nil {
		return false, "", err
	}

	orderNumber := orderNumberFor(orderID)
	estimatedDelivery := r.now().AddDate(0, 0, 3)

	if err := r.store.FinalizeOrder(ctx, orderID, orderNumber, estimatedDelivery); err != nil {
		return false, "", err
	}

	if err := r.store.ClearCart(ctx, order.UserID); err != nil {
		r.log.Warn("cart clear failed after order payment",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}

	points := loyaltyPointsFor(order.Total)
	if err := r.store.AccrueLoyaltyPoints(ctx, order.UserID, points,
		fmt.Sprintf("Order %s", orderNumber)); err != nil {
		r.log.Warn("loyalty accrual failed after order payment",
			zap.String("order_id", orderID),
			zap.Error(err),
		)
	}

	r.audit.Dispatch(audit.Event{
		Action:       "ORDER_PAID",
		ResourceType: "Order",
		ResourceID:   orderID,
		ActorID:      order.UserID,
		Details: map[string]any{
			"event_id":     event.ID,
			"order_number": orderNumber,
			"total":        order.Total,
			"points":       points,
		},
	})

	r.sendOrderConfirmation(ctx, order.UserID, orderNumber, order.Total, estimatedDelivery)
	return true, "", nil
}

func (r *Reconciler) completeBookingSession(ctx context.Context, event stripe.Event, cs stripe.CheckoutSession) (bool, string, error) {
	bookingID := cs.Metadata["booking_id"]
	if bookingID == "" {
		return false, "no_booking_id", nil
	}

	if err := r.store.MarkBookingPaidConfirmed(ctx, bookingID); err != nil {
		return false, "", err
	}

	r.audit.Dispatch(audit.Event{
		Action:       "BOOKING_PAID",
		ResourceType: "Booking",
		ResourceID:   bookingID,
		Details:      map[string]any{"event_id": event.ID, "session_id": cs.ID},
	})

	r.sendPaymentReceipt(ctx, bookingID, float64(cs.AmountTotal)/100)
	return true, "", nil
}

// ---------------------------------------------------------------
// Payouts
// ---------------------------------------------------------------

func (r *Reconciler) handlePayoutPaid(ctx context.Context, event stripe.Event) (bool, string, error) {
	var po stripe.Payout
	if err := json.Unmarshal(event.Data.Raw, &po); err != nil {
		return false, "malformed_payload", nil
	}
	payoutID := po.Metadata["payout_id"]
	if payoutID == "" {
		return false, "no_payout_id", nil
	}

	if err := r.store.MarkPayoutPaid(ctx, payoutID, po.ID, r.now()); err != nil {
		return false, "", err
	}

	r.audit.Dispatch(audit.Event{
		Action:       "PAYOUT_ISSUED",
		ResourceType: "Payout",
		ResourceID:   payoutID,
		Details:      map[string]any{"event_id": event.ID, "stripe_payout_id": po.ID},
	})
	return true, "", nil
}

func (r *Reconciler) handlePayoutFailed(ctx context.Context, event stripe.Event) (bool, string, error) {
	var po stripe.Payout
	if err := json.Unmarshal(event.Data.Raw, &po); err != nil {
		return false, "malformed_payload", nil
	}
	payoutID := po.Metadata["payout_id"]
	if payoutID == "" {
		return false, "no_payout_id", nil
	}

	reason := string(po.FailureCode)
	if po.FailureMessage != "" {
		reason = po.FailureMessage
	}

	if err := r.store.MarkPayoutFailed(ctx, payoutID, reason); err != nil {
		return false, "", err
	}

	r.audit.Dispatch(audit.Event{
		Action:       "PAYOUT_FAILED",
		ResourceType: "Payout",
		ResourceID:   payoutID,
		Details:      map[string]any{"event_id": event.ID, "failure_reason": reason},
	})
	return true, "", nil
}

// ---------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------

func orderNumberFor(orderID string) string {
	suffix := orderID
	if len(suffix) > 8 {
		suffix = suffix[len(suffix)-8:]
	}
	return "STB-" + strings.ToUpper(suffix)
}

func loyaltyPointsFor(total float64) int {
	points := int(math.Floor(total))
	if points < 10 {
		points = 10
	}
	return points
}

func (r *Reconciler) sendPaymentReceipt(ctx context.Context, bookingID string, amount float64) {
	booking, err := r.store.GetBooking(ctx, bookingID)
	if err != nil {
		r.log.Warn("skipping payment receipt, booking lookup failed",
			zap.String("booking_id", bookingID), zap.Error(err))
		return
	}
	client, err := r.store.GetUser(ctx, booking.ClientID)
	if err != nil || client.Email == "" {
		return
	}

	if err := r.notifier.EnqueuePaymentReceipt(notify.PaymentReceiptPayload{
		To:        client.Email,
		BookingID: bookingID,
		Amount:    fmt.Sprintf("%.2f EUR", amount),
	}); err != nil {
		r.log.Warn("failed to enqueue payment receipt",
			zap.String("booking_id", bookingID), zap.Error(err))
	}
}

func (r *Reconciler) sendOrderConfirmation(ctx context.Context, userID, orderNumber string, total float64, delivery time.Time) {
	user, err := r.store.GetUser(ctx, userID)
	if err != nil || user.Email == "" {
		return
	}

	if err := r.notifier.EnqueueOrderConfirmation(notify.OrderConfirmationPayload{
		To:                user.Email,
		ClientName:        user.FullName,
		OrderNumber:       orderNumber,
		Total:             fmt.Sprintf("%.2f EUR", total),
		EstimatedDelivery: delivery.Format("January 2, 2006"),
	}); err != nil {
		r.log.Warn("failed to enqueue order confirmation",
			zap.String("order_number", orderNumber), zap.Error(err))
	}
}
