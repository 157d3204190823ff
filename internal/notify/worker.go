package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// Worker drains the email queue. Runs in the API process alongside the HTTP
// server; Start returns immediately and Stop drains in-flight tasks.
type Worker struct {
	srv    *asynq.Server
	mailer Mailer
	log    *zap.Logger
}

func NewWorker(redisAddr, redisPassword string, redisDB int, mailer Mailer, log *zap.Logger) *Worker {
	srv := asynq.NewServer(
		asynq.RedisClientOpt{Addr: redisAddr, Password: redisPassword, DB: redisDB},
		asynq.Config{Concurrency: 5},
	)
	return &Worker{srv: srv, mailer: mailer, log: log}
}

func (w *Worker) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TypeBookingConfirmation, w.handleBookingConfirmation)
	mux.HandleFunc(TypeOrderConfirmation, w.handleOrderConfirmation)
	mux.HandleFunc(TypePaymentReceipt, w.handlePaymentReceipt)
	return w.srv.Start(mux)
}

func (w *Worker) Stop() {
	w.srv.Shutdown()
}

func (w *Worker) handleBookingConfirmation(ctx context.Context, t *asynq.Task) error {
	var p BookingConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("booking confirmation payload: %w", err)
	}

	html := fmt.Sprintf(
		`<h2>Booking confirmed</h2>
<p>Hi %s,</p>
<p>Your appointment with <strong>%s</strong> is booked.</p>
<ul>
  <li>Service: %s</li>
  <li>Date: %s</li>
  <li>Time: %s</li>
  <li>Price: %s</li>
</ul>`,
		p.ClientName, p.BarberName, p.ServiceName, p.Date, p.Time, p.Price,
	)

	if err := w.mailer.Send(p.To, "Your booking is confirmed", html); err != nil {
		w.log.Warn("booking confirmation email failed",
			zap.String("to", p.To),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (w *Worker) handleOrderConfirmation(ctx context.Context, t *asynq.Task) error {
	var p OrderConfirmationPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("order confirmation payload: %w", err)
	}

	html := fmt.Sprintf(
		`<h2>Order %s confirmed</h2>
<p>Hi %s,</p>
<p>We received your payment of %s.</p>
<p>Estimated delivery: %s</p>`,
		p.OrderNumber, p.ClientName, p.Total, p.EstimatedDelivery,
	)

	if err := w.mailer.Send(p.To, fmt.Sprintf("Order %s confirmed", p.OrderNumber), html); err != nil {
		w.log.Warn("order confirmation email failed",
			zap.String("to", p.To),
			zap.Error(err),
		)
		return err
	}
	return nil
}

func (w *Worker) handlePaymentReceipt(ctx context.Context, t *asynq.Task) error {
	var p PaymentReceiptPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("payment receipt payload: %w", err)
	}

	html := fmt.Sprintf(
		`<h2>Payment received</h2>
<p>We received %s for booking %s. Your appointment is confirmed.</p>`,
		p.Amount, p.BookingID,
	)

	if err := w.mailer.Send(p.To, "Payment received", html); err != nil {
		w.log.Warn("payment receipt email failed",
			zap.String("to", p.To),
			zap.Error(err),
		)
		return err
	}
	return nil
}
