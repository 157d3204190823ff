package notify

import (
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	TypeBookingConfirmation = "email:booking_confirmation"
	TypeOrderConfirmation   = "email:order_confirmation"
	TypePaymentReceipt      = "email:payment_receipt"
)

type BookingConfirmationPayload struct {
	To          string `json:"to"`
	ClientName  string `json:"client_name"`
	BarberName  string `json:"barber_name"`
	Date        string `json:"date"`
	Time        string `json:"time"`
	ServiceName string `json:"service_name"`
	Price       string `json:"price"`
}

type OrderConfirmationPayload struct {
	To                string `json:"to"`
	ClientName        string `json:"client_name"`
	OrderNumber       string `json:"order_number"`
	Total             string `json:"total"`
	EstimatedDelivery string `json:"estimated_delivery"`
}

type PaymentReceiptPayload struct {
	To        string `json:"to"`
	BookingID string `json:"booking_id"`
	Amount    string `json:"amount"`
}

func NewBookingConfirmationTask(p BookingConfirmationPayload) (*asynq.Task, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeBookingConfirmation, raw, asynq.MaxRetry(3)), nil
}

func NewOrderConfirmationTask(p OrderConfirmationPayload) (*asynq.Task, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeOrderConfirmation, raw, asynq.MaxRetry(3)), nil
}

func NewPaymentReceiptTask(p PaymentReceiptPayload) (*asynq.Task, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypePaymentReceipt, raw, asynq.MaxRetry(3)), nil
}
