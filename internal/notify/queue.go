package notify

import (
	"github.com/hibiken/asynq"
)

// Queue enqueues email tasks onto redis. Handlers hold a Queue; the worker
// process drains it.
type Queue struct {
	client *asynq.Client
}

func NewQueue(redisAddr, redisPassword string, redisDB int) *Queue {
	return &Queue{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     redisAddr,
			Password: redisPassword,
			DB:       redisDB,
		}),
	}
}

func (q *Queue) EnqueueBookingConfirmation(p BookingConfirmationPayload) error {
	task, err := NewBookingConfirmationTask(p)
	if err != nil {
		return err
	}
	_, err = q.client.Enqueue(task)
	return err
}

func (q *Queue) EnqueueOrderConfirmation(p OrderConfirmationPayload) error {
	task, err := NewOrderConfirmationTask(p)
	if err != nil {
		return err
	}
	_, err = q.client.Enqueue(task)
	return err
}

func (q *Queue) EnqueuePaymentReceipt(p PaymentReceiptPayload) error {
	task, err := NewPaymentReceiptTask(p)
	if err != nil {
		return err
	}
	_, err = q.client.Enqueue(task)
	return err
}

func (q *Queue) Close() error {
	return q.client.Close()
}
