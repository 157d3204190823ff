package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
	"github.com/shopthebarber/marketplace-api/internal/webhook"
)

// WebhookStore backs the payment event reconciler. Every mutation sets
// fields to fixed values so a replayed event converges to the same row.
type WebhookStore struct {
	db *gorm.DB
}

func NewWebhookStore(db *gorm.DB) *WebhookStore {
	return &WebhookStore{db: db}
}

var _ webhook.Store = (*WebhookStore)(nil)

func (s *WebhookStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
	var b models.Booking
	err := s.db.WithContext(ctx).First(&b, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("booking_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (s *WebhookStore) MarkBookingPaidConfirmed(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{"payment_status": "paid", "status": "confirmed"}).
		Error
}

func (s *WebhookStore) MarkBookingFailedCancelled(ctx context.Context, id string) error {
	now := time.Now()
	return s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status": "unpaid",
			"status":         "cancelled",
			"cancelled_at":   &now,
		}).
		Error
}

func (s *WebhookStore) MarkBookingRefunded(ctx context.Context, id string) error {
	return s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("payment_status", "refunded").
		Error
}

func (s *WebhookStore) GetOrder(ctx context.Context, id string) (*models.Order, error) {
	var o models.Order
	err := s.db.WithContext(ctx).Preload("Items").First(&o, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, httperr.ErrBusiness("order_not_found")
	}
	if err != nil {
		return nil, err
	}
	return &o, nil
}

func (s *WebhookStore) FinalizeOrder(ctx context.Context, id, orderNumber string, estimatedDelivery time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"payment_status":        "paid",
			"status":                "paid",
			"order_number":          orderNumber,
			"fulfillment_status":    "confirmed",
			"estimated_delivery_at": &estimatedDelivery,
		}).
		Error
}

func (s *WebhookStore) ClearCart(ctx context.Context, userID string) error {
	return s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&models.CartItem{}).
		Error
}

// AccrueLoyaltyPoints upserts the profile and appends a transaction row in
// one transaction.
func (s *WebhookStore) AccrueLoyaltyPoints(ctx context.Context, userID string, points int, description string) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var profile models.LoyaltyProfile
		err := tx.Where("user_id = ?", userID).First(&profile).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			profile = models.LoyaltyProfile{UserID: userID}
			if err := tx.Create(&profile).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		err = tx.Model(&models.LoyaltyProfile{}).
			Where("user_id = ?", userID).
			Updates(map[string]any{
				"current_points":  gorm.Expr("current_points + ?", points),
				"lifetime_points": gorm.Expr("lifetime_points + ?", points),
			}).
			Error
		if err != nil {
			return err
		}

		return tx.Create(&models.LoyaltyTransaction{
			UserID:      userID,
			Points:      points,
			Description: description,
		}).Error
	})
}

func (s *WebhookStore) MarkPayoutPaid(ctx context.Context, id, stripePayoutID string, paidAt time.Time) error {
	return s.db.WithContext(ctx).
		Model(&models.Payout{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":           "paid",
			"stripe_payout_id": stripePayoutID,
			"paid_date":        &paidAt,
		}).
		Error
}

func (s *WebhookStore) MarkPayoutFailed(ctx context.Context, id, reason string) error {
	return s.db.WithContext(ctx).
		Model(&models.Payout{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"status":         "failed",
			"failure_reason": reason,
		}).
		Error
}

func (s *WebhookStore) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
