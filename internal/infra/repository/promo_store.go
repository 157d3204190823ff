package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shopthebarber/marketplace-api/internal/models"
	"github.com/shopthebarber/marketplace-api/internal/usecase/promo"
)

type PromoStore struct {
	db *gorm.DB
}

func NewPromoStore(db *gorm.DB) *PromoStore {
	return &PromoStore{db: db}
}

var _ promo.Store = (*PromoStore)(nil)

func (s *PromoStore) PromotionByCode(ctx context.Context, code string) (*models.Promotion, error) {
	var p models.Promotion
	err := s.db.WithContext(ctx).First(&p, "code = ?", code).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Usage counts include every booking that redeemed the code, whatever its
// status. Cancelling a booking does not hand the redemption back.
func (s *PromoStore) CountUses(ctx context.Context, code string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("discount_code = ?", code).
		Count(&n).Error
	return n, err
}

func (s *PromoStore) CountUsesByUser(ctx context.Context, code, userID string) (int64, error) {
	var n int64
	err := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("discount_code = ? AND client_id = ?", code, userID).
		Count(&n).Error
	return n, err
}
