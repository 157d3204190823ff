package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
	"github.com/shopthebarber/marketplace-api/internal/usecase/fees"
)

type FeesStore struct {
	db *gorm.DB
}

func NewFeesStore(db *gorm.DB) *FeesStore {
	return &FeesStore{db: db}
}

var _ fees.Store = (*FeesStore)(nil)

func (s *FeesStore) GetBooking(ctx context.Context, id string) (*models.Booking, error) {
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

// LockBreakdown is a guarded single-statement update: it writes only while
// the booking is not yet locked, so concurrent calculations cannot both win.
func (s *FeesStore) LockBreakdown(
	ctx context.Context,
	bookingID string,
	breakdownJSON string,
	finalPrice float64,
) (bool, error) {
	res := s.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND (financial_breakdown IS NULL OR status <> ?)", bookingID, "confirmed").
		Updates(map[string]any{
			"financial_breakdown": breakdownJSON,
			"price_at_booking":    finalPrice,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}
