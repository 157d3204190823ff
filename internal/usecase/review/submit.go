package review

import (
	"context"

	"gorm.io/gorm"

	"github.com/shopthebarber/marketplace-api/internal/audit"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
)

type SubmitReviewInput struct {
	BookingID  string
	ReviewerID string
	TargetID   string
	Rating     int
	Content    string
}

type SubmitReview struct {
	db    *gorm.DB
	audit *audit.Logger
}

func NewSubmitReview(db *gorm.DB) *SubmitReview {
	return &SubmitReview{
		db:    db,
		audit: audit.New(db),
	}
}

// Execute inserts the review, folds the rating into the target's running
// average and writes the audit row in a single transaction.
func (uc *SubmitReview) Execute(ctx context.Context, in SubmitReviewInput) (*models.Review, error) {
	if in.BookingID == "" || in.ReviewerID == "" || in.TargetID == "" || in.Rating == 0 {
		return nil, httperr.ErrBusiness("missing_required_fields")
	}
	if in.Rating < 1 || in.Rating > 5 {
		return nil, httperr.ErrBusiness("rating_out_of_range")
	}

	var created models.Review

	err := uc.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var b models.Booking
		if err := tx.First(&b, "id = ?", in.BookingID).Error; err != nil {
			return httperr.ErrBusiness("booking_not_found")
		}

		rv := models.Review{
			BookingID:  in.BookingID,
			ReviewerID: in.ReviewerID,
			TargetID:   in.TargetID,
			Rating:     in.Rating,
			Content:    in.Content,
		}
		if err := tx.Create(&rv).Error; err != nil {
			return err
		}

		// Raw SQL so the aggregate stays consistent under concurrent reviews.
		if err := tx.Exec(
			`UPDATE barbers
             SET rating = ROUND(((rating * review_count) + ?) / (review_count + 1), 1),
                 review_count = review_count + 1
             WHERE id = ?`,
			in.Rating, in.TargetID,
		).Error; err != nil {
			return err
		}

		if err := uc.audit.LogTx(
			tx,
			"REVIEW_SUBMITTED",
			"Barber",
			in.TargetID,
			in.ReviewerID,
			nil,
			map[string]any{"review_id": rv.ID, "rating": in.Rating},
		); err != nil {
			return err
		}

		created = rv
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}
