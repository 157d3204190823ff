package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Review struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	BookingID  string `gorm:"size:36;uniqueIndex" json:"booking_id"`
	ReviewerID string `gorm:"size:36;index" json:"reviewer_id"`
	TargetID   string `gorm:"size:36;index" json:"target_id"`

	Rating  int    `gorm:"not null" json:"rating"`
	Content string `gorm:"size:1000" json:"content"`

	CreatedAt time.Time `json:"created_at"`
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
