package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payout struct {
	ID         string `gorm:"primaryKey;size:36" json:"id"`
	ProviderID string `gorm:"size:36;index" json:"provider_id"`

	Amount float64 `json:"amount"`
	Status string  `gorm:"size:20;default:'pending'" json:"status"`

	StripePayoutID string     `gorm:"size:64" json:"stripe_payout_id"`
	FailureReason  string     `gorm:"size:255" json:"failure_reason"`
	PaidDate       *time.Time `json:"paid_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Payout) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
