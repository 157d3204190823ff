package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Promotion struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	Code string `gorm:"size:50;uniqueIndex;not null" json:"code"`

	// general | barber | shop | platform_targeted
	Type     string  `gorm:"size:30;default:'general'" json:"type"`
	BarberID *string `gorm:"size:36" json:"barber_id"`
	ShopID   *string `gorm:"size:36" json:"shop_id"`

	DiscountText string     `gorm:"size:50" json:"discount_text"`
	ExpiryDate   *time.Time `json:"expiry_date"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (p *Promotion) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}
