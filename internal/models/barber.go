package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Barber struct {
	ID     string  `gorm:"primaryKey;size:36" json:"id"`
	UserID string  `gorm:"size:36;index" json:"user_id"`
	ShopID *string `gorm:"size:36;index" json:"shop_id"`

	Name string `gorm:"size:100;not null" json:"name"`
	Bio  string `gorm:"size:500" json:"bio"`

	Rating      float64 `gorm:"default:0" json:"rating"`
	ReviewCount int     `gorm:"default:0" json:"review_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Barber) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
