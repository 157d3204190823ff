package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Shift is a recurring weekly availability window. StartTime/EndTime are
// wall-clock "15:04" strings, invariant StartTime < EndTime.
type Shift struct {
	ID       string  `gorm:"primaryKey;size:36" json:"id"`
	BarberID string  `gorm:"size:36;index:idx_shifts_barber_day" json:"barber_id"`
	ShopID   *string `gorm:"size:36;index" json:"shop_id"`

	Weekday int `gorm:"index:idx_shifts_barber_day" json:"weekday"`

	StartTime string `gorm:"size:5;not null" json:"start_time"`
	EndTime   string `gorm:"size:5;not null" json:"end_time"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (s *Shift) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
