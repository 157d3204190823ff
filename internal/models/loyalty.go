package models

import "time"

type LoyaltyProfile struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:36;uniqueIndex" json:"user_id"`

	CurrentPoints  int    `gorm:"default:0" json:"current_points"`
	LifetimePoints int    `gorm:"default:0" json:"lifetime_points"`
	Tier           string `gorm:"size:20;default:'Bronze'" json:"tier"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type LoyaltyTransaction struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:36;index" json:"user_id"`

	Points      int    `json:"points"`
	Description string `gorm:"size:255" json:"description"`

	CreatedAt time.Time `json:"created_at"`
}
