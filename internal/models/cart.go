package models

import "time"

type CartItem struct {
	ID     uint   `gorm:"primaryKey" json:"id"`
	UserID string `gorm:"size:36;index" json:"user_id"`

	ProductName string  `gorm:"size:100" json:"product_name"`
	Quantity    int     `gorm:"default:1" json:"quantity"`
	Price       float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
