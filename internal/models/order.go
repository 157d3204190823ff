package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Order struct {
	ID     string `gorm:"primaryKey;size:36" json:"id"`
	UserID string `gorm:"size:36;index" json:"user_id"`

	Status        string `gorm:"size:20;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'unpaid'" json:"payment_status"`

	Subtotal       float64 `json:"subtotal"`
	TaxAmount      float64 `json:"tax_amount"`
	ShippingAmount float64 `json:"shipping_amount"`
	Total          float64 `json:"total"`

	StripeCheckoutSessionID string `gorm:"size:128" json:"stripe_checkout_session_id"`

	// Assigned only when payment succeeds.
	OrderNumber         string     `gorm:"size:20" json:"order_number"`
	FulfillmentStatus   string     `gorm:"size:20" json:"fulfillment_status"`
	EstimatedDeliveryAt *time.Time `json:"estimated_delivery_at"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o *Order) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

type OrderItem struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	OrderID string `gorm:"size:36;index" json:"order_id"`

	ProductName string  `gorm:"size:100" json:"product_name"`
	Quantity    int     `json:"quantity"`
	Price       float64 `json:"price"`

	CreatedAt time.Time `json:"created_at"`
}
