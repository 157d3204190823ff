package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Booking struct {
	ID string `gorm:"primaryKey;size:36" json:"id"`

	ClientID string  `gorm:"size:36;index" json:"client_id"`
	BarberID string  `gorm:"size:36;index" json:"barber_id"`
	ShopID   *string `gorm:"size:36;index" json:"shop_id"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`

	Status        string `gorm:"size:20;default:'pending'" json:"status"`
	PaymentStatus string `gorm:"size:20;default:'unpaid'" json:"payment_status"`

	ServiceName       string  `gorm:"size:100" json:"service_name"`
	DurationAtBooking int     `json:"duration_at_booking"`
	PriceAtBooking    float64 `json:"price_at_booking"`

	// JSON snapshot written once by the fee engine; nil until locked.
	FinancialBreakdown *string `gorm:"type:text" json:"financial_breakdown"`

	DiscountCode string `gorm:"size:50;index" json:"discount_code"`

	Notes       string     `gorm:"size:255" json:"notes"`
	CancelledAt *time.Time `json:"cancelled_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
