package fees

import (
	"math"
	"time"
)

const (
	// Shop-affiliated providers pay a higher take rate than independents.
	ShopFeeRate        = 0.20
	IndependentFeeRate = 0.15

	calculatedBy = "marketplace-backend"
)

// Breakdown is the write-once financial snapshot persisted onto a booking.
// The rate snapshot is stored explicitly so later rate changes never
// retroactively alter historical bookings.
type Breakdown struct {
	BasePrice              float64   `json:"base_price"`
	DiscountAmount         float64   `json:"discount_amount"`
	FinalPrice             float64   `json:"final_price"`
	PlatformFee            float64   `json:"platform_fee"`
	CommissionRateSnapshot float64   `json:"commission_rate_snapshot"`
	TaxAmount              float64   `json:"tax_amount"`
	ProviderPayout         float64   `json:"provider_payout"`
	Currency               string    `json:"currency"`
	CalculatedAt           time.Time `json:"calculated_at"`
	CalculatedBy           string    `json:"calculated_by"`
}

func FeeRate(contextType string) float64 {
	if contextType == "shop" {
		return ShopFeeRate
	}
	return IndependentFeeRate
}

// Compute derives the breakdown from the booking's pricing inputs. Pure.
func Compute(basePrice, discountAmount, taxAmount float64, contextType string, now time.Time) Breakdown {
	rate := FeeRate(contextType)

	finalPrice := basePrice - discountAmount
	platformFee := Round2(finalPrice * rate)

	// The floor prevents negative payouts from pathological discount/tax
	// combinations.
	providerPayout := math.Max(0, finalPrice-platformFee-taxAmount)

	return Breakdown{
		BasePrice:              Round2(basePrice),
		DiscountAmount:         Round2(discountAmount),
		FinalPrice:             Round2(finalPrice),
		PlatformFee:            platformFee,
		CommissionRateSnapshot: rate,
		TaxAmount:              Round2(taxAmount),
		ProviderPayout:         Round2(providerPayout),
		Currency:               "USD",
		CalculatedAt:           now.UTC(),
		CalculatedBy:           calculatedBy,
	}
}

func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
