package promo

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/shopthebarber/marketplace-api/internal/audit"
	"github.com/shopthebarber/marketplace-api/internal/httperr"
	"github.com/shopthebarber/marketplace-api/internal/models"
)

const (
	MaxGlobalUses = 100
	MaxPerUser    = 1
)

const (
	StatusValid   = "VALID"
	StatusInvalid = "INVALID"
)

const (
	ReasonEmptyCode             = "EMPTY_CODE"
	ReasonCodeNotFound          = "CODE_NOT_FOUND"
	ReasonCodeExpired           = "CODE_EXPIRED"
	ReasonNotApplicable         = "NOT_APPLICABLE"
	ReasonCodeExhausted         = "CODE_EXHAUSTED"
	ReasonAlreadyUsed           = "ALREADY_USED"
	ReasonInvalidDiscountFormat = "INVALID_DISCOUNT_FORMAT"
)

type Store interface {
	PromotionByCode(ctx context.Context, code string) (*models.Promotion, error)

	// Usage is derived by counting bookings whose discount_code matches the
	// normalized code; it is only as accurate as that denormalized field.
	CountUses(ctx context.Context, code string) (int64, error)
	CountUsesByUser(ctx context.Context, code, userID string) (int64, error)
}

type Input struct {
	Code        string
	BarberID    string
	ShopID      *string
	BasePrice   float64
	UserID      string
	ContextType string
}

type Result struct {
	Status  string `json:"status"`
	Reason  string `json:"reason,omitempty"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`

	DiscountAmount float64 `json:"discount_amount,omitempty"`
	FinalPrice     float64 `json:"final_price,omitempty"`
	DiscountText   string  `json:"discount_text,omitempty"`
	PromotionID    string  `json:"promotion_id,omitempty"`
	CanApply       bool    `json:"can_apply,omitempty"`

	ExpiredDate *time.Time `json:"expired_date,omitempty"`
	TimesUsed   int64      `json:"times_used,omitempty"`
}

type Validator struct {
	store Store
	audit *audit.Dispatcher
	now   func() time.Time
}

func NewValidator(store Store, auditor *audit.Dispatcher) *Validator {
	return &Validator{
		store: store,
		audit: auditor,
		now:   time.Now,
	}
}

// Validate runs the eligibility chain, short-circuiting on the first
// failing check. Rejections are result values, not errors; only malformed
// input and store failures surface as errors.
func (v *Validator) Validate(ctx context.Context, in Input) (*Result, error) {
	if strings.TrimSpace(in.Code) == "" {
		return invalid(ReasonEmptyCode, "Promo code is required", ""), nil
	}

	if in.BarberID == "" {
		return nil, httperr.ErrBusiness("barber_id_required")
	}
	if in.BasePrice <= 0 {
		return nil, httperr.ErrBusiness("base_price_must_be_positive")
	}
	if in.UserID == "" {
		return nil, httperr.ErrBusiness("user_id_required")
	}
	if in.ContextType != "shop" && in.ContextType != "independent" {
		return nil, httperr.ErrBusiness("invalid_context_type")
	}

	code := strings.ToUpper(strings.TrimSpace(in.Code))

	p, err := v.store.PromotionByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return invalid(ReasonCodeNotFound, "This promo code does not exist", code), nil
	}

	if p.ExpiryDate != nil && v.now().After(*p.ExpiryDate) {
		r := invalid(
			ReasonCodeExpired,
			fmt.Sprintf("This promo code expired on %s", p.ExpiryDate.Format("January 2, 2006")),
			code,
		)
		r.ExpiredDate = p.ExpiryDate
		return r, nil
	}

	if !eligible(p, in) {
		return invalid(ReasonNotApplicable, "This promo code cannot be used for this service or provider", code), nil
	}

	totalUses, err := v.store.CountUses(ctx, code)
	if err != nil {
		return nil, err
	}
	if totalUses >= MaxGlobalUses {
		return invalid(ReasonCodeExhausted, "This promo code has reached its usage limit", code), nil
	}

	userUses, err := v.store.CountUsesByUser(ctx, code, in.UserID)
	if err != nil {
		return nil, err
	}
	if userUses >= MaxPerUser {
		r := invalid(ReasonAlreadyUsed, "You have already used this promo code", code)
		r.TimesUsed = userUses
		return r, nil
	}

	spec, ok := ParseDiscountText(p.DiscountText)
	if !ok {
		return invalid(ReasonInvalidDiscountFormat, "This promo code has an invalid discount format", code), nil
	}

	discount := spec.AmountFor(in.BasePrice)
	if discount <= 0 {
		return invalid(ReasonInvalidDiscountFormat, "This promo code has an invalid discount format", code), nil
	}

	v.audit.Dispatch(audit.Event{
		Action:       "PROMO_CODE_APPLIED",
		ResourceType: "Promotion",
		ResourceID:   p.ID,
		ActorID:      in.UserID,
		Changes: map[string]any{
			"code":            code,
			"discount_amount": discount,
			"base_price":      in.BasePrice,
		},
		Details: map[string]any{
			"barber_id":      in.BarberID,
			"shop_id":        in.ShopID,
			"promotion_type": p.Type,
			"total_uses":     totalUses + 1,
		},
	})

	return &Result{
		Status:         StatusValid,
		Code:           code,
		DiscountAmount: discount,
		FinalPrice:     round2(in.BasePrice - discount),
		DiscountText:   p.DiscountText,
		PromotionID:    p.ID,
		Message:        fmt.Sprintf("Promo code applied! You save %s", p.DiscountText),
		CanApply:       true,
	}, nil
}

func eligible(p *models.Promotion, in Input) bool {
	switch p.Type {
	case "general", "platform_targeted":
		return true
	case "barber":
		return p.BarberID != nil && *p.BarberID == in.BarberID
	case "shop":
		return p.ShopID != nil && in.ShopID != nil && *p.ShopID == *in.ShopID
	}
	return false
}

func invalid(reason, message, code string) *Result {
	return &Result{
		Status:  StatusInvalid,
		Reason:  reason,
		Message: message,
		Code:    code,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
