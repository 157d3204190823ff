package promo

import (
	"regexp"
	"strconv"
	"strings"
)

// Promotions store their discount as display text ("20% OFF", "$10 OFF").
// ParseDiscountText converts that text into a tagged spec exactly once;
// nothing downstream touches the raw string.

type DiscountKind string

const (
	DiscountPercent DiscountKind = "percent"
	DiscountFlat    DiscountKind = "flat"
)

type DiscountSpec struct {
	Kind  DiscountKind
	Value float64
}

var (
	percentRe = regexp.MustCompile(`(\d+(?:\.\d{1,2})?)\s*%`)
	dollarRe  = regexp.MustCompile(`\$(\d+(?:\.\d{1,2})?)`)
)

func ParseDiscountText(text string) (DiscountSpec, bool) {
	if strings.Contains(text, "%") {
		if m := percentRe.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return DiscountSpec{Kind: DiscountPercent, Value: v}, true
			}
		}
		return DiscountSpec{}, false
	}

	if strings.Contains(text, "$") {
		if m := dollarRe.FindStringSubmatch(text); m != nil {
			v, err := strconv.ParseFloat(m[1], 64)
			if err == nil {
				return DiscountSpec{Kind: DiscountFlat, Value: v}, true
			}
		}
	}

	return DiscountSpec{}, false
}

// AmountFor computes the discount against a base price, clamped so the
// final price can never go negative.
func (d DiscountSpec) AmountFor(basePrice float64) float64 {
	var amount float64
	switch d.Kind {
	case DiscountPercent:
		amount = round2(basePrice * d.Value / 100)
	case DiscountFlat:
		amount = d.Value
	}

	if amount > basePrice {
		amount = basePrice
	}
	return amount
}
