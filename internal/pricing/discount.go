package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/models"
)

// ApplyRule reduces base by rule without rounding. Negative inputs are
// treated as zero and the result is never negative. An unknown rule type
// leaves the base untouched.
func ApplyRule(base decimal.Decimal, rule models.DiscountRule) decimal.Decimal {
	base = nonNegative(base)
	value := nonNegative(rule.Value)

	switch rule.Type {
	case models.DiscountPercentage:
		if value.GreaterThan(hundred) {
			return zero
		}
		return base.Mul(hundred.Sub(value)).Div(hundred)
	case models.DiscountFixed:
		return decimal.Max(zero, base.Sub(value))
	default:
		return base
	}
}

// ImpliedRule describes a promo price that was entered by hand. prior is
// kept when it still produces promo from base; otherwise the result is a
// FIXED discount of base - promo, floored at zero.
func ImpliedRule(base, promo decimal.Decimal, prior *models.DiscountRule) models.DiscountRule {
	if prior != nil && prior.Type != "" && RoundToPsychological(ApplyRule(base, *prior)).Equal(promo) {
		return *prior
	}
	return models.DiscountRule{
		Type:  models.DiscountFixed,
		Value: decimal.Max(zero, nonNegative(base).Sub(promo)).Round(2),
	}
}
