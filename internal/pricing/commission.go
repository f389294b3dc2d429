package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/models"
)

// DefaultCommissionPct applies to platforms missing from the pricing rules.
var DefaultCommissionPct = decimal.NewFromInt(15)

// CommissionQuote carries the rate and whether it came from the fallback.
type CommissionQuote struct {
	Rate      decimal.Decimal `json:"rate"`
	Defaulted bool            `json:"defaulted"`
}

// ResolveCommission looks platform up by exact key. Stored rates are clamped
// to [0,100].
func ResolveCommission(rules models.PricingRules, platform string, fallbackPct decimal.Decimal) CommissionQuote {
	if rule, ok := rules[platform]; ok {
		return CommissionQuote{Rate: clampPct(rule.Commission)}
	}
	return CommissionQuote{Rate: clampPct(fallbackPct), Defaulted: true}
}

func clampPct(d decimal.Decimal) decimal.Decimal {
	return decimal.Min(hundred, nonNegative(d))
}
