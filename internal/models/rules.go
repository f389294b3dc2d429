package models

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PricingRule is the commission configuration for one sales platform.
type PricingRule struct {
	Platform   string          `db:"platform" json:"platform"`
	Commission decimal.Decimal `db:"commission" json:"commission"`
	Color      *string         `db:"color" json:"color,omitempty"`
}

// PricingRules maps platform name to its rule.
type PricingRules map[string]PricingRule

// NewPricingRules indexes a rule list by platform.
func NewPricingRules(list []PricingRule) PricingRules {
	rules := make(PricingRules, len(list))
	for _, r := range list {
		rules[r.Platform] = r
	}
	return rules
}

// List returns the rules as a slice in no particular order.
func (p PricingRules) List() []PricingRule {
	out := make([]PricingRule, 0, len(p))
	for _, r := range p {
		out = append(out, r)
	}
	return out
}

// LogisticsRule is one row of the carrier rate table. A nil MaxWeight means
// the rule has no weight limit.
type LogisticsRule struct {
	ID        string           `db:"id" json:"id"`
	Name      string           `db:"name" json:"name"`
	Carrier   string           `db:"carrier" json:"carrier"`
	Price     decimal.Decimal  `db:"price" json:"price"`
	MaxWeight *decimal.Decimal `db:"max_weight" json:"maxWeight,omitempty"`
}

func equalFoldTrim(a, b string) bool {
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}
