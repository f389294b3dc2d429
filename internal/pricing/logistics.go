package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/models"
)

// Zone partitions the logistics table into standard and remote/rural rates.
type Zone string

const (
	ZoneStandard Zone = "STANDARD"
	ZoneRemote   Zone = "REMOTE"
)

var remoteTokens = []string{"-Z", "-NI", "REMOTE"}

var sentinelTokens = []string{"PICKUP", "PICK UP", "COLLECTION"}

// PostageQuote is the resolved shipping cost. RuleID and Carrier are empty
// when Defaulted is set.
type PostageQuote struct {
	Price     decimal.Decimal `json:"price"`
	RuleID    string          `json:"ruleId,omitempty"`
	Carrier   string          `json:"carrier,omitempty"`
	Defaulted bool            `json:"defaulted"`
}

// ZoneOf classifies a rule by the tokens in its name.
func ZoneOf(rule models.LogisticsRule) Zone {
	name := strings.ToUpper(rule.Name)
	for _, tok := range remoteTokens {
		if strings.Contains(name, tok) {
			return ZoneRemote
		}
	}
	return ZoneStandard
}

// IsEligible reports whether rule can ship a parcel of the given weight.
func IsEligible(rule models.LogisticsRule, weight decimal.Decimal) bool {
	if !rule.Price.IsPositive() || isSentinel(rule) {
		return false
	}
	if rule.MaxWeight == nil {
		return true
	}
	return rule.MaxWeight.GreaterThanOrEqual(nonNegative(weight))
}

func isSentinel(rule models.LogisticsRule) bool {
	for _, field := range []string{rule.ID, rule.Name, rule.Carrier} {
		v := strings.ToUpper(strings.TrimSpace(field))
		if v == "NA" || v == "N/A" {
			return true
		}
		for _, tok := range sentinelTokens {
			if strings.Contains(v, tok) {
				return true
			}
		}
	}
	return false
}

// ResolvePostage returns the cheapest eligible rule in zone, or fallback when
// none qualifies. Ties keep the earliest rule in the table.
func ResolvePostage(rules []models.LogisticsRule, weight decimal.Decimal, zone Zone, fallback decimal.Decimal) PostageQuote {
	var best *models.LogisticsRule
	for i := range rules {
		r := &rules[i]
		if ZoneOf(*r) != zone || !IsEligible(*r, weight) {
			continue
		}
		if best == nil || r.Price.LessThan(best.Price) {
			best = r
		}
	}
	if best == nil {
		return PostageQuote{Price: nonNegative(fallback), Defaulted: true}
	}
	return PostageQuote{Price: best.Price, RuleID: best.ID, Carrier: best.Carrier}
}
