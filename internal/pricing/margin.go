package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/models"
)

// DefaultVATRate is the UK standard-rate multiplier.
var DefaultVATRate = decimal.RequireFromString("1.20")

var degenerateMargin = decimal.NewFromInt(-100)

// CostInputs is the fixed per-unit cost stack of a product. Advertising cost
// is deliberately not part of it.
type CostInputs struct {
	CostPrice       decimal.Decimal
	WMSFee          decimal.Decimal
	OtherFee        decimal.Decimal
	SubscriptionFee decimal.Decimal
}

// CostInputsOf extracts the fixed cost stack from a product.
func CostInputsOf(p models.Product) CostInputs {
	return CostInputs{
		CostPrice:       p.CostPrice,
		WMSFee:          p.WMSFee,
		OtherFee:        p.OtherFee,
		SubscriptionFee: p.SubscriptionFee,
	}
}

// Fixed sums the cost stack, ignoring negative components.
func (c CostInputs) Fixed() decimal.Decimal {
	return nonNegative(c.CostPrice).
		Add(nonNegative(c.WMSFee)).
		Add(nonNegative(c.OtherFee)).
		Add(nonNegative(c.SubscriptionFee))
}

// ComputeMargin derives the per-unit profit of selling at promoGross.
// Commission is charged on the gross price; revenue is taken net of VAT.
// When net revenue is not positive MarginPct is -100.
func ComputeMargin(promoGross decimal.Decimal, costs CostInputs, commissionRate, postage, vatRate decimal.Decimal) models.MarginBreakdown {
	gross := nonNegative(promoGross)
	rate := clampPct(commissionRate)
	postage = nonNegative(postage)

	netRevenue := gross.Div(vatOrDefault(vatRate))
	commissionCost := gross.Mul(rate).Div(hundred)
	otherCosts := costs.Fixed()
	netProfit := netRevenue.Sub(commissionCost).Sub(postage).Sub(otherCosts)

	marginPct := degenerateMargin
	if netRevenue.IsPositive() {
		marginPct = netProfit.Div(netRevenue).Mul(hundred)
	}

	return models.MarginBreakdown{
		NetRevenue:      netRevenue,
		CommissionRate:  rate,
		CommissionCost:  commissionCost,
		StandardPostage: postage,
		OtherCosts:      otherCosts,
		NetProfit:       netProfit,
		MarginPct:       marginPct,
	}
}
