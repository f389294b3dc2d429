package pricing

import (
	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/models"
)

// Inputs are the rule tables and settings shared by every item quoted for
// one promotion.
type Inputs struct {
	PricingRules          models.PricingRules
	LogisticsRules        []models.LogisticsRule
	VATRate               decimal.Decimal
	Platform              string
	FallbackCommissionPct decimal.Decimal
	Zone                  Zone
}

// Builder prices products into promotion items.
type Builder struct {
	in Inputs
}

// NewBuilder normalizes in: a non-positive VAT rate or fallback commission
// takes the package default and an empty zone means ZoneStandard.
func NewBuilder(in Inputs) *Builder {
	in.VATRate = vatOrDefault(in.VATRate)
	if !in.FallbackCommissionPct.IsPositive() {
		in.FallbackCommissionPct = DefaultCommissionPct
	}
	if in.Zone == "" {
		in.Zone = ZoneStandard
	}
	return &Builder{in: in}
}

// ItemQuote is a priced item with the detail that produced it.
type ItemQuote struct {
	Item          models.PromotionItem   `json:"item"`
	Name          string                 `json:"name"`
	BaseSource    PriceSource            `json:"baseSource"`
	TargetPrice   decimal.Decimal        `json:"targetPrice"`
	Overridden    bool                   `json:"overridden"`
	Commission    CommissionQuote        `json:"commission"`
	Postage       PostageQuote           `json:"postage"`
	Margin        models.MarginBreakdown `json:"margin"`
	RemotePostage PostageQuote           `json:"remotePostage"`
	RemoteMargin  models.MarginBreakdown `json:"remoteMargin"`
}

// Build prices p under rule. A manual override for p's SKU replaces the
// rounded price but the discount rule is still recorded on the item.
func (b *Builder) Build(p models.Product, rule models.DiscountRule, overrides Overrides) ItemQuote {
	base := ResolveBasePrice(p, b.in.Platform, b.in.VATRate)
	target := ApplyRule(base.Gross, rule)
	promo := RoundToPsychological(target)

	override, overridden := overrides.Lookup(p.SKU)
	if overridden {
		promo = override
	}

	commission := ResolveCommission(b.in.PricingRules, b.in.Platform, b.in.FallbackCommissionPct)
	costs := CostInputsOf(p)
	weight := p.CartonDimensions.Weight

	postage := ResolvePostage(b.in.LogisticsRules, weight, b.in.Zone, p.Postage)
	remote := ResolvePostage(b.in.LogisticsRules, weight, ZoneRemote, p.Postage)

	return ItemQuote{
		Item: models.PromotionItem{
			SKU:           p.SKU,
			BasePrice:     base.Gross,
			PromoPrice:    promo,
			DiscountType:  rule.Type,
			DiscountValue: rule.Value,
		},
		Name:          p.Name,
		BaseSource:    base.Source,
		TargetPrice:   target,
		Overridden:    overridden,
		Commission:    commission,
		Postage:       postage,
		Margin:        ComputeMargin(promo, costs, commission.Rate, postage.Price, b.in.VATRate),
		RemotePostage: remote,
		RemoteMargin:  ComputeMargin(promo, costs, commission.Rate, remote.Price, b.in.VATRate),
	}
}

// BuildAll prices every product in order.
func (b *Builder) BuildAll(products []models.Product, rule models.DiscountRule, overrides Overrides) []ItemQuote {
	out := make([]ItemQuote, 0, len(products))
	for _, p := range products {
		out = append(out, b.Build(p, rule, overrides))
	}
	return out
}

// Reprice recomputes the margin detail of an already stored item without
// changing its prices.
func (b *Builder) Reprice(p models.Product, item models.PromotionItem) ItemQuote {
	commission := ResolveCommission(b.in.PricingRules, b.in.Platform, b.in.FallbackCommissionPct)
	costs := CostInputsOf(p)
	weight := p.CartonDimensions.Weight
	postage := ResolvePostage(b.in.LogisticsRules, weight, b.in.Zone, p.Postage)
	remote := ResolvePostage(b.in.LogisticsRules, weight, ZoneRemote, p.Postage)
	return ItemQuote{
		Item:          item,
		Name:          p.Name,
		TargetPrice:   item.PromoPrice,
		Commission:    commission,
		Postage:       postage,
		Margin:        ComputeMargin(item.PromoPrice, costs, commission.Rate, postage.Price, b.in.VATRate),
		RemotePostage: remote,
		RemoteMargin:  ComputeMargin(item.PromoPrice, costs, commission.Rate, remote.Price, b.in.VATRate),
	}
}
