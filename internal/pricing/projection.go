package pricing

import (
	"context"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"github.com/GTDGit/promo_api/internal/models"
)

// Projection is the velocity-weighted daily profit of a campaign at baseline
// and promotional prices.
//
// BreakevenLiftPct is 0 whenever DailyProfitPromo is not positive; in that
// case BreakevenReachable is false because no increase in unit sales
// recovers baseline profit.
type Projection struct {
	DailyProfitBase    decimal.Decimal `json:"dailyProfitBase"`
	DailyProfitPromo   decimal.Decimal `json:"dailyProfitPromo"`
	ProfitGap          decimal.Decimal `json:"profitGap"`
	BreakevenLiftPct   decimal.Decimal `json:"breakevenLiftPct"`
	BreakevenReachable bool            `json:"breakevenReachable"`
	MatchedItems       int             `json:"matchedItems"`
	UnmatchedSKUs      []string        `json:"unmatchedSkus"`
}

// partial is a sum over a subset of items. combine is associative, so any
// split of the item list gives the same totals.
type partial struct {
	base      decimal.Decimal
	promo     decimal.Decimal
	matched   int
	unmatched []string
}

func (p partial) combine(o partial) partial {
	return partial{
		base:      p.base.Add(o.base),
		promo:     p.promo.Add(o.promo),
		matched:   p.matched + o.matched,
		unmatched: append(append([]string(nil), p.unmatched...), o.unmatched...),
	}
}

func (p partial) finish() Projection {
	proj := Projection{
		DailyProfitBase:  p.base,
		DailyProfitPromo: p.promo,
		ProfitGap:        p.base.Sub(p.promo),
		BreakevenLiftPct: zero,
		MatchedItems:     p.matched,
		UnmatchedSKUs:    p.unmatched,
	}
	if proj.UnmatchedSKUs == nil {
		proj.UnmatchedSKUs = []string{}
	}
	if p.promo.IsPositive() {
		proj.BreakevenLiftPct = p.base.Div(p.promo).Sub(one).Mul(hundred)
		proj.BreakevenReachable = true
	}
	return proj
}

type catalogIndex map[string]*models.Product

func indexProducts(products []models.Product) catalogIndex {
	idx := make(catalogIndex, len(products))
	for i := range products {
		key := CanonicalSKU(products[i].SKU)
		if _, dup := idx[key]; !dup {
			idx[key] = &products[i]
		}
	}
	return idx
}

func accumulate(items []models.PromotionItem, idx catalogIndex, vat decimal.Decimal) partial {
	acc := partial{base: zero, promo: zero}
	for _, it := range items {
		p, ok := idx[CanonicalSKU(it.SKU)]
		if !ok {
			acc.unmatched = append(acc.unmatched, it.SKU)
			continue
		}
		cost := CostInputsOf(*p).Fixed()
		velocity := nonNegative(p.AverageDailySales)
		baseUnit := nonNegative(it.BasePrice).Div(vat).Sub(cost)
		promoUnit := nonNegative(it.PromoPrice).Div(vat).Sub(cost)
		acc.base = acc.base.Add(baseUnit.Mul(velocity))
		acc.promo = acc.promo.Add(promoUnit.Mul(velocity))
		acc.matched++
	}
	return acc
}

// ProjectCampaign aggregates items against the catalog. Items whose SKU has
// no product are skipped and listed in UnmatchedSKUs.
func ProjectCampaign(items []models.PromotionItem, products []models.Product, vatRate decimal.Decimal) Projection {
	return accumulate(items, indexProducts(products), vatOrDefault(vatRate)).finish()
}

// ProjectCampaignConcurrent splits items across workers and combines the
// partial sums in order. It returns ctx's error if ctx is cancelled first.
func ProjectCampaignConcurrent(ctx context.Context, items []models.PromotionItem, products []models.Product, vatRate decimal.Decimal, workers int) (Projection, error) {
	if workers < 2 || len(items) < 2 {
		if err := ctx.Err(); err != nil {
			return Projection{}, err
		}
		return ProjectCampaign(items, products, vatRate), nil
	}
	if workers > len(items) {
		workers = len(items)
	}

	idx := indexProducts(products)
	vat := vatOrDefault(vatRate)
	chunk := (len(items) + workers - 1) / workers
	parts := make([]partial, workers)

	g, gctx := errgroup.WithContext(ctx)
	for w := 0; w < workers; w++ {
		lo := w * chunk
		if lo >= len(items) {
			break
		}
		hi := min(lo+chunk, len(items))
		slot := w
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[slot] = accumulate(items[lo:hi], idx, vat)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Projection{}, err
	}

	total := partial{base: zero, promo: zero}
	for _, p := range parts {
		total = total.combine(p)
	}
	return total.finish(), nil
}
