package pricing

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/models"
)

// Actuals compares what a promotion actually sold against its projection.
type Actuals struct {
	LogsConsidered     int             `json:"logsConsidered"`
	Days               int             `json:"days"`
	UnitsSold          decimal.Decimal `json:"unitsSold"`
	DailyVelocity      decimal.Decimal `json:"dailyVelocity"`
	BaselineVelocity   decimal.Decimal `json:"baselineVelocity"`
	DailyProfitActual  decimal.Decimal `json:"dailyProfitActual"`
	DailyProfitPromo   decimal.Decimal `json:"dailyProfitPromo"`
	ObservedLiftPct    decimal.Decimal `json:"observedLiftPct"`
	BreakevenLiftPct   decimal.Decimal `json:"breakevenLiftPct"`
	BreakevenReachable bool            `json:"breakevenReachable"`
	MeetsBreakeven     bool            `json:"meetsBreakeven"`
}

// CompareActuals reads the sales logs that fall inside the event's date
// range, belong to one of its SKUs, and match its platform. A log without a
// recorded profit is costed as (price/vat - fixed cost) x velocity.
func CompareActuals(event models.PromotionEvent, products []models.Product, logs []models.SalesLog, proj Projection, vatRate decimal.Decimal) Actuals {
	vat := vatOrDefault(vatRate)
	idx := indexProducts(products)

	inEvent := make(map[string]bool, len(event.Items))
	baseline := zero
	for _, it := range event.Items {
		key := CanonicalSKU(it.SKU)
		if inEvent[key] {
			continue
		}
		inEvent[key] = true
		if p, ok := idx[key]; ok {
			baseline = baseline.Add(nonNegative(p.AverageDailySales))
		}
	}

	allPlatforms := strings.EqualFold(event.Platform, models.PlatformAll)
	loc := event.StartDate.Location()
	first, last := dayOf(event.StartDate, loc), dayOf(event.EndDate, loc)

	out := Actuals{
		UnitsSold:          zero,
		DailyVelocity:      zero,
		BaselineVelocity:   baseline,
		DailyProfitActual:  zero,
		DailyProfitPromo:   proj.DailyProfitPromo,
		ObservedLiftPct:    zero,
		BreakevenLiftPct:   proj.BreakevenLiftPct,
		BreakevenReachable: proj.BreakevenReachable,
	}

	days := make(map[time.Time]struct{})
	profit := zero
	for _, l := range logs {
		key := CanonicalSKU(l.SKU)
		if !inEvent[key] {
			continue
		}
		if !allPlatforms && !strings.EqualFold(l.Platform, event.Platform) {
			continue
		}
		day := dayOf(l.Date, loc)
		if day.Before(first) || day.After(last) {
			continue
		}

		velocity := nonNegative(l.Velocity)
		if l.Profit.Valid {
			profit = profit.Add(l.Profit.Decimal)
		} else {
			fixed := zero
			if p, ok := idx[key]; ok {
				fixed = CostInputsOf(*p).Fixed()
			}
			unit := nonNegative(l.Price).Div(vat).Sub(fixed)
			profit = profit.Add(unit.Mul(velocity))
		}
		out.UnitsSold = out.UnitsSold.Add(velocity)
		days[day] = struct{}{}
		out.LogsConsidered++
	}

	out.Days = len(days)
	if out.Days == 0 {
		return out
	}
	n := decimal.NewFromInt(int64(out.Days))
	out.DailyVelocity = out.UnitsSold.Div(n)
	out.DailyProfitActual = profit.Div(n)
	if baseline.IsPositive() {
		out.ObservedLiftPct = out.DailyVelocity.Div(baseline).Sub(one).Mul(hundred)
	}
	out.MeetsBreakeven = proj.BreakevenReachable && out.ObservedLiftPct.GreaterThanOrEqual(proj.BreakevenLiftPct)
	return out
}
