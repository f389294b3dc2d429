package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/promo_api/internal/models"
)

func TestCompareActuals(t *testing.T) {
	day := func(n int) time.Time { return time.Date(2026, 3, n, 9, 0, 0, 0, time.UTC) }

	event := models.PromotionEvent{
		Platform:  "Amazon",
		StartDate: day(1),
		EndDate:   day(3),
		Items:     []models.PromotionItem{{SKU: "A"}, {SKU: "a"}},
	}
	products := []models.Product{{SKU: "A", AverageDailySales: d("10"), CostPrice: d("8")}}
	logs := []models.SalesLog{
		{SKU: "A", Date: day(1), Platform: "Amazon", Velocity: d("12"), Price: d("24"), Profit: decimal.NewNullDecimal(d("50"))},
		{SKU: "a", Date: day(2), Platform: "amazon", Velocity: d("18"), Price: d("24")},
		{SKU: "A", Date: day(2), Platform: "eBay", Velocity: d("99"), Price: d("24")},
		{SKU: "A", Date: day(5), Platform: "Amazon", Velocity: d("99"), Price: d("24")},
		{SKU: "B", Date: day(2), Platform: "Amazon", Velocity: d("99"), Price: d("24")},
	}

	proj := Projection{DailyProfitPromo: d("100"), BreakevenLiftPct: d("40"), BreakevenReachable: true}
	a := CompareActuals(event, products, logs, proj, DefaultVATRate)

	assert.Equal(t, 2, a.LogsConsidered)
	assert.Equal(t, 2, a.Days)
	assertDecimal(t, "30", a.UnitsSold)
	assertDecimal(t, "15", a.DailyVelocity)
	assertDecimal(t, "10", a.BaselineVelocity)
	assertDecimal(t, "133", a.DailyProfitActual)
	assertDecimal(t, "50", a.ObservedLiftPct)
	assert.True(t, a.MeetsBreakeven)

	proj.BreakevenLiftPct = d("60")
	assert.False(t, CompareActuals(event, products, logs, proj, DefaultVATRate).MeetsBreakeven)

	proj.BreakevenReachable = false
	proj.BreakevenLiftPct = d("0")
	assert.False(t, CompareActuals(event, products, logs, proj, DefaultVATRate).MeetsBreakeven)
}

func TestCompareActuals_AllPlatformsAndNoLogs(t *testing.T) {
	start := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	event := models.PromotionEvent{
		Platform:  models.PlatformAll,
		StartDate: start,
		EndDate:   start.Add(48 * time.Hour),
		Items:     []models.PromotionItem{{SKU: "A"}},
	}

	a := CompareActuals(event, nil, nil, Projection{}, DefaultVATRate)
	assert.Equal(t, 0, a.Days)
	assertDecimal(t, "0", a.DailyVelocity)
	assert.False(t, a.MeetsBreakeven)

	logs := []models.SalesLog{
		{SKU: "A", Date: start, Platform: "eBay", Velocity: d("2"), Profit: decimal.NewNullDecimal(d("6"))},
		{SKU: "A", Date: start, Platform: "Amazon", Velocity: d("3"), Profit: decimal.NewNullDecimal(d("9"))},
	}
	a = CompareActuals(event, nil, logs, Projection{}, DefaultVATRate)
	assert.Equal(t, 1, a.Days)
	assertDecimal(t, "5", a.DailyVelocity)
	assertDecimal(t, "15", a.DailyProfitActual)
	assertDecimal(t, "0", a.ObservedLiftPct, "no baseline velocity")
}
