package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/GTDGit/promo_api/internal/models"
)

func TestResolvePostage_CheapestEligible(t *testing.T) {
	rules := []models.LogisticsRule{
		{ID: "a", Name: "Parcel 2kg", Price: d("5"), MaxWeight: dp("2")},
		{ID: "b", Name: "Parcel 1kg", Price: d("3"), MaxWeight: dp("1")},
		{ID: "pickup", Name: "Pickup", Price: d("0")},
	}

	q := ResolvePostage(rules, d("0.8"), ZoneStandard, d("9.99"))
	assertDecimal(t, "3", q.Price)
	assert.Equal(t, "b", q.RuleID)
	assert.False(t, q.Defaulted)

	q = ResolvePostage(rules, d("1.5"), ZoneStandard, d("9.99"))
	assert.Equal(t, "a", q.RuleID)
}

func TestResolvePostage_Fallback(t *testing.T) {
	rules := []models.LogisticsRule{
		{ID: "a", Name: "Parcel 2kg", Price: d("5"), MaxWeight: dp("2")},
	}

	q := ResolvePostage(rules, d("30"), ZoneStandard, d("12.50"))
	assertDecimal(t, "12.50", q.Price)
	assert.True(t, q.Defaulted)
	assert.Empty(t, q.RuleID)

	q = ResolvePostage(nil, d("1"), ZoneStandard, d("4"))
	assertDecimal(t, "4", q.Price)
	assert.True(t, q.Defaulted)
}

func TestResolvePostage_Zones(t *testing.T) {
	rules := []models.LogisticsRule{
		{ID: "std", Name: "DPD Next Day", Carrier: "DPD", Price: d("6")},
		{ID: "hi", Name: "DPD Next Day-Z", Carrier: "DPD", Price: d("14")},
		{ID: "ni", Name: "DPD-NI", Carrier: "DPD", Price: d("11")},
		{ID: "rem", Name: "Remote surcharge", Carrier: "Evri", Price: d("18")},
	}

	assert.Equal(t, "std", ResolvePostage(rules, d("1"), ZoneStandard, d("0")).RuleID)
	assert.Equal(t, "ni", ResolvePostage(rules, d("1"), ZoneRemote, d("0")).RuleID)
}

func TestResolvePostage_TieKeepsFirst(t *testing.T) {
	rules := []models.LogisticsRule{
		{ID: "first", Name: "Royal Mail", Price: d("4")},
		{ID: "second", Name: "Evri", Price: d("4")},
	}
	assert.Equal(t, "first", ResolvePostage(rules, d("1"), ZoneStandard, d("0")).RuleID)
}

func TestIsEligible(t *testing.T) {
	tests := []struct {
		name   string
		rule   models.LogisticsRule
		weight string
		want   bool
	}{
		{"no limit", models.LogisticsRule{ID: "x", Name: "Courier", Price: d("5")}, "40", true},
		{"within limit", models.LogisticsRule{ID: "x", Name: "Courier", Price: d("5"), MaxWeight: dp("2")}, "2", true},
		{"over limit", models.LogisticsRule{ID: "x", Name: "Courier", Price: d("5"), MaxWeight: dp("2")}, "2.01", false},
		{"zero price", models.LogisticsRule{ID: "x", Name: "Courier", Price: d("0")}, "1", false},
		{"collection name", models.LogisticsRule{ID: "x", Name: "Click & Collection", Price: d("2")}, "1", false},
		{"pick up carrier", models.LogisticsRule{ID: "x", Name: "Store", Carrier: "Pick Up", Price: d("2")}, "1", false},
		{"na carrier", models.LogisticsRule{ID: "x", Name: "Placeholder", Carrier: "N/A", Price: d("2")}, "1", false},
		{"na inside word is fine", models.LogisticsRule{ID: "x", Name: "National", Carrier: "DHL", Price: d("2")}, "1", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsEligible(tt.rule, d(tt.weight)))
		})
	}
}
