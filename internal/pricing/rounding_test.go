package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestRoundToPsychological(t *testing.T) {
	tests := []struct {
		target string
		want   string
	}{
		{"19.99", "19.95"},
		{"19.95", "19.95"},
		{"20.00", "19.95"},
		{"20.50", "19.95"},
		{"20.96", "20.95"},
		{"1.20", "0.95"},
		{"0.95", "0.95"},
		{"0.50", "0.95"},
		{"0", "0.95"},
		{"1299.999", "1299.95"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			assertDecimal(t, tt.want, RoundToPsychological(d(tt.target)))
		})
	}
}

func TestRoundToPsychological_Properties(t *testing.T) {
	for cents := int64(95); cents < 50000; cents += 37 {
		x := decimal.New(cents, -2)
		r := RoundToPsychological(x)
		assert.True(t, r.LessThanOrEqual(x), "non-inflation for %s", x)
		assert.True(t, RoundToPsychological(r).Equal(r), "idempotence for %s", x)
		assert.Equal(t, "0.95", r.Sub(r.Floor()).StringFixed(2), "ending for %s", x)
	}
}
