package pricing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func dp(s string) *decimal.Decimal {
	v := d(s)
	return &v
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, d(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func assertNear(t *testing.T, want float64, got decimal.Decimal, delta float64) {
	t.Helper()
	f, _ := got.Float64()
	assert.InDelta(t, want, f, delta)
}

func decimalInt(v int) decimal.Decimal {
	return decimal.NewFromInt(int64(v))
}
