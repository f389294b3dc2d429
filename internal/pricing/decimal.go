package pricing

import "github.com/shopspring/decimal"

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

func nonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return zero
	}
	return d
}

// vatOrDefault returns DefaultVATRate for a zero or negative multiplier.
func vatOrDefault(vat decimal.Decimal) decimal.Decimal {
	if !vat.IsPositive() {
		return DefaultVATRate
	}
	return vat
}
