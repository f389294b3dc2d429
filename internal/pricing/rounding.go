package pricing

import "github.com/shopspring/decimal"

var psychologicalEnding = decimal.RequireFromString("0.95")

// RoundToPsychological snaps target down to the nearest N.95 that does not
// exceed it. Targets below 0.95 clamp up to 0.95.
func RoundToPsychological(target decimal.Decimal) decimal.Decimal {
	candidate := target.Floor().Add(psychologicalEnding)
	if candidate.GreaterThan(target) {
		candidate = candidate.Sub(one)
		if candidate.LessThan(psychologicalEnding) {
			return psychologicalEnding
		}
		return candidate
	}
	return candidate.Truncate(2)
}
