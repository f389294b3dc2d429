package pricing

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// Overrides holds manually entered promo prices keyed by canonical SKU. The
// caller owns the map and passes it into each pricing call.
type Overrides map[string]decimal.Decimal

// CanonicalSKU is the case-insensitive form used for SKU matching.
func CanonicalSKU(sku string) string {
	return strings.ToUpper(strings.TrimSpace(sku))
}

// Lookup returns the override for sku, if any.
func (o Overrides) Lookup(sku string) (decimal.Decimal, bool) {
	if o == nil {
		return decimal.Decimal{}, false
	}
	d, ok := o[CanonicalSKU(sku)]
	return d, ok
}

// Set parses raw and stores it for sku. Unparseable input clears the
// override and returns false.
func (o Overrides) Set(sku, raw string) bool {
	d, ok := ParseOverride(raw)
	if !ok {
		delete(o, CanonicalSKU(sku))
		return false
	}
	o[CanonicalSKU(sku)] = d
	return true
}

var (
	overrideNoise = strings.NewReplacer("£", "", "$", "", "€", "", " ", "")
	// Commas are only accepted as thousands separators.
	groupedAmount = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d*)?$`)
)

// ParseOverride accepts a price such as "£1,299.95" and rounds it to pence.
// Empty, non-numeric and negative input is rejected, as is a comma used as
// a decimal mark ("12,95"). Zero is a valid override.
func ParseOverride(raw string) (decimal.Decimal, bool) {
	s := overrideNoise.Replace(strings.TrimSpace(raw))
	if s == "" {
		return decimal.Decimal{}, false
	}
	if strings.Contains(s, ",") {
		if !groupedAmount.MatchString(s) {
			return decimal.Decimal{}, false
		}
		s = strings.ReplaceAll(s, ",", "")
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		return decimal.Decimal{}, false
	}
	return d.Round(2), true
}
