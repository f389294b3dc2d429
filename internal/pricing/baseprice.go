package pricing

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/models"
)

// PriceSource records which input produced a base price.
type PriceSource string

const (
	SourceContract PriceSource = "CA_PRICE"
	SourceChannel  PriceSource = "CHANNEL"
	SourceCatalog  PriceSource = "CATALOG"
)

// BasePrice is a gross reference price and where it came from.
type BasePrice struct {
	Gross  decimal.Decimal `json:"gross"`
	Source PriceSource     `json:"source"`
}

// ResolveBasePrice picks the gross base price for platform in order of
// precedence: a positive caPrice, then a positive channel price for the
// platform, then the catalog price grossed up by vatRate.
func ResolveBasePrice(p models.Product, platform string, vatRate decimal.Decimal) BasePrice {
	if p.CAPrice.Valid && p.CAPrice.Decimal.IsPositive() {
		return BasePrice{Gross: p.CAPrice.Decimal, Source: SourceContract}
	}
	if platform != "" && !strings.EqualFold(platform, models.PlatformAll) {
		if ch, ok := p.ChannelFor(platform); ok && ch.Price.Valid && ch.Price.Decimal.IsPositive() {
			return BasePrice{Gross: ch.Price.Decimal, Source: SourceChannel}
		}
	}
	gross := nonNegative(p.CurrentPrice).Mul(vatOrDefault(vatRate)).Round(2)
	return BasePrice{Gross: gross, Source: SourceCatalog}
}
