package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesLog is one day of observed sales for a SKU on a platform.
type SalesLog struct {
	ID       int64               `db:"id" json:"id"`
	SKU      string              `db:"sku" json:"sku" binding:"required"`
	Date     time.Time           `db:"date" json:"date" binding:"required"`
	Price    decimal.Decimal     `db:"price" json:"price"`
	Velocity decimal.Decimal     `db:"velocity" json:"velocity"`
	Platform string              `db:"platform" json:"platform" binding:"required"`
	Profit   decimal.NullDecimal `db:"profit" json:"profit"`
	Margin   decimal.NullDecimal `db:"margin" json:"margin"`
	AdsSpend decimal.NullDecimal `db:"ads_spend" json:"adsSpend"`
}
