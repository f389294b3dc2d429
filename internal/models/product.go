package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// Channel is a per-platform listing of a product. Price overrides the catalog
// price on that platform; SKUAlias is the platform-specific SKU.
type Channel struct {
	Platform string              `json:"platform"`
	Price    decimal.NullDecimal `json:"price"`
	SKUAlias string              `json:"skuAlias,omitempty"`
}

// Channels is stored as a JSONB array.
type Channels []Channel

// Value implements driver.Valuer.
func (c Channels) Value() (driver.Value, error) {
	if c == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *Channels) Scan(src interface{}) error {
	if src == nil {
		*c = Channels{}
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return errors.New("channels: unsupported scan type")
	}
	return json.Unmarshal(data, c)
}

// CartonDimensions holds shipping carton measurements. Only Weight (kg) is
// used for logistics lookup.
type CartonDimensions struct {
	Weight decimal.Decimal `db:"weight" json:"weight"`
}

// Product is a catalog entry. CurrentPrice is net of VAT; CAPrice, when
// present and positive, is a contractually fixed gross price.
type Product struct {
	SKU               string              `db:"sku" json:"sku"`
	Name              string              `db:"name" json:"name"`
	Category          string              `db:"category" json:"category"`
	Subcategory       string              `db:"subcategory" json:"subcategory"`
	CurrentPrice      decimal.Decimal     `db:"current_price" json:"currentPrice"`
	CAPrice           decimal.NullDecimal `db:"ca_price" json:"caPrice"`
	CostPrice         decimal.Decimal     `db:"cost_price" json:"costPrice"`
	WMSFee            decimal.Decimal     `db:"wms_fee" json:"wmsFee"`
	OtherFee          decimal.Decimal     `db:"other_fee" json:"otherFee"`
	SubscriptionFee   decimal.Decimal     `db:"subscription_fee" json:"subscriptionFee"`
	AdsFee            decimal.Decimal     `db:"ads_fee" json:"adsFee"`
	AverageDailySales decimal.Decimal     `db:"average_daily_sales" json:"averageDailySales"`
	StockLevel        int                 `db:"stock_level" json:"stockLevel"`
	OptimalPrice      decimal.NullDecimal `db:"optimal_price" json:"optimalPrice"`
	FloorPrice        decimal.NullDecimal `db:"floor_price" json:"floorPrice"`
	CartonDimensions  CartonDimensions    `db:"carton" json:"cartonDimensions"`
	Postage           decimal.Decimal     `db:"postage" json:"postage"`
	Channels          Channels            `db:"channels" json:"channels"`
	CreatedAt         time.Time           `db:"created_at" json:"-"`
	UpdatedAt         time.Time           `db:"updated_at" json:"updatedAt"`
}

// ChannelFor returns the first channel listed for platform, matched
// case-insensitively.
func (p *Product) ChannelFor(platform string) (Channel, bool) {
	for _, ch := range p.Channels {
		if equalFoldTrim(ch.Platform, platform) {
			return ch, true
		}
	}
	return Channel{}, false
}
