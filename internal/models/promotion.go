package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DiscountType selects how a DiscountRule reduces a base price.
type DiscountType string

const (
	DiscountPercentage DiscountType = "PERCENTAGE"
	DiscountFixed      DiscountType = "FIXED"
)

// Valid reports whether t is a known discount type.
func (t DiscountType) Valid() bool {
	return t == DiscountPercentage || t == DiscountFixed
}

// DiscountRule is a bulk rule applied to every product added to a promotion.
type DiscountRule struct {
	Type  DiscountType    `json:"type" binding:"required"`
	Value decimal.Decimal `json:"value"`
}

// PromotionStatus is derived from the promotion's date range.
type PromotionStatus string

const (
	PromotionUpcoming PromotionStatus = "UPCOMING"
	PromotionActive   PromotionStatus = "ACTIVE"
	PromotionEnded    PromotionStatus = "ENDED"
)

// PlatformAll marks a promotion that runs on every platform.
const PlatformAll = "All"

// PromotionEvent is a time-boxed campaign. Status is persisted only as a
// cache and is recomputed from the dates on every read.
type PromotionEvent struct {
	ID                 string          `db:"id" json:"id"`
	Name               string          `db:"name" json:"name"`
	Platform           string          `db:"platform" json:"platform"`
	StartDate          time.Time       `db:"start_date" json:"startDate"`
	EndDate            time.Time       `db:"end_date" json:"endDate"`
	SubmissionDeadline *time.Time      `db:"submission_deadline" json:"submissionDeadline,omitempty"`
	Remark             *string         `db:"remark" json:"remark,omitempty"`
	Status             PromotionStatus `db:"status" json:"status"`
	Items              []PromotionItem `db:"-" json:"items"`
	CreatedAt          time.Time       `db:"created_at" json:"createdAt"`
	UpdatedAt          time.Time       `db:"updated_at" json:"updatedAt"`
}

// PromotionItem is a product priced into a promotion. BasePrice and
// PromoPrice are both gross.
type PromotionItem struct {
	PromotionID   string          `db:"promotion_id" json:"-"`
	SKU           string          `db:"sku" json:"sku"`
	BasePrice     decimal.Decimal `db:"base_price" json:"basePrice"`
	PromoPrice    decimal.Decimal `db:"promo_price" json:"promoPrice"`
	DiscountType  DiscountType    `db:"discount_type" json:"discountType"`
	DiscountValue decimal.Decimal `db:"discount_value" json:"discountValue"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updatedAt"`
}

// MarginBreakdown is the per-unit cost and profit detail for a promo price.
type MarginBreakdown struct {
	NetRevenue      decimal.Decimal `json:"netRevenue"`
	CommissionRate  decimal.Decimal `json:"commissionRate"`
	CommissionCost  decimal.Decimal `json:"commissionCost"`
	StandardPostage decimal.Decimal `json:"standardPostage"`
	OtherCosts      decimal.Decimal `json:"otherCosts"`
	NetProfit       decimal.Decimal `json:"netProfit"`
	MarginPct       decimal.Decimal `json:"marginPct"`
}
