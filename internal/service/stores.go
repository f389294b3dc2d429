package service

import (
	"context"
	"time"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/repository"
)

// The interfaces below are the slices of the repositories each service
// needs. The concrete *repository types satisfy them.

type productStore interface {
	List(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int, error)
	All(ctx context.Context) ([]models.Product, error)
	GetBySKU(ctx context.Context, sku string) (*models.Product, error)
	GetBySKUs(ctx context.Context, skus []string) ([]models.Product, error)
	Upsert(ctx context.Context, p *models.Product) error
	Delete(ctx context.Context, sku string) (bool, error)
	Categories(ctx context.Context) ([]string, error)
}

type pricingRuleStore interface {
	List(ctx context.Context) ([]models.PricingRule, error)
	Upsert(ctx context.Context, rule *models.PricingRule) error
	Delete(ctx context.Context, platform string) (bool, error)
}

type logisticsRuleStore interface {
	List(ctx context.Context) ([]models.LogisticsRule, error)
	Upsert(ctx context.Context, rule *models.LogisticsRule) error
	Delete(ctx context.Context, id string) (bool, error)
}

type ruleCache interface {
	PricingRules(ctx context.Context) ([]models.PricingRule, bool, error)
	SetPricingRules(ctx context.Context, rules []models.PricingRule) error
	LogisticsRules(ctx context.Context) ([]models.LogisticsRule, bool, error)
	SetLogisticsRules(ctx context.Context, rules []models.LogisticsRule) error
	InvalidatePricing(ctx context.Context) error
	InvalidateLogistics(ctx context.Context) error
}

type promotionStore interface {
	Create(ctx context.Context, p *models.PromotionEvent) error
	Update(ctx context.Context, p *models.PromotionEvent) error
	UpdateStatus(ctx context.Context, id string, status models.PromotionStatus) error
	Delete(ctx context.Context, id string) (bool, error)
	GetByID(ctx context.Context, id string) (*models.PromotionEvent, error)
	List(ctx context.Context) ([]models.PromotionEvent, error)
	SaveItems(ctx context.Context, promotionID string, items []models.PromotionItem) error
	DeleteItem(ctx context.Context, promotionID, sku string) (bool, error)
	ReconcileCandidates(ctx context.Context) ([]models.PromotionEvent, error)
}

type salesLogStore interface {
	SaveMany(ctx context.Context, logs []models.SalesLog) (int, error)
	List(ctx context.Context, f repository.SalesLogFilter) ([]models.SalesLog, int, error)
	ForWindow(ctx context.Context, skus []string, from, to time.Time) ([]models.SalesLog, error)
}

type adminUserStore interface {
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	Create(ctx context.Context, user *models.AdminUser) error
	TouchLastLogin(ctx context.Context, id int) error
	Count(ctx context.Context) (int, error)
}

// Archiver stores export files and returns their location.
type Archiver interface {
	Upload(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
