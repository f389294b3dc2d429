package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/GTDGit/promo_api/internal/models"
)

// PricingRuleRepository stores per-platform commission rules.
type PricingRuleRepository struct {
	db *sqlx.DB
}

// NewPricingRuleRepository creates a new PricingRuleRepository.
func NewPricingRuleRepository(db *sqlx.DB) *PricingRuleRepository {
	return &PricingRuleRepository{db: db}
}

// List returns all pricing rules ordered by platform.
func (r *PricingRuleRepository) List(ctx context.Context) ([]models.PricingRule, error) {
	rules := []models.PricingRule{}
	err := r.db.SelectContext(ctx, &rules, `SELECT platform, commission, color FROM pricing_rules ORDER BY platform`)
	return rules, err
}

// Upsert inserts or replaces the rule for rule.Platform.
func (r *PricingRuleRepository) Upsert(ctx context.Context, rule *models.PricingRule) error {
	const q = `
        INSERT INTO pricing_rules (platform, commission, color)
        VALUES ($1, $2, $3)
        ON CONFLICT (platform) DO UPDATE SET
            commission = EXCLUDED.commission,
            color = EXCLUDED.color,
            updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, q, rule.Platform, rule.Commission, rule.Color)
	return err
}

// Delete removes a platform rule.
func (r *PricingRuleRepository) Delete(ctx context.Context, platform string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM pricing_rules WHERE platform = $1`, platform)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// LogisticsRuleRepository stores the carrier rate table.
type LogisticsRuleRepository struct {
	db *sqlx.DB
}

// NewLogisticsRuleRepository creates a new LogisticsRuleRepository.
func NewLogisticsRuleRepository(db *sqlx.DB) *LogisticsRuleRepository {
	return &LogisticsRuleRepository{db: db}
}

// List returns the rate table ordered by price so ties resolve stably.
func (r *LogisticsRuleRepository) List(ctx context.Context) ([]models.LogisticsRule, error) {
	rules := []models.LogisticsRule{}
	err := r.db.SelectContext(ctx, &rules, `SELECT id, name, carrier, price, max_weight FROM logistics_rules ORDER BY price, id`)
	return rules, err
}

// Upsert inserts or replaces a rule by id.
func (r *LogisticsRuleRepository) Upsert(ctx context.Context, rule *models.LogisticsRule) error {
	const q = `
        INSERT INTO logistics_rules (id, name, carrier, price, max_weight)
        VALUES ($1, $2, $3, $4, $5)
        ON CONFLICT (id) DO UPDATE SET
            name = EXCLUDED.name,
            carrier = EXCLUDED.carrier,
            price = EXCLUDED.price,
            max_weight = EXCLUDED.max_weight,
            updated_at = NOW()`
	_, err := r.db.ExecContext(ctx, q, rule.ID, rule.Name, rule.Carrier, rule.Price, rule.MaxWeight)
	return err
}

// Delete removes a rule by id.
func (r *LogisticsRuleRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM logistics_rules WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}
