package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/metrics"
	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/utils"
)

// RuleService manages the pricing (commission) and logistics rule tables.
// Reads go through the Redis rule cache; a cache failure falls back to the
// database and is only logged.
type RuleService struct {
	pricingRepo   pricingRuleStore
	logisticsRepo logisticsRuleStore
	cache         ruleCache
}

// NewRuleService constructs a RuleService.
func NewRuleService(pricingRepo pricingRuleStore, logisticsRepo logisticsRuleStore, cache ruleCache) *RuleService {
	return &RuleService{pricingRepo: pricingRepo, logisticsRepo: logisticsRepo, cache: cache}
}

// PricingRules returns every commission rule.
func (s *RuleService) PricingRules(ctx context.Context) ([]models.PricingRule, error) {
	rules, ok, err := s.cache.PricingRules(ctx)
	switch {
	case err != nil:
		metrics.RuleCacheLookups.WithLabelValues("pricing", "error").Inc()
		log.Warn().Err(err).Msg("pricing rule cache read failed")
	case ok:
		metrics.RuleCacheLookups.WithLabelValues("pricing", "hit").Inc()
		return rules, nil
	default:
		metrics.RuleCacheLookups.WithLabelValues("pricing", "miss").Inc()
	}

	rules, err = s.pricingRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pricing rules: %w", err)
	}
	if err := s.cache.SetPricingRules(ctx, rules); err != nil {
		log.Warn().Err(err).Msg("pricing rule cache write failed")
	}
	return rules, nil
}

// LogisticsRules returns every logistics rule ordered by price.
func (s *RuleService) LogisticsRules(ctx context.Context) ([]models.LogisticsRule, error) {
	rules, ok, err := s.cache.LogisticsRules(ctx)
	switch {
	case err != nil:
		metrics.RuleCacheLookups.WithLabelValues("logistics", "error").Inc()
		log.Warn().Err(err).Msg("logistics rule cache read failed")
	case ok:
		metrics.RuleCacheLookups.WithLabelValues("logistics", "hit").Inc()
		return rules, nil
	default:
		metrics.RuleCacheLookups.WithLabelValues("logistics", "miss").Inc()
	}

	rules, err = s.logisticsRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list logistics rules: %w", err)
	}
	if err := s.cache.SetLogisticsRules(ctx, rules); err != nil {
		log.Warn().Err(err).Msg("logistics rule cache write failed")
	}
	return rules, nil
}

// SavePricingRule upserts a commission rule keyed by platform.
func (s *RuleService) SavePricingRule(ctx context.Context, rule *models.PricingRule) error {
	rule.Platform = strings.TrimSpace(rule.Platform)
	if rule.Platform == "" {
		return fmt.Errorf("%w: platform is required", utils.ErrInvalidRule)
	}
	if rule.Commission.IsNegative() || rule.Commission.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("%w: commission must be within 0..100", utils.ErrInvalidRule)
	}
	if err := s.pricingRepo.Upsert(ctx, rule); err != nil {
		return fmt.Errorf("save pricing rule: %w", err)
	}
	s.invalidatePricing(ctx)
	return nil
}

// DeletePricingRule removes the rule for platform.
func (s *RuleService) DeletePricingRule(ctx context.Context, platform string) error {
	ok, err := s.pricingRepo.Delete(ctx, platform)
	if err != nil {
		return fmt.Errorf("delete pricing rule: %w", err)
	}
	if !ok {
		return utils.ErrRuleNotFound
	}
	s.invalidatePricing(ctx)
	return nil
}

// SaveLogisticsRule upserts a logistics rule keyed by id. A nil MaxWeight
// means the rule has no weight limit.
func (s *RuleService) SaveLogisticsRule(ctx context.Context, rule *models.LogisticsRule) error {
	rule.ID = strings.TrimSpace(rule.ID)
	if rule.ID == "" {
		return fmt.Errorf("%w: id is required", utils.ErrInvalidRule)
	}
	if rule.Price.IsNegative() {
		return fmt.Errorf("%w: price must not be negative", utils.ErrInvalidRule)
	}
	if rule.MaxWeight != nil && rule.MaxWeight.IsNegative() {
		return fmt.Errorf("%w: maxWeight must not be negative", utils.ErrInvalidRule)
	}
	if err := s.logisticsRepo.Upsert(ctx, rule); err != nil {
		return fmt.Errorf("save logistics rule: %w", err)
	}
	s.invalidateLogistics(ctx)
	return nil
}

// DeleteLogisticsRule removes the rule with id.
func (s *RuleService) DeleteLogisticsRule(ctx context.Context, id string) error {
	ok, err := s.logisticsRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete logistics rule: %w", err)
	}
	if !ok {
		return utils.ErrRuleNotFound
	}
	s.invalidateLogistics(ctx)
	return nil
}

// Seed upserts rule tables loaded at startup.
func (s *RuleService) Seed(ctx context.Context, pricing []models.PricingRule, logistics []models.LogisticsRule) error {
	for i := range pricing {
		if err := s.SavePricingRule(ctx, &pricing[i]); err != nil {
			return err
		}
	}
	for i := range logistics {
		if err := s.SaveLogisticsRule(ctx, &logistics[i]); err != nil {
			return err
		}
	}
	log.Info().Int("pricing", len(pricing)).Int("logistics", len(logistics)).Msg("rule tables seeded")
	return nil
}

func (s *RuleService) invalidatePricing(ctx context.Context) {
	if err := s.cache.InvalidatePricing(ctx); err != nil {
		log.Warn().Err(err).Msg("pricing rule cache invalidation failed")
	}
}

func (s *RuleService) invalidateLogistics(ctx context.Context) {
	if err := s.cache.InvalidateLogistics(ctx); err != nil {
		log.Warn().Err(err).Msg("logistics rule cache invalidation failed")
	}
}
