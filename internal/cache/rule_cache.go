package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/GTDGit/promo_api/internal/models"
)

const (
	keyPricingRules   = "rules:pricing"
	keyLogisticsRules = "rules:logistics"
)

// KV is the subset of RedisClient the rule cache needs.
type KV interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// RuleCache keeps the pricing and logistics rule tables in Redis. Both are
// small and read on every quote, and are invalidated on any rule write.
type RuleCache struct {
	kv  KV
	ttl time.Duration
}

// NewRuleCache creates a RuleCache with the given TTL.
func NewRuleCache(kv KV, ttl time.Duration) *RuleCache {
	return &RuleCache{kv: kv, ttl: ttl}
}

// PricingRules returns the cached pricing rules. ok is false on a miss.
func (c *RuleCache) PricingRules(ctx context.Context) (rules []models.PricingRule, ok bool, err error) {
	ok, err = c.get(ctx, keyPricingRules, &rules)
	return rules, ok, err
}

// SetPricingRules stores the pricing rule table.
func (c *RuleCache) SetPricingRules(ctx context.Context, rules []models.PricingRule) error {
	return c.set(ctx, keyPricingRules, rules)
}

// LogisticsRules returns the cached logistics rules. ok is false on a miss.
func (c *RuleCache) LogisticsRules(ctx context.Context) (rules []models.LogisticsRule, ok bool, err error) {
	ok, err = c.get(ctx, keyLogisticsRules, &rules)
	return rules, ok, err
}

// SetLogisticsRules stores the logistics rule table.
func (c *RuleCache) SetLogisticsRules(ctx context.Context, rules []models.LogisticsRule) error {
	return c.set(ctx, keyLogisticsRules, rules)
}

// InvalidatePricing drops the cached pricing rules.
func (c *RuleCache) InvalidatePricing(ctx context.Context) error {
	return c.kv.Delete(ctx, keyPricingRules)
}

// InvalidateLogistics drops the cached logistics rules.
func (c *RuleCache) InvalidateLogistics(ctx context.Context) error {
	return c.kv.Delete(ctx, keyLogisticsRules)
}

func (c *RuleCache) get(ctx context.Context, key string, dst interface{}) (bool, error) {
	raw, err := c.kv.Get(ctx, key)
	if IsMiss(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("failed to unmarshal %s: %w", key, err)
	}
	return true, nil
}

func (c *RuleCache) set(ctx context.Context, key string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}
	if err := c.kv.Set(ctx, key, string(data), c.ttl); err != nil {
		return fmt.Errorf("failed to set %s: %w", key, err)
	}
	return nil
}
