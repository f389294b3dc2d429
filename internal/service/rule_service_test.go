package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/utils"
)

type fakePricingStore struct {
	rules map[string]models.PricingRule
	lists int
}

func (f *fakePricingStore) List(context.Context) ([]models.PricingRule, error) {
	f.lists++
	out := []models.PricingRule{}
	for _, r := range f.rules {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakePricingStore) Upsert(_ context.Context, r *models.PricingRule) error {
	f.rules[r.Platform] = *r
	return nil
}

func (f *fakePricingStore) Delete(_ context.Context, platform string) (bool, error) {
	_, ok := f.rules[platform]
	delete(f.rules, platform)
	return ok, nil
}

type fakeLogisticsStore struct {
	rules map[string]models.LogisticsRule
}

func (f *fakeLogisticsStore) List(context.Context) ([]models.LogisticsRule, error) {
	out := []models.LogisticsRule{}
	for _, r := range f.rules {
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeLogisticsStore) Upsert(_ context.Context, r *models.LogisticsRule) error {
	f.rules[r.ID] = *r
	return nil
}

func (f *fakeLogisticsStore) Delete(_ context.Context, id string) (bool, error) {
	_, ok := f.rules[id]
	delete(f.rules, id)
	return ok, nil
}

type fakeRuleCache struct {
	pricing   []models.PricingRule
	logistics []models.LogisticsRule
	readErr   error
}

func (c *fakeRuleCache) PricingRules(context.Context) ([]models.PricingRule, bool, error) {
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	return c.pricing, c.pricing != nil, nil
}

func (c *fakeRuleCache) SetPricingRules(_ context.Context, rules []models.PricingRule) error {
	c.pricing = rules
	return nil
}

func (c *fakeRuleCache) LogisticsRules(context.Context) ([]models.LogisticsRule, bool, error) {
	if c.readErr != nil {
		return nil, false, c.readErr
	}
	return c.logistics, c.logistics != nil, nil
}

func (c *fakeRuleCache) SetLogisticsRules(_ context.Context, rules []models.LogisticsRule) error {
	c.logistics = rules
	return nil
}

func (c *fakeRuleCache) InvalidatePricing(context.Context) error {
	c.pricing = nil
	return nil
}

func (c *fakeRuleCache) InvalidateLogistics(context.Context) error {
	c.logistics = nil
	return nil
}

func newRuleHarness() (*RuleService, *fakePricingStore, *fakeRuleCache) {
	ps := &fakePricingStore{rules: map[string]models.PricingRule{}}
	ls := &fakeLogisticsStore{rules: map[string]models.LogisticsRule{}}
	c := &fakeRuleCache{}
	return NewRuleService(ps, ls, c), ps, c
}

func TestRuleService_ReadThrough(t *testing.T) {
	svc, store, c := newRuleHarness()
	ctx := context.Background()
	require.NoError(t, svc.SavePricingRule(ctx, &models.PricingRule{Platform: " Amazon ", Commission: dec("15.3")}))

	rules, err := svc.PricingRules(ctx)
	require.NoError(t, err)
	require.Len(t, rules, 1)
	assert.Equal(t, "Amazon", rules[0].Platform)
	assert.Equal(t, 1, store.lists)
	assert.NotNil(t, c.pricing)

	_, err = svc.PricingRules(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, store.lists, "second read is served from cache")

	require.NoError(t, svc.SavePricingRule(ctx, &models.PricingRule{Platform: "eBay", Commission: dec("12")}))
	assert.Nil(t, c.pricing, "write invalidates the cache")

	rules, err = svc.PricingRules(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 2)
	assert.Equal(t, 2, store.lists)
}

func TestRuleService_CacheErrorFallsBack(t *testing.T) {
	svc, store, c := newRuleHarness()
	c.readErr = errors.New("redis down")
	store.rules["Amazon"] = models.PricingRule{Platform: "Amazon", Commission: dec("15")}

	rules, err := svc.PricingRules(context.Background())
	require.NoError(t, err)
	assert.Len(t, rules, 1)
}

func TestRuleService_Validation(t *testing.T) {
	svc, _, _ := newRuleHarness()
	ctx := context.Background()

	tests := []struct {
		name string
		err  error
	}{
		{"empty platform", svc.SavePricingRule(ctx, &models.PricingRule{Commission: dec("1")})},
		{"commission over 100", svc.SavePricingRule(ctx, &models.PricingRule{Platform: "A", Commission: dec("100.5")})},
		{"negative commission", svc.SavePricingRule(ctx, &models.PricingRule{Platform: "A", Commission: dec("-1")})},
		{"empty logistics id", svc.SaveLogisticsRule(ctx, &models.LogisticsRule{Price: dec("1")})},
		{"negative price", svc.SaveLogisticsRule(ctx, &models.LogisticsRule{ID: "x", Price: dec("-1")})},
		{"negative weight", svc.SaveLogisticsRule(ctx, &models.LogisticsRule{ID: "x", Price: dec("1"), MaxWeight: decimalPtr("-2")})},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.err, utils.ErrInvalidRule)
		})
	}
}

func TestRuleService_Delete(t *testing.T) {
	svc, _, _ := newRuleHarness()
	ctx := context.Background()

	assert.ErrorIs(t, svc.DeletePricingRule(ctx, "nope"), utils.ErrRuleNotFound)
	assert.ErrorIs(t, svc.DeleteLogisticsRule(ctx, "nope"), utils.ErrRuleNotFound)

	require.NoError(t, svc.SaveLogisticsRule(ctx, &models.LogisticsRule{ID: "rm48", Price: dec("3.5")}))
	require.NoError(t, svc.DeleteLogisticsRule(ctx, "rm48"))
}

func TestRuleService_Seed(t *testing.T) {
	svc, _, _ := newRuleHarness()
	ctx := context.Background()

	err := svc.Seed(ctx,
		[]models.PricingRule{{Platform: "Amazon", Commission: dec("15")}},
		[]models.LogisticsRule{{ID: "rm48", Price: dec("3.5")}},
	)
	require.NoError(t, err)

	lr, err := svc.LogisticsRules(ctx)
	require.NoError(t, err)
	assert.Len(t, lr, 1)
}
