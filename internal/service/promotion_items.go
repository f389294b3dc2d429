package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/promo_api/internal/events"
	"github.com/GTDGit/promo_api/internal/metrics"
	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/pricing"
	"github.com/GTDGit/promo_api/internal/utils"
)

// ItemRequest prices one or more products into a promotion under a single
// discount rule. Overrides maps SKU to a manually entered price such as
// "£12.95"; entries that do not parse are ignored.
type ItemRequest struct {
	SKUs      []string            `json:"skus"`
	Rule      models.DiscountRule `json:"rule" binding:"required"`
	Overrides map[string]string   `json:"overrides"`

	// inferRule records, for overridden items, the rule that explains the
	// entered price instead of Rule.
	inferRule bool
}

// ItemResult is the outcome of pricing an ItemRequest.
type ItemResult struct {
	Items   []pricing.ItemQuote `json:"items"`
	Created int                 `json:"created"`
	Updated int                 `json:"updated"`
	Unknown []string            `json:"unknown"`
}

func validateRule(rule models.DiscountRule) error {
	if !rule.Type.Valid() {
		return fmt.Errorf("%w: type must be PERCENTAGE or FIXED", utils.ErrInvalidDiscountRule)
	}
	if rule.Value.IsNegative() {
		return fmt.Errorf("%w: value must not be negative", utils.ErrInvalidDiscountRule)
	}
	return nil
}

func parseOverrides(raw map[string]string) pricing.Overrides {
	o := pricing.Overrides{}
	for sku, v := range raw {
		o.Set(sku, v)
	}
	return o
}

// AddItems prices the requested products and stores them on the promotion.
// A SKU already in the promotion is replaced, never duplicated. Items can
// only be added while the promotion has not started.
func (s *PromotionService) AddItems(ctx context.Context, id string, req ItemRequest) (*ItemResult, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !pricing.IsEditable(p.StartDate, p.EndDate, s.now()) {
		return nil, utils.ErrPromotionNotEditable
	}

	res, err := s.price(ctx, p, req)
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return res, nil
	}
	if err := s.store(ctx, p, res); err != nil {
		return nil, err
	}
	return res, nil
}

// AddItem prices a single product into the promotion.
func (s *PromotionService) AddItem(ctx context.Context, id, sku string, rule models.DiscountRule, override string) (*pricing.ItemQuote, error) {
	req := ItemRequest{SKUs: []string{sku}, Rule: rule}
	if override != "" {
		req.Overrides = map[string]string{sku: override}
	}
	res, err := s.AddItems(ctx, id, req)
	if err != nil {
		return nil, err
	}
	if len(res.Items) == 0 {
		return nil, utils.ErrProductNotFound
	}
	return &res.Items[0], nil
}

// RemoveItem deletes one item from the promotion.
func (s *PromotionService) RemoveItem(ctx context.Context, id, sku string) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	item, ok := pricing.FindItem(p.Items, sku)
	if !ok {
		return utils.ErrItemNotFound
	}
	removed, err := s.promoRepo.DeleteItem(ctx, p.ID, item.SKU)
	if err != nil {
		return fmt.Errorf("remove item: %w", err)
	}
	if !removed {
		return utils.ErrItemNotFound
	}

	p.Items, _ = pricing.RemoveItem(p.Items, item.SKU)
	e := events.New(events.PromotionItemRemoved, p)
	e.SKUs = []string{item.SKU}
	e.Count = len(p.Items)
	s.notifier.Notify(ctx, e)
	return nil
}

// Quote prices the requested products without storing anything. It works
// for promotions in any status. With no SKUs it re-prices every item
// already in the promotion under the new rule.
func (s *PromotionService) Quote(ctx context.Context, id string, req ItemRequest) (*ItemResult, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(req.SKUs) == 0 {
		for _, it := range p.Items {
			req.SKUs = append(req.SKUs, it.SKU)
		}
	}
	return s.price(ctx, p, req)
}

// Items returns the margin detail of every stored item at its stored price.
// Items whose product has left the catalog are skipped.
func (s *PromotionService) Items(ctx context.Context, id string) ([]pricing.ItemQuote, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	b, err := s.builder(ctx, p.Platform)
	if err != nil {
		return nil, err
	}
	idx, err := s.catalogFor(ctx, p.Items)
	if err != nil {
		return nil, err
	}

	out := make([]pricing.ItemQuote, 0, len(p.Items))
	for _, it := range p.Items {
		prod, ok := idx[pricing.CanonicalSKU(it.SKU)]
		if !ok {
			continue
		}
		out = append(out, b.Reprice(prod, it))
	}
	return out, nil
}

// price builds quotes for req against p. Requested SKUs are matched
// case-insensitively and deduplicated; unknown SKUs are reported.
func (s *PromotionService) price(ctx context.Context, p *models.PromotionEvent, req ItemRequest) (*ItemResult, error) {
	if err := validateRule(req.Rule); err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(req.SKUs))
	skus := make([]string, 0, len(req.SKUs))
	for _, sku := range req.SKUs {
		key := pricing.CanonicalSKU(sku)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		skus = append(skus, strings.TrimSpace(sku))
	}

	products, err := s.productRepo.GetBySKUs(ctx, skus)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	idx := make(map[string]models.Product, len(products))
	for _, prod := range products {
		idx[pricing.CanonicalSKU(prod.SKU)] = prod
	}

	b, err := s.builder(ctx, p.Platform)
	if err != nil {
		return nil, err
	}
	overrides := parseOverrides(req.Overrides)

	res := &ItemResult{Items: []pricing.ItemQuote{}, Unknown: []string{}}
	for _, sku := range skus {
		prod, ok := idx[pricing.CanonicalSKU(sku)]
		if !ok {
			res.Unknown = append(res.Unknown, sku)
			continue
		}
		q := b.Build(prod, req.Rule, overrides)
		q.Item.PromotionID = p.ID
		existing, exists := pricing.FindItem(p.Items, prod.SKU)
		if req.inferRule && q.Overridden {
			var prior *models.DiscountRule
			if exists {
				prior = &models.DiscountRule{Type: existing.DiscountType, Value: existing.DiscountValue}
			}
			rule := pricing.ImpliedRule(q.Item.BasePrice, q.Item.PromoPrice, prior)
			q.Item.DiscountType, q.Item.DiscountValue = rule.Type, rule.Value
		}
		res.Items = append(res.Items, q)
		if exists {
			res.Updated++
		} else {
			res.Created++
		}
	}
	metrics.QuotesComputed.Add(float64(len(res.Items)))
	return res, nil
}

// store persists priced items and announces them.
func (s *PromotionService) store(ctx context.Context, p *models.PromotionEvent, res *ItemResult) error {
	items := p.Items
	batch := make([]models.PromotionItem, 0, len(res.Items))
	skus := make([]string, 0, len(res.Items))
	for _, q := range res.Items {
		items, _ = pricing.UpsertItem(items, q.Item)
		batch = append(batch, q.Item)
		skus = append(skus, q.Item.SKU)
	}
	if err := s.promoRepo.SaveItems(ctx, p.ID, batch); err != nil {
		return fmt.Errorf("save items: %w", err)
	}
	p.Items = items

	log.Info().
		Str("promotion_id", p.ID).
		Int("created", res.Created).
		Int("updated", res.Updated).
		Msg("promotion items saved")

	e := events.New(events.PromotionItemUpserted, p)
	e.SKUs = skus
	e.Count = len(p.Items)
	s.notifier.Notify(ctx, e)
	return nil
}

// catalogFor loads the products behind items, keyed by canonical SKU.
func (s *PromotionService) catalogFor(ctx context.Context, items []models.PromotionItem) (map[string]models.Product, error) {
	skus := make([]string, 0, len(items))
	for _, it := range items {
		skus = append(skus, it.SKU)
	}
	products, err := s.productRepo.GetBySKUs(ctx, skus)
	if err != nil {
		return nil, fmt.Errorf("load products: %w", err)
	}
	idx := make(map[string]models.Product, len(products))
	for _, prod := range products {
		idx[pricing.CanonicalSKU(prod.SKU)] = prod
	}
	return idx, nil
}
