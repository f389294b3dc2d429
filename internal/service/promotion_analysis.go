package service

import (
	"context"
	"fmt"
	"time"

	"github.com/GTDGit/promo_api/internal/metrics"
	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/pricing"
)

// Projection returns the campaign-level profit projection for a promotion.
// Large promotions are summed on several goroutines.
func (s *PromotionService) Projection(ctx context.Context, id string) (*pricing.Projection, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	_, proj, err := s.project(ctx, p)
	if err != nil {
		return nil, err
	}
	return &proj, nil
}

// Actuals compares recorded sales during the promotion with its projection.
func (s *PromotionService) Actuals(ctx context.Context, id string) (*pricing.Actuals, error) {
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	products, proj, err := s.project(ctx, p)
	if err != nil {
		return nil, err
	}

	skus := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		skus = append(skus, it.SKU)
	}
	logs, err := s.salesRepo.ForWindow(ctx, skus, p.StartDate, p.EndDate)
	if err != nil {
		return nil, fmt.Errorf("load sales logs: %w", err)
	}

	act := pricing.CompareActuals(*p, products, logs, proj, s.settings.VATRate)
	return &act, nil
}

func (s *PromotionService) project(ctx context.Context, p *models.PromotionEvent) ([]models.Product, pricing.Projection, error) {
	skus := make([]string, 0, len(p.Items))
	for _, it := range p.Items {
		skus = append(skus, it.SKU)
	}
	products, err := s.productRepo.GetBySKUs(ctx, skus)
	if err != nil {
		return nil, pricing.Projection{}, fmt.Errorf("load products: %w", err)
	}

	start := time.Now()
	if s.settings.ProjectionWorkers > 1 && len(p.Items) >= s.settings.ParallelThreshold {
		proj, err := pricing.ProjectCampaignConcurrent(ctx, p.Items, products, s.settings.VATRate, s.settings.ProjectionWorkers)
		metrics.ProjectionDuration.WithLabelValues("concurrent").Observe(time.Since(start).Seconds())
		if err != nil {
			return nil, pricing.Projection{}, err
		}
		return products, proj, nil
	}

	proj := pricing.ProjectCampaign(p.Items, products, s.settings.VATRate)
	metrics.ProjectionDuration.WithLabelValues("sequential").Observe(time.Since(start).Seconds())
	return products, proj, nil
}
