package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/repository"
	"github.com/GTDGit/promo_api/internal/utils"
)

// ProductService provides catalog business logic.
type ProductService struct {
	productRepo productStore
}

// NewProductService constructs a ProductService.
func NewProductService(productRepo productStore) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// GetProducts returns a page of the catalog and the total number of matches.
func (s *ProductService) GetProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int, error) {
	return s.productRepo.List(ctx, filter)
}

// GetProduct returns a product by SKU.
func (s *ProductService) GetProduct(ctx context.Context, sku string) (*models.Product, error) {
	p, err := s.productRepo.GetBySKU(ctx, sku)
	if repository.IsNotFound(err) {
		return nil, utils.ErrProductNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	return p, nil
}

// SaveProduct validates and upserts a product. Cost components and velocity
// are stored as given; negative values are rejected here rather than
// silently zeroed by the engine later.
func (s *ProductService) SaveProduct(ctx context.Context, p *models.Product) error {
	p.SKU = strings.TrimSpace(p.SKU)
	if p.SKU == "" || strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("%w: sku and name are required", utils.ErrInvalidProduct)
	}
	for name, v := range map[string]decimal.Decimal{
		"currentPrice":      p.CurrentPrice,
		"costPrice":         p.CostPrice,
		"wmsFee":            p.WMSFee,
		"otherFee":          p.OtherFee,
		"subscriptionFee":   p.SubscriptionFee,
		"adsFee":            p.AdsFee,
		"averageDailySales": p.AverageDailySales,
		"postage":           p.Postage,
	} {
		if v.IsNegative() {
			return fmt.Errorf("%w: %s must not be negative", utils.ErrInvalidProduct, name)
		}
	}
	if p.Channels == nil {
		p.Channels = models.Channels{}
	}
	if err := s.productRepo.Upsert(ctx, p); err != nil {
		return fmt.Errorf("save product: %w", err)
	}
	return nil
}

// DeleteProduct removes a product.
func (s *ProductService) DeleteProduct(ctx context.Context, sku string) error {
	ok, err := s.productRepo.Delete(ctx, sku)
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	if !ok {
		return utils.ErrProductNotFound
	}
	return nil
}

// Categories returns the distinct categories in the catalog.
func (s *ProductService) Categories(ctx context.Context) ([]string, error) {
	return s.productRepo.Categories(ctx)
}

// Catalog returns every product, used as engine input.
func (s *ProductService) Catalog(ctx context.Context) ([]models.Product, error) {
	products, err := s.productRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	return products, nil
}
