package importer

import (
	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/pricing"
)

// SKUResolver maps a token from an import file to a catalog SKU. known is
// false when the token matched nothing and sku is the token itself.
type SKUResolver interface {
	Resolve(token string) (sku string, known bool)
}

// CatalogResolver resolves tokens against canonical SKUs first and then
// against platform SKU aliases, case-insensitively.
type CatalogResolver struct {
	bySKU   map[string]string
	byAlias map[string]string
}

// NewCatalogResolver indexes products. When two products share an alias the
// first one wins.
func NewCatalogResolver(products []models.Product) *CatalogResolver {
	r := &CatalogResolver{
		bySKU:   make(map[string]string, len(products)),
		byAlias: make(map[string]string),
	}
	for _, p := range products {
		r.bySKU[pricing.CanonicalSKU(p.SKU)] = p.SKU
	}
	for _, p := range products {
		for _, ch := range p.Channels {
			alias := pricing.CanonicalSKU(ch.SKUAlias)
			if alias == "" {
				continue
			}
			if _, exists := r.byAlias[alias]; !exists {
				r.byAlias[alias] = p.SKU
			}
		}
	}
	return r
}

// Resolve implements SKUResolver.
func (r *CatalogResolver) Resolve(token string) (string, bool) {
	key := pricing.CanonicalSKU(token)
	if sku, ok := r.bySKU[key]; ok {
		return sku, true
	}
	if sku, ok := r.byAlias[key]; ok {
		return sku, true
	}
	return key, false
}
