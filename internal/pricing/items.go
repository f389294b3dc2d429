package pricing

import "github.com/GTDGit/promo_api/internal/models"

// UpsertItem returns a copy of items holding item exactly once per SKU. It
// replaces an existing entry in place and reports whether it did.
func UpsertItem(items []models.PromotionItem, item models.PromotionItem) ([]models.PromotionItem, bool) {
	key := CanonicalSKU(item.SKU)
	out := make([]models.PromotionItem, len(items), len(items)+1)
	copy(out, items)
	for i := range out {
		if CanonicalSKU(out[i].SKU) == key {
			out[i] = item
			return out, true
		}
	}
	return append(out, item), false
}

// RemoveItem returns a copy of items without sku.
func RemoveItem(items []models.PromotionItem, sku string) ([]models.PromotionItem, bool) {
	key := CanonicalSKU(sku)
	out := make([]models.PromotionItem, 0, len(items))
	removed := false
	for _, it := range items {
		if CanonicalSKU(it.SKU) == key {
			removed = true
			continue
		}
		out = append(out, it)
	}
	return out, removed
}

// FindItem returns the item for sku.
func FindItem(items []models.PromotionItem, sku string) (models.PromotionItem, bool) {
	key := CanonicalSKU(sku)
	for _, it := range items {
		if CanonicalSKU(it.SKU) == key {
			return it, true
		}
	}
	return models.PromotionItem{}, false
}
