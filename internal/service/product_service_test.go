package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/utils"
)

func TestProductService(t *testing.T) {
	store := newFakeProducts(testCatalog()...)
	svc := NewProductService(store)
	ctx := context.Background()

	p, err := svc.GetProduct(ctx, "sku-a")
	require.NoError(t, err)
	assert.Equal(t, "Alpha", p.Name)

	_, err = svc.GetProduct(ctx, "missing")
	assert.ErrorIs(t, err, utils.ErrProductNotFound)

	err = svc.SaveProduct(ctx, &models.Product{SKU: "SKU-C", Name: "Charlie", CostPrice: dec("-1")})
	assert.ErrorIs(t, err, utils.ErrInvalidProduct)

	err = svc.SaveProduct(ctx, &models.Product{SKU: "  ", Name: "Nameless"})
	assert.ErrorIs(t, err, utils.ErrInvalidProduct)

	c := &models.Product{SKU: " SKU-C ", Name: "Charlie", CurrentPrice: dec("4")}
	require.NoError(t, svc.SaveProduct(ctx, c))
	assert.Equal(t, "SKU-C", c.SKU)
	assert.NotNil(t, c.Channels)

	catalog, err := svc.Catalog(ctx)
	require.NoError(t, err)
	assert.Len(t, catalog, 3)

	require.NoError(t, svc.DeleteProduct(ctx, "SKU-C"))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, "SKU-C"), utils.ErrProductNotFound)
}
