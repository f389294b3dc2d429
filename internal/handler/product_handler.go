package handler

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/repository"
	"github.com/GTDGit/promo_api/internal/utils"
)

type productService interface {
	GetProducts(ctx context.Context, filter repository.ProductFilter) ([]models.Product, int, error)
	GetProduct(ctx context.Context, sku string) (*models.Product, error)
	SaveProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, sku string) error
	Categories(ctx context.Context) ([]string, error)
}

// ProductHandler handles catalog HTTP endpoints.
type ProductHandler struct {
	productService productService
}

// NewProductHandler constructs a ProductHandler.
func NewProductHandler(productService productService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GetProducts returns the product list with optional filters and pagination.
func (h *ProductHandler) GetProducts(c *gin.Context) {
	page, limit := pageParams(c)
	filter := repository.ProductFilter{
		Category: c.Query("category"),
		Search:   strings.TrimSpace(c.Query("search")),
		Page:     page,
		Limit:    limit,
	}

	products, total, err := h.productService.GetProducts(c.Request.Context(), filter)
	if err != nil {
		respondError(c, err)
		return
	}

	utils.SuccessWithPagination(c, 200, "Products retrieved successfully", gin.H{
		"products": products,
	}, page, limit, total)
}

// GetProduct returns one product.
func (h *ProductHandler) GetProduct(c *gin.Context) {
	p, err := h.productService.GetProduct(c.Request.Context(), c.Param("sku"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product retrieved successfully", p)
}

// PutProduct creates or replaces the product at :sku.
func (h *ProductHandler) PutProduct(c *gin.Context) {
	var p models.Product
	if err := c.ShouldBindJSON(&p); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	p.SKU = c.Param("sku")
	if err := h.productService.SaveProduct(c.Request.Context(), &p); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product saved successfully", p)
}

// DeleteProduct removes a product.
func (h *ProductHandler) DeleteProduct(c *gin.Context) {
	if err := h.productService.DeleteProduct(c.Request.Context(), c.Param("sku")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Product deleted successfully", nil)
}

// GetCategories lists the catalog categories.
func (h *ProductHandler) GetCategories(c *gin.Context) {
	cats, err := h.productService.Categories(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Categories retrieved successfully", gin.H{"categories": cats})
}
