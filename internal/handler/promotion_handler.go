package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/pricing"
	"github.com/GTDGit/promo_api/internal/service"
	"github.com/GTDGit/promo_api/internal/utils"
)

// maxImportSize caps an uploaded price file.
const maxImportSize = 10 << 20

type promotionService interface {
	Create(ctx context.Context, in service.PromotionInput) (*models.PromotionEvent, error)
	Update(ctx context.Context, id string, in service.PromotionInput) (*models.PromotionEvent, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (*models.PromotionEvent, error)
	List(ctx context.Context, status string) ([]models.PromotionEvent, error)
	AddItems(ctx context.Context, id string, req service.ItemRequest) (*service.ItemResult, error)
	RemoveItem(ctx context.Context, id, sku string) error
	Quote(ctx context.Context, id string, req service.ItemRequest) (*service.ItemResult, error)
	Items(ctx context.Context, id string) ([]pricing.ItemQuote, error)
	Projection(ctx context.Context, id string) (*pricing.Projection, error)
	Actuals(ctx context.Context, id string) (*pricing.Actuals, error)
	ImportCSV(ctx context.Context, id string, r io.Reader, rule models.DiscountRule) (*service.ImportSummary, error)
	ExportCSV(ctx context.Context, id string, w io.Writer) error
	ArchiveExport(ctx context.Context, id string) (string, error)
}

// PromotionHandler serves promotion events, their items and pricing views.
type PromotionHandler struct {
	promoService promotionService
}

// NewPromotionHandler constructs a PromotionHandler.
func NewPromotionHandler(promoService promotionService) *PromotionHandler {
	return &PromotionHandler{promoService: promoService}
}

// GetPromotions lists promotions, optionally filtered by ?status=.
func (h *PromotionHandler) GetPromotions(c *gin.Context) {
	promos, err := h.promoService.List(c.Request.Context(), c.Query("status"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Promotions retrieved successfully", gin.H{"promotions": promos})
}

func (h *PromotionHandler) CreatePromotion(c *gin.Context) {
	var in service.PromotionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	p, err := h.promoService.Create(c.Request.Context(), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Promotion created successfully", p)
}

func (h *PromotionHandler) GetPromotion(c *gin.Context) {
	p, err := h.promoService.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Promotion retrieved successfully", p)
}

func (h *PromotionHandler) UpdatePromotion(c *gin.Context) {
	var in service.PromotionInput
	if err := c.ShouldBindJSON(&in); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	p, err := h.promoService.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Promotion updated successfully", p)
}

func (h *PromotionHandler) DeletePromotion(c *gin.Context) {
	if err := h.promoService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Promotion deleted successfully", nil)
}

// GetItems returns each item with its margin detail.
func (h *PromotionHandler) GetItems(c *gin.Context) {
	items, err := h.promoService.Items(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Items retrieved successfully", gin.H{"items": items})
}

// AddItems prices products into the promotion.
func (h *PromotionHandler) AddItems(c *gin.Context) {
	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	if len(req.SKUs) == 0 {
		badRequest(c, "skus must not be empty")
		return
	}
	res, err := h.promoService.AddItems(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Items saved successfully", res)
}

func (h *PromotionHandler) RemoveItem(c *gin.Context) {
	if err := h.promoService.RemoveItem(c.Request.Context(), c.Param("id"), c.Param("sku")); err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Item removed successfully", nil)
}

// Quote previews prices without saving them.
func (h *PromotionHandler) Quote(c *gin.Context) {
	var req service.ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	res, err := h.promoService.Quote(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Quote computed successfully", res)
}

func (h *PromotionHandler) GetProjection(c *gin.Context) {
	proj, err := h.promoService.Projection(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Projection computed successfully", proj)
}

func (h *PromotionHandler) GetActuals(c *gin.Context) {
	act, err := h.promoService.Actuals(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Actuals computed successfully", act)
}

// ImportCSV accepts a multipart "file" field or a raw text/csv body. The
// discountType and discountValue query parameters set the rule recorded on
// imported items; without them the rule is inferred from each price. A
// value without a type is a percentage.
func (h *PromotionHandler) ImportCSV(c *gin.Context) {
	rule := models.DiscountRule{Type: models.DiscountType(strings.ToUpper(c.Query("discountType")))}
	if v := c.Query("discountValue"); v != "" {
		d, err := decimal.NewFromString(v)
		if err != nil {
			badRequest(c, "discountValue must be a number")
			return
		}
		rule.Value = d
		if rule.Type == "" {
			rule.Type = models.DiscountPercentage
		}
	}

	var body io.Reader
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("file")
		if err != nil {
			badRequest(c, "Missing file field")
			return
		}
		if fh.Size > maxImportSize {
			fileTooLarge(c)
			return
		}
		f, err := fh.Open()
		if err != nil {
			badRequest(c, "Unreadable file")
			return
		}
		defer f.Close()
		body = f
	} else {
		body = http.MaxBytesReader(c.Writer, c.Request.Body, maxImportSize)
	}

	sum, err := h.promoService.ImportCSV(c.Request.Context(), c.Param("id"), body, rule)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			fileTooLarge(c)
			return
		}
		respondError(c, err)
		return
	}
	utils.Success(c, 200, "Prices imported successfully", sum)
}

func fileTooLarge(c *gin.Context) {
	utils.Error(c, http.StatusRequestEntityTooLarge, utils.ErrInvalidCSV.Error(), fmt.Sprintf("File exceeds %d bytes", maxImportSize))
}

// ExportCSV streams the promotion's items as a CSV attachment.
func (h *PromotionHandler) ExportCSV(c *gin.Context) {
	id := c.Param("id")
	var buf strings.Builder
	if err := h.promoService.ExportCSV(c.Request.Context(), id, &buf); err != nil {
		respondError(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="promotion-%s.csv"`, id))
	c.Data(200, "text/csv; charset=utf-8", []byte(buf.String()))
}

// ArchiveExport stores the CSV export in object storage.
func (h *PromotionHandler) ArchiveExport(c *gin.Context) {
	location, err := h.promoService.ArchiveExport(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Export archived successfully", gin.H{"location": location})
}
