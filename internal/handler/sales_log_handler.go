package handler

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/repository"
	"github.com/GTDGit/promo_api/internal/utils"
)

type salesLogService interface {
	Record(ctx context.Context, logs []models.SalesLog) (int, error)
	List(ctx context.Context, f repository.SalesLogFilter) ([]models.SalesLog, int, error)
}

// SalesLogHandler records and lists daily sales history.
type SalesLogHandler struct {
	salesService salesLogService
}

// NewSalesLogHandler constructs a SalesLogHandler.
func NewSalesLogHandler(salesService salesLogService) *SalesLogHandler {
	return &SalesLogHandler{salesService: salesService}
}

// PostLogs upserts a batch of logs.
func (h *SalesLogHandler) PostLogs(c *gin.Context) {
	var req struct {
		Logs []models.SalesLog `json:"logs" binding:"required,dive"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Invalid request body")
		return
	}
	n, err := h.salesService.Record(c.Request.Context(), req.Logs)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.Success(c, 201, "Sales logs recorded successfully", gin.H{"recorded": n})
}

// GetLogs lists logs filtered by sku, platform and a from/to date range
// (YYYY-MM-DD).
func (h *SalesLogHandler) GetLogs(c *gin.Context) {
	page, limit := pageParams(c)
	f := repository.SalesLogFilter{
		SKU:      c.Query("sku"),
		Platform: c.Query("platform"),
		Page:     page,
		Limit:    limit,
	}
	var err error
	if f.From, err = parseDay(c.Query("from")); err != nil {
		badRequest(c, "from must be YYYY-MM-DD")
		return
	}
	if f.To, err = parseDay(c.Query("to")); err != nil {
		badRequest(c, "to must be YYYY-MM-DD")
		return
	}

	logs, total, err := h.salesService.List(c.Request.Context(), f)
	if err != nil {
		respondError(c, err)
		return
	}
	utils.SuccessWithPagination(c, 200, "Sales logs retrieved successfully", gin.H{"logs": logs}, page, limit, total)
}

func parseDay(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	return time.Parse("2006-01-02", s)
}
