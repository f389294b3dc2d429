package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/repository"
	"github.com/GTDGit/promo_api/internal/utils"
)

// SalesLogService records and lists daily sales history.
type SalesLogService struct {
	salesRepo salesLogStore
}

// NewSalesLogService constructs a SalesLogService.
func NewSalesLogService(salesRepo salesLogStore) *SalesLogService {
	return &SalesLogService{salesRepo: salesRepo}
}

// Record validates and upserts logs on (sku, date, platform). Dates are
// truncated to the day.
func (s *SalesLogService) Record(ctx context.Context, logs []models.SalesLog) (int, error) {
	if len(logs) == 0 {
		return 0, fmt.Errorf("%w: no logs", utils.ErrInvalidSalesLog)
	}
	for i := range logs {
		l := &logs[i]
		l.SKU = strings.TrimSpace(l.SKU)
		l.Platform = strings.TrimSpace(l.Platform)
		if l.SKU == "" || l.Platform == "" || l.Date.IsZero() {
			return 0, fmt.Errorf("%w: entry %d needs sku, platform and date", utils.ErrInvalidSalesLog, i)
		}
		if l.Price.IsNegative() || l.Velocity.IsNegative() {
			return 0, fmt.Errorf("%w: entry %d has a negative price or velocity", utils.ErrInvalidSalesLog, i)
		}
		y, m, d := l.Date.Date()
		l.Date = time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
	}

	n, err := s.salesRepo.SaveMany(ctx, logs)
	if err != nil {
		return 0, fmt.Errorf("save sales logs: %w", err)
	}
	log.Info().Int("count", n).Msg("sales logs recorded")
	return n, nil
}

// List returns a page of sales logs.
func (s *SalesLogService) List(ctx context.Context, f repository.SalesLogFilter) ([]models.SalesLog, int, error) {
	return s.salesRepo.List(ctx, f)
}
