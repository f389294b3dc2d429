package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/utils"
)

func TestSalesLogService_Record(t *testing.T) {
	store := &fakeSales{}
	svc := NewSalesLogService(store)

	n, err := svc.Record(context.Background(), []models.SalesLog{{
		SKU:      " SKU-A ",
		Platform: "eBay",
		Date:     time.Date(2026, 2, 25, 17, 30, 0, 0, time.UTC),
		Price:    dec("9.49"),
		Velocity: dec("6"),
	}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	require.Len(t, store.logs, 1)
	assert.Equal(t, "SKU-A", store.logs[0].SKU)
	assert.Equal(t, day(2026, 2, 25), store.logs[0].Date)
}

func TestSalesLogService_RecordInvalid(t *testing.T) {
	svc := NewSalesLogService(&fakeSales{})
	ctx := context.Background()

	tests := map[string][]models.SalesLog{
		"empty":            nil,
		"missing platform": {{SKU: "A", Date: day(2026, 1, 1)}},
		"missing date":     {{SKU: "A", Platform: "eBay"}},
		"negative price":   {{SKU: "A", Platform: "eBay", Date: day(2026, 1, 1), Price: dec("-1")}},
	}
	for name, logs := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := svc.Record(ctx, logs)
			assert.ErrorIs(t, err, utils.ErrInvalidSalesLog)
		})
	}
}
