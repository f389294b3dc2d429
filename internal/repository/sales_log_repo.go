package repository

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/promo_api/internal/models"
)

const salesLogColumns = `id, sku, date, price, velocity, platform, profit, margin, ads_spend`

// SalesLogRepository stores the daily sales history.
type SalesLogRepository struct {
	db *sqlx.DB
}

// NewSalesLogRepository creates a new SalesLogRepository.
func NewSalesLogRepository(db *sqlx.DB) *SalesLogRepository {
	return &SalesLogRepository{db: db}
}

// SalesLogFilter narrows a log listing. Zero values are ignored.
type SalesLogFilter struct {
	SKU      string
	Platform string
	From     time.Time
	To       time.Time
	Page     int
	Limit    int
}

// SaveMany upserts logs on (sku, date, platform) in one transaction.
func (r *SalesLogRepository) SaveMany(ctx context.Context, logs []models.SalesLog) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, wrap("begin", err)
	}
	defer tx.Rollback()

	const q = `
        INSERT INTO sales_logs (sku, date, price, velocity, platform, profit, margin, ads_spend)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        ON CONFLICT (sku, date, platform) DO UPDATE SET
            price = EXCLUDED.price,
            velocity = EXCLUDED.velocity,
            profit = EXCLUDED.profit,
            margin = EXCLUDED.margin,
            ads_spend = EXCLUDED.ads_spend`
	stmt, err := tx.PreparexContext(ctx, q)
	if err != nil {
		return 0, wrap("prepare sales log upsert", err)
	}
	defer stmt.Close()

	for _, l := range logs {
		if _, err := stmt.ExecContext(ctx, l.SKU, l.Date, l.Price, l.Velocity, l.Platform, l.Profit, l.Margin, l.AdsSpend); err != nil {
			return 0, wrap("upsert sales log "+l.SKU, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, wrap("commit", err)
	}
	return len(logs), nil
}

// List returns a page of logs newest first and the total count.
func (r *SalesLogRepository) List(ctx context.Context, f SalesLogFilter) ([]models.SalesLog, int, error) {
	if f.Page <= 0 {
		f.Page = 1
	}
	if f.Limit <= 0 {
		f.Limit = 50
	}
	offset := (f.Page - 1) * f.Limit

	const baseWhere = `WHERE ($1 = '' OR UPPER(sku) = UPPER($1))
        AND ($2 = '' OR platform = $2)
        AND ($3::date IS NULL OR date >= $3::date)
        AND ($4::date IS NULL OR date <= $4::date)`
	from, to := nullTime(f.From), nullTime(f.To)

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM sales_logs `+baseWhere, f.SKU, f.Platform, from, to); err != nil {
		return nil, 0, wrap("count sales logs", err)
	}
	logs := []models.SalesLog{}
	q := `SELECT ` + salesLogColumns + ` FROM sales_logs ` + baseWhere + ` ORDER BY date DESC, sku LIMIT $5 OFFSET $6`
	if err := r.db.SelectContext(ctx, &logs, q, f.SKU, f.Platform, from, to, f.Limit, offset); err != nil {
		return nil, 0, wrap("list sales logs", err)
	}
	return logs, total, nil
}

// ForWindow returns every log for skus between from and to inclusive.
func (r *SalesLogRepository) ForWindow(ctx context.Context, skus []string, from, to time.Time) ([]models.SalesLog, error) {
	logs := []models.SalesLog{}
	if len(skus) == 0 {
		return logs, nil
	}
	q := `SELECT ` + salesLogColumns + ` FROM sales_logs
        WHERE UPPER(sku) = ANY($1) AND date >= $2::date AND date <= $3::date ORDER BY date`
	err := r.db.SelectContext(ctx, &logs, q, pq.Array(upperAll(skus)), from, to)
	return logs, wrap("sales logs for window", err)
}

func nullTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
