package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/promo_api/internal/models"
)

const promotionColumns = `id, name, platform, start_date, end_date, submission_deadline,
        remark, status, created_at, updated_at`

// PromotionRepository stores promotions and their items.
type PromotionRepository struct {
	db *sqlx.DB
}

// NewPromotionRepository creates a new PromotionRepository.
func NewPromotionRepository(db *sqlx.DB) *PromotionRepository {
	return &PromotionRepository{db: db}
}

// Create inserts a promotion without items.
func (r *PromotionRepository) Create(ctx context.Context, p *models.PromotionEvent) error {
	const q = `
        INSERT INTO promotions (id, name, platform, start_date, end_date, submission_deadline, remark, status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING created_at, updated_at`
	err := r.db.QueryRowxContext(ctx, q,
		p.ID, p.Name, p.Platform, p.StartDate, p.EndDate, p.SubmissionDeadline, p.Remark, p.Status,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	return wrap("create promotion", err)
}

// Update rewrites the header fields of a promotion. Items are untouched.
func (r *PromotionRepository) Update(ctx context.Context, p *models.PromotionEvent) error {
	const q = `
        UPDATE promotions
        SET name = $2, platform = $3, start_date = $4, end_date = $5,
            submission_deadline = $6, remark = $7, status = $8, updated_at = NOW()
        WHERE id = $1
        RETURNING updated_at`
	err := r.db.QueryRowxContext(ctx, q,
		p.ID, p.Name, p.Platform, p.StartDate, p.EndDate, p.SubmissionDeadline, p.Remark, p.Status,
	).Scan(&p.UpdatedAt)
	return wrap("update promotion", err)
}

// UpdateStatus persists the cached status value.
func (r *PromotionRepository) UpdateStatus(ctx context.Context, id string, status models.PromotionStatus) error {
	_, err := r.db.ExecContext(ctx, `UPDATE promotions SET status = $2, updated_at = NOW() WHERE id = $1`, id, status)
	return wrap("update promotion status", err)
}

// Delete removes a promotion; items cascade.
func (r *PromotionRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promotions WHERE id = $1`, id)
	if err != nil {
		return false, wrap("delete promotion", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// GetByID returns a promotion with its items in insertion order.
// It returns sql.ErrNoRows when the id does not exist.
func (r *PromotionRepository) GetByID(ctx context.Context, id string) (*models.PromotionEvent, error) {
	var p models.PromotionEvent
	if err := r.db.GetContext(ctx, &p, `SELECT `+promotionColumns+` FROM promotions WHERE id = $1`, id); err != nil {
		return nil, err
	}
	items := []models.PromotionItem{}
	const q = `
        SELECT promotion_id, sku, base_price, promo_price, discount_type, discount_value, updated_at
        FROM promotion_items WHERE promotion_id = $1 ORDER BY position, sku`
	if err := r.db.SelectContext(ctx, &items, q, id); err != nil {
		return nil, wrap("load promotion items", err)
	}
	p.Items = items
	return &p, nil
}

// List returns every promotion newest first, with items. Status filtering
// is left to the caller because the stored status is only a cache.
func (r *PromotionRepository) List(ctx context.Context) ([]models.PromotionEvent, error) {
	promos := []models.PromotionEvent{}
	if err := r.db.SelectContext(ctx, &promos, `SELECT `+promotionColumns+` FROM promotions ORDER BY start_date DESC, name`); err != nil {
		return nil, wrap("list promotions", err)
	}
	if len(promos) == 0 {
		return promos, nil
	}

	ids := make([]string, len(promos))
	byID := make(map[string]int, len(promos))
	for i := range promos {
		ids[i] = promos[i].ID
		byID[promos[i].ID] = i
		promos[i].Items = []models.PromotionItem{}
	}

	var items []models.PromotionItem
	const q = `
        SELECT promotion_id, sku, base_price, promo_price, discount_type, discount_value, updated_at
        FROM promotion_items WHERE promotion_id = ANY($1::uuid[]) ORDER BY promotion_id, position, sku`
	if err := r.db.SelectContext(ctx, &items, q, pq.Array(ids)); err != nil {
		return nil, wrap("list promotion items", err)
	}
	for _, it := range items {
		i := byID[it.PromotionID]
		promos[i].Items = append(promos[i].Items, it)
	}
	return promos, nil
}

// SaveItems upserts items on (promotion_id, sku) in one transaction. New
// SKUs are appended after the existing ones.
func (r *PromotionRepository) SaveItems(ctx context.Context, promotionID string, items []models.PromotionItem) error {
	if len(items) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return wrap("begin", err)
	}
	defer tx.Rollback()

	const q = `
        INSERT INTO promotion_items (promotion_id, sku, base_price, promo_price, discount_type, discount_value, position)
        VALUES ($1, $2, $3, $4, $5, $6,
            (SELECT COALESCE(MAX(position), 0) + 1 FROM promotion_items WHERE promotion_id = $1))
        ON CONFLICT (promotion_id, sku) DO UPDATE SET
            base_price = EXCLUDED.base_price,
            promo_price = EXCLUDED.promo_price,
            discount_type = EXCLUDED.discount_type,
            discount_value = EXCLUDED.discount_value,
            updated_at = NOW()`
	stmt, err := tx.PreparexContext(ctx, q)
	if err != nil {
		return wrap("prepare item upsert", err)
	}
	defer stmt.Close()

	for _, it := range items {
		if _, err := stmt.ExecContext(ctx, promotionID, it.SKU, it.BasePrice, it.PromoPrice, it.DiscountType, it.DiscountValue); err != nil {
			return wrap("upsert item "+it.SKU, err)
		}
	}
	if _, err := tx.ExecContext(ctx, `UPDATE promotions SET updated_at = NOW() WHERE id = $1`, promotionID); err != nil {
		return wrap("touch promotion", err)
	}
	return tx.Commit()
}

// DeleteItem removes one item.
func (r *PromotionRepository) DeleteItem(ctx context.Context, promotionID, sku string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM promotion_items WHERE promotion_id = $1 AND sku = $2`, promotionID, sku)
	if err != nil {
		return false, wrap("delete item", err)
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// ReconcileCandidates returns the promotions whose cached status may be
// stale, i.e. every one not already ENDED.
func (r *PromotionRepository) ReconcileCandidates(ctx context.Context) ([]models.PromotionEvent, error) {
	promos := []models.PromotionEvent{}
	err := r.db.SelectContext(ctx, &promos, `SELECT `+promotionColumns+` FROM promotions WHERE status <> 'ENDED'`)
	return promos, wrap("list reconcile candidates", err)
}
