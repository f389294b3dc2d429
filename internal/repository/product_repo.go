package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/GTDGit/promo_api/internal/models"
)

const productColumns = `sku, name, category, subcategory, current_price, ca_price,
        cost_price, wms_fee, other_fee, subscription_fee, ads_fee,
        average_daily_sales, stock_level, optimal_price, floor_price,
        carton_weight AS "carton.weight", postage, channels, created_at, updated_at`

// ProductRepository handles data access for the product catalog.
type ProductRepository struct {
	db *sqlx.DB
}

// NewProductRepository creates a new ProductRepository.
func NewProductRepository(db *sqlx.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

// ProductFilter holds filters for catalog listing.
type ProductFilter struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// List returns a page of products and the total matching count.
// Search matches name or SKU case-insensitively.
func (r *ProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, int, error) {
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 200 {
		filter.Limit = 200
	}
	offset := (filter.Page - 1) * filter.Limit

	const baseWhere = `WHERE ($1 = '' OR category = $1)
        AND ($2 = '' OR name ILIKE '%' || $2 || '%' OR sku ILIKE '%' || $2 || '%')`

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(1) FROM products `+baseWhere, filter.Category, filter.Search); err != nil {
		return nil, 0, err
	}

	q := `SELECT ` + productColumns + ` FROM products ` + baseWhere + ` ORDER BY category, name LIMIT $3 OFFSET $4`
	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, q, filter.Category, filter.Search, filter.Limit, offset); err != nil {
		return nil, 0, err
	}
	return products, total, nil
}

// All returns the whole catalog ordered by SKU.
func (r *ProductRepository) All(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := r.db.SelectContext(ctx, &products, `SELECT `+productColumns+` FROM products ORDER BY sku`)
	return products, err
}

// GetBySKU returns one product, matching the SKU case-insensitively.
// It returns sql.ErrNoRows when the SKU does not exist.
func (r *ProductRepository) GetBySKU(ctx context.Context, sku string) (*models.Product, error) {
	stmt, err := r.db.PreparexContext(ctx, `SELECT `+productColumns+` FROM products WHERE UPPER(sku) = UPPER($1) LIMIT 1`)
	if err != nil {
		return nil, err
	}
	defer stmt.Close()

	var p models.Product
	if err := stmt.GetContext(ctx, &p, strings.TrimSpace(sku)); err != nil {
		return nil, err
	}
	return &p, nil
}

// GetBySKUs returns the products whose SKU is in skus.
func (r *ProductRepository) GetBySKUs(ctx context.Context, skus []string) ([]models.Product, error) {
	if len(skus) == 0 {
		return []models.Product{}, nil
	}
	products := []models.Product{}
	q := `SELECT ` + productColumns + ` FROM products WHERE UPPER(sku) = ANY($1) ORDER BY sku`
	err := r.db.SelectContext(ctx, &products, q, pq.Array(upperAll(skus)))
	return products, err
}

// Upsert inserts or updates a product by SKU.
func (r *ProductRepository) Upsert(ctx context.Context, p *models.Product) error {
	const q = `
        INSERT INTO products (sku, name, category, subcategory, current_price, ca_price,
            cost_price, wms_fee, other_fee, subscription_fee, ads_fee, average_daily_sales,
            stock_level, optimal_price, floor_price, carton_weight, postage, channels)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
        ON CONFLICT (sku) DO UPDATE SET
            name = EXCLUDED.name,
            category = EXCLUDED.category,
            subcategory = EXCLUDED.subcategory,
            current_price = EXCLUDED.current_price,
            ca_price = EXCLUDED.ca_price,
            cost_price = EXCLUDED.cost_price,
            wms_fee = EXCLUDED.wms_fee,
            other_fee = EXCLUDED.other_fee,
            subscription_fee = EXCLUDED.subscription_fee,
            ads_fee = EXCLUDED.ads_fee,
            average_daily_sales = EXCLUDED.average_daily_sales,
            stock_level = EXCLUDED.stock_level,
            optimal_price = EXCLUDED.optimal_price,
            floor_price = EXCLUDED.floor_price,
            carton_weight = EXCLUDED.carton_weight,
            postage = EXCLUDED.postage,
            channels = EXCLUDED.channels,
            updated_at = NOW()
        RETURNING created_at, updated_at`

	stmt, err := r.db.PreparexContext(ctx, q)
	if err != nil {
		return err
	}
	defer stmt.Close()

	return stmt.QueryRowxContext(ctx,
		p.SKU,
		p.Name,
		p.Category,
		p.Subcategory,
		p.CurrentPrice,
		p.CAPrice,
		p.CostPrice,
		p.WMSFee,
		p.OtherFee,
		p.SubscriptionFee,
		p.AdsFee,
		p.AverageDailySales,
		p.StockLevel,
		p.OptimalPrice,
		p.FloorPrice,
		p.CartonDimensions.Weight,
		p.Postage,
		p.Channels,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// Delete removes a product. It reports false when nothing was deleted.
func (r *ProductRepository) Delete(ctx context.Context, sku string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE UPPER(sku) = UPPER($1)`, sku)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	return n > 0, err
}

// Categories returns the distinct product categories.
func (r *ProductRepository) Categories(ctx context.Context) ([]string, error) {
	out := []string{}
	err := r.db.SelectContext(ctx, &out, `SELECT DISTINCT category FROM products WHERE category <> '' ORDER BY category`)
	return out, err
}

// IsNotFound reports whether err is a missing-row error.
func IsNotFound(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}

func wrap(op string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", op, err)
}

func upperAll(in []string) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = strings.ToUpper(strings.TrimSpace(s))
	}
	return out
}
