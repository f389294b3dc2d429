package service

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog/log"

	"github.com/GTDGit/promo_api/internal/events"
	"github.com/GTDGit/promo_api/internal/importer"
	"github.com/GTDGit/promo_api/internal/metrics"
	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/pricing"
	"github.com/GTDGit/promo_api/internal/utils"
)

// ImportSummary reports the outcome of a bulk price import.
type ImportSummary struct {
	SKUColumn   string              `json:"skuColumn"`
	PriceColumn string              `json:"priceColumn"`
	Created     int                 `json:"created"`
	Updated     int                 `json:"updated"`
	Items       []pricing.ItemQuote `json:"items"`
	Unknown     []string            `json:"unknown"`
	Invalid     []importer.RowError `json:"invalid"`
}

// ImportCSV applies a price file to a promotion. Each row's price becomes a
// manual override for its SKU. Import is allowed in any status and is
// idempotent per SKU. When rule has no type, each item records the rule
// that explains its price: the item's current rule if it still matches,
// otherwise a FIXED discount of base minus promo.
func (s *PromotionService) ImportCSV(ctx context.Context, id string, r io.Reader, rule models.DiscountRule) (*ImportSummary, error) {
	infer := rule.Type == ""
	if infer {
		rule = models.DiscountRule{Type: models.DiscountPercentage}
	}
	if err := validateRule(rule); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	catalog, err := s.productRepo.All(ctx)
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}
	parsed, err := importer.ParsePriceCSV(r, importer.NewCatalogResolver(catalog))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", utils.ErrInvalidCSV, err)
	}

	req := ItemRequest{Rule: rule, Overrides: map[string]string{}, inferRule: infer}
	for _, row := range parsed.Rows {
		if !row.Known {
			continue
		}
		req.SKUs = append(req.SKUs, row.SKU)
		req.Overrides[row.SKU] = row.Price.String()
	}

	res, err := s.price(ctx, p, req)
	if err != nil {
		return nil, err
	}
	if len(res.Items) > 0 {
		if err := s.store(ctx, p, res); err != nil {
			return nil, err
		}
	}

	unknown := parsed.Unknown()
	if unknown == nil {
		unknown = []string{}
	}
	unknown = append(unknown, res.Unknown...)
	invalid := parsed.Invalid
	if invalid == nil {
		invalid = []importer.RowError{}
	}

	metrics.ImportRows.WithLabelValues("imported").Add(float64(len(res.Items)))
	metrics.ImportRows.WithLabelValues("unknown").Add(float64(len(unknown)))
	metrics.ImportRows.WithLabelValues("invalid").Add(float64(len(invalid)))

	log.Info().
		Str("promotion_id", p.ID).
		Int("imported", len(res.Items)).
		Int("unknown", len(unknown)).
		Int("invalid", len(invalid)).
		Msg("price file imported")

	e := events.New(events.PromotionImported, p)
	e.Count = len(res.Items)
	s.notifier.Notify(ctx, e)

	return &ImportSummary{
		SKUColumn:   parsed.SKUColumn,
		PriceColumn: parsed.PriceColumn,
		Created:     res.Created,
		Updated:     res.Updated,
		Items:       res.Items,
		Unknown:     unknown,
		Invalid:     invalid,
	}, nil
}

// ExportCSV writes the promotion's items in the import format. Items whose
// product has left the catalog are written without a name or margin.
func (s *PromotionService) ExportCSV(ctx context.Context, id string, w io.Writer) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	rows, err := s.exportRows(ctx, p)
	if err != nil {
		return err
	}
	return importer.WritePriceCSV(w, rows)
}

// ArchiveExport uploads the CSV export to object storage and returns its
// location.
func (s *PromotionService) ArchiveExport(ctx context.Context, id string) (string, error) {
	if s.archive == nil {
		return "", utils.ErrExportDisabled
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return "", err
	}
	rows, err := s.exportRows(ctx, p)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := importer.WritePriceCSV(&buf, rows); err != nil {
		return "", err
	}
	key := fmt.Sprintf("exports/promotions/%s/%s.csv", p.ID, s.now().UTC().Format("20060102T150405Z"))
	location, err := s.archive.Upload(ctx, key, buf.Bytes(), "text/csv")
	if err != nil {
		return "", fmt.Errorf("archive export: %w", err)
	}
	log.Info().Str("promotion_id", p.ID).Str("location", location).Msg("export archived")
	return location, nil
}

func (s *PromotionService) exportRows(ctx context.Context, p *models.PromotionEvent) ([]importer.ExportRow, error) {
	b, err := s.builder(ctx, p.Platform)
	if err != nil {
		return nil, err
	}
	idx, err := s.catalogFor(ctx, p.Items)
	if err != nil {
		return nil, err
	}

	rows := make([]importer.ExportRow, 0, len(p.Items))
	for _, it := range p.Items {
		row := importer.ExportRow{
			SKU:           it.SKU,
			BasePrice:     it.BasePrice,
			PromoPrice:    it.PromoPrice,
			DiscountType:  string(it.DiscountType),
			DiscountValue: it.DiscountValue,
		}
		if prod, ok := idx[pricing.CanonicalSKU(it.SKU)]; ok {
			q := b.Reprice(prod, it)
			row.Name = prod.Name
			row.MarginPct = q.Margin.MarginPct
		}
		rows = append(rows, row)
	}
	return rows, nil
}
