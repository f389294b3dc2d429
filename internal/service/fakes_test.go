package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/GTDGit/promo_api/internal/events"
	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/repository"
)

type fakeProducts struct {
	items map[string]models.Product
}

func newFakeProducts(ps ...models.Product) *fakeProducts {
	f := &fakeProducts{items: map[string]models.Product{}}
	for _, p := range ps {
		f.items[strings.ToUpper(p.SKU)] = p
	}
	return f
}

func (f *fakeProducts) List(_ context.Context, _ repository.ProductFilter) ([]models.Product, int, error) {
	all, _ := f.All(context.Background())
	return all, len(all), nil
}

func (f *fakeProducts) All(context.Context) ([]models.Product, error) {
	out := []models.Product{}
	for _, p := range f.items {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeProducts) GetBySKU(_ context.Context, sku string) (*models.Product, error) {
	p, ok := f.items[strings.ToUpper(strings.TrimSpace(sku))]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &p, nil
}

func (f *fakeProducts) GetBySKUs(_ context.Context, skus []string) ([]models.Product, error) {
	out := []models.Product{}
	for _, s := range skus {
		if p, ok := f.items[strings.ToUpper(strings.TrimSpace(s))]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (f *fakeProducts) Upsert(_ context.Context, p *models.Product) error {
	f.items[strings.ToUpper(p.SKU)] = *p
	return nil
}

func (f *fakeProducts) Delete(_ context.Context, sku string) (bool, error) {
	key := strings.ToUpper(sku)
	_, ok := f.items[key]
	delete(f.items, key)
	return ok, nil
}

func (f *fakeProducts) Categories(context.Context) ([]string, error) {
	return []string{}, nil
}

type fakePromotions struct {
	events map[string]models.PromotionEvent
	saves  int
}

func newFakePromotions() *fakePromotions {
	return &fakePromotions{events: map[string]models.PromotionEvent{}}
}

func (f *fakePromotions) Create(_ context.Context, p *models.PromotionEvent) error {
	cp := *p
	cp.Items = []models.PromotionItem{}
	f.events[p.ID] = cp
	return nil
}

func (f *fakePromotions) Update(_ context.Context, p *models.PromotionEvent) error {
	cur, ok := f.events[p.ID]
	if !ok {
		return sql.ErrNoRows
	}
	cp := *p
	cp.Items = cur.Items
	f.events[p.ID] = cp
	return nil
}

func (f *fakePromotions) UpdateStatus(_ context.Context, id string, status models.PromotionStatus) error {
	p := f.events[id]
	p.Status = status
	f.events[id] = p
	return nil
}

func (f *fakePromotions) Delete(_ context.Context, id string) (bool, error) {
	_, ok := f.events[id]
	delete(f.events, id)
	return ok, nil
}

func (f *fakePromotions) GetByID(_ context.Context, id string) (*models.PromotionEvent, error) {
	p, ok := f.events[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	p.Items = append([]models.PromotionItem{}, p.Items...)
	return &p, nil
}

func (f *fakePromotions) List(context.Context) ([]models.PromotionEvent, error) {
	out := []models.PromotionEvent{}
	for _, p := range f.events {
		out = append(out, p)
	}
	return out, nil
}

func (f *fakePromotions) SaveItems(_ context.Context, id string, items []models.PromotionItem) error {
	p, ok := f.events[id]
	if !ok {
		return errors.New("no such promotion")
	}
	f.saves++
	for _, it := range items {
		replaced := false
		for i := range p.Items {
			if p.Items[i].SKU == it.SKU {
				p.Items[i] = it
				replaced = true
			}
		}
		if !replaced {
			p.Items = append(p.Items, it)
		}
	}
	f.events[id] = p
	return nil
}

func (f *fakePromotions) DeleteItem(_ context.Context, id, sku string) (bool, error) {
	p := f.events[id]
	for i := range p.Items {
		if p.Items[i].SKU == sku {
			p.Items = append(p.Items[:i], p.Items[i+1:]...)
			f.events[id] = p
			return true, nil
		}
	}
	return false, nil
}

func (f *fakePromotions) ReconcileCandidates(context.Context) ([]models.PromotionEvent, error) {
	out := []models.PromotionEvent{}
	for _, p := range f.events {
		if p.Status != models.PromotionEnded {
			out = append(out, p)
		}
	}
	return out, nil
}

type fakeSales struct {
	logs []models.SalesLog
}

func (f *fakeSales) SaveMany(_ context.Context, logs []models.SalesLog) (int, error) {
	f.logs = append(f.logs, logs...)
	return len(logs), nil
}

func (f *fakeSales) List(context.Context, repository.SalesLogFilter) ([]models.SalesLog, int, error) {
	return f.logs, len(f.logs), nil
}

func (f *fakeSales) ForWindow(_ context.Context, _ []string, _, _ time.Time) ([]models.SalesLog, error) {
	return f.logs, nil
}

type fakeRules struct {
	pricing   []models.PricingRule
	logistics []models.LogisticsRule
}

func (f *fakeRules) PricingRules(context.Context) ([]models.PricingRule, error) {
	return f.pricing, nil
}

func (f *fakeRules) LogisticsRules(context.Context) ([]models.LogisticsRule, error) {
	return f.logistics, nil
}

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) Notify(_ context.Context, e events.Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

func (r *recorder) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, e := range r.events {
		out[i] = e.Type
	}
	return out
}

type fakeArchive struct {
	key         string
	data        []byte
	contentType string
}

func (f *fakeArchive) Upload(_ context.Context, key string, data []byte, contentType string) (string, error) {
	f.key, f.data, f.contentType = key, data, contentType
	return "s3://bucket/" + key, nil
}
