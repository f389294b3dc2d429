package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/promo_api/internal/config"
	"github.com/GTDGit/promo_api/internal/events"
	"github.com/GTDGit/promo_api/internal/metrics"
	"github.com/GTDGit/promo_api/internal/models"
	"github.com/GTDGit/promo_api/internal/pricing"
	"github.com/GTDGit/promo_api/internal/repository"
	"github.com/GTDGit/promo_api/internal/utils"
)

// ruleSource supplies the rule tables used to build pricing inputs.
type ruleSource interface {
	PricingRules(ctx context.Context) ([]models.PricingRule, error)
	LogisticsRules(ctx context.Context) ([]models.LogisticsRule, error)
}

// PromotionService manages promotion events and their priced items.
type PromotionService struct {
	promoRepo   promotionStore
	productRepo productStore
	salesRepo   salesLogStore
	rules       ruleSource
	notifier    events.Notifier
	archive     Archiver
	settings    config.PricingConfig
	now         func() time.Time
}

// NewPromotionService constructs a PromotionService. archive may be nil, in
// which case ArchiveExport returns utils.ErrExportDisabled.
func NewPromotionService(
	promoRepo promotionStore,
	productRepo productStore,
	salesRepo salesLogStore,
	rules ruleSource,
	notifier events.Notifier,
	archive Archiver,
	settings config.PricingConfig,
) *PromotionService {
	if notifier == nil {
		notifier = events.Nop{}
	}
	return &PromotionService{
		promoRepo:   promoRepo,
		productRepo: productRepo,
		salesRepo:   salesRepo,
		rules:       rules,
		notifier:    notifier,
		archive:     archive,
		settings:    settings,
		now:         time.Now,
	}
}

// PromotionInput is the editable header of a promotion.
type PromotionInput struct {
	Name               string     `json:"name" binding:"required"`
	Platform           string     `json:"platform"`
	StartDate          time.Time  `json:"startDate" binding:"required"`
	EndDate            time.Time  `json:"endDate" binding:"required"`
	SubmissionDeadline *time.Time `json:"submissionDeadline"`
	Remark             *string    `json:"remark"`
}

func (in *PromotionInput) normalize() error {
	in.Name = strings.TrimSpace(in.Name)
	in.Platform = strings.TrimSpace(in.Platform)
	if in.Name == "" {
		return fmt.Errorf("%w: name is required", utils.ErrInvalidPromotion)
	}
	if in.Platform == "" {
		in.Platform = models.PlatformAll
	}
	if in.StartDate.IsZero() || in.EndDate.IsZero() || in.EndDate.Before(in.StartDate) {
		return utils.ErrInvalidDateRange
	}
	// A bare date covers the whole of its last day.
	in.EndDate = pricing.InclusiveEnd(in.EndDate)
	return nil
}

// Create stores a new promotion with no items.
func (s *PromotionService) Create(ctx context.Context, in PromotionInput) (*models.PromotionEvent, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	p := &models.PromotionEvent{
		ID:                 uuid.NewString(),
		Name:               in.Name,
		Platform:           in.Platform,
		StartDate:          in.StartDate,
		EndDate:            in.EndDate,
		SubmissionDeadline: in.SubmissionDeadline,
		Remark:             in.Remark,
		Status:             pricing.DeriveStatus(in.StartDate, in.EndDate, s.now()),
		Items:              []models.PromotionItem{},
	}
	if err := s.promoRepo.Create(ctx, p); err != nil {
		return nil, fmt.Errorf("create promotion: %w", err)
	}

	log.Info().Str("promotion_id", p.ID).Str("name", p.Name).Str("platform", p.Platform).Msg("promotion created")
	s.notifier.Notify(ctx, events.New(events.PromotionCreated, p))
	return p, nil
}

// Update rewrites the header of a promotion. Items are kept.
func (s *PromotionService) Update(ctx context.Context, id string, in PromotionInput) (*models.PromotionEvent, error) {
	if err := in.normalize(); err != nil {
		return nil, err
	}
	p, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	p.Name = in.Name
	p.Platform = in.Platform
	p.StartDate = in.StartDate
	p.EndDate = in.EndDate
	p.SubmissionDeadline = in.SubmissionDeadline
	p.Remark = in.Remark
	p.Status = pricing.DeriveStatus(p.StartDate, p.EndDate, s.now())

	if err := s.promoRepo.Update(ctx, p); err != nil {
		return nil, fmt.Errorf("update promotion: %w", err)
	}
	s.notifier.Notify(ctx, events.New(events.PromotionUpdated, p))
	return p, nil
}

// Delete removes a promotion and its items.
func (s *PromotionService) Delete(ctx context.Context, id string) error {
	p, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	ok, err := s.promoRepo.Delete(ctx, p.ID)
	if err != nil {
		return fmt.Errorf("delete promotion: %w", err)
	}
	if !ok {
		return utils.ErrPromotionNotFound
	}
	log.Info().Str("promotion_id", p.ID).Msg("promotion deleted")
	s.notifier.Notify(ctx, events.New(events.PromotionDeleted, p))
	return nil
}

// Get returns a promotion with its items. The status is derived from the
// clock, not read from storage.
func (s *PromotionService) Get(ctx context.Context, id string) (*models.PromotionEvent, error) {
	return s.load(ctx, id)
}

// List returns every promotion, optionally only those in status.
func (s *PromotionService) List(ctx context.Context, status string) ([]models.PromotionEvent, error) {
	want := models.PromotionStatus(strings.ToUpper(strings.TrimSpace(status)))
	switch want {
	case "", models.PromotionUpcoming, models.PromotionActive, models.PromotionEnded:
	default:
		return nil, fmt.Errorf("%w: unknown status %q", utils.ErrInvalidPromotion, status)
	}

	all, err := s.promoRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.now()
	out := make([]models.PromotionEvent, 0, len(all))
	for _, p := range all {
		p.Status = pricing.DeriveStatus(p.StartDate, p.EndDate, now)
		if want == "" || p.Status == want {
			out = append(out, p)
		}
	}
	return out, nil
}

// ReconcileStatuses persists the derived status of every promotion whose
// stored status is stale and emits a status change event for each. It
// returns the number of promotions updated.
func (s *PromotionService) ReconcileStatuses(ctx context.Context, now time.Time) (int, error) {
	candidates, err := s.promoRepo.ReconcileCandidates(ctx)
	if err != nil {
		return 0, err
	}

	changed := 0
	for i := range candidates {
		p := &candidates[i]
		next := pricing.DeriveStatus(p.StartDate, p.EndDate, now)
		if next == p.Status {
			continue
		}
		if err := s.promoRepo.UpdateStatus(ctx, p.ID, next); err != nil {
			log.Error().Err(err).Str("promotion_id", p.ID).Msg("failed to update promotion status")
			continue
		}

		prev := p.Status
		p.Status = next
		changed++
		metrics.StatusTransitions.WithLabelValues(string(next)).Inc()
		log.Info().
			Str("promotion_id", p.ID).
			Str("from", string(prev)).
			Str("to", string(next)).
			Msg("promotion status changed")

		e := events.New(events.PromotionStatusChanged, p)
		e.PreviousStatus = prev
		s.notifier.Notify(ctx, e)
	}
	return changed, nil
}

// load fetches a promotion and refreshes its derived status. Malformed ids
// are reported as not found.
func (s *PromotionService) load(ctx context.Context, id string) (*models.PromotionEvent, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, utils.ErrPromotionNotFound
	}
	p, err := s.promoRepo.GetByID(ctx, id)
	if repository.IsNotFound(err) {
		return nil, utils.ErrPromotionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get promotion: %w", err)
	}
	if p.Items == nil {
		p.Items = []models.PromotionItem{}
	}
	p.Status = pricing.DeriveStatus(p.StartDate, p.EndDate, s.now())
	return p, nil
}

// builder assembles engine inputs for a promotion's platform.
func (s *PromotionService) builder(ctx context.Context, platform string) (*pricing.Builder, error) {
	pr, err := s.rules.PricingRules(ctx)
	if err != nil {
		return nil, err
	}
	lr, err := s.rules.LogisticsRules(ctx)
	if err != nil {
		return nil, err
	}
	return pricing.NewBuilder(pricing.Inputs{
		PricingRules:          models.NewPricingRules(pr),
		LogisticsRules:        lr,
		VATRate:               s.settings.VATRate,
		Platform:              platform,
		FallbackCommissionPct: s.settings.DefaultCommissionPct,
	}), nil
}
