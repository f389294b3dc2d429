package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// statusReconciler persists derived promotion statuses.
type statusReconciler interface {
	ReconcileStatuses(ctx context.Context, now time.Time) (int, error)
}

// StatusCheckWorker keeps the stored status of every promotion in step with
// the clock so UPCOMING -> ACTIVE -> ENDED transitions are announced even
// when nobody reads the promotion.
type StatusCheckWorker struct {
	promotions statusReconciler
	interval   time.Duration
	now        func() time.Time
}

// NewStatusCheckWorker constructs a StatusCheckWorker.
func NewStatusCheckWorker(promotions statusReconciler, interval time.Duration) *StatusCheckWorker {
	if interval <= 0 {
		interval = time.Minute
	}
	return &StatusCheckWorker{promotions: promotions, interval: interval, now: time.Now}
}

// Start runs once immediately, then on every tick until context is canceled.
func (w *StatusCheckWorker) Start(ctx context.Context) {
	log.Info().Dur("interval", w.interval).Msg("Starting status check worker")

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	w.run(ctx)
	for {
		select {
		case <-ticker.C:
			w.run(ctx)
		case <-ctx.Done():
			log.Info().Msg("Status check worker stopped")
			return
		}
	}
}

func (w *StatusCheckWorker) run(ctx context.Context) {
	changed, err := w.promotions.ReconcileStatuses(ctx, w.now())
	if err != nil {
		log.Error().Err(err).Msg("Failed to reconcile promotion statuses")
		return
	}
	if changed > 0 {
		log.Info().Int("changed", changed).Msg("Promotion statuses reconciled")
	}
}
