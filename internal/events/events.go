// Package events publishes promotion lifecycle events to downstream sinks.
package events

import (
	"context"
	"time"

	"github.com/GTDGit/promo_api/internal/models"
)

// Type names a promotion lifecycle event.
type Type string

const (
	PromotionCreated       Type = "promotion.created"
	PromotionUpdated       Type = "promotion.updated"
	PromotionDeleted       Type = "promotion.deleted"
	PromotionItemUpserted  Type = "promotion.item_upserted"
	PromotionItemRemoved   Type = "promotion.item_removed"
	PromotionImported      Type = "promotion.imported"
	PromotionStatusChanged Type = "promotion.status_changed"
)

// Event is the payload shared by every sink.
type Event struct {
	Type           Type                   `json:"event"`
	PromotionID    string                 `json:"promotionId"`
	Name           string                 `json:"name,omitempty"`
	Platform       string                 `json:"platform,omitempty"`
	Status         models.PromotionStatus `json:"status,omitempty"`
	PreviousStatus models.PromotionStatus `json:"previousStatus,omitempty"`
	SKUs           []string               `json:"skus,omitempty"`
	Count          int                    `json:"count,omitempty"`
	Timestamp      time.Time              `json:"timestamp"`
}

// New builds an event for p stamped with the current time.
func New(t Type, p *models.PromotionEvent) Event {
	e := Event{Type: t, Timestamp: time.Now().UTC()}
	if p != nil {
		e.PromotionID = p.ID
		e.Name = p.Name
		e.Platform = p.Platform
		e.Status = p.Status
	}
	return e
}

// Notifier delivers events. Implementations must not block the caller for
// long and report failures through logs, not return values.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// Multi fans an event out to every notifier in order.
type Multi []Notifier

// Notify implements Notifier.
func (m Multi) Notify(ctx context.Context, e Event) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, e)
		}
	}
}

// Nop discards events.
type Nop struct{}

// Notify implements Notifier.
func (Nop) Notify(context.Context, Event) {}
