package pricing

import (
	"time"

	"github.com/GTDGit/promo_api/internal/models"
)

// DeriveStatus compares instants: UPCOMING before start, ENDED after end,
// ACTIVE in between with both bounds inclusive.
func DeriveStatus(start, end, now time.Time) models.PromotionStatus {
	switch {
	case now.Before(start):
		return models.PromotionUpcoming
	case now.After(end):
		return models.PromotionEnded
	default:
		return models.PromotionActive
	}
}

// IsEditable reports whether items may still be added by hand.
func IsEditable(start, end, now time.Time) bool {
	return DeriveStatus(start, end, now) == models.PromotionUpcoming
}

// InclusiveEnd turns a date-only end (midnight in its own location) into
// the last instant of that day. Any other time is returned unchanged.
func InclusiveEnd(end time.Time) time.Time {
	if !end.Equal(dayOf(end, end.Location())) {
		return end
	}
	return end.AddDate(0, 0, 1).Add(-time.Nanosecond)
}

func dayOf(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d, 0, 0, 0, 0, loc)
}
