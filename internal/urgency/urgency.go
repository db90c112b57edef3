// Package urgency derives time-pressure facts from a brief's due date.
// Everything here is pure: callers pass the clock in, nothing is persisted.
package urgency

import (
	"math"
	"time"

	"github.com/exposure-hq/briefdesk/internal/models"
)

// AtRiskWindowDays is the display threshold under which a brief is
// highlighted as at risk of running overdue.
const AtRiskWindowDays = 3

// DaysRemaining returns the number of whole or partial days between now and
// the due date, rounded up. A brief due later today yields 0; a negative
// value means the due date has passed by at least a full day.
func DaysRemaining(due, now time.Time) int {
	diff := due.Sub(now)
	return int(math.Ceil(diff.Hours() / 24))
}

// IsOverdue reports whether a brief with the given status and due date has
// run past its deadline. Submitted briefs are never overdue regardless of
// their due date.
func IsOverdue(status string, due, now time.Time) bool {
	if status == models.BriefStatusSubmitted {
		return false
	}
	return DaysRemaining(due, now) < 0
}

// AtRisk reports whether a brief should be highlighted as approaching its
// deadline. Overdue briefs are at risk by definition; submitted ones never.
func AtRisk(status string, due, now time.Time) bool {
	if status == models.BriefStatusSubmitted {
		return false
	}
	return DaysRemaining(due, now) <= AtRiskWindowDays
}

// EffectiveStatus layers the derived overdue view over the stored status.
// The returned value is for display only and is never written back.
func EffectiveStatus(status string, due, now time.Time) string {
	if IsOverdue(status, due, now) {
		return models.BriefStatusOverdue
	}
	return status
}
