package briefs

import "github.com/exposure-hq/briefdesk/internal/models"

// ValidStatus reports whether s is a recognized brief status.
func ValidStatus(s string) bool {
	switch s {
	case models.BriefStatusPending,
		models.BriefStatusInProgress,
		models.BriefStatusSubmitted,
		models.BriefStatusOverdue:
		return true
	}
	return false
}

// CanTransition reports whether moving a brief from one status to another is
// part of the normal workflow. Submitted is terminal here: the submission
// transition itself is guarded separately (creator plus mark URL), and an
// administrator changing a submitted brief is an override, not a workflow
// transition.
func CanTransition(from, to string) bool {
	if !ValidStatus(from) || !ValidStatus(to) {
		return false
	}
	if from == models.BriefStatusSubmitted {
		return false
	}
	if from == to {
		return false
	}
	// Any non-submitted status may be reordered among pending, in_progress
	// and overdue, and any of them may be submitted.
	return true
}
