package briefs

import (
	"testing"

	"github.com/exposure-hq/briefdesk/internal/models"
)

func TestValidStatus(t *testing.T) {
	for _, s := range []string{"pending", "in_progress", "submitted", "overdue"} {
		if !ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = false, want true", s)
		}
	}
	for _, s := range []string{"", "done", "in progress", "PENDING"} {
		if ValidStatus(s) {
			t.Errorf("ValidStatus(%q) = true, want false", s)
		}
	}
}

func TestCanTransition(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{models.BriefStatusPending, models.BriefStatusInProgress, true},
		{models.BriefStatusInProgress, models.BriefStatusPending, true},
		{models.BriefStatusPending, models.BriefStatusOverdue, true},
		{models.BriefStatusInProgress, models.BriefStatusOverdue, true},
		{models.BriefStatusOverdue, models.BriefStatusInProgress, true},
		{models.BriefStatusOverdue, models.BriefStatusPending, true},
		{models.BriefStatusPending, models.BriefStatusSubmitted, true},
		{models.BriefStatusInProgress, models.BriefStatusSubmitted, true},
		{models.BriefStatusOverdue, models.BriefStatusSubmitted, true},

		// submitted is terminal through the normal workflow
		{models.BriefStatusSubmitted, models.BriefStatusPending, false},
		{models.BriefStatusSubmitted, models.BriefStatusInProgress, false},
		{models.BriefStatusSubmitted, models.BriefStatusOverdue, false},
		{models.BriefStatusSubmitted, models.BriefStatusSubmitted, false},

		{models.BriefStatusPending, models.BriefStatusPending, false},
		{models.BriefStatusPending, "done", false},
		{"done", models.BriefStatusPending, false},
	}

	for _, tt := range tests {
		if got := CanTransition(tt.from, tt.to); got != tt.want {
			t.Errorf("CanTransition(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}
