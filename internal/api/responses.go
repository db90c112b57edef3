package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exposure-hq/briefdesk/internal/authz"
	"github.com/exposure-hq/briefdesk/internal/briefs"
	"github.com/exposure-hq/briefdesk/internal/models"
	"github.com/exposure-hq/briefdesk/internal/urgency"
)

// briefResponse is a brief plus its derived urgency annotations. The stored
// status and the display status are both present: the display value layers
// the overdue view on top without ever writing it back.
type briefResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Client        string    `json:"client"`
	CreatorEmail  string    `json:"creator_email"`
	DueDate       string    `json:"due_date"`
	Status        string    `json:"status"`
	DisplayStatus string    `json:"display_status"`
	DaysRemaining int       `json:"days_remaining"`
	Overdue       bool      `json:"overdue"`
	AtRisk        bool      `json:"at_risk"`
	Script        string    `json:"script,omitempty"`
	Shots         []string  `json:"shots,omitempty"`
	AirLink       string    `json:"air_link,omitempty"`
	MarkURL       string    `json:"mark_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func toBriefResponse(b *models.Brief, now time.Time) briefResponse {
	return briefResponse{
		ID:            b.ID,
		Title:         b.Title,
		Client:        b.Client,
		CreatorEmail:  b.CreatorEmail,
		DueDate:       b.DueDate.Format("2006-01-02"),
		Status:        b.Status,
		DisplayStatus: urgency.EffectiveStatus(b.Status, b.DueDate, now),
		DaysRemaining: urgency.DaysRemaining(b.DueDate, now),
		Overdue:       urgency.IsOverdue(b.Status, b.DueDate, now),
		AtRisk:        urgency.AtRisk(b.Status, b.DueDate, now),
		Script:        b.Script,
		Shots:         b.ShotList(),
		AirLink:       b.AirLink,
		MarkURL:       b.MarkURL,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}

func toBriefResponses(list []models.Brief, now time.Time) []briefResponse {
	out := make([]briefResponse, 0, len(list))
	for i := range list {
		out = append(out, toBriefResponse(&list[i], now))
	}
	return out
}

// respondError translates workflow errors into HTTP status codes.
func respondError(c *gin.Context, err error) {
	var verr *briefs.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.Is(err, authz.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
	case errors.Is(err, authz.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
	case errors.Is(err, briefs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "brief not found"})
	case errors.Is(err, briefs.ErrDuplicateSubmission):
		c.JSON(http.StatusConflict, gin.H{"error": "this brief has already been submitted"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
