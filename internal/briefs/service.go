package briefs

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/exposure-hq/briefdesk/internal/authz"
	"github.com/exposure-hq/briefdesk/internal/models"
	"github.com/exposure-hq/briefdesk/internal/urgency"
)

// SyncRequest is the payload mirrored to the external tracker after a
// successful submission.
type SyncRequest struct {
	BriefID string `json:"brief_id"`
	Status  string `json:"status"`
	MarkURL string `json:"mark_url"`
}

// SyncStatusSubmitted is the status value the external tracker expects for a
// completed submission. The tracker uses title case, unlike our stored values.
const SyncStatusSubmitted = "Submitted"

// Syncer mirrors a lifecycle transition to the external tracker. Delivery is
// best effort: the workflow never fails an operation because a Syncer did.
type Syncer interface {
	SyncSubmission(ctx context.Context, req SyncRequest) error
}

// Service orchestrates the brief lifecycle: it validates a requested change,
// applies the authorization gate, persists through the store, and mirrors
// submissions to the external tracker. It holds no per-brief state; every
// operation reads current rows, writes, and discards its copy.
type Service struct {
	store  Store
	gate   *authz.Gate
	sync   Syncer
	logger *slog.Logger

	// now is swappable so urgency-sensitive paths are testable.
	now func() time.Time
}

// NewService wires a Service. sync may be nil when no tracker is configured;
// submissions then skip the mirror step.
func NewService(store Store, gate *authz.Gate, sync Syncer, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		gate:   gate,
		sync:   sync,
		logger: logger,
		now:    time.Now,
	}
}

// CreateBriefInput carries the fields an administrator provides when
// assigning a new brief.
type CreateBriefInput struct {
	Title        string
	Client       string
	CreatorEmail string
	DueDate      time.Time
	Script       string
	Shots        []string
	AirLink      string
}

// CreateBrief assigns a new brief to a creator. Administrator only. The
// brief starts in pending with no mark URL.
func (s *Service) CreateBrief(ctx context.Context, actor *authz.Identity, in CreateBriefInput) (*models.Brief, error) {
	if err := s.gate.RequireAdmin(actor); err != nil {
		return nil, err
	}

	if strings.TrimSpace(in.Title) == "" {
		return nil, validationErr("title", "title is required")
	}
	if strings.TrimSpace(in.Client) == "" {
		return nil, validationErr("client", "client is required")
	}
	if strings.TrimSpace(in.CreatorEmail) == "" {
		return nil, validationErr("creator_email", "creator email is required")
	}
	if in.DueDate.IsZero() {
		return nil, validationErr("due_date", "due date is required")
	}

	brief := &models.Brief{
		Title:        strings.TrimSpace(in.Title),
		Client:       strings.TrimSpace(in.Client),
		CreatorEmail: strings.TrimSpace(in.CreatorEmail),
		DueDate:      in.DueDate,
		Status:       models.BriefStatusPending,
		Script:       in.Script,
		AirLink:      in.AirLink,
	}
	if err := brief.SetShots(stripBlankShots(in.Shots)); err != nil {
		return nil, validationErr("shots", "shot list could not be encoded")
	}

	if err := s.store.CreateBrief(ctx, brief); err != nil {
		return nil, err
	}

	s.logger.Info("brief created",
		"brief_id", brief.ID,
		"creator", brief.CreatorEmail,
		"due_date", brief.DueDate.Format("2006-01-02"),
	)
	return brief, nil
}

// UpdateStatus applies an administrator's direct status edit. Any recognized
// status is accepted; a move the normal workflow would not allow (for example
// pulling a brief back out of submitted) is logged as an override.
func (s *Service) UpdateStatus(ctx context.Context, actor *authz.Identity, briefID, newStatus string) (*models.Brief, error) {
	if err := s.gate.RequireAdmin(actor); err != nil {
		return nil, err
	}
	if !ValidStatus(newStatus) {
		return nil, validationErr("status", "unrecognized status value")
	}

	brief, err := s.store.GetBrief(ctx, briefID)
	if err != nil {
		return nil, err
	}
	if brief.Status == newStatus {
		return brief, nil
	}

	if !CanTransition(brief.Status, newStatus) {
		s.logger.Warn("administrative status override",
			"brief_id", briefID,
			"from", brief.Status,
			"to", newStatus,
			"admin", actor.Email,
		)
	}

	return s.store.UpdateBrief(ctx, briefID, map[string]interface{}{
		"status":     newStatus,
		"updated_at": s.now(),
	})
}

// UpdateBriefInput carries optional content edits; nil fields are untouched.
// CreatorEmail is deliberately absent: assignment is immutable.
type UpdateBriefInput struct {
	Title   *string
	Client  *string
	DueDate *time.Time
	Script  *string
	Shots   []string
	AirLink *string
}

// UpdateContent edits a brief's creative content. Administrator only.
func (s *Service) UpdateContent(ctx context.Context, actor *authz.Identity, briefID string, in UpdateBriefInput) (*models.Brief, error) {
	if err := s.gate.RequireAdmin(actor); err != nil {
		return nil, err
	}

	patch := map[string]interface{}{"updated_at": s.now()}
	if in.Title != nil {
		if strings.TrimSpace(*in.Title) == "" {
			return nil, validationErr("title", "title cannot be blank")
		}
		patch["title"] = strings.TrimSpace(*in.Title)
	}
	if in.Client != nil {
		if strings.TrimSpace(*in.Client) == "" {
			return nil, validationErr("client", "client cannot be blank")
		}
		patch["client"] = strings.TrimSpace(*in.Client)
	}
	if in.DueDate != nil {
		if in.DueDate.IsZero() {
			return nil, validationErr("due_date", "due date cannot be blank")
		}
		patch["due_date"] = *in.DueDate
	}
	if in.Script != nil {
		patch["script"] = *in.Script
	}
	if in.AirLink != nil {
		patch["air_link"] = *in.AirLink
	}
	if in.Shots != nil {
		scratch := models.Brief{}
		if err := scratch.SetShots(stripBlankShots(in.Shots)); err != nil {
			return nil, validationErr("shots", "shot list could not be encoded")
		}
		patch["shots"] = scratch.Shots
	}

	return s.store.UpdateBrief(ctx, briefID, patch)
}

// SubmitResult is the outcome of a successful submission. SyncWarning is set
// when the persisted change could not be mirrored to the external tracker;
// the submission itself still stands.
type SubmitResult struct {
	Brief       *models.Brief
	SyncWarning string
}

// SubmitWork records the assigned creator's finished deliverable. The write
// to our store is the system of record: it happens first, and a failure to
// mirror the transition externally is reported as a warning, never as a
// failed submission.
func (s *Service) SubmitWork(ctx context.Context, actor *authz.Identity, briefID, markURL string) (*SubmitResult, error) {
	brief, err := s.store.GetBrief(ctx, briefID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.RequireBriefAccess(actor, brief.CreatorEmail); err != nil {
		return nil, err
	}
	if brief.Status == models.BriefStatusSubmitted {
		return nil, ErrDuplicateSubmission
	}
	if strings.TrimSpace(markURL) == "" {
		return nil, validationErr("mark_url", "a link to the finished work is required")
	}

	updated, err := s.store.UpdateBrief(ctx, briefID, map[string]interface{}{
		"status":     models.BriefStatusSubmitted,
		"mark_url":   strings.TrimSpace(markURL),
		"updated_at": s.now(),
	})
	if err != nil {
		return nil, err
	}

	result := &SubmitResult{Brief: updated}
	if s.sync != nil {
		req := SyncRequest{BriefID: updated.ID, Status: SyncStatusSubmitted, MarkURL: updated.MarkURL}
		if err := s.sync.SyncSubmission(ctx, req); err != nil {
			s.logger.Warn("tracker sync failed after successful submission",
				"brief_id", updated.ID,
				"error", err.Error(),
			)
			result.SyncWarning = "submission recorded, but the external tracker could not be updated"
		}
	}

	s.logger.Info("work submitted", "brief_id", updated.ID, "creator", brief.CreatorEmail)
	return result, nil
}

// DeleteBrief removes a brief permanently. Administrator only; there is no
// soft delete or undo.
func (s *Service) DeleteBrief(ctx context.Context, actor *authz.Identity, briefID string) error {
	if err := s.gate.RequireAdmin(actor); err != nil {
		return err
	}
	if err := s.store.DeleteBrief(ctx, briefID); err != nil {
		return err
	}
	s.logger.Info("brief deleted", "brief_id", briefID, "admin", actor.Email)
	return nil
}

// GetBriefByID returns one brief, visible to its assigned creator or an
// administrator.
func (s *Service) GetBriefByID(ctx context.Context, actor *authz.Identity, briefID string) (*models.Brief, error) {
	brief, err := s.store.GetBrief(ctx, briefID)
	if err != nil {
		return nil, err
	}
	if err := s.gate.RequireBriefAccess(actor, brief.CreatorEmail); err != nil {
		return nil, err
	}
	return brief, nil
}

// GetAllBriefs returns every brief, newest first. Administrator only.
func (s *Service) GetAllBriefs(ctx context.Context, actor *authz.Identity) ([]models.Brief, error) {
	if err := s.gate.RequireAdmin(actor); err != nil {
		return nil, err
	}
	return s.store.ListBriefs(ctx)
}

// GetBriefsForCreator returns the briefs assigned to the calling identity,
// soonest due first.
func (s *Service) GetBriefsForCreator(ctx context.Context, actor *authz.Identity) ([]models.Brief, error) {
	if err := s.gate.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.store.ListBriefsByCreator(ctx, actor.Email)
}

// Stats summarizes the portfolio for the admin dashboard. Overdue counts use
// the derived view, not the stored column, so a stale stored status cannot
// hide a missed deadline.
type Stats struct {
	Total      int `json:"total"`
	Submitted  int `json:"submitted"`
	InProgress int `json:"in_progress"`
	Overdue    int `json:"overdue"`
}

// GetStats computes dashboard counters. Administrator only.
func (s *Service) GetStats(ctx context.Context, actor *authz.Identity) (*Stats, error) {
	if err := s.gate.RequireAdmin(actor); err != nil {
		return nil, err
	}
	briefs, err := s.store.ListBriefs(ctx)
	if err != nil {
		return nil, err
	}

	now := s.now()
	stats := &Stats{Total: len(briefs)}
	for _, b := range briefs {
		switch b.Status {
		case models.BriefStatusSubmitted:
			stats.Submitted++
		case models.BriefStatusInProgress:
			stats.InProgress++
		}
		if urgency.IsOverdue(b.Status, b.DueDate, now) {
			stats.Overdue++
		}
	}
	return stats, nil
}

// ApplyTrackerUpdate applies a status change pushed back by the external
// tracker. The caller has already authenticated the request with the shared
// tracker secret, so this runs as an administrative override.
func (s *Service) ApplyTrackerUpdate(ctx context.Context, briefID, status, markURL string) (*models.Brief, error) {
	normalized := strings.ToLower(strings.TrimSpace(status))
	if !ValidStatus(normalized) {
		return nil, validationErr("status", "unrecognized status value")
	}

	patch := map[string]interface{}{
		"status":     normalized,
		"updated_at": s.now(),
	}
	if markURL != "" {
		patch["mark_url"] = markURL
	}

	brief, err := s.store.UpdateBrief(ctx, briefID, patch)
	if err != nil {
		return nil, err
	}
	s.logger.Info("tracker pushed status update", "brief_id", briefID, "status", normalized)
	return brief, nil
}

// GetProfile returns the calling identity's payout profile, or ErrNotFound
// before the first save.
func (s *Service) GetProfile(ctx context.Context, actor *authz.Identity) (*models.Profile, error) {
	if err := s.gate.RequireAuthenticated(actor); err != nil {
		return nil, err
	}
	return s.store.GetProfile(ctx, actor.ID)
}

// ProfileInput carries payout details a creator saves on their profile.
type ProfileInput struct {
	BankName      string
	AccountName   string
	BSB           string
	AccountNumber string
	PaypalEmail   string
}

// SaveProfile upserts the calling identity's payout profile. The row id and
// email always come from the session identity, never from the request body.
func (s *Service) SaveProfile(ctx context.Context, actor *authz.Identity, in ProfileInput) (*models.Profile, error) {
	if err := s.gate.RequireAuthenticated(actor); err != nil {
		return nil, err
	}

	profile := &models.Profile{
		ID:            actor.ID,
		Email:         actor.Email,
		BankName:      in.BankName,
		AccountName:   in.AccountName,
		BSB:           in.BSB,
		AccountNumber: in.AccountNumber,
		PaypalEmail:   in.PaypalEmail,
	}
	if err := s.store.UpsertProfile(ctx, profile); err != nil {
		return nil, err
	}
	return profile, nil
}

func stripBlankShots(shots []string) []string {
	cleaned := make([]string, 0, len(shots))
	for _, shot := range shots {
		if trimmed := strings.TrimSpace(shot); trimmed != "" {
			cleaned = append(cleaned, trimmed)
		}
	}
	return cleaned
}
