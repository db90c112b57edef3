package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"

	"github.com/exposure-hq/briefdesk/internal/auth"
	"github.com/exposure-hq/briefdesk/internal/authz"
	"github.com/exposure-hq/briefdesk/internal/briefs"
	"github.com/exposure-hq/briefdesk/internal/models"
)

const (
	adminEmail   = "gabe@exposure.com.au"
	creatorEmail = "cleo@exposure.com.au"
)

// memStore is a minimal in-memory briefs.Store for handler tests.
type memStore struct {
	briefs   map[string]*models.Brief
	profiles map[string]*models.Profile
	nextID   int
}

func newMemStore() *memStore {
	return &memStore{briefs: map[string]*models.Brief{}, profiles: map[string]*models.Profile{}}
}

func (m *memStore) GetBrief(ctx context.Context, id string) (*models.Brief, error) {
	b, ok := m.briefs[id]
	if !ok {
		return nil, briefs.ErrNotFound
	}
	copied := *b
	return &copied, nil
}

func (m *memStore) ListBriefs(ctx context.Context) ([]models.Brief, error) {
	var out []models.Brief
	for _, b := range m.briefs {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memStore) ListBriefsByCreator(ctx context.Context, email string) ([]models.Brief, error) {
	var out []models.Brief
	for _, b := range m.briefs {
		if b.CreatorEmail == email {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (m *memStore) CreateBrief(ctx context.Context, brief *models.Brief) error {
	m.nextID++
	if brief.ID == "" {
		brief.ID = fmt.Sprintf("brief-%d", m.nextID)
	}
	copied := *brief
	m.briefs[brief.ID] = &copied
	return nil
}

func (m *memStore) UpdateBrief(ctx context.Context, id string, patch map[string]interface{}) (*models.Brief, error) {
	b, ok := m.briefs[id]
	if !ok {
		return nil, briefs.ErrNotFound
	}
	if v, ok := patch["status"]; ok {
		b.Status = v.(string)
	}
	if v, ok := patch["mark_url"]; ok {
		b.MarkURL = v.(string)
	}
	if v, ok := patch["updated_at"]; ok {
		b.UpdatedAt = v.(time.Time)
	}
	copied := *b
	return &copied, nil
}

func (m *memStore) DeleteBrief(ctx context.Context, id string) error {
	if _, ok := m.briefs[id]; !ok {
		return briefs.ErrNotFound
	}
	delete(m.briefs, id)
	return nil
}

func (m *memStore) GetProfile(ctx context.Context, id string) (*models.Profile, error) {
	p, ok := m.profiles[id]
	if !ok {
		return nil, briefs.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memStore) UpsertProfile(ctx context.Context, profile *models.Profile) error {
	copied := *profile
	m.profiles[profile.ID] = &copied
	return nil
}

// asIdentity injects a session identity the way auth.RequireAuth would.
func asIdentity(id, email string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", id)
		c.Set("user_email", email)
		c.Next()
	}
}

func newTestRouter(store briefs.Store, identity gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gate := authz.NewGate([]string{adminEmail})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := briefs.NewService(store, gate, nil, logger)

	router := gin.New()
	router.POST("/api/sync/callback", SyncCallbackHandler(svc, "tracker-secret"))

	api := router.Group("/api")
	if identity != nil {
		api.Use(identity)
	}
	api.POST("/briefs", CreateBriefHandler(svc))
	api.GET("/briefs", ListBriefsHandler(svc))
	api.GET("/briefs/mine", ListMyBriefsHandler(svc))
	api.GET("/briefs/:id", GetBriefHandler(svc))
	api.PATCH("/briefs/:id/status", UpdateStatusHandler(svc))
	api.POST("/briefs/:id/submit", SubmitWorkHandler(svc))
	api.DELETE("/briefs/:id", DeleteBriefHandler(svc))
	api.GET("/profile", GetProfileHandler(svc))
	api.PUT("/profile", SaveProfileHandler(svc))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func seedBrief(t *testing.T, store *memStore) *models.Brief {
	t.Helper()
	brief := &models.Brief{
		Title:        "Ad A",
		Client:       "Acme",
		CreatorEmail: creatorEmail,
		DueDate:      time.Date(2099, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:       models.BriefStatusPending,
	}
	if err := store.CreateBrief(context.Background(), brief); err != nil {
		t.Fatal(err)
	}
	return brief
}

func TestCreateBriefHandler(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store, asIdentity("admin-1", adminEmail))

	w := doJSON(t, router, http.MethodPost, "/api/briefs", CreateBriefRequest{
		Title:        "Ad A",
		Client:       "Acme",
		CreatorEmail: creatorEmail,
		DueDate:      "2099-01-01",
	})
	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", w.Code, w.Body.String())
	}

	var resp briefResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != models.BriefStatusPending {
		t.Errorf("status = %q, want pending", resp.Status)
	}
	if resp.MarkURL != "" {
		t.Errorf("mark_url = %q, want empty", resp.MarkURL)
	}
}

func TestCreateBriefHandlerValidation(t *testing.T) {
	router := newTestRouter(newMemStore(), asIdentity("admin-1", adminEmail))

	w := doJSON(t, router, http.MethodPost, "/api/briefs", CreateBriefRequest{
		Client:       "Acme",
		CreatorEmail: creatorEmail,
		DueDate:      "2099-01-01",
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("missing title: status = %d, want 400", w.Code)
	}
}

func TestCreateBriefHandlerForbidden(t *testing.T) {
	router := newTestRouter(newMemStore(), asIdentity("creator-1", creatorEmail))

	w := doJSON(t, router, http.MethodPost, "/api/briefs", CreateBriefRequest{
		Title: "Ad A", Client: "Acme", CreatorEmail: creatorEmail, DueDate: "2099-01-01",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("creator create: status = %d, want 403", w.Code)
	}
}

func TestSubmitWorkHandler(t *testing.T) {
	store := newMemStore()
	brief := seedBrief(t, store)
	router := newTestRouter(store, asIdentity("creator-1", creatorEmail))

	w := doJSON(t, router, http.MethodPost, "/api/briefs/"+brief.ID+"/submit", gin.H{"mark_url": "https://vimeo.com/1"})
	if w.Code != http.StatusOK {
		t.Fatalf("submit: status = %d, want 200: %s", w.Code, w.Body.String())
	}

	// Duplicate submission is rejected with a conflict.
	w = doJSON(t, router, http.MethodPost, "/api/briefs/"+brief.ID+"/submit", gin.H{"mark_url": "https://vimeo.com/2"})
	if w.Code != http.StatusConflict {
		t.Errorf("duplicate submit: status = %d, want 409", w.Code)
	}
}

func TestSubmitWorkHandlerForbidden(t *testing.T) {
	store := newMemStore()
	brief := seedBrief(t, store)
	router := newTestRouter(store, asIdentity("creator-2", "z@other.com"))

	w := doJSON(t, router, http.MethodPost, "/api/briefs/"+brief.ID+"/submit", gin.H{"mark_url": "https://vimeo.com/1"})
	if w.Code != http.StatusForbidden {
		t.Errorf("stranger submit: status = %d, want 403", w.Code)
	}
}

func TestGetBriefHandlerAnnotations(t *testing.T) {
	store := newMemStore()
	brief := &models.Brief{
		Title:        "Late one",
		Client:       "Acme",
		CreatorEmail: creatorEmail,
		DueDate:      time.Now().AddDate(0, 0, -2),
		Status:       models.BriefStatusInProgress,
	}
	if err := store.CreateBrief(context.Background(), brief); err != nil {
		t.Fatal(err)
	}
	router := newTestRouter(store, asIdentity("creator-1", creatorEmail))

	w := doJSON(t, router, http.MethodGet, "/api/briefs/"+brief.ID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp briefResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if !resp.Overdue {
		t.Error("overdue = false for a brief two days past due")
	}
	if resp.DisplayStatus != models.BriefStatusOverdue {
		t.Errorf("display_status = %q, want overdue", resp.DisplayStatus)
	}
	if resp.Status != models.BriefStatusInProgress {
		t.Errorf("stored status = %q, want in_progress (derived view must not write back)", resp.Status)
	}
}

func TestGetBriefHandlerNotFound(t *testing.T) {
	router := newTestRouter(newMemStore(), asIdentity("admin-1", adminEmail))

	w := doJSON(t, router, http.MethodGet, "/api/briefs/no-such-id", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
}

func TestUpdateStatusHandler(t *testing.T) {
	store := newMemStore()
	brief := seedBrief(t, store)
	router := newTestRouter(store, asIdentity("admin-1", adminEmail))

	w := doJSON(t, router, http.MethodPatch, "/api/briefs/"+brief.ID+"/status", gin.H{"status": "in_progress"})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodPatch, "/api/briefs/"+brief.ID+"/status", gin.H{"status": "done"})
	if w.Code != http.StatusBadRequest {
		t.Errorf("unrecognized status: status = %d, want 400", w.Code)
	}
}

func TestRequireAuthUnauthenticated(t *testing.T) {
	gin.SetMode(gin.TestMode)
	gate := authz.NewGate([]string{adminEmail})
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	svc := briefs.NewService(newMemStore(), gate, nil, logger)

	router := gin.New()
	store := cookie.NewStore([]byte("test-secret"))
	router.Use(sessions.Sessions("briefdesk_session", store))
	api := router.Group("/api", auth.RequireAuth())
	api.GET("/briefs/mine", ListMyBriefsHandler(svc))

	w := doJSON(t, router, http.MethodGet, "/api/briefs/mine", nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("no session: status = %d, want 401", w.Code)
	}
}

func TestSyncCallbackHandler(t *testing.T) {
	store := newMemStore()
	brief := seedBrief(t, store)
	router := newTestRouter(store, nil)

	payload := gin.H{"action": "update_status", "briefId": brief.ID, "status": "Submitted", "markUrl": "https://vimeo.com/9"}
	data, _ := json.Marshal(payload)

	// Missing secret is rejected before any validation.
	req := httptest.NewRequest(http.MethodPost, "/api/sync/callback", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("missing secret: status = %d, want 401", w.Code)
	}

	// Valid secret and payload applies the update.
	req = httptest.NewRequest(http.MethodPost, "/api/sync/callback", bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-TRACKER-SECRET", "tracker-secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("valid callback: status = %d: %s", w.Code, w.Body.String())
	}

	updated, _ := store.GetBrief(context.Background(), brief.ID)
	if updated.Status != models.BriefStatusSubmitted {
		t.Errorf("status = %q after callback, want submitted", updated.Status)
	}

	// Unknown action fails schema validation.
	bad, _ := json.Marshal(gin.H{"action": "delete_everything", "briefId": brief.ID, "status": "x"})
	req = httptest.NewRequest(http.MethodPost, "/api/sync/callback", bytes.NewReader(bad))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-TRACKER-SECRET", "tracker-secret")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("invalid action: status = %d, want 400", w.Code)
	}
}

func TestProfileHandlers(t *testing.T) {
	store := newMemStore()
	router := newTestRouter(store, asIdentity("creator-1", creatorEmail))

	w := doJSON(t, router, http.MethodGet, "/api/profile", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("profile before save: status = %d, want 404", w.Code)
	}

	w = doJSON(t, router, http.MethodPut, "/api/profile", ProfileRequest{BankName: "Commonwealth Bank", BSB: "062-000"})
	if w.Code != http.StatusOK {
		t.Fatalf("save profile: status = %d: %s", w.Code, w.Body.String())
	}

	w = doJSON(t, router, http.MethodGet, "/api/profile", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("get profile: status = %d", w.Code)
	}
	var resp map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp["bsb"] != "062-000" {
		t.Errorf("bsb = %q, want 062-000", resp["bsb"])
	}
}
