// Package api wires the HTTP surface: session-gated JSON routes for the
// brief workflow plus the secret-gated tracker callback.
package api

import (
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/exposure-hq/briefdesk/internal/auth"
	"github.com/exposure-hq/briefdesk/internal/briefs"
	"github.com/exposure-hq/briefdesk/internal/config"
	"github.com/exposure-hq/briefdesk/internal/health"
)

// NewRouter builds the Gin engine with all routes registered.
func NewRouter(cfg *config.Config, db *gorm.DB, svc *briefs.Service) *gin.Engine {
	router := gin.Default()

	store := cookie.NewStore([]byte(cfg.SessionSecret))
	store.Options(sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   cfg.Env == "production",
	})
	router.Use(sessions.Sessions("briefdesk_session", store))

	router.GET("/health", gin.WrapF(health.Handler))

	router.GET("/auth/login", auth.HandleLogin)
	router.GET("/auth/callback", auth.HandleCallback(db))
	router.GET("/auth/logout", auth.HandleLogout)

	// Machine peer route: authenticated by shared secret, not by session.
	router.POST("/api/sync/callback", SyncCallbackHandler(svc, cfg.TrackerSecret))

	api := router.Group("/api", auth.RequireAuth())
	{
		api.POST("/briefs", CreateBriefHandler(svc))
		api.GET("/briefs", ListBriefsHandler(svc))
		api.GET("/briefs/mine", ListMyBriefsHandler(svc))
		api.GET("/briefs/stats", StatsHandler(svc))
		api.GET("/briefs/:id", GetBriefHandler(svc))
		api.PATCH("/briefs/:id", UpdateBriefHandler(svc))
		api.PATCH("/briefs/:id/status", UpdateStatusHandler(svc))
		api.POST("/briefs/:id/submit", SubmitWorkHandler(svc))
		api.DELETE("/briefs/:id", DeleteBriefHandler(svc))

		api.GET("/profile", GetProfileHandler(svc))
		api.PUT("/profile", SaveProfileHandler(svc))
	}

	return router
}
