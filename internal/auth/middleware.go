package auth

import (
	"net/http"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/exposure-hq/briefdesk/internal/authz"
)

// RequireAuth ensures the caller has a signed-in session. API requests get a
// 401 JSON body; browser navigation is redirected to the login entry point.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		session := sessions.Default(c)
		userID := session.Get("user_id")

		if userID == nil {
			if strings.HasPrefix(c.Request.URL.Path, "/api/") {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			} else {
				c.Redirect(http.StatusFound, "/auth/login")
				c.Abort()
			}
			return
		}

		// User is authenticated - set context values for downstream handlers
		c.Set("user_id", userID)
		c.Set("user_email", session.Get("user_email"))
		c.Set("user_name", session.Get("user_name"))

		c.Next()
	}
}

// CurrentIdentity returns the session identity, or nil when the request is
// unauthenticated. Handlers pass the result straight to the workflow; the
// authorization gate owns the decision, not the HTTP layer.
func CurrentIdentity(c *gin.Context) *authz.Identity {
	userID, ok := c.Get("user_id")
	if !ok {
		return nil
	}
	email, _ := c.Get("user_email")

	id, _ := userID.(string)
	emailStr, _ := email.(string)
	if id == "" {
		return nil
	}
	return &authz.Identity{ID: id, Email: emailStr}
}
