package api

import (
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kaptinlin/jsonschema"

	"github.com/exposure-hq/briefdesk/internal/briefs"
)

// syncCallbackSchema validates the tracker's push payload before anything
// touches the workflow. The tracker is an external system; its input is
// untrusted even with a valid shared secret.
const syncCallbackSchema = `{
	"type": "object",
	"required": ["action", "briefId", "status"],
	"properties": {
		"action": {"type": "string", "enum": ["update_status"]},
		"briefId": {"type": "string", "minLength": 1},
		"status": {"type": "string", "minLength": 1},
		"markUrl": {"type": "string"}
	},
	"additionalProperties": false
}`

var compiledSyncSchema = mustCompileSchema(syncCallbackSchema)

func mustCompileSchema(raw string) *jsonschema.Schema {
	schema, err := jsonschema.NewCompiler().Compile([]byte(raw))
	if err != nil {
		panic(fmt.Sprintf("invalid sync callback schema: %v", err))
	}
	return schema
}

// SyncCallbackHandler receives status pushes from the external tracker.
// Authentication is the shared tracker secret, not a user session: the
// tracker is a machine peer, and the resulting change is applied as an
// administrative override.
func SyncCallbackHandler(svc *briefs.Service, secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if secret == "" || subtle.ConstantTimeCompare([]byte(c.GetHeader("X-TRACKER-SECRET")), []byte(secret)) != 1 {
			c.JSON(http.StatusUnauthorized, gin.H{"success": false, "error": "invalid tracker secret"})
			return
		}

		var body map[string]interface{}
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "invalid JSON body"})
			return
		}

		result := compiledSyncSchema.Validate(body)
		if !result.IsValid() {
			var errorMessages []string
			for field, evalErr := range result.Errors {
				errorMessages = append(errorMessages, fmt.Sprintf("%s: %s", field, evalErr.Error()))
			}
			c.JSON(http.StatusBadRequest, gin.H{
				"success": false,
				"error":   "payload validation failed: " + strings.Join(errorMessages, "; "),
			})
			return
		}

		briefID, _ := body["briefId"].(string)
		status, _ := body["status"].(string)
		markURL, _ := body["markUrl"].(string)

		brief, err := svc.ApplyTrackerUpdate(c.Request.Context(), briefID, status, markURL)
		if err != nil {
			respondTrackerError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "Brief updated successfully",
			"brief":   toBriefResponse(brief, time.Now()),
		})
	}
}

// respondTrackerError keeps the tracker-facing envelope ({success, error})
// distinct from the user-facing one.
func respondTrackerError(c *gin.Context, err error) {
	var verr *briefs.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": verr.Error()})
	case errors.Is(err, briefs.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "brief not found"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "internal error"})
	}
}
