package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/exposure-hq/briefdesk/internal/auth"
	"github.com/exposure-hq/briefdesk/internal/briefs"
)

// CreateBriefRequest is the admin form for assigning a new brief.
type CreateBriefRequest struct {
	Title        string   `json:"title"`
	Client       string   `json:"client"`
	CreatorEmail string   `json:"creator_email"`
	DueDate      string   `json:"due_date"`
	Script       string   `json:"script"`
	Shots        []string `json:"shots"`
	AirLink      string   `json:"air_link"`
}

// CreateBriefHandler creates a new brief assigned to a creator
func CreateBriefHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateBriefRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		dueDate, err := parseDueDate(req.DueDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD", "field": "due_date"})
			return
		}

		brief, err := svc.CreateBrief(c.Request.Context(), auth.CurrentIdentity(c), briefs.CreateBriefInput{
			Title:        req.Title,
			Client:       req.Client,
			CreatorEmail: req.CreatorEmail,
			DueDate:      dueDate,
			Script:       req.Script,
			Shots:        req.Shots,
			AirLink:      req.AirLink,
		})
		if err != nil {
			respondError(c, err)
			return
		}

		c.JSON(http.StatusCreated, toBriefResponse(brief, time.Now()))
	}
}

// ListBriefsHandler returns every brief, newest first (admin only)
func ListBriefsHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.GetAllBriefs(c.Request.Context(), auth.CurrentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"briefs": toBriefResponses(list, time.Now())})
	}
}

// ListMyBriefsHandler returns the briefs assigned to the session identity
func ListMyBriefsHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := svc.GetBriefsForCreator(c.Request.Context(), auth.CurrentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"briefs": toBriefResponses(list, time.Now())})
	}
}

// GetBriefHandler returns one brief with derived urgency annotations
func GetBriefHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		brief, err := svc.GetBriefByID(c.Request.Context(), auth.CurrentIdentity(c), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBriefResponse(brief, time.Now()))
	}
}

// UpdateStatusHandler applies an administrator's direct status edit
func UpdateStatusHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			Status string `json:"status"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		brief, err := svc.UpdateStatus(c.Request.Context(), auth.CurrentIdentity(c), c.Param("id"), req.Status)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBriefResponse(brief, time.Now()))
	}
}

// UpdateBriefRequest carries optional content edits; absent fields are untouched.
type UpdateBriefRequest struct {
	Title   *string  `json:"title"`
	Client  *string  `json:"client"`
	DueDate *string  `json:"due_date"`
	Script  *string  `json:"script"`
	Shots   []string `json:"shots"`
	AirLink *string  `json:"air_link"`
}

// UpdateBriefHandler edits a brief's creative content (admin only)
func UpdateBriefHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateBriefRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		in := briefs.UpdateBriefInput{
			Title:   req.Title,
			Client:  req.Client,
			Script:  req.Script,
			Shots:   req.Shots,
			AirLink: req.AirLink,
		}
		if req.DueDate != nil {
			dueDate, err := parseDueDate(*req.DueDate)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "due_date must be YYYY-MM-DD", "field": "due_date"})
				return
			}
			in.DueDate = &dueDate
		}

		brief, err := svc.UpdateContent(c.Request.Context(), auth.CurrentIdentity(c), c.Param("id"), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, toBriefResponse(brief, time.Now()))
	}
}

// SubmitWorkHandler records the assigned creator's finished deliverable
func SubmitWorkHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req struct {
			MarkURL string `json:"mark_url"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		result, err := svc.SubmitWork(c.Request.Context(), auth.CurrentIdentity(c), c.Param("id"), req.MarkURL)
		if err != nil {
			respondError(c, err)
			return
		}

		body := gin.H{"brief": toBriefResponse(result.Brief, time.Now())}
		if result.SyncWarning != "" {
			body["warning"] = result.SyncWarning
		}
		c.JSON(http.StatusOK, body)
	}
}

// DeleteBriefHandler removes a brief permanently (admin only)
func DeleteBriefHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := svc.DeleteBrief(c.Request.Context(), auth.CurrentIdentity(c), c.Param("id")); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// StatsHandler returns portfolio counters for the admin dashboard
func StatsHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		stats, err := svc.GetStats(c.Request.Context(), auth.CurrentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, stats)
	}
}

// ProfileRequest is the payout form a creator saves on their profile.
type ProfileRequest struct {
	BankName      string `json:"bank_name"`
	AccountName   string `json:"account_name"`
	BSB           string `json:"bsb"`
	AccountNumber string `json:"account_number"`
	PaypalEmail   string `json:"paypal_email"`
}

// GetProfileHandler returns the session identity's payout profile
func GetProfileHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		profile, err := svc.GetProfile(c.Request.Context(), auth.CurrentIdentity(c))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"bank_name":      profile.BankName,
			"account_name":   profile.AccountName,
			"bsb":            profile.BSB,
			"account_number": profile.AccountNumber,
			"paypal_email":   profile.PaypalEmail,
		})
	}
}

// SaveProfileHandler upserts the session identity's payout profile
func SaveProfileHandler(svc *briefs.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProfileRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}

		_, err := svc.SaveProfile(c.Request.Context(), auth.CurrentIdentity(c), briefs.ProfileInput{
			BankName:      req.BankName,
			AccountName:   req.AccountName,
			BSB:           req.BSB,
			AccountNumber: req.AccountNumber,
			PaypalEmail:   req.PaypalEmail,
		})
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "profile saved"})
	}
}

func parseDueDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, raw)
}
