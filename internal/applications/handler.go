package applications

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"epc-portal-backend/internal/invitations"
	"epc-portal-backend/internal/shared/server/respond"
)

// Handler wires the submission HTTP surface to the pipeline.
type Handler struct {
	Pipeline *Pipeline
}

func NewHandler(pipeline *Pipeline) *Handler {
	return &Handler{Pipeline: pipeline}
}

// RegisterRoutes attaches application routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/epc-application", h.submit)
	rg.GET("/pending-handoffs", h.pendingHandoffs)
}

func (h *Handler) submit(c *gin.Context) {
	var form map[string]any
	if err := c.ShouldBindJSON(&form); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	code := extractInvitationCode(form)
	if len(strings.TrimSpace(code)) != invitations.CodeLength {
		respond.Error(c, http.StatusBadRequest, "validation_error", "a valid submission.invitationCode is required", nil)
		return
	}
	c.Set("invitationCode", strings.ToUpper(strings.TrimSpace(code)))

	files := extractFileMetadata(form)

	result, err := h.Pipeline.Submit(c.Request.Context(), code, form, files)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
			return
		}
		// Only a local persistence failure reaches here; nothing downstream
		// was attempted and the submission was not recorded.
		respond.Error(c, http.StatusInternalServerError, "persistence_error", "failed to record application", nil)
		return
	}

	c.Set("referenceNumber", result.ReferenceNumber)
	c.Set("processingStatus", result.ProcessingStatus)

	respond.OK(c, gin.H{
		"success":          true,
		"referenceNumber":  result.ReferenceNumber,
		"processingStatus": result.ProcessingStatus,
		"nextSteps":        nextSteps(result.ProcessingStatus),
	})
}

// extractInvitationCode accepts the code either nested under the submission
// section or at the top level of the form payload.
func extractInvitationCode(form map[string]any) string {
	if sub, ok := form["submission"].(map[string]any); ok {
		if code, ok := sub["invitationCode"].(string); ok && strings.TrimSpace(code) != "" {
			return code
		}
	}
	if code, ok := form["invitationCode"].(string); ok {
		return code
	}
	return ""
}

// extractFileMetadata decodes the optional files section of the payload into
// typed records. Malformed entries are dropped rather than failing the
// submission; the upload endpoint already recorded the authoritative rows.
func extractFileMetadata(form map[string]any) []FileRecord {
	raw, ok := form["files"]
	if !ok {
		return nil
	}
	encoded, err := json.Marshal(raw)
	if err != nil {
		return nil
	}
	var files []FileRecord
	if err := json.Unmarshal(encoded, &files); err != nil {
		return nil
	}
	return files
}

func nextSteps(processingStatus string) []string {
	if processingStatus == ProcessingQueuedForReview {
		return []string{
			"Your application has been received and queued for review.",
			"Our operations team will pick it up shortly; no action is needed from you.",
			"Keep your reference number for any follow-up.",
		}
	}
	return []string{
		"Your application has been submitted to our operations team.",
		"You will be contacted at the email provided within 5 business days.",
		"Keep your reference number for any follow-up.",
	}
}

func (h *Handler) pendingHandoffs(c *gin.Context) {
	limit := 50
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil && parsed > 0 && parsed <= 200 {
			limit = parsed
		}
	}

	apps, err := h.Pipeline.Repo.ListByStatus(c.Request.Context(), StatusPendingHandoff, limit)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list pending handoffs", nil)
		return
	}

	items := make([]gin.H, 0, len(apps))
	for _, app := range apps {
		items = append(items, gin.H{
			"referenceNumber": app.ReferenceNumber,
			"invitationCode":  app.InvitationCode,
			"submissionDate":  app.SubmissionDate,
			"processingNotes": app.ProcessingNotes,
		})
	}

	respond.OK(c, gin.H{"count": len(items), "items": items})
}
