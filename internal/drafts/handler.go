package drafts

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"epc-portal-backend/internal/shared/server/respond"
)

// Handler wires the draft autosave HTTP surface to the store.
type Handler struct {
	Store *Store
}

func NewHandler(store *Store) *Handler {
	return &Handler{Store: store}
}

// RegisterRoutes attaches draft routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/save-draft", h.save)
	rg.GET("/save-draft", h.get)
	rg.POST("/clear-draft", h.clear)
}

type saveRequest struct {
	InvitationCode string          `json:"invitationCode"`
	FormData       json.RawMessage `json:"formData"`
	CurrentStep    int             `json:"currentStep"`
}

func (h *Handler) save(c *gin.Context) {
	var req saveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.InvitationCode) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invitationCode is required", nil)
		return
	}
	c.Set("invitationCode", NormalizeCode(req.InvitationCode))

	draft, err := h.Store.Save(c.Request.Context(), req.InvitationCode, req.FormData, req.CurrentStep)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save draft", nil)
		return
	}

	respond.OK(c, gin.H{
		"success":   true,
		"lastSaved": draft.LastSaved.Format(time.RFC3339),
	})
}

func (h *Handler) get(c *gin.Context) {
	code := strings.TrimSpace(c.Query("invitationCode"))
	if code == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invitationCode query parameter is required", nil)
		return
	}
	c.Set("invitationCode", NormalizeCode(code))

	draft, err := h.Store.Get(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.OK(c, gin.H{"success": false})
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load draft", nil)
		return
	}

	respond.OK(c, gin.H{
		"success": true,
		"data": gin.H{
			"formData":    draft.FormData,
			"currentStep": draft.CurrentStep,
			"lastSaved":   draft.LastSaved.Format(time.RFC3339),
		},
	})
}

type clearRequest struct {
	InvitationCode string `json:"invitationCode"`
}

func (h *Handler) clear(c *gin.Context) {
	var req clearRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	if strings.TrimSpace(req.InvitationCode) == "" {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invitationCode is required", nil)
		return
	}
	c.Set("invitationCode", NormalizeCode(req.InvitationCode))

	cleared, err := h.Store.Clear(c.Request.Context(), req.InvitationCode)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to clear draft", nil)
		return
	}

	respond.OK(c, gin.H{"success": true, "cleared": cleared})
}
