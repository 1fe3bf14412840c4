package invitations

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"epc-portal-backend/internal/shared/server/respond"
)

// Handler wires the invitation HTTP surface to the resolver and repo.
type Handler struct {
	Resolver *Resolver
	Repo     Repo
}

func NewHandler(resolver *Resolver, repo Repo) *Handler {
	return &Handler{Resolver: resolver, Repo: repo}
}

// RegisterRoutes attaches invitation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/validate-invitation", h.validate)
	rg.POST("/sync-invitation", h.sync)
}

type validateRequest struct {
	InvitationCode string `json:"invitationCode"`
}

type validateResponse struct {
	Valid      bool       `json:"valid"`
	Invitation Invitation `json:"invitation"`
	Source     Source     `json:"source"`
}

func (h *Handler) validate(c *gin.Context) {
	var req validateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}
	c.Set("invitationCode", strings.ToUpper(strings.TrimSpace(req.InvitationCode)))

	inv, err := h.Resolver.Validate(c.Request.Context(), req.InvitationCode)
	if err != nil {
		switch {
		case errors.Is(err, ErrMalformedCode):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "invitation code not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to validate invitation", nil)
		}
		return
	}

	respond.OK(c, validateResponse{Valid: true, Invitation: inv, Source: inv.Source})
}

// syncRequest is the inbound payload pushed by the record authority. Field
// casing follows the authority's convention, not ours.
type syncRequest struct {
	AuthCode     string `json:"AuthCode"`
	CompanyName  string `json:"CompanyName"`
	ContactEmail string `json:"ContactEmail"`
	Title        string `json:"Title"`
	Notes        string `json:"Notes"`
}

func (h *Handler) sync(c *gin.Context) {
	var req syncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	code := strings.ToUpper(strings.TrimSpace(req.AuthCode))
	company := strings.TrimSpace(req.CompanyName)
	email := strings.TrimSpace(req.ContactEmail)

	switch {
	case len(code) != CodeLength:
		respond.Error(c, http.StatusBadRequest, "validation_error", "AuthCode must be exactly 8 characters", nil)
		return
	case company == "":
		respond.Error(c, http.StatusBadRequest, "validation_error", "CompanyName is required", nil)
		return
	case email == "":
		respond.Error(c, http.StatusBadRequest, "validation_error", "ContactEmail is required", nil)
		return
	}
	c.Set("invitationCode", code)

	inv := Invitation{
		Code:         code,
		CompanyName:  company,
		ContactEmail: email,
		Notes:        strings.TrimSpace(req.Notes),
		Status:       StatusActive,
	}
	if err := h.Repo.Upsert(c.Request.Context(), inv); err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to sync invitation", nil)
		return
	}

	respond.OK(c, gin.H{
		"success":  true,
		"authCode": code,
		"syncedAt": time.Now().UTC(),
	})
}
