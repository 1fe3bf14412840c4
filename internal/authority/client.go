package authority

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var (
	// ErrNotFound means the authority does not know the invitation code.
	ErrNotFound = errors.New("invitation not found in record authority")
	// ErrUnavailable means no authority endpoint is configured or reachable.
	ErrUnavailable = errors.New("record authority unavailable")
)

// HandoffError describes a rejected or failed case handoff. The caller
// records it and reports a qualified success.
type HandoffError struct {
	StatusCode int
	Reason     string
}

func (e *HandoffError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("record authority rejected handoff: status=%d %s", e.StatusCode, e.Reason)
	}
	return fmt.Sprintf("record authority handoff failed: %s", e.Reason)
}

// Invitation is the authority's view of an invitation code.
type Invitation struct {
	AuthCode     string `json:"authCode"`
	CompanyName  string `json:"companyName"`
	ContactEmail string `json:"contactEmail"`
	Notes        string `json:"notes"`
	Status       string `json:"status"`
}

// Active reports whether the authority considers the code usable.
func (inv Invitation) Active() bool {
	return strings.EqualFold(strings.TrimSpace(inv.Status), "active")
}

// Client is the outbound contract to the record authority. Implementations
// must honor the context deadline on every call; the authority is slow and
// may be temporarily unavailable.
type Client interface {
	LookupInvitation(ctx context.Context, code string) (Invitation, error)
	CreateCase(ctx context.Context, rec CaseRecord) (caseID string, err error)
	MarkInvitationUsed(ctx context.Context, code string) error
}

// HTTPClient reaches the record authority over its JSON HTTP API.
type HTTPClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewHTTPClient constructs a client for the given authority endpoint.
func NewHTTPClient(baseURL, apiKey string) (*HTTPClient, error) {
	trimmed := strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if trimmed == "" {
		return nil, fmt.Errorf("authority base URL is required")
	}
	if _, err := url.Parse(trimmed); err != nil {
		return nil, fmt.Errorf("parse authority base URL: %w", err)
	}
	return &HTTPClient{
		baseURL: trimmed,
		apiKey:  apiKey,
		// Per-operation deadlines come from the caller's context; the
		// transport timeout is only a backstop against hung connections.
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}, nil
}

// LookupInvitation fetches an invitation by code.
func (c *HTTPClient) LookupInvitation(ctx context.Context, code string) (Invitation, error) {
	endpoint := fmt.Sprintf("%s/api/invitations/%s", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Invitation{}, fmt.Errorf("build lookup request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Invitation{}, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return Invitation{}, ErrNotFound
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return Invitation{}, fmt.Errorf("%w: lookup status %d", ErrUnavailable, resp.StatusCode)
	}

	var inv Invitation
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&inv); err != nil {
		return Invitation{}, fmt.Errorf("%w: decode lookup response: %v", ErrUnavailable, err)
	}
	if strings.TrimSpace(inv.AuthCode) == "" {
		inv.AuthCode = code
	}
	return inv, nil
}

// CreateCase sends the minimal case record for a submitted application.
func (c *HTTPClient) CreateCase(ctx context.Context, rec CaseRecord) (string, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return "", &HandoffError{Reason: fmt.Sprintf("encode case record: %v", err)}
	}

	endpoint := c.baseURL + "/api/cases"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", &HandoffError{Reason: fmt.Sprintf("build case request: %v", err)}
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", &HandoffError{Reason: err.Error()}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", &HandoffError{StatusCode: resp.StatusCode, Reason: strings.TrimSpace(string(snippet))}
	}

	var out struct {
		CaseID string `json:"caseId"`
	}
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&out); err != nil {
		return "", &HandoffError{Reason: fmt.Sprintf("decode case response: %v", err)}
	}
	return out.CaseID, nil
}

// MarkInvitationUsed asks the authority to close out a consumed code.
func (c *HTTPClient) MarkInvitationUsed(ctx context.Context, code string) error {
	endpoint := fmt.Sprintf("%s/api/invitations/%s/use", c.baseURL, url.PathEscape(code))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return fmt.Errorf("build close-out request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("close-out status %d", resp.StatusCode)
	}
	return nil
}

func (c *HTTPClient) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("X-Api-Key", c.apiKey)
	}
}

// Disabled is used when no authority endpoint is configured. Lookups miss and
// handoffs fail recoverably, so a dev instance degrades to local-only
// operation instead of refusing to start.
type Disabled struct{}

func (Disabled) LookupInvitation(ctx context.Context, code string) (Invitation, error) {
	return Invitation{}, ErrUnavailable
}

func (Disabled) CreateCase(ctx context.Context, rec CaseRecord) (string, error) {
	return "", &HandoffError{Reason: "record authority not configured"}
}

func (Disabled) MarkInvitationUsed(ctx context.Context, code string) error {
	return ErrUnavailable
}

var (
	_ Client = (*HTTPClient)(nil)
	_ Client = Disabled{}
)
