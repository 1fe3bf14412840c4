package invitations

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T, repo Repo, auth *fakeAuthority) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	handler := NewHandler(&Resolver{Repo: repo, Authority: auth}, repo)
	router := gin.New()
	handler.RegisterRoutes(router.Group("/"))
	return router
}

func TestValidateEndpointReturnsInvitation(t *testing.T) {
	repo := NewMemoryRepo()
	if err := repo.Upsert(context.Background(), Invitation{
		Code:         "TEST2024",
		CompanyName:  "Acme Energy",
		ContactEmail: "ops@acme.test",
		Status:       StatusActive,
	}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	router := newTestRouter(t, repo, &fakeAuthority{})

	req := httptest.NewRequest(http.MethodPost, "/validate-invitation", strings.NewReader(`{"invitationCode":"test2024"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", resp.Code, resp.Body.String())
	}
	var body struct {
		Valid      bool       `json:"valid"`
		Invitation Invitation `json:"invitation"`
		Source     Source     `json:"source"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if !body.Valid {
		t.Fatalf("expected valid invitation")
	}
	if body.Invitation.CompanyName != "Acme Energy" {
		t.Fatalf("unexpected invitation payload: %+v", body.Invitation)
	}
	if body.Source != SourceLocalCache {
		t.Fatalf("expected source local-cache, got %s", body.Source)
	}
}

func TestValidateEndpointRejectsMalformedCode(t *testing.T) {
	router := newTestRouter(t, NewMemoryRepo(), &fakeAuthority{})

	req := httptest.NewRequest(http.MethodPost, "/validate-invitation", strings.NewReader(`{"invitationCode":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", resp.Code)
	}
	var body struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body.Error.Code != "validation_error" {
		t.Fatalf("expected validation_error, got %q", body.Error.Code)
	}
}

func TestValidateEndpointUnknownCodeIs404(t *testing.T) {
	router := newTestRouter(t, NewMemoryRepo(), &fakeAuthority{})

	req := httptest.NewRequest(http.MethodPost, "/validate-invitation", strings.NewReader(`{"invitationCode":"UNKNOWN1"}`))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", resp.Code)
	}
}

func TestSyncEndpointUpsertsActiveInvitation(t *testing.T) {
	repo := NewMemoryRepo()
	router := newTestRouter(t, repo, &fakeAuthority{})

	payload := `{"AuthCode":"sync2024","CompanyName":"Sync Co","ContactEmail":"sync@co.test","Title":"Mr","Notes":"priority"}`
	req := httptest.NewRequest(http.MethodPost, "/sync-invitation", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d body=%s", resp.Code, resp.Body.String())
	}

	inv, err := repo.Get(context.Background(), "SYNC2024")
	if err != nil {
		t.Fatalf("expected invitation stored under normalized code: %v", err)
	}
	if inv.Status != StatusActive {
		t.Fatalf("expected active status, got %s", inv.Status)
	}
	if inv.CompanyName != "Sync Co" || inv.Notes != "priority" {
		t.Fatalf("unexpected stored invitation: %+v", inv)
	}
}

func TestSyncEndpointValidatesPayload(t *testing.T) {
	router := newTestRouter(t, NewMemoryRepo(), &fakeAuthority{})

	cases := []struct {
		name string
		body string
	}{
		{"short code", `{"AuthCode":"ABC","CompanyName":"Co","ContactEmail":"a@b.c"}`},
		{"missing company", `{"AuthCode":"SYNC2024","ContactEmail":"a@b.c"}`},
		{"missing email", `{"AuthCode":"SYNC2024","CompanyName":"Co"}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/sync-invitation", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			resp := httptest.NewRecorder()
			router.ServeHTTP(resp, req)
			if resp.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", resp.Code)
			}
		})
	}
}

func TestSyncEndpointOverwritesExistingRow(t *testing.T) {
	repo := NewMemoryRepo()
	if err := repo.Upsert(context.Background(), Invitation{Code: "SYNC2024", CompanyName: "Old Name", Status: StatusExpired}); err != nil {
		t.Fatalf("seed: %v", err)
	}
	router := newTestRouter(t, repo, &fakeAuthority{})

	payload := `{"AuthCode":"SYNC2024","CompanyName":"New Name","ContactEmail":"new@co.test"}`
	req := httptest.NewRequest(http.MethodPost, "/sync-invitation", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", resp.Code)
	}
	inv, err := repo.Get(context.Background(), "SYNC2024")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if inv.CompanyName != "New Name" || inv.Status != StatusActive {
		t.Fatalf("expected refreshed row, got %+v", inv)
	}
}
