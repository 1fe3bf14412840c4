package authority

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLookupInvitationHappyPath(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/invitations/TEST2024" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Errorf("expected api key header, got %q", r.Header.Get("X-Api-Key"))
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"authCode":     "TEST2024",
			"companyName":  "Acme Energy",
			"contactEmail": "ops@acme.test",
			"status":       "active",
		})
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "secret")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	inv, err := client.LookupInvitation(context.Background(), "TEST2024")
	if err != nil {
		t.Fatalf("LookupInvitation: %v", err)
	}
	if !inv.Active() || inv.CompanyName != "Acme Energy" {
		t.Fatalf("unexpected invitation: %+v", inv)
	}
}

func TestLookupInvitationMissingCodeIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	if _, err := client.LookupInvitation(context.Background(), "MISSING1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestLookupInvitationServerErrorIsUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	if _, err := client.LookupInvitation(context.Background(), "TEST2024"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
}

func TestLookupInvitationHonorsContextDeadline(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	client, err := NewHTTPClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.LookupInvitation(ctx, "TEST2024"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable on deadline, got %v", err)
	}
}

func TestCreateCaseReturnsCaseID(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/cases" {
			t.Errorf("unexpected request: %s %s", r.Method, r.URL.Path)
		}
		var rec CaseRecord
		if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
			t.Errorf("decode case record: %v", err)
		}
		if rec.SourceSystem != "epc-portal" {
			t.Errorf("expected source system, got %q", rec.SourceSystem)
		}
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"caseId": "case-001"})
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	caseID, err := client.CreateCase(context.Background(), CaseRecord{
		ReferenceNumber: "EPC-1-2024",
		InvitationCode:  "TEST2024",
		SourceSystem:    "epc-portal",
	})
	if err != nil {
		t.Fatalf("CreateCase: %v", err)
	}
	if caseID != "case-001" {
		t.Fatalf("expected case-001, got %q", caseID)
	}
}

func TestCreateCaseRejectionIsHandoffError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte("missing contact email"))
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	_, err = client.CreateCase(context.Background(), CaseRecord{})
	var herr *HandoffError
	if !errors.As(err, &herr) {
		t.Fatalf("expected HandoffError, got %v", err)
	}
	if herr.StatusCode != http.StatusUnprocessableEntity || herr.Reason != "missing contact email" {
		t.Fatalf("unexpected handoff error: %+v", herr)
	}
}

func TestCreateCaseTransportFailureIsHandoffError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	client, err := NewHTTPClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	_, err = client.CreateCase(context.Background(), CaseRecord{})
	var herr *HandoffError
	if !errors.As(err, &herr) {
		t.Fatalf("expected HandoffError, got %v", err)
	}
	if herr.StatusCode != 0 {
		t.Fatalf("transport failures carry no status, got %d", herr.StatusCode)
	}
}

func TestMarkInvitationUsed(t *testing.T) {
	var path string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.Method + " " + r.URL.Path
	}))
	t.Cleanup(srv.Close)

	client, err := NewHTTPClient(srv.URL, "")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}

	if err := client.MarkInvitationUsed(context.Background(), "TEST2024"); err != nil {
		t.Fatalf("MarkInvitationUsed: %v", err)
	}
	if path != "POST /api/invitations/TEST2024/use" {
		t.Fatalf("unexpected request: %s", path)
	}
}

func TestNewHTTPClientValidatesBaseURL(t *testing.T) {
	if _, err := NewHTTPClient("   ", ""); err == nil {
		t.Fatalf("expected error for empty base URL")
	}
	client, err := NewHTTPClient("https://authority.example.com/", "")
	if err != nil {
		t.Fatalf("NewHTTPClient: %v", err)
	}
	if client.baseURL != "https://authority.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", client.baseURL)
	}
}

func TestDisabledClientDegradesGracefully(t *testing.T) {
	var c Client = Disabled{}

	if _, err := c.LookupInvitation(context.Background(), "TEST2024"); !errors.Is(err, ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	_, err := c.CreateCase(context.Background(), CaseRecord{})
	var herr *HandoffError
	if !errors.As(err, &herr) {
		t.Fatalf("expected HandoffError, got %v", err)
	}
}
