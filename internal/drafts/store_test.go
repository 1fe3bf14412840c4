package drafts

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func TestSaveOverwritesPreviousDraft(t *testing.T) {
	repo := NewMemoryRepo()
	clock := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	store := &Store{Repo: repo, Now: func() time.Time { return clock }}

	if _, err := store.Save(context.Background(), "test2024", json.RawMessage(`{"company":"A"}`), 1); err != nil {
		t.Fatalf("first Save: %v", err)
	}
	clock = clock.Add(time.Minute)
	if _, err := store.Save(context.Background(), "TEST2024", json.RawMessage(`{"company":"B"}`), 2); err != nil {
		t.Fatalf("second Save: %v", err)
	}

	draft, err := store.Get(context.Background(), "TEST2024")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if string(draft.FormData) != `{"company":"B"}` {
		t.Fatalf("expected last write to win, got %s", draft.FormData)
	}
	if draft.CurrentStep != 2 {
		t.Fatalf("expected step 2, got %d", draft.CurrentStep)
	}
	if !draft.LastSaved.Equal(clock) {
		t.Fatalf("expected lastSaved %v, got %v", clock, draft.LastSaved)
	}
}

func TestGetMissingDraftIsNotFound(t *testing.T) {
	store := &Store{Repo: NewMemoryRepo()}
	if _, err := store.Get(context.Background(), "UNKNOWN1"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestClearIsIdempotent(t *testing.T) {
	store := &Store{Repo: NewMemoryRepo()}
	if _, err := store.Save(context.Background(), "TEST2024", json.RawMessage(`{}`), 1); err != nil {
		t.Fatalf("Save: %v", err)
	}

	cleared, err := store.Clear(context.Background(), "test2024")
	if err != nil {
		t.Fatalf("first Clear: %v", err)
	}
	if !cleared {
		t.Fatalf("expected first clear to remove the row")
	}

	cleared, err = store.Clear(context.Background(), "TEST2024")
	if err != nil {
		t.Fatalf("second Clear: %v", err)
	}
	if cleared {
		t.Fatalf("expected second clear to be a no-op")
	}
}
