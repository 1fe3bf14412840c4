package drafts

import (
	"context"
	"encoding/json"
	"strings"
	"time"
)

// Store implements debounced-by-the-caller autosave. Every Save is a full
// upsert; last write wins by arrival order at the local store, not by
// timestamp comparison.
type Store struct {
	Repo Repo

	// Now is overridable for tests; defaults to time.Now.
	Now func() time.Time
}

// NormalizeCode uppercases a trimmed invitation code so draft rows share the
// resolver's key space.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Save upserts the draft for the code and returns the stored row.
func (s *Store) Save(ctx context.Context, code string, formSnapshot json.RawMessage, step int) (Draft, error) {
	draft := Draft{
		InvitationCode: NormalizeCode(code),
		FormData:       formSnapshot,
		CurrentStep:    step,
		LastSaved:      s.now(),
	}
	if err := s.Repo.Upsert(ctx, draft); err != nil {
		return Draft{}, err
	}
	return draft, nil
}

// Get fetches the draft for the code, or ErrNotFound.
func (s *Store) Get(ctx context.Context, code string) (Draft, error) {
	return s.Repo.Get(ctx, NormalizeCode(code))
}

// Clear removes the draft for the code. Clearing a non-existent draft is not
// an error; the bool reports whether anything was removed.
func (s *Store) Clear(ctx context.Context, code string) (bool, error) {
	return s.Repo.Delete(ctx, NormalizeCode(code))
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
