package drafts

import (
	"context"
	"errors"
)

// ErrNotFound means no draft row exists for the code.
var ErrNotFound = errors.New("draft not found")

// Repo is the local-store contract for draft rows.
type Repo interface {
	Upsert(ctx context.Context, draft Draft) error
	Get(ctx context.Context, invitationCode string) (Draft, error)
	// Delete reports whether a row was actually removed. Deleting a missing
	// draft is not an error.
	Delete(ctx context.Context, invitationCode string) (bool, error)
}
