package invitations

import (
	"context"
	"errors"
)

var (
	// ErrNotFound means no invitation row exists for the code.
	ErrNotFound = errors.New("invitation not found")
	// ErrMalformedCode means the code fails the length check. No store is
	// touched when this is returned.
	ErrMalformedCode = errors.New("invitation code must be exactly 8 characters")
)

// Repo is the local-store contract for invitation rows.
type Repo interface {
	Get(ctx context.Context, code string) (Invitation, error)
	Upsert(ctx context.Context, inv Invitation) error
	UpdateStatus(ctx context.Context, code string, status Status) error
}
