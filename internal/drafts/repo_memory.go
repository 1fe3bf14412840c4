package drafts

import (
	"context"
	"sync"
)

// MemoryRepo is an in-memory Repo used in dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows map[string]Draft
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Draft)}
}

func (r *MemoryRepo) Upsert(ctx context.Context, draft Draft) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows[draft.InvitationCode] = draft
	return nil
}

func (r *MemoryRepo) Get(ctx context.Context, invitationCode string) (Draft, error) {
	if err := ctx.Err(); err != nil {
		return Draft{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	draft, ok := r.rows[invitationCode]
	if !ok {
		return Draft{}, ErrNotFound
	}
	return draft, nil
}

func (r *MemoryRepo) Delete(ctx context.Context, invitationCode string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.rows[invitationCode]
	delete(r.rows, invitationCode)
	return ok, nil
}

var _ Repo = (*MemoryRepo)(nil)
