package invitations

import (
	"context"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo used in dev mode and tests.
type MemoryRepo struct {
	mu   sync.RWMutex
	rows map[string]Invitation
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Invitation)}
}

func (r *MemoryRepo) Get(ctx context.Context, code string) (Invitation, error) {
	if err := ctx.Err(); err != nil {
		return Invitation{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.rows[code]
	if !ok {
		return Invitation{}, ErrNotFound
	}
	return inv, nil
}

func (r *MemoryRepo) Upsert(ctx context.Context, inv Invitation) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	now := time.Now().UTC()
	existing, ok := r.rows[inv.Code]
	if ok {
		inv.CreatedAt = existing.CreatedAt
	} else {
		inv.CreatedAt = now
	}
	inv.UpdatedAt = now
	inv.Source = ""
	r.rows[inv.Code] = inv
	return nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, code string, status Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	inv, ok := r.rows[code]
	if !ok {
		return ErrNotFound
	}
	inv.Status = status
	inv.UpdatedAt = time.Now().UTC()
	r.rows[code] = inv
	return nil
}

var _ Repo = (*MemoryRepo)(nil)
