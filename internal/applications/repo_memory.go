package applications

import (
	"context"
	"strings"
	"sync"
	"time"
)

// MemoryRepo is an in-memory Repo and FilesRepo used in dev mode and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	rows  map[string]Application
	files []FileRecord
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{rows: make(map[string]Application)}
}

func (r *MemoryRepo) Create(ctx context.Context, app Application) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app.UpdatedAt = time.Now().UTC()
	r.rows[app.ReferenceNumber] = app
	return nil
}

func (r *MemoryRepo) GetByReference(ctx context.Context, referenceNumber string) (Application, error) {
	if err := ctx.Err(); err != nil {
		return Application{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	app, ok := r.rows[referenceNumber]
	if !ok {
		return Application{}, ErrNotFound
	}
	return app, nil
}

func (r *MemoryRepo) UpdateStatus(ctx context.Context, referenceNumber string, status Status) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.rows[referenceNumber]
	if !ok {
		return ErrNotFound
	}
	if !CanTransition(app.Status, status) {
		return ErrBadTransition
	}
	app.Status = status
	app.UpdatedAt = time.Now().UTC()
	r.rows[referenceNumber] = app
	return nil
}

func (r *MemoryRepo) AppendNote(ctx context.Context, referenceNumber, note string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.rows[referenceNumber]
	if !ok {
		return ErrNotFound
	}
	if app.ProcessingNotes != "" {
		app.ProcessingNotes += "\n"
	}
	app.ProcessingNotes += note
	app.UpdatedAt = time.Now().UTC()
	r.rows[referenceNumber] = app
	return nil
}

func (r *MemoryRepo) ListByStatus(ctx context.Context, status Status, limit int) ([]Application, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []Application
	for _, app := range r.rows {
		if app.Status == status {
			out = append(out, app)
		}
		if limit > 0 && len(out) >= limit {
			break
		}
	}
	return out, nil
}

func (r *MemoryRepo) CreateFile(ctx context.Context, rec FileRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.files = append(r.files, rec)
	return nil
}

func (r *MemoryRepo) ListFilesByInvitation(ctx context.Context, invitationCode string) ([]FileRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	var out []FileRecord
	for _, rec := range r.files {
		if strings.EqualFold(rec.InvitationCode, invitationCode) {
			out = append(out, rec)
		}
	}
	return out, nil
}

var (
	_ Repo      = (*MemoryRepo)(nil)
	_ FilesRepo = (*MemoryRepo)(nil)
)
