package applications

import "context"

// Repo is the local-store contract for application rows.
type Repo interface {
	Create(ctx context.Context, app Application) error
	GetByReference(ctx context.Context, referenceNumber string) (Application, error)
	// UpdateStatus enforces the pipeline transition table: moves out of
	// states this service does not own fail with ErrBadTransition.
	UpdateStatus(ctx context.Context, referenceNumber string, status Status) error
	AppendNote(ctx context.Context, referenceNumber, note string) error
	ListByStatus(ctx context.Context, status Status, limit int) ([]Application, error)
}

// FilesRepo is the local-store contract for standalone file metadata rows,
// written by the upload endpoint for query convenience.
type FilesRepo interface {
	CreateFile(ctx context.Context, rec FileRecord) error
	ListFilesByInvitation(ctx context.Context, invitationCode string) ([]FileRecord, error)
}
