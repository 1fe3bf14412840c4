package applications

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo and FilesRepo on the applications and
// application_files tables.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Create(ctx context.Context, app Application) error {
	formData, err := json.Marshal(app.FormData)
	if err != nil {
		return fmt.Errorf("encode form data: %w", err)
	}
	files := app.Files
	if files == nil {
		files = []FileRecord{}
	}
	filesData, err := json.Marshal(files)
	if err != nil {
		return fmt.Errorf("encode files data: %w", err)
	}

	const query = `
INSERT INTO applications (reference_number, invitation_code, status, form_data, files_data, processing_notes, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, now())`
	_, err = r.DB.ExecContext(ctx, query,
		app.ReferenceNumber,
		app.InvitationCode,
		string(app.Status),
		formData,
		filesData,
		app.ProcessingNotes,
		app.SubmissionDate,
	)
	return err
}

func (r *PGRepo) GetByReference(ctx context.Context, referenceNumber string) (Application, error) {
	const query = `
SELECT reference_number, invitation_code, status, form_data, files_data, processing_notes, created_at, updated_at
FROM applications
WHERE reference_number = $1
LIMIT 1`
	return r.scanOne(r.DB.QueryRowContext(ctx, query, referenceNumber))
}

// UpdateStatus moves an application along the pipeline state machine.
// pending is the only state this service may transition out of; rows already
// in reviewer-owned states are left untouched.
func (r *PGRepo) UpdateStatus(ctx context.Context, referenceNumber string, status Status) error {
	const query = `
UPDATE applications
SET status = $2, updated_at = now()
WHERE reference_number = $1 AND status = 'pending'`
	res, err := r.DB.ExecContext(ctx, query, referenceNumber, string(status))
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected > 0 {
		return nil
	}

	const probe = `SELECT 1 FROM applications WHERE reference_number = $1 LIMIT 1`
	var one int
	if err := r.DB.QueryRowContext(ctx, probe, referenceNumber).Scan(&one); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrNotFound
		}
		return err
	}
	return ErrBadTransition
}

func (r *PGRepo) AppendNote(ctx context.Context, referenceNumber, note string) error {
	const query = `
UPDATE applications
SET processing_notes = CASE WHEN processing_notes = '' THEN $2 ELSE processing_notes || E'\n' || $2 END,
    updated_at = now()
WHERE reference_number = $1`
	res, err := r.DB.ExecContext(ctx, query, referenceNumber, note)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PGRepo) ListByStatus(ctx context.Context, status Status, limit int) ([]Application, error) {
	if limit <= 0 {
		limit = 50
	}
	const query = `
SELECT reference_number, invitation_code, status, form_data, files_data, processing_notes, created_at, updated_at
FROM applications
WHERE status = $1
ORDER BY created_at ASC
LIMIT $2`
	rows, err := r.DB.QueryContext(ctx, query, string(status), limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Application
	for rows.Next() {
		app, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PGRepo) scanOne(row rowScanner) (Application, error) {
	var app Application
	var status string
	var formData, filesData []byte
	err := row.Scan(
		&app.ReferenceNumber,
		&app.InvitationCode,
		&status,
		&formData,
		&filesData,
		&app.ProcessingNotes,
		&app.SubmissionDate,
		&app.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Application{}, ErrNotFound
		}
		return Application{}, err
	}
	app.Status = Status(status)
	if len(formData) > 0 {
		if err := json.Unmarshal(formData, &app.FormData); err != nil {
			return Application{}, fmt.Errorf("decode form data: %w", err)
		}
	}
	if len(filesData) > 0 {
		if err := json.Unmarshal(filesData, &app.Files); err != nil {
			return Application{}, fmt.Errorf("decode files data: %w", err)
		}
	}
	return app, nil
}

func (r *PGRepo) CreateFile(ctx context.Context, rec FileRecord) error {
	const query = `
INSERT INTO application_files (id, invitation_code, field_name, original_filename, file_size, content_type, storage_path, upload_date)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.DB.ExecContext(ctx, query,
		rec.ID,
		rec.InvitationCode,
		rec.FieldName,
		rec.OriginalFilename,
		rec.Size,
		rec.ContentType,
		rec.StoragePath,
		rec.UploadDate,
	)
	return err
}

func (r *PGRepo) ListFilesByInvitation(ctx context.Context, invitationCode string) ([]FileRecord, error) {
	const query = `
SELECT id, invitation_code, field_name, original_filename, file_size, content_type, storage_path, upload_date
FROM application_files
WHERE invitation_code = $1
ORDER BY upload_date ASC`
	rows, err := r.DB.QueryContext(ctx, query, invitationCode)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []FileRecord
	for rows.Next() {
		var rec FileRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.InvitationCode,
			&rec.FieldName,
			&rec.OriginalFilename,
			&rec.Size,
			&rec.ContentType,
			&rec.StoragePath,
			&rec.UploadDate,
		); err != nil {
			return nil, err
		}
		out = append(out, rec)
	}
	return out, rows.Err()
}

var (
	_ Repo      = (*PGRepo)(nil)
	_ FilesRepo = (*PGRepo)(nil)
)
