package invitations

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo on the invitations table.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Get(ctx context.Context, code string) (Invitation, error) {
	const query = `
SELECT code, company, email, notes, status, created_at, updated_at
FROM invitations
WHERE code = $1
LIMIT 1`
	var inv Invitation
	var status string
	err := r.DB.QueryRowContext(ctx, query, code).Scan(
		&inv.Code,
		&inv.CompanyName,
		&inv.ContactEmail,
		&inv.Notes,
		&status,
		&inv.CreatedAt,
		&inv.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Invitation{}, ErrNotFound
		}
		return Invitation{}, err
	}
	inv.Status = Status(status)
	return inv, nil
}

func (r *PGRepo) Upsert(ctx context.Context, inv Invitation) error {
	const query = `
INSERT INTO invitations (code, company, email, notes, status, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, now(), now())
ON CONFLICT (code) DO UPDATE SET
  company = EXCLUDED.company,
  email = EXCLUDED.email,
  notes = EXCLUDED.notes,
  status = EXCLUDED.status,
  updated_at = now()`
	_, err := r.DB.ExecContext(ctx, query,
		inv.Code,
		inv.CompanyName,
		inv.ContactEmail,
		inv.Notes,
		string(inv.Status),
	)
	return err
}

func (r *PGRepo) UpdateStatus(ctx context.Context, code string, status Status) error {
	const query = `
UPDATE invitations
SET status = $2, updated_at = now()
WHERE code = $1`
	res, err := r.DB.ExecContext(ctx, query, code, string(status))
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

var _ Repo = (*PGRepo)(nil)
