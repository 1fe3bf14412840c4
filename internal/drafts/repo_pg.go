package drafts

import (
	"context"
	"database/sql"
	"errors"
)

// PGRepo implements Repo on the draft_data table.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) Upsert(ctx context.Context, draft Draft) error {
	const query = `
INSERT INTO draft_data (invitation_code, form_data, current_step, last_saved)
VALUES ($1, $2, $3, $4)
ON CONFLICT (invitation_code) DO UPDATE SET
  form_data = EXCLUDED.form_data,
  current_step = EXCLUDED.current_step,
  last_saved = EXCLUDED.last_saved`
	formData := draft.FormData
	if len(formData) == 0 {
		formData = []byte("{}")
	}
	_, err := r.DB.ExecContext(ctx, query,
		draft.InvitationCode,
		[]byte(formData),
		draft.CurrentStep,
		draft.LastSaved,
	)
	return err
}

func (r *PGRepo) Get(ctx context.Context, invitationCode string) (Draft, error) {
	const query = `
SELECT invitation_code, form_data, current_step, last_saved
FROM draft_data
WHERE invitation_code = $1
LIMIT 1`
	var draft Draft
	var formData []byte
	err := r.DB.QueryRowContext(ctx, query, invitationCode).Scan(
		&draft.InvitationCode,
		&formData,
		&draft.CurrentStep,
		&draft.LastSaved,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, ErrNotFound
		}
		return Draft{}, err
	}
	draft.FormData = formData
	return draft, nil
}

func (r *PGRepo) Delete(ctx context.Context, invitationCode string) (bool, error) {
	const query = `DELETE FROM draft_data WHERE invitation_code = $1`
	res, err := r.DB.ExecContext(ctx, query, invitationCode)
	if err != nil {
		return false, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}

var _ Repo = (*PGRepo)(nil)
