package uploads

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a row into uploaded_files.
func (r *PGRepo) Create(ctx context.Context, f UploadedFile) error {
	const query = `
INSERT INTO uploaded_files (
    id,
    user_id,
    file_path,
    uploaded_at
) VALUES ($1, $2, $3, $4)`

	_, err := r.DB.ExecContext(ctx, query, f.ID, f.UserID, f.FilePath, f.UploadedAt)
	return err
}
