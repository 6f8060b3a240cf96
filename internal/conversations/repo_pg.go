package conversations

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts a row into conversation_history.
func (r *PGRepo) Create(ctx context.Context, rec Record) error {
	const query = `
INSERT INTO conversation_history (
    id,
    user_id,
    user_input,
    ai_response,
    created_at
) VALUES ($1, $2, $3, $4, $5)`

	_, err := r.DB.ExecContext(ctx, query, rec.ID, rec.UserID, rec.UserInput, rec.AIResponse, rec.CreatedAt)
	return err
}
