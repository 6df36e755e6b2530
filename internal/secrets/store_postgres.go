package secrets

import (
	"context"
	"database/sql"
	"fmt"
)

// PostgresStore persists secrets in PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Insert(ctx context.Context, userID int64, text string) (*Secret, error) {
	query := `
		INSERT INTO secrets (user_id, secret)
		VALUES ($1, $2)
		RETURNING id, user_id, secret, created_at
	`
	var secret Secret
	err := s.db.QueryRowContext(ctx, query, userID, text).
		Scan(&secret.ID, &secret.UserID, &secret.Text, &secret.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert secret: %w", err)
	}
	return &secret, nil
}

func (s *PostgresStore) ListAll(ctx context.Context) ([]Secret, error) {
	query := `SELECT id, user_id, secret, created_at FROM secrets ORDER BY id`
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	defer rows.Close()

	var out []Secret
	for rows.Next() {
		var secret Secret
		if err := rows.Scan(&secret.ID, &secret.UserID, &secret.Text, &secret.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan secret: %w", err)
		}
		out = append(out, secret)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list secrets: %w", err)
	}
	return out, nil
}
