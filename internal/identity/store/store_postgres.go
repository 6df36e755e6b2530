package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"whisperwall/internal/identity"
	"whisperwall/pkg/sentinel"
)

// PostgresUserStore persists users in PostgreSQL. UNIQUE constraints on
// email and google_id make concurrent first-login races lose cleanly with a
// conflict instead of creating duplicate rows; the strategy resolves the
// conflict by re-reading.
type PostgresUserStore struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const userColumns = `id, COALESCE(email, ''), COALESCE(password_hash, ''), COALESCE(google_id, ''), COALESCE(display_name, ''), created_at`

func (s *PostgresUserStore) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, email))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find user by email: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user by email: %w", err)
	}
	return user, nil
}

func (s *PostgresUserStore) FindByGoogleID(ctx context.Context, googleID string) (*identity.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE google_id = $1`
	user, err := scanUser(s.db.QueryRowContext(ctx, query, googleID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("find user by google id: %w", sentinel.ErrNotFound)
		}
		return nil, fmt.Errorf("find user by google id: %w", err)
	}
	return user, nil
}

func (s *PostgresUserStore) CreateLocal(ctx context.Context, email, passwordHash string) (*identity.User, error) {
	query := `
		INSERT INTO users (email, password_hash)
		VALUES ($1, $2)
		RETURNING ` + userColumns
	user, err := scanUser(s.db.QueryRowContext(ctx, query, email, passwordHash))
	if err != nil {
		return nil, fmt.Errorf("create local user: %w", translateConstraint(err))
	}
	return user, nil
}

func (s *PostgresUserStore) CreateFederated(ctx context.Context, displayName, googleID string) (*identity.User, error) {
	query := `
		INSERT INTO users (display_name, google_id)
		VALUES ($1, $2)
		RETURNING ` + userColumns
	user, err := scanUser(s.db.QueryRowContext(ctx, query, displayName, googleID))
	if err != nil {
		return nil, fmt.Errorf("create federated user: %w", translateConstraint(err))
	}
	return user, nil
}

func scanUser(row *sql.Row) (*identity.User, error) {
	var u identity.User
	if err := row.Scan(&u.ID, &u.Email, &u.PasswordHash, &u.GoogleID, &u.DisplayName, &u.CreatedAt); err != nil {
		return nil, err
	}
	return &u, nil
}

// translateConstraint maps a unique-violation to the conflict sentinel so
// strategies can resolve first-login races without depending on driver types.
func translateConstraint(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code.Name() == "unique_violation" {
		return sentinel.ErrConflict
	}
	return err
}
