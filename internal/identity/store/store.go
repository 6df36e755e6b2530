// Package store persists user identity records. Implementations are pure
// I/O; deciding what a missing row or a conflict means belongs to the
// authentication strategies.
package store

import (
	"context"

	"whisperwall/internal/identity"
)

// UserStore is the credential store contract consumed by the authentication
// strategies. Lookups return sentinel.ErrNotFound (wrapped) for missing
// records; creates return sentinel.ErrConflict (wrapped) when a uniqueness
// constraint rejects the write.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*identity.User, error)
	FindByGoogleID(ctx context.Context, googleID string) (*identity.User, error)
	CreateLocal(ctx context.Context, email, passwordHash string) (*identity.User, error)
	CreateFederated(ctx context.Context, displayName, googleID string) (*identity.User, error)
}
