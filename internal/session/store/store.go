// Package store persists session records behind a small interface so the
// manager can run against memory in tests and Redis in production.
package store

import (
	"context"

	"whisperwall/internal/session"
)

// SessionStore is consumed by session.Manager. Find returns
// sentinel.ErrNotFound (wrapped) for unknown tokens; expiry handling is the
// manager's concern for stores without native TTL.
type SessionStore interface {
	Save(ctx context.Context, record session.Record) error
	Find(ctx context.Context, token string) (*session.Record, error)
	Delete(ctx context.Context, token string) error
}
