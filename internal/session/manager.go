package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"whisperwall/internal/identity"
	"whisperwall/pkg/requestcontext"
	"whisperwall/pkg/sentinel"
)

// Store is the persistence contract the manager consumes.
type Store interface {
	Save(ctx context.Context, record Record) error
	Find(ctx context.Context, token string) (*Record, error)
	Delete(ctx context.Context, token string) error
}

// DefaultTTL applies when the manager is constructed with a zero TTL.
const DefaultTTL = 24 * time.Hour

// Manager owns the session lifecycle: Anonymous -> Authenticated on Issue,
// back to Anonymous on Revoke or expiry. There are no other transitions.
type Manager struct {
	store Store
	ttl   time.Duration
}

func NewManager(store Store, ttl time.Duration) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, ttl: ttl}
}

// Issue serializes a principal into a fresh opaque token. The record carries
// only the reduced identity, never credential material.
func (m *Manager) Issue(ctx context.Context, principal identity.Principal, device string) (Record, error) {
	now := requestcontext.Now(ctx)
	record := Record{
		Token:     uuid.NewString(),
		Principal: principal,
		Device:    device,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}
	if err := m.store.Save(ctx, record); err != nil {
		return Record{}, fmt.Errorf("issue session: %w", err)
	}
	return record, nil
}

// Resolve maps a token back to its record. Unknown tokens return
// sentinel.ErrNotFound; expired ones are deleted and return
// sentinel.ErrExpired. Callers treat both as anonymous.
func (m *Manager) Resolve(ctx context.Context, token string) (*Record, error) {
	if token == "" {
		return nil, fmt.Errorf("resolve session: %w", sentinel.ErrNotFound)
	}
	record, err := m.store.Find(ctx, token)
	if err != nil {
		return nil, err
	}
	if record.Expired(requestcontext.Now(ctx)) {
		// Best effort cleanup; the record is unusable either way.
		_ = m.store.Delete(ctx, token)
		return nil, fmt.Errorf("resolve session: %w", sentinel.ErrExpired)
	}
	return record, nil
}

// Revoke is the explicit logout. Idempotent: revoking an unknown token is
// not an error.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := m.store.Delete(ctx, token); err != nil && !errors.Is(err, sentinel.ErrNotFound) {
		return fmt.Errorf("revoke session: %w", err)
	}
	return nil
}
