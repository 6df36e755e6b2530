package store

import (
	"context"
	"fmt"
	"sync"

	"whisperwall/internal/session"
	"whisperwall/pkg/sentinel"
)

// InMemorySessionStore keeps sessions in a mutex-guarded map. Records are
// kept until deleted; the manager checks expiry on resolve and deletes
// expired entries, so the map does not grow past the working set by much.
type InMemorySessionStore struct {
	mu       sync.RWMutex
	sessions map[string]session.Record
}

func NewInMemorySessionStore() *InMemorySessionStore {
	return &InMemorySessionStore{sessions: make(map[string]session.Record)}
}

func (s *InMemorySessionStore) Save(_ context.Context, record session.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[record.Token] = record
	return nil
}

func (s *InMemorySessionStore) Find(_ context.Context, token string) (*session.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if record, ok := s.sessions[token]; ok {
		return &record, nil
	}
	return nil, fmt.Errorf("find session: %w", sentinel.ErrNotFound)
}

func (s *InMemorySessionStore) Delete(_ context.Context, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, token)
	return nil
}
