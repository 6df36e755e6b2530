package secrets

import (
	"context"
	"sync"
	"time"
)

// InMemoryStore is the default wiring when no database is configured.
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	secrets []Secret
}

func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{nextID: 1}
}

func (s *InMemoryStore) Insert(_ context.Context, userID int64, text string) (*Secret, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	secret := Secret{
		ID:        s.nextID,
		UserID:    userID,
		Text:      text,
		CreatedAt: time.Now().UTC(),
	}
	s.secrets = append(s.secrets, secret)
	s.nextID++
	return &secret, nil
}

func (s *InMemoryStore) ListAll(_ context.Context) ([]Secret, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Secret, len(s.secrets))
	copy(out, s.secrets)
	return out, nil
}
