package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"whisperwall/internal/identity"
	"whisperwall/pkg/sentinel"
)

// InMemoryUserStore keeps the default wiring lightweight and tests isolated.
// The mutex serializes lookup-then-insert, so the store enforces email and
// google id uniqueness without a database.
type InMemoryUserStore struct {
	mu     sync.RWMutex
	nextID int64
	users  map[int64]identity.User
}

func NewInMemoryUserStore() *InMemoryUserStore {
	return &InMemoryUserStore{nextID: 1, users: make(map[int64]identity.User)}
}

func (s *InMemoryUserStore) FindByEmail(_ context.Context, email string) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Email == email {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("find user by email: %w", sentinel.ErrNotFound)
}

func (s *InMemoryUserStore) FindByGoogleID(_ context.Context, googleID string) (*identity.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			user := u
			return &user, nil
		}
	}
	return nil, fmt.Errorf("find user by google id: %w", sentinel.ErrNotFound)
}

func (s *InMemoryUserStore) CreateLocal(_ context.Context, email, passwordHash string) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Email == email {
			return nil, fmt.Errorf("create local user: %w", sentinel.ErrConflict)
		}
	}
	user := identity.User{
		ID:           s.nextID,
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	s.users[user.ID] = user
	s.nextID++
	return &user, nil
}

func (s *InMemoryUserStore) CreateFederated(_ context.Context, displayName, googleID string) (*identity.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.GoogleID != "" && u.GoogleID == googleID {
			return nil, fmt.Errorf("create federated user: %w", sentinel.ErrConflict)
		}
	}
	user := identity.User{
		ID:          s.nextID,
		GoogleID:    googleID,
		DisplayName: displayName,
		CreatedAt:   time.Now().UTC(),
	}
	s.users[user.ID] = user
	s.nextID++
	return &user, nil
}

// Count reports the number of stored users. Test helper.
func (s *InMemoryUserStore) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.users)
}
