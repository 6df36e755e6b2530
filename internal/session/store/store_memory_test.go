package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"whisperwall/internal/identity"
	"whisperwall/internal/session"
	"whisperwall/pkg/sentinel"
)

type InMemorySessionStoreSuite struct {
	suite.Suite
	store *InMemorySessionStore
}

func TestInMemorySessionStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemorySessionStoreSuite))
}

func (s *InMemorySessionStoreSuite) SetupTest() {
	s.store = NewInMemorySessionStore()
}

func (s *InMemorySessionStoreSuite) record(token string) session.Record {
	now := time.Now().UTC()
	return session.Record{
		Token:     token,
		Principal: identity.Principal{UserID: 1, Username: "alice@example.com"},
		CreatedAt: now,
		ExpiresAt: now.Add(time.Hour),
	}
}

func (s *InMemorySessionStoreSuite) TestSaveAndFind() {
	ctx := context.Background()

	s.Require().NoError(s.store.Save(ctx, s.record("tok-1")))

	found, err := s.store.Find(ctx, "tok-1")
	s.Require().NoError(err)
	s.Equal(int64(1), found.Principal.UserID)

	s.Run("returned record is a copy", func() {
		found.Principal.UserID = 99
		again, err := s.store.Find(ctx, "tok-1")
		s.Require().NoError(err)
		s.Equal(int64(1), again.Principal.UserID)
	})
}

func (s *InMemorySessionStoreSuite) TestFindMissing() {
	_, err := s.store.Find(context.Background(), "tok-missing")
	s.ErrorIs(err, sentinel.ErrNotFound)
}

func (s *InMemorySessionStoreSuite) TestDelete() {
	ctx := context.Background()

	s.Require().NoError(s.store.Save(ctx, s.record("tok-2")))
	s.Require().NoError(s.store.Delete(ctx, "tok-2"))

	_, err := s.store.Find(ctx, "tok-2")
	s.ErrorIs(err, sentinel.ErrNotFound)

	s.Run("deleting a missing token is a no-op", func() {
		s.NoError(s.store.Delete(ctx, "tok-2"))
	})
}
