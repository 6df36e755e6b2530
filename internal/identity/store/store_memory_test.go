package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"whisperwall/pkg/sentinel"
)

type InMemoryUserStoreSuite struct {
	suite.Suite
	store *InMemoryUserStore
}

func TestInMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(InMemoryUserStoreSuite))
}

func (s *InMemoryUserStoreSuite) SetupTest() {
	s.store = NewInMemoryUserStore()
}

func (s *InMemoryUserStoreSuite) TestCreateLocal() {
	ctx := context.Background()

	s.Run("assigns sequential ids starting at 1", func() {
		alice, err := s.store.CreateLocal(ctx, "alice@example.com", "hash-a")
		s.Require().NoError(err)
		s.Equal(int64(1), alice.ID)
		s.Equal("alice@example.com", alice.Email)
		s.Equal("hash-a", alice.PasswordHash)
		s.Empty(alice.GoogleID)

		bob, err := s.store.CreateLocal(ctx, "bob@example.com", "hash-b")
		s.Require().NoError(err)
		s.Equal(int64(2), bob.ID)
	})

	s.Run("duplicate email is a conflict", func() {
		_, err := s.store.CreateLocal(ctx, "carol@example.com", "hash-1")
		s.Require().NoError(err)

		_, err = s.store.CreateLocal(ctx, "carol@example.com", "hash-2")
		s.Require().Error(err)
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *InMemoryUserStoreSuite) TestCreateFederated() {
	ctx := context.Background()

	s.Run("stores subject id without a password hash", func() {
		user, err := s.store.CreateFederated(ctx, "Dana", "google-sub-1")
		s.Require().NoError(err)
		s.Equal("google-sub-1", user.GoogleID)
		s.Equal("Dana", user.DisplayName)
		s.Empty(user.PasswordHash)
		s.False(user.HasLocalCredential())
	})

	s.Run("duplicate subject id is a conflict", func() {
		_, err := s.store.CreateFederated(ctx, "Dana", "google-sub-dup")
		s.Require().NoError(err)

		_, err = s.store.CreateFederated(ctx, "Other Dana", "google-sub-dup")
		s.Require().Error(err)
		s.ErrorIs(err, sentinel.ErrConflict)
	})
}

func (s *InMemoryUserStoreSuite) TestFind() {
	ctx := context.Background()

	s.Run("missing email returns not found", func() {
		_, err := s.store.FindByEmail(ctx, "nobody@example.com")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("missing subject id returns not found", func() {
		_, err := s.store.FindByGoogleID(ctx, "google-missing")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("created user is found by email", func() {
		created, err := s.store.CreateLocal(ctx, "erin@example.com", "hash-e")
		s.Require().NoError(err)

		found, err := s.store.FindByEmail(ctx, "erin@example.com")
		s.Require().NoError(err)
		s.Equal(created.ID, found.ID)
	})

	s.Run("empty google id never matches local accounts", func() {
		_, err := s.store.CreateLocal(ctx, "frank@example.com", "hash-f")
		s.Require().NoError(err)

		_, err = s.store.FindByGoogleID(ctx, "")
		s.ErrorIs(err, sentinel.ErrNotFound)
	})
}
