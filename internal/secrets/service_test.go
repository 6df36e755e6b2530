package secrets

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"whisperwall/internal/audit"
	"whisperwall/internal/identity"
	dErrors "whisperwall/pkg/domain-errors"
)

type directPublisher struct{ sink *audit.InMemoryStore }

func (p directPublisher) Emit(ctx context.Context, event audit.Event) error {
	return p.sink.Append(ctx, event)
}

type SecretsServiceSuite struct {
	suite.Suite
	sink    *audit.InMemoryStore
	service *Service
}

func TestSecretsServiceSuite(t *testing.T) {
	suite.Run(t, new(SecretsServiceSuite))
}

func (s *SecretsServiceSuite) SetupTest() {
	s.sink = audit.NewInMemoryStore()
	s.service = New(NewInMemoryStore(), WithAudit(directPublisher{sink: s.sink}))
}

var alice = identity.Principal{UserID: 1, Username: "alice@example.com"}

func (s *SecretsServiceSuite) TestSubmit() {
	ctx := context.Background()

	s.Run("stores and audits a secret", func() {
		secret, err := s.service.Submit(ctx, alice, "I still use tabs")
		s.Require().NoError(err)
		s.Equal(alice.UserID, secret.UserID)
		s.Equal("I still use tabs", secret.Text)

		events, err := s.sink.ListByUser(ctx, alice.UserID)
		s.Require().NoError(err)
		s.Require().Len(events, 1)
		s.Equal(string(audit.EventSecretSubmitted), events[0].Action)
	})

	s.Run("empty text is rejected", func() {
		_, err := s.service.Submit(ctx, alice, "   ")
		s.Require().Error(err)
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	})
}

func (s *SecretsServiceSuite) TestList() {
	ctx := context.Background()
	bob := identity.Principal{UserID: 2, Username: "bob@example.com"}

	_, err := s.service.Submit(ctx, alice, "first")
	s.Require().NoError(err)
	_, err = s.service.Submit(ctx, bob, "second")
	s.Require().NoError(err)

	// Listing is shared: everyone sees everyone's secrets.
	all, err := s.service.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)
	s.Equal("first", all[0].Text)
	s.Equal(alice.UserID, all[0].UserID)
	s.Equal("second", all[1].Text)
	s.Equal(bob.UserID, all[1].UserID)
}
