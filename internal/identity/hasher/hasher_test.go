package hasher

import (
	"testing"

	"github.com/stretchr/testify/suite"

	dErrors "whisperwall/pkg/domain-errors"
)

type HasherSuite struct {
	suite.Suite
}

func TestHasherSuite(t *testing.T) {
	suite.Run(t, new(HasherSuite))
}

func (s *HasherSuite) TestHash() {
	s.Run("produces a verifiable hash", func() {
		hash, err := Hash("pw123")
		s.Require().NoError(err)
		s.NotEmpty(hash)
		s.NotEqual("pw123", hash)
		s.NoError(Verify("pw123", hash))
	})

	s.Run("empty password is rejected", func() {
		_, err := Hash("")
		s.Error(err)
		s.True(dErrors.Is(err, dErrors.CodeBadRequest))
	})

	s.Run("same password hashes differently each time", func() {
		first, err := Hash("pw123")
		s.Require().NoError(err)
		second, err := Hash("pw123")
		s.Require().NoError(err)
		s.NotEqual(first, second)
	})
}

func (s *HasherSuite) TestVerify() {
	hash, err := Hash("correct-horse")
	s.Require().NoError(err)

	s.Run("wrong password is a credential failure", func() {
		err := Verify("battery-staple", hash)
		s.Error(err)
		s.True(dErrors.Is(err, dErrors.CodeBadCredential))
	})

	s.Run("empty stored hash is malformed, not a mismatch", func() {
		err := Verify("pw123", "")
		s.Error(err)
		s.True(dErrors.Is(err, dErrors.CodeMalformedHash))
	})

	s.Run("garbage stored hash is malformed", func() {
		err := Verify("pw123", "not-a-bcrypt-hash")
		s.Error(err)
		s.True(dErrors.Is(err, dErrors.CodeMalformedHash))
	})
}
