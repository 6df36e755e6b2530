// Package hasher wraps bcrypt for password storage. The work factor matches
// the cost the rest of the data was written with; changing it only affects
// newly created hashes.
package hasher

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "whisperwall/pkg/domain-errors"
)

// Cost is the bcrypt work factor applied to new hashes.
const Cost = 11

// Bcrypt adapts the package functions to the interface the authentication
// strategies consume, so tests can substitute a cheap fake.
type Bcrypt struct{}

func (Bcrypt) Hash(password string) (string, error) { return Hash(password) }
func (Bcrypt) Verify(password, hash string) error   { return Verify(password, hash) }

// Hash creates a bcrypt hash of the provided password. The result is safe to
// store directly.
func Hash(password string) (string, error) {
	if password == "" {
		return "", dErrors.New(dErrors.CodeBadRequest, "password cannot be empty")
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), Cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeBadRequest, "password is too long")
		}
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks a plaintext password against a stored bcrypt hash. A
// mismatch returns a bad_credential error; a hash bcrypt cannot parse
// (including the empty string) returns malformed_hash. Callers holding a
// record without a local credential must branch before calling Verify.
func Verify(password, hash string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if err == nil {
		return nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return dErrors.New(dErrors.CodeBadCredential, "password does not match")
	}
	return dErrors.Wrap(dErrors.CodeMalformedHash, "stored hash is not a recognized format", err)
}
