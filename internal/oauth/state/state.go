// Package state issues and validates the signed state parameter that binds
// an OAuth authorization request to its callback. The token is a short-lived
// HS256 JWT so the callback can reject replays and cross-site forgeries
// without server-side storage.
package state

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	dErrors "whisperwall/pkg/domain-errors"
)

// TTL bounds how long a login redirect may sit before the callback returns.
const TTL = 10 * time.Minute

type claims struct {
	jwt.RegisteredClaims
}

// Signer mints and checks state tokens with a shared HMAC key.
type Signer struct {
	key    []byte
	issuer string
	now    func() time.Time
}

type Option func(*Signer)

// WithClock overrides the time source for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Signer) { s.now = now }
}

func NewSigner(key string, opts ...Option) *Signer {
	s := &Signer{key: []byte(key), issuer: "whisperwall", now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Issue mints a fresh state token.
func (s *Signer) Issue() (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(TTL)),
		},
	})
	signed, err := token.SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("sign state token: %w", err)
	}
	return signed, nil
}

// Validate checks a state token returned by the provider callback. Any
// defect — bad signature, expiry, wrong issuer — is a provider_error; the
// handler redirects to login the same way for all of them.
func (s *Signer) Validate(token string) error {
	parsed, err := jwt.ParseWithClaims(token, &claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.key, nil
	},
		jwt.WithIssuer(s.issuer),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return dErrors.Wrap(dErrors.CodeProviderError, "state token expired", err)
		}
		return dErrors.Wrap(dErrors.CodeProviderError, "state token invalid", err)
	}
	if !parsed.Valid {
		return dErrors.New(dErrors.CodeProviderError, "state token invalid")
	}
	return nil
}
