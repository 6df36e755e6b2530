package service

import (
	"context"
	"errors"

	"whisperwall/internal/identity"
	"whisperwall/internal/identity/store"
	dErrors "whisperwall/pkg/domain-errors"
	"whisperwall/pkg/sentinel"
)

// StrategyLocal names the password strategy for dispatch and metrics.
const StrategyLocal = "local"

// Hasher is the one-way credential primitive the local strategy depends on.
type Hasher interface {
	Hash(password string) (string, error)
	Verify(password, hash string) error
}

// Local authenticates username/password pairs against stored bcrypt hashes.
//
// An unknown email registers a new account on the spot: the login endpoint
// has always doubled as implicit registration, and callers observe the case
// through Result.CreatedUser rather than a separate endpoint.
type Local struct {
	users  store.UserStore
	hasher Hasher
}

func NewLocal(users store.UserStore, hasher Hasher) *Local {
	return &Local{users: users, hasher: hasher}
}

func (l *Local) Name() string { return StrategyLocal }

func (l *Local) Authenticate(ctx context.Context, creds Credentials) (identity.Result, error) {
	if creds.Email == "" || creds.Password == "" {
		return identity.Result{}, dErrors.New(dErrors.CodeBadRequest, "username and password are required")
	}

	user, err := l.users.FindByEmail(ctx, creds.Email)
	switch {
	case err == nil:
		return l.verify(user, creds.Password)
	case errors.Is(err, sentinel.ErrNotFound):
		return l.register(ctx, creds)
	default:
		return identity.Result{}, dErrors.Wrap(dErrors.CodeProviderError, "credential store lookup failed", err)
	}
}

func (l *Local) verify(user *identity.User, password string) (identity.Result, error) {
	// Accounts created through the federated path have no local credential;
	// the hash must not reach bcrypt.
	if !user.HasLocalCredential() {
		return identity.Result{}, dErrors.New(dErrors.CodeBadCredential, "account has no local password")
	}
	if err := l.hasher.Verify(password, user.PasswordHash); err != nil {
		if dErrors.Is(err, dErrors.CodeBadCredential) {
			return identity.Result{}, err
		}
		return identity.Result{}, dErrors.Wrap(dErrors.CodeProviderError, "credential verification failed", err)
	}
	return identity.Result{Principal: user.Principal()}, nil
}

func (l *Local) register(ctx context.Context, creds Credentials) (identity.Result, error) {
	hash, err := l.hasher.Hash(creds.Password)
	if err != nil {
		if dErrors.Is(err, dErrors.CodeBadRequest) {
			return identity.Result{}, err
		}
		return identity.Result{}, dErrors.Wrap(dErrors.CodeProviderError, "credential hashing failed", err)
	}

	user, err := l.users.CreateLocal(ctx, creds.Email, hash)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// Lost a concurrent first-login race; the row now exists, so
			// authenticate against it.
			existing, findErr := l.users.FindByEmail(ctx, creds.Email)
			if findErr != nil {
				return identity.Result{}, dErrors.Wrap(dErrors.CodeProviderError,
					"credential store lookup after conflict failed", findErr)
			}
			return l.verify(existing, creds.Password)
		}
		return identity.Result{}, dErrors.Wrap(dErrors.CodeProviderError, "create account failed", err)
	}

	return identity.Result{Principal: user.Principal(), CreatedUser: true}, nil
}
