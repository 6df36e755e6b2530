package service

import (
	"context"
	"errors"

	"whisperwall/internal/identity"
	"whisperwall/internal/identity/store"
	dErrors "whisperwall/pkg/domain-errors"
	"whisperwall/pkg/sentinel"
)

// StrategyFederated names the OAuth strategy for dispatch and metrics.
const StrategyFederated = "federated"

// Federated authenticates provider-asserted profiles. No password is ever
// involved on this path; accounts it creates carry no local credential.
type Federated struct {
	users store.UserStore
}

func NewFederated(users store.UserStore) *Federated {
	return &Federated{users: users}
}

func (f *Federated) Name() string { return StrategyFederated }

func (f *Federated) Authenticate(ctx context.Context, creds Credentials) (identity.Result, error) {
	if creds.Profile == nil || creds.Profile.SubjectID == "" {
		return identity.Result{}, dErrors.New(dErrors.CodeProviderError, "provider profile is missing a subject id")
	}

	user, err := f.users.FindByGoogleID(ctx, creds.Profile.SubjectID)
	switch {
	case err == nil:
		return identity.Result{Principal: user.Principal()}, nil
	case errors.Is(err, sentinel.ErrNotFound):
		return f.register(ctx, creds.Profile)
	default:
		return identity.Result{}, dErrors.Wrap(dErrors.CodeProviderError, "credential store lookup failed", err)
	}
}

func (f *Federated) register(ctx context.Context, profile *FederatedProfile) (identity.Result, error) {
	user, err := f.users.CreateFederated(ctx, profile.DisplayName, profile.SubjectID)
	if err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			// A concurrent callback for the same subject won the insert.
			existing, findErr := f.users.FindByGoogleID(ctx, profile.SubjectID)
			if findErr != nil {
				return identity.Result{}, dErrors.Wrap(dErrors.CodeProviderError,
					"credential store lookup after conflict failed", findErr)
			}
			return identity.Result{Principal: existing.Principal()}, nil
		}
		return identity.Result{}, dErrors.Wrap(dErrors.CodeProviderError, "create federated account failed", err)
	}
	return identity.Result{Principal: user.Principal(), CreatedUser: true}, nil
}
