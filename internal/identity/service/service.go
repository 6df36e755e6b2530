// Package service implements the authenticator: pluggable strategies that
// turn a presented credential into an authenticated principal or a coded
// failure. Storage and transport concerns live in other layers.
package service

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"whisperwall/internal/audit"
	"whisperwall/internal/identity"
	"whisperwall/internal/platform/metrics"
	dErrors "whisperwall/pkg/domain-errors"
	"whisperwall/pkg/requestcontext"
)

// Credentials is the uniform strategy input. Local attempts fill Email and
// Password; federated attempts fill Profile.
type Credentials struct {
	Email    string
	Password string
	Profile  *FederatedProfile
}

// FederatedProfile is the provider-asserted identity delivered by the OAuth
// callback.
type FederatedProfile struct {
	SubjectID   string
	DisplayName string
	Email       string
}

// Strategy authenticates one kind of credential. New providers are added by
// registering another implementation; the authenticator's control flow never
// changes.
type Strategy interface {
	Name() string
	Authenticate(ctx context.Context, creds Credentials) (identity.Result, error)
}

// AuditPublisher records identity events. Optional.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Authenticator dispatches attempts to named strategies and owns the
// cross-cutting concerns: tracing, metrics, audit.
type Authenticator struct {
	strategies map[string]Strategy
	logger     *slog.Logger
	metrics    *metrics.Metrics
	auditor    AuditPublisher
	tracer     trace.Tracer
}

type Option func(*Authenticator)

func WithLogger(logger *slog.Logger) Option {
	return func(a *Authenticator) { a.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(a *Authenticator) { a.metrics = m }
}

func WithAudit(p AuditPublisher) Option {
	return func(a *Authenticator) { a.auditor = p }
}

// New constructs an Authenticator over the given strategies.
func New(strategies []Strategy, opts ...Option) *Authenticator {
	a := &Authenticator{
		strategies: make(map[string]Strategy, len(strategies)),
		logger:     slog.Default(),
		tracer:     otel.Tracer("whisperwall/identity"),
	}
	for _, st := range strategies {
		a.strategies[st.Name()] = st
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Authenticate runs the named strategy. Failures come back as coded errors:
// bad_credential for a rejected password, provider_error for store or
// provider trouble. Attempts are never retried here; the user resubmits.
func (a *Authenticator) Authenticate(ctx context.Context, strategy string, creds Credentials) (identity.Result, error) {
	st, ok := a.strategies[strategy]
	if !ok {
		return identity.Result{}, dErrors.New(dErrors.CodeInternal, "unknown authentication strategy")
	}

	ctx, span := a.tracer.Start(ctx, "identity.authenticate",
		trace.WithAttributes(attribute.String("auth.strategy", strategy)))
	defer span.End()

	result, err := st.Authenticate(ctx, creds)
	if err != nil {
		span.SetAttributes(attribute.String("auth.outcome", string(dErrors.CodeOf(err))))
		a.observeFailure(ctx, strategy, err)
		return identity.Result{}, err
	}

	span.SetAttributes(
		attribute.String("auth.outcome", "success"),
		attribute.Bool("auth.created_user", result.CreatedUser),
	)
	a.observeSuccess(ctx, strategy, result)
	return result, nil
}

func (a *Authenticator) observeSuccess(ctx context.Context, strategy string, result identity.Result) {
	if a.metrics != nil {
		a.metrics.LoginsTotal.WithLabelValues(strategy, "success").Inc()
		if result.CreatedUser {
			a.metrics.UsersCreated.Inc()
		}
	}
	if a.auditor != nil {
		if result.CreatedUser {
			a.emit(ctx, audit.Event{
				Action:   string(audit.EventUserCreated),
				UserID:   result.Principal.UserID,
				Subject:  result.Principal.Username,
				Decision: strategy,
			})
		}
		a.emit(ctx, audit.Event{
			Action:   string(audit.EventLoginSucceeded),
			UserID:   result.Principal.UserID,
			Subject:  result.Principal.Username,
			Decision: strategy,
		})
	}
}

func (a *Authenticator) observeFailure(ctx context.Context, strategy string, err error) {
	code := dErrors.CodeOf(err)
	if a.metrics != nil {
		a.metrics.LoginsTotal.WithLabelValues(strategy, string(code)).Inc()
	}
	a.logger.WarnContext(ctx, "authentication failed",
		"strategy", strategy,
		"code", string(code),
		"error", err,
		"request_id", requestcontext.RequestID(ctx),
	)
	if a.auditor != nil {
		a.emit(ctx, audit.Event{
			Action:   string(audit.EventLoginFailed),
			Decision: strategy,
			Reason:   string(code),
		})
	}
}

func (a *Authenticator) emit(ctx context.Context, event audit.Event) {
	if err := a.auditor.Emit(ctx, event); err != nil {
		a.logger.ErrorContext(ctx, "emit audit event",
			"action", event.Action,
			"error", err,
			"request_id", requestcontext.RequestID(ctx),
		)
	}
}
