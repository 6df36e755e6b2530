package secrets

import (
	"context"
	"log/slog"
	"strings"

	"whisperwall/internal/audit"
	"whisperwall/internal/identity"
	"whisperwall/internal/platform/metrics"
	dErrors "whisperwall/pkg/domain-errors"
	"whisperwall/pkg/requestcontext"
)

// AuditPublisher records secret submissions. Optional.
type AuditPublisher interface {
	Emit(ctx context.Context, event audit.Event) error
}

// Service orchestrates secret submission and listing.
type Service struct {
	store   Store
	logger  *slog.Logger
	metrics *metrics.Metrics
	auditor AuditPublisher
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) { s.logger = logger }
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) { s.metrics = m }
}

func WithAudit(p AuditPublisher) Option {
	return func(s *Service) { s.auditor = p }
}

func New(store Store, opts ...Option) *Service {
	s := &Service{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Submit stores one secret for the authenticated principal.
func (s *Service) Submit(ctx context.Context, principal identity.Principal, text string) (*Secret, error) {
	if strings.TrimSpace(text) == "" {
		return nil, dErrors.New(dErrors.CodeBadRequest, "secret text is required")
	}

	secret, err := s.store.Insert(ctx, principal.UserID, text)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "store secret failed", err)
	}

	if s.metrics != nil {
		s.metrics.SecretsSubmitted.Inc()
	}
	if s.auditor != nil {
		event := audit.Event{
			Action:  string(audit.EventSecretSubmitted),
			UserID:  principal.UserID,
			Subject: principal.Username,
		}
		if err := s.auditor.Emit(ctx, event); err != nil {
			s.logger.ErrorContext(ctx, "emit audit event",
				"action", event.Action,
				"error", err,
				"request_id", requestcontext.RequestID(ctx),
			)
		}
	}
	return secret, nil
}

// List returns every stored secret, oldest first.
func (s *Service) List(ctx context.Context) ([]Secret, error) {
	out, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, dErrors.Wrap(dErrors.CodeUnavailable, "list secrets failed", err)
	}
	return out, nil
}
