package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"whisperwall/internal/platform/metrics"
	"whisperwall/internal/platform/middleware"
)

const requestTimeout = 10 * time.Second

// NewRouter assembles the full HTTP surface: public pages, the federated
// flow, and the session-gated secrets pages.
func NewRouter(
	auth *AuthHandler,
	secretsHandler *SecretsHandler,
	sessions SessionManager,
	logger *slog.Logger,
	m *metrics.Metrics,
	registry *prometheus.Registry,
) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(requestTimeout))
	if m != nil {
		r.Use(middleware.Latency(m))
	}

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	if registry != nil {
		r.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	}

	secretsHandler.Register(r)
	auth.Register(r)

	r.Group(func(gated chi.Router) {
		gated.Use(RequireSession(sessions, logger))
		auth.RegisterProtected(gated)
		secretsHandler.RegisterProtected(gated)
	})

	return r
}
