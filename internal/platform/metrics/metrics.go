package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.
type Metrics struct {
	LoginsTotal      *prometheus.CounterVec
	UsersCreated     prometheus.Counter
	SessionsCreated  prometheus.Counter
	SessionsRevoked  prometheus.Counter
	SecretsSubmitted prometheus.Counter
	RequestDuration  *prometheus.HistogramVec
}

// New creates and registers all metrics against the given registerer. main
// passes prometheus.DefaultRegisterer; tests pass a fresh registry so suites
// don't collide.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		LoginsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "whisperwall_logins_total",
			Help: "Authentication attempts by strategy and outcome",
		}, []string{"strategy", "outcome"}),
		UsersCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "whisperwall_users_created_total",
			Help: "Total number of users created in the system",
		}),
		SessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Name: "whisperwall_sessions_created_total",
			Help: "Sessions issued after successful authentication",
		}),
		SessionsRevoked: factory.NewCounter(prometheus.CounterOpts{
			Name: "whisperwall_sessions_revoked_total",
			Help: "Sessions revoked by explicit logout",
		}),
		SecretsSubmitted: factory.NewCounter(prometheus.CounterOpts{
			Name: "whisperwall_secrets_submitted_total",
			Help: "Secrets accepted on the submission endpoint",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "whisperwall_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern and method",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}
