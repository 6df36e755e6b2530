package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	"whisperwall/internal/audit"
	"whisperwall/internal/identity/hasher"
	"whisperwall/internal/identity/service"
	identitystore "whisperwall/internal/identity/store"
	"whisperwall/internal/oauth/google"
	"whisperwall/internal/oauth/state"
	"whisperwall/internal/platform/config"
	"whisperwall/internal/platform/httpserver"
	"whisperwall/internal/platform/logger"
	"whisperwall/internal/platform/metrics"
	"whisperwall/internal/platform/postgres"
	platformredis "whisperwall/internal/platform/redis"
	"whisperwall/internal/secrets"
	"whisperwall/internal/session"
	sessionstore "whisperwall/internal/session/store"
	"whisperwall/internal/transport/web"
)

const auditInboxSize = 256

// main wires dependencies and keeps the lifecycle under one errgroup.
// Business logic lives in the internal service packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New()

	if err := run(context.Background(), cfg, log); err != nil {
		log.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *slog.Logger) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)

	setupCtx, cancelSetup := context.WithTimeout(ctx, cfg.StoreTimeout)
	defer cancelSetup()

	// Persistence: Postgres when configured, memory otherwise.
	var users identitystore.UserStore
	var secretStore secrets.Store
	db, err := postgres.Open(setupCtx, cfg.DatabaseURL)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		users = identitystore.NewPostgres(db)
		secretStore = secrets.NewPostgres(db)
		log.Info("using postgres storage")
	} else {
		users = identitystore.NewInMemoryUserStore()
		secretStore = secrets.NewInMemoryStore()
		log.Info("using in-memory storage")
	}

	// Sessions: Redis when configured, memory otherwise.
	var sessionStore session.Store
	redisClient, err := platformredis.New(setupCtx, cfg.RedisURL)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
		sessionStore = sessionstore.NewRedis(redisClient.Client)
		log.Info("using redis sessions")
	} else {
		sessionStore = sessionstore.NewInMemorySessionStore()
	}
	sessions := session.NewManager(sessionStore, cfg.SessionTTL)

	// Audit pipeline: Kafka sink when brokers are configured.
	inbox := make(chan audit.Event, auditInboxSize)
	publisher := audit.NewPublisher(inbox)
	var sink audit.Appender = audit.NewInMemoryStore()
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := audit.NewKafkaSink(setupCtx, cfg.KafkaBrokers)
		if err != nil {
			return err
		}
		defer kafkaSink.Close()
		sink = kafkaSink
		log.Info("audit events flowing to kafka", "brokers", cfg.KafkaBrokers)
	}
	worker := audit.NewWorker(sink, inbox, log)

	authenticator := service.New(
		[]service.Strategy{
			service.NewLocal(users, hasher.Bcrypt{}),
			service.NewFederated(users),
		},
		service.WithLogger(log),
		service.WithMetrics(m),
		service.WithAudit(publisher),
	)

	secretsService := secrets.New(secretStore,
		secrets.WithLogger(log),
		secrets.WithMetrics(m),
		secrets.WithAudit(publisher),
	)

	renderer, err := web.NewHTMLRenderer()
	if err != nil {
		return err
	}

	authOpts := []web.AuthOption{
		web.WithAuthMetrics(m),
		web.WithAuthAudit(publisher),
	}
	googleCfg := google.Config{
		ClientID:     cfg.GoogleClientID,
		ClientSecret: cfg.GoogleClientSecret,
		RedirectURL:  cfg.GoogleRedirectURL,
	}
	if googleCfg.Configured() {
		authOpts = append(authOpts, web.WithGoogle(
			google.New(googleCfg),
			state.NewSigner(cfg.SessionSecret),
		))
		log.Info("federated login enabled")
	}

	authHandler := web.NewAuthHandler(authenticator, sessions, renderer, log, authOpts...)
	secretsHandler := web.NewSecretsHandler(secretsService, renderer, log)
	router := web.NewRouter(authHandler, secretsHandler, sessions, log, m, registry)

	srv := httpserver.New(cfg.Addr, router)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return worker.Run(ctx)
	})
	g.Go(func() error {
		log.Info("starting whisperwall", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
