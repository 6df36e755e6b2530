package config

import (
	"os"
	"strings"
	"time"
)

// Config captures everything main needs to wire the application. Optional
// backends (Postgres, Redis, Kafka, Google) stay disabled when their values
// are absent, falling back to in-memory wiring.
type Config struct {
	Addr string

	DatabaseURL string
	RedisURL    string

	SessionSecret string
	SessionTTL    time.Duration

	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string

	KafkaBrokers []string

	StoreTimeout time.Duration
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	addr := os.Getenv("WW_ADDR")
	if addr == "" {
		addr = ":8080"
	}

	sessionSecret := os.Getenv("WW_SESSION_SECRET")
	if sessionSecret == "" {
		// Use a default for development - should be overridden in production
		sessionSecret = "dev-secret-key-change-in-production"
	}

	return Config{
		Addr:               addr,
		DatabaseURL:        os.Getenv("WW_DATABASE_URL"),
		RedisURL:           os.Getenv("WW_REDIS_URL"),
		SessionSecret:      sessionSecret,
		SessionTTL:         durationEnv("WW_SESSION_TTL", 24*time.Hour),
		GoogleClientID:     os.Getenv("WW_GOOGLE_CLIENT_ID"),
		GoogleClientSecret: os.Getenv("WW_GOOGLE_CLIENT_SECRET"),
		GoogleRedirectURL:  os.Getenv("WW_GOOGLE_REDIRECT_URL"),
		KafkaBrokers:       listEnv("WW_KAFKA_BROKERS"),
		StoreTimeout:       durationEnv("WW_STORE_TIMEOUT", 5*time.Second),
	}
}

func durationEnv(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return fallback
	}
	return d
}

func listEnv(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
