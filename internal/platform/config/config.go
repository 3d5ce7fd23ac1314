// Package config builds process configuration from environment variables so
// main stays lean.
package config

import (
	"os"
	"strings"
	"time"
)

// Server captures everything cmd/server needs to wire the process.
type Server struct {
	Addr            string
	PersonasPath    string
	DatabaseURL     string
	Redis           Redis
	KafkaBrokers    []string
	AuditTopic      string
	LogLevel        string
	ShutdownTimeout time.Duration
}

// Redis holds connection tuning for the latest-assignment cache. An empty
// URL disables the cache entirely.
type Redis struct {
	URL          string
	TTL          time.Duration
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// FromEnv reads COMPASS_* environment variables, applying development
// defaults where a value is optional.
func FromEnv() Server {
	cfg := Server{
		Addr:            envOr("COMPASS_ADDR", ":8080"),
		PersonasPath:    envOr("COMPASS_PERSONAS_PATH", "config/personas.yaml"),
		DatabaseURL:     os.Getenv("COMPASS_DATABASE_URL"),
		AuditTopic:      envOr("COMPASS_AUDIT_TOPIC", "compass.audit.events"),
		LogLevel:        envOr("COMPASS_LOG_LEVEL", "info"),
		ShutdownTimeout: 10 * time.Second,
		Redis: Redis{
			URL:          os.Getenv("COMPASS_REDIS_URL"),
			TTL:          15 * time.Minute,
			DialTimeout:  2 * time.Second,
			ReadTimeout:  500 * time.Millisecond,
			WriteTimeout: 500 * time.Millisecond,
		},
	}

	if brokers := os.Getenv("COMPASS_KAFKA_BROKERS"); brokers != "" {
		for _, b := range strings.Split(brokers, ",") {
			if b = strings.TrimSpace(b); b != "" {
				cfg.KafkaBrokers = append(cfg.KafkaBrokers, b)
			}
		}
	}

	return cfg
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
