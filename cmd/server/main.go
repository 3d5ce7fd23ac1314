package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/lib/pq"

	"compass/internal/assignment"
	"compass/internal/assignment/adapters"
	assignmenthandler "compass/internal/assignment/handler"
	assignmentmetrics "compass/internal/assignment/metrics"
	"compass/internal/audit"
	auditkafka "compass/internal/audit/kafka"
	httpapi "compass/internal/http"
	"compass/internal/match"
	"compass/internal/persona"
	personahandler "compass/internal/persona/handler"
	"compass/internal/platform/config"
	"compass/internal/platform/httpserver"
	"compass/internal/platform/logger"
	platformredis "compass/internal/platform/redis"
	"compass/internal/signals"
)

// main wires dependencies and keeps the server lifecycle small. Business
// logic lives in the internal feature packages.
func main() {
	cfg := config.FromEnv()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registryCache, err := persona.NewCache(cfg.PersonasPath, log)
	if err != nil {
		log.Error("persona registry load failed", "path", cfg.PersonasPath, "error", err)
		os.Exit(1)
	}
	log.Info("persona registry loaded", "path", cfg.PersonasPath, "personas", registryCache.Current().Len())

	metrics := assignmentmetrics.New()

	// Assignment store: PostgreSQL when configured, in-memory otherwise.
	var store assignment.Store
	var db *sql.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = sql.Open("postgres", cfg.DatabaseURL)
		if err != nil {
			log.Error("open postgres", "error", err)
			os.Exit(1)
		}
		defer db.Close()
		if err := db.PingContext(ctx); err != nil {
			log.Error("postgres ping failed", "error", err)
			os.Exit(1)
		}
		store = assignment.NewPostgresStore(db)
	} else {
		log.Warn("COMPASS_DATABASE_URL not set, assignments are not durable")
		store = assignment.NewMemoryStore()
	}

	// Optional latest-assignment cache.
	redisClient, err := platformredis.New(ctx, cfg.Redis)
	if err != nil {
		log.Error("redis connect failed", "error", err)
		os.Exit(1)
	}
	if redisClient != nil {
		store = assignment.NewCachedStore(store, redisClient, cfg.Redis.TTL, log, metrics)
		defer redisClient.Close()
	}

	// Audit pipeline: events flow through a channel-backed worker into the
	// configured sink so request handling never blocks on delivery. Kafka when
	// brokers are configured, the database otherwise, memory as a last resort.
	var sink audit.Sink = audit.NewMemoryStore()
	if db != nil {
		sink = audit.NewPostgresStore(db)
	}
	if len(cfg.KafkaBrokers) > 0 {
		kafkaSink, err := auditkafka.New(ctx, cfg.KafkaBrokers, cfg.AuditTopic)
		if err != nil {
			log.Error("kafka audit publisher init failed", "error", err)
			os.Exit(1)
		}
		defer kafkaSink.Close()
		sink = kafkaSink
	}
	inbox := make(chan audit.Event, 256)
	worker := audit.NewWorker(sink, inbox)
	go func() {
		if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
			log.Error("audit worker stopped", "error", err)
		}
	}()
	auditor := audit.NewPublisher(audit.ChannelSink(inbox))

	// External collaborators: HTTP clients when configured, deterministic
	// stubs otherwise so the service stays runnable in development.
	var summaries assignment.SummarySource = adapters.StubSummarySource{}
	if url := os.Getenv("COMPASS_SUMMARY_URL"); url != "" {
		summaries = adapters.NewSummaryClient(url, nil)
	}
	var aggregator match.AccountAggregator = adapters.StubAggregator{
		HistoryDays: signals.Float(420),
		TotalLimits: signals.Float(9000),
	}
	if url := os.Getenv("COMPASS_AGGREGATOR_URL"); url != "" {
		aggregator = adapters.NewAggregatorClient(url, nil)
	}

	matcher, err := match.NewMatcher(registryCache, aggregator, log)
	if err != nil {
		log.Error("matcher init failed", "error", err)
		os.Exit(1)
	}

	service, err := assignment.NewService(store, summaries, matcher, registryCache, auditor, log, metrics)
	if err != nil {
		log.Error("assignment service init failed", "error", err)
		os.Exit(1)
	}

	router := httpapi.NewRouter(
		func() error {
			if redisClient != nil {
				return redisClient.Health(context.Background())
			}
			return nil
		},
		assignmenthandler.New(service, log),
		personahandler.New(registryCache, auditor, log),
	)

	srv := httpserver.New(cfg.Addr, router)
	log.Info("starting compass", "addr", cfg.Addr)

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", "error", err)
	}
}
