// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Command api is the entry point for the Mangaverse HTTP API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Connect to PostgreSQL (pgxpool).
//  4. Connect to Redis when a URL is configured.
//  5. Run database migrations (idempotent).
//  6. Wire services and HTTP handlers.
//  7. Start HTTP server with graceful shutdown.
//
// No business logic lives here. All wiring is explicit constructor injection.
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
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/mangaverse/internal/api"
	"github.com/taibuivan/mangaverse/internal/core/catalog"
	"github.com/taibuivan/mangaverse/internal/core/engagement"
	"github.com/taibuivan/mangaverse/internal/platform/config"
	"github.com/taibuivan/mangaverse/internal/platform/constants"
	"github.com/taibuivan/mangaverse/internal/platform/metrics"
	"github.com/taibuivan/mangaverse/internal/platform/migration"
	pgstore "github.com/taibuivan/mangaverse/internal/platform/postgres"
	redisstore "github.com/taibuivan/mangaverse/internal/platform/redis"
	"github.com/taibuivan/mangaverse/internal/platform/sec"
	"github.com/taibuivan/mangaverse/internal/users/account"
	"github.com/taibuivan/mangaverse/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	log := newLogger(slog.LevelInfo)
	slog.SetDefault(log)

	log.Info("service_initializing", slog.String("version", constants.AppVersion))

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")
	must(log, cfg.ValidateServer(), "validate configuration")

	if cfg.Debug {
		log = newLogger(slog.LevelDebug)
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("port", cfg.ServerPort),
		slog.Bool("cache_enabled", cfg.CacheEnabled()),
	)

	// Root context for startup. A 30s deadline surfaces misconfiguration
	// instead of hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. PostgreSQL ─────────────────────────────────────────────────────
	pool, err := pgstore.NewPool(startupCtx, cfg.Postgres(), log)
	must(log, err, "connect to postgres")
	defer func() {
		log.Info("closing_postgres_pool")
		pool.Close()
	}()

	// ── 4. Redis ──────────────────────────────────────────────────────────
	var rdb *redis.Client
	if cfg.CacheEnabled() {
		rdb, err = redisstore.NewClient(startupCtx, cfg.RedisURL, log)
		must(log, err, "connect to redis")
		defer func() {
			log.Info("closing_redis_client")
			if cerr := rdb.Close(); cerr != nil {
				log.Error("redis_close_error", slog.Any("error", cerr))
			}
		}()
	}

	// ── 5. Migrations ─────────────────────────────────────────────────────
	must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

	// ── 6. Security ───────────────────────────────────────────────────────
	jwtSvc, err := sec.NewTokenService(cfg.JWTPrivKeyPath, cfg.JWTPubKeyPath, constants.AuthIssuer)
	must(log, err, "initialize jwt service")

	// ── 7. Metrics ────────────────────────────────────────────────────────
	var collectorSet *metrics.Metrics
	if cfg.MetricsEnabled {
		registry := prometheus.NewRegistry()
		registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		collectorSet = metrics.New(registry)
	}

	// ── 8. Domain Wiring ──────────────────────────────────────────────────
	transactor := pgstore.NewTxManager(pool)

	var cache catalog.Cache
	if rdb != nil {
		cache = catalog.NewRedisCache(rdb, cfg.CacheTTL, log)
	}

	catalogService := catalog.NewService(
		catalog.NewMangaRepository(pool),
		catalog.NewChapterRepository(pool),
		transactor,
		cache,
		collectorSet,
		log,
	)

	engagementService := engagement.NewService(engagement.Repositories{
		Ratings:       engagement.NewRatingRepository(pool),
		Comments:      engagement.NewCommentRepository(pool),
		Progress:      engagement.NewProgressRepository(pool),
		Bookmarks:     engagement.NewBookmarkRepository(pool),
		Lists:         engagement.NewListRepository(pool),
		Notifications: engagement.NewNotificationRepository(pool),
	}, catalogService, transactor, log)

	catalogService.RegisterListener(engagementService)
	catalogService.SetDetailLoader(engagementService)

	authService := auth.NewService(auth.NewUserRepository(pool), jwtSvc, cfg.AccessTokenTTL, log)
	accountService := account.NewService(account.NewAccountRepository(pool), transactor, engagementService, log)

	// ── 9. Health handlers ────────────────────────────────────────────────
	healthDeps := api.HealthDependencies{
		CheckDatabase: func(ctx context.Context) error { return pgstore.Ping(ctx, pool) },
	}
	if rdb != nil {
		healthDeps.CheckCache = func(ctx context.Context) error { return redisstore.Ping(ctx, rdb) }
	}
	liveness, readiness := api.NewHealthHandlers(healthDeps, log)

	// ── 10. HTTP Server ───────────────────────────────────────────────────
	serverCtx, stopServer := context.WithCancel(context.Background())
	defer stopServer()

	server := api.NewServer(serverCtx, cfg, log, jwtSvc, api.Handlers{
		Liveness:   liveness,
		Readiness:  readiness,
		Auth:       auth.NewHandler(authService),
		Account:    account.NewHandler(accountService),
		Catalog:    catalog.NewHandler(catalogService),
		Engagement: engagement.NewHandler(engagementService),
		Metrics:    collectorSet,
	})

	// ── 11. Graceful Shutdown ─────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case sig := <-quit:
		log.Info("shutdown_signal_received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server_startup_error", slog.Any("error", err))
	}

	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting_down_server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown_error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server_stopped_cleanly")
}

// newLogger builds the JSON logger every entry point shares.
func newLogger(level slog.Level) *slog.Logger {
	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level})
	return slog.New(handler).With(slog.String("app", constants.AppName))
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is limited to startup wiring. After startup, all errors are returned
// and handled explicitly.
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup_failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
