// Copyright (c) 2026 Photolens. All rights reserved.
// Author: le.minhan.vn@gmail.com

// Command api is the entry point for the Photolens API server.
//
// # Startup Sequence
//
//  1. Initialize structured logger.
//  2. Load configuration from environment variables.
//  3. Select the storage adapter pair (postgres or local) exactly once.
//  4. Run database migrations (postgres mode, idempotent).
//  5. Wire services and HTTP handlers.
//  6. Start HTTP server with graceful shutdown.
//
// The storage mode is decided here and only here. Everything downstream
// talks to the adapter interfaces and never branches on the mode again.
// No business logic lives in this file; all wiring is explicit constructor
// injection.
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

	"github.com/minhanle/photolens/internal/api"
	"github.com/minhanle/photolens/internal/history"
	"github.com/minhanle/photolens/internal/platform/config"
	"github.com/minhanle/photolens/internal/platform/constants"
	"github.com/minhanle/photolens/internal/platform/localstore"
	"github.com/minhanle/photolens/internal/platform/migration"
	pgstore "github.com/minhanle/photolens/internal/platform/postgres"
	"github.com/minhanle/photolens/internal/users/auth"
)

func main() {
	// ── 1. Logger ──────────────────────────────────────────────────────────
	// Initialize first so that subsequent startup errors are structured JSON.
	rawLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	// Add global context to all log entries.
	log := rawLog.With(slog.String("app", constants.AppName))
	slog.SetDefault(log)

	log.Info("service_initializing")

	// ── 2. Configuration ──────────────────────────────────────────────────
	cfg, err := config.Load()
	must(log, err, "load configuration")

	if cfg.Debug {
		debugLog := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
		log = debugLog.With(slog.String("app", constants.AppName))
		slog.SetDefault(log)
		log.Debug("debug_logging_enabled")
	}

	log.Info("configuration_loaded",
		slog.String("environment", cfg.Environment),
		slog.String("storage_mode", cfg.StorageMode),
		slog.String("port", cfg.ServerPort),
	)

	// Root context for startup. Use a 30s deadline so misconfiguration is
	// caught quickly rather than hanging indefinitely.
	startupCtx, startupCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer startupCancel()

	// ── 3. Storage Adapter Selection ──────────────────────────────────────
	// The one place the storage mode is inspected. Each branch produces the
	// full adapter set plus the matching readiness checker.
	var (
		userRepository    auth.UserRepository
		sessionRepository auth.SessionRepository
		historyRepository history.Repository
		tokenPrefix       string
		health            api.HealthDependencies
	)

	switch cfg.StorageMode {
	case constants.StorageModePostgres:
		pool, err := pgstore.NewPool(startupCtx, cfg.DatabaseURL, log)
		must(log, err, "connect to postgres")
		defer func() {
			log.Info("closing postgres pool")
			pool.Close()
		}()

		// ── 4. Migrations ─────────────────────────────────────────────────
		must(log, migration.RunUp(cfg.DatabaseURL, cfg.MigrationPath, log), "run migrations")

		userRepository = auth.NewPostgresUserRepository(pool, cfg.BcryptCost)
		sessionRepository = auth.NewPostgresSessionRepository(pool)
		historyRepository = history.NewPostgresRepository(pool)
		health.CheckDatabase = func() error {
			return pgstore.Ping(context.Background(), pool)
		}

	case constants.StorageModeLocal:
		store, err := localstore.Open(cfg.LocalDataDir, cfg.LocalQuotaBytes)
		must(log, err, "open local data dir")

		userRepository = auth.NewLocalUserRepository(store)
		sessionRepository = auth.NewLocalSessionRepository(store)
		historyRepository = history.NewLocalRepository(store)
		tokenPrefix = auth.LocalTokenPrefix
		health.CheckLocalStore = store.Ping
	}

	// ── 5. Domain Wiring ──────────────────────────────────────────────────
	authService := auth.NewService(userRepository, sessionRepository, tokenPrefix)
	authService.SetSessionInvalidHook(func(token string) {
		log.Warn("session_invalidated_by_newer_login", slog.String("token_tail", tail(token)))
	})
	authHandler := auth.NewHandler(authService)

	historyService := history.NewService(historyRepository)
	historyHandler := history.NewHandler(historyService)

	liveness, readiness := api.NewHealthHandlers(health, log)

	// ── 6. HTTP Server ────────────────────────────────────────────────────
	serverCtx, serverCancel := context.WithCancel(context.Background())
	defer serverCancel()

	handlers := api.Handlers{
		Liveness:  liveness,
		Readiness: readiness,
		Auth:      authHandler,
		History:   historyHandler,
	}

	server := api.NewServer(serverCtx, cfg, log, authService, handlers)

	// ── 7. Graceful Shutdown ──────────────────────────────────────────────
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	serverErr := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Block until OS signal or server error.
	select {
	case sig := <-quit:
		log.Info("shutdown signal received", slog.String("signal", sig.String()))
	case err := <-serverErr:
		log.Error("server startup error", slog.Any("error", err))
	}

	// Give in-flight requests enough time to complete.
	shutdownTimeout := constants.ShutdownTimeout
	log.Info("shutting down server", slog.Duration("timeout", shutdownTimeout))

	if err := server.Shutdown(shutdownTimeout); err != nil {
		log.Error("shutdown error", slog.Any("error", err))
		os.Exit(1)
	}

	log.Info("server stopped cleanly")
}

// tail returns the last few characters of a token, enough to correlate log
// lines without ever logging a usable credential.
func tail(token string) string {
	const keep = 6
	if len(token) <= keep {
		return token
	}
	return "..." + token[len(token)-keep:]
}

// must logs a structured fatal error and terminates the process if err is non-nil.
//
// It is intentionally limited to startup wiring. After startup, all errors
// must be returned and handled explicitly (never panic).
func must(log *slog.Logger, err error, context string) {
	if err != nil {
		log.Error("startup failure",
			slog.String("context", context),
			slog.Any("error", err),
		)
		os.Exit(1)
	}
}
