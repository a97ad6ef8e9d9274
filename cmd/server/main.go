package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"filemeta/internal/server/api"
	"filemeta/internal/server/config"
	"filemeta/internal/server/database"
	"filemeta/internal/server/observability"
	"filemeta/internal/server/service"
)

func main() {
	// Load config
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logging
	observability.SetupLogger(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	slog.Info("configuration loaded",
		"listen_addr", cfg.ListenAddr,
		"database_url", redactURL(cfg.DatabaseURL),
		"max_open_conns", cfg.MaxOpenConns,
		"store_timeout", cfg.StoreTimeout,
		"load_fixtures", cfg.LoadFixtures,
		"cache_size", cfg.CacheSize,
	)

	shutdownTracing, err := observability.InitTracerProvider(cfg.TracingEnabled, os.Stderr)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}

	// Connect to database
	ctx := context.Background()
	db, err := database.Open(ctx, database.Options{
		URL:          cfg.DatabaseURL,
		MaxOpenConns: cfg.MaxOpenConns,
		Timeout:      cfg.StoreTimeout,
	})
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	// Run migrations
	if err := db.Migrate(); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	if cfg.LoadFixtures {
		if err := db.LoadFixtures(ctx); err != nil {
			slog.Error("failed to load fixtures", "error", err)
			os.Exit(1)
		}
	}

	// Initialize repository and services
	repo := database.NewRepository(db)
	files := service.NewFileService(repo, cfg.CacheSize, cfg.CacheTTL)
	users := service.NewUserService()

	// Start WAL checkpointer
	bgCtx, bgCancel := context.WithCancel(context.Background())
	checkpointer := database.NewCheckpointer(db, cfg.CheckpointEvery)
	checkpointer.Start(bgCtx)

	// Setup HTTP router
	handler := api.NewHandler(files, users, db)
	e := api.SetupRouter(bgCtx, handler, cfg)

	// Start server in a goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ListenAddr)
		if err := e.Start(cfg.ListenAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	slog.Info("shutting down", "signal", sig)

	// Stop accepting new requests, finish in-flight within the budget
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
	}

	// Stop background work
	bgCancel()
	checkpointer.Wait()

	if err := shutdownTracing(shutdownCtx); err != nil {
		slog.Error("failed to flush traces", "error", err)
	}

	slog.Info("server exited cleanly")
}

// redactURL hides the password in a postgres connection string.
func redactURL(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.User == nil {
		return raw
	}
	return u.Redacted()
}
