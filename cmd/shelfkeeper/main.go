// Package main is the entry point for the shelfkeeper inventory server.
// It loads configuration, connects to services, sets up routing, and starts
// the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/sessions"
	"github.com/redis/go-redis/v9"

	"shelfkeeper/internal/cache"
	"shelfkeeper/internal/config"
	"shelfkeeper/internal/database"
	"shelfkeeper/internal/handlers"
	"shelfkeeper/internal/inventory"
	"shelfkeeper/internal/logger"
	"shelfkeeper/internal/metrics"
	"shelfkeeper/internal/render"
	"shelfkeeper/internal/router"
	"shelfkeeper/internal/session"
	"shelfkeeper/internal/store"
	"shelfkeeper/internal/store/memory"
	"shelfkeeper/internal/store/mongo"
	"shelfkeeper/internal/store/postgres"
	"shelfkeeper/internal/telemetry"
)

func main() {
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Structured logger: text in development, JSON elsewhere.
	slog.SetDefault(logger.New(os.Stdout, cfg.LogLevel, cfg.IsDev()))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"store", cfg.StoreDriver,
		"valkey", cfg.ValkeyEnabled(),
	)

	ctx := context.Background()
	tel := telemetry.Options{
		ServiceName:    cfg.ServiceName,
		ServiceVersion: cfg.ServiceVersion,
		Environment:    cfg.Env,
		OtelEndpoint:   cfg.OtelEndpoint,
		SentryDSN:      cfg.SentryDSN,
	}

	if err := telemetry.SetupSentry(tel); err != nil {
		slog.Error("failed to initialize sentry", "error", err)
		os.Exit(1)
	}
	defer telemetry.SentryFlush()

	shutdownTracing, err := telemetry.SetupTracing(ctx, tel)
	if err != nil {
		slog.Error("failed to initialize tracing", "error", err)
		os.Exit(1)
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(sctx); err != nil {
			slog.Error("tracer shutdown failed", "error", err)
		}
	}()

	// Open the configured store and bring its schema up to date.
	st, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		slog.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	checks := map[string]router.Check{"store": st.Ping}
	var svcOpts []inventory.Option

	// Valkey is optional: it backs the counts cache and the flash sessions.
	var valkeyClient *redis.Client
	if cfg.ValkeyEnabled() {
		valkeyClient, err = cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword)
		if err != nil {
			slog.Error("failed to connect to valkey", "error", err)
			os.Exit(1)
		}
		defer valkeyClient.Close()

		svcOpts = append(svcOpts, inventory.WithCountsCache(cache.NewCountsCache(valkeyClient, cache.DefaultCountsTTL)))
		checks["valkey"] = func(ctx context.Context) error { return valkeyClient.Ping(ctx).Err() }
	} else {
		slog.Warn("valkey not configured, counts are not cached and flashes live in cookies")
	}

	categories := inventory.NewCategoryService(st.Categories(), st.Items(), svcOpts...)
	items := inventory.NewItemService(st.Items(), st.Categories(), svcOpts...)

	// Seed development data (no-op if data already exists).
	if cfg.IsDev() {
		if err := database.Seed(ctx, categories, items); err != nil {
			slog.Error("failed to seed inventory", "error", err)
			os.Exit(1)
		}
	}

	// In non-development environments, mark cookies as Secure (HTTPS-only).
	secureCookies := !cfg.IsDev()
	authKey := []byte(cfg.SessionAuthKey)
	encKey := []byte(cfg.SessionEncryptionKey)

	var flashStore sessions.Store
	if valkeyClient != nil {
		flashStore = session.NewRedisStore(valkeyClient, authKey, encKey, secureCookies)
	} else {
		flashStore = session.NewCookieStore(authKey, encKey, secureCookies)
	}
	flasher := session.NewFlasher(flashStore)

	renderer, err := render.New()
	if err != nil {
		slog.Error("failed to initialize template renderer", "error", err)
		os.Exit(1)
	}

	m := metrics.New()
	inv := handlers.NewInventory(renderer, flasher, categories, items, m)

	// Set up the Chi router with all middleware and routes.
	r := router.New(router.Options{
		Dev:                cfg.IsDev(),
		SecureCookies:      secureCookies,
		ServiceName:        cfg.ServiceName,
		RateLimitPerMinute: cfg.RateLimitPerMinute,
		Metrics:            m,
		Flasher:            flasher,
		Checks:             checks,
	}, inv)

	// Create the HTTP server with sensible timeouts.
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	// Start the server in a goroutine so we can listen for shutdown signals.
	serverErr := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Graceful shutdown: wait for SIGINT or SIGTERM, then drain connections.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	case err := <-serverErr:
		slog.Error("server failed to start", "error", err)
		os.Exit(1)
	}

	// Give active requests up to 30 seconds to complete.
	sctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(sctx); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("server stopped gracefully")
}

// openStore connects the backend named by STORE_DRIVER.
func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch cfg.StoreDriver {
	case config.DriverPostgres:
		db, err := database.Connect(cfg.DSN())
		if err != nil {
			return nil, err
		}
		return postgres.New(db), nil
	case config.DriverMongo:
		st, err := mongo.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, err
		}
		return st, nil
	case config.DriverMemory:
		return memory.New(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
