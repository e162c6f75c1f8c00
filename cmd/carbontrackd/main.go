// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Command carbontrackd runs the Carbon Track API server.
package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/talacata-contact/carbon-track/internal/cache"
	"github.com/talacata-contact/carbon-track/internal/config"
	"github.com/talacata-contact/carbon-track/internal/foodapi"
	"github.com/talacata-contact/carbon-track/internal/handler"
	"github.com/talacata-contact/carbon-track/internal/logging"
	"github.com/talacata-contact/carbon-track/internal/middleware"
	"github.com/talacata-contact/carbon-track/internal/notify"
	"github.com/talacata-contact/carbon-track/internal/scheduler"
	"github.com/talacata-contact/carbon-track/internal/store"
	"github.com/talacata-contact/carbon-track/internal/version"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

const requestTimeout = 30 * time.Second

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Usage: carbontrackd [options]\n\nOptions:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CARBON_DB_DRIVER       Database driver: sqlite|mysql (default: sqlite)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CARBON_DB_PATH         SQLite database path (default: ./data/carbontrack.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CARBON_DB_DSN          MySQL DSN (required when driver is mysql)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CARBON_SERVER_PORT     Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CARBON_ENV             Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CARBON_AUTH_VERIFY_URL Identity provider token verification URL\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CARBON_AUTH_SECRET     Static bearer secret (development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  CARBON_REDIS_URL       Redis URL for distributed caching (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("carbontrackd %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	versionInfo := &version.Info{
		Version:   appVersion,
		GitCommit: appGitCommit,
		BuildTime: appBuildTime,
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Initialize database
	var db *sql.DB
	switch cfg.DBDriver {
	case config.DriverMySQL:
		slog.Info("initializing database", "driver", cfg.DBDriver)
		db, err = store.Open(store.DBConfig{
			Driver:          config.DriverMySQL,
			DSN:             cfg.DBDSN,
			MaxOpenConns:    25,
			MaxIdleConns:    10,
			ConnMaxLifetime: 30 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		})
	default:
		if mkErr := os.MkdirAll(filepath.Dir(cfg.DBPath), 0755); mkErr != nil {
			return fmt.Errorf("creating data directory: %w", mkErr)
		}
		slog.Info("initializing database", "driver", cfg.DBDriver, "path", cfg.DBPath)
		db, err = store.NewDB(cfg.DBPath)
	}
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	// Run migrations
	slog.Info("running database migrations")
	if err := store.Migrate(db, cfg.DBDriver); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also persist WARN and ERROR logs to the log_events table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewLogEventHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("log event persistence enabled", "min_level", "warn")

	// Seed reference data
	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	// Reference-data cache (memory by default, Redis when configured)
	cacheConfig := cache.DefaultConfig()
	cacheConfig.DefaultTTL = time.Duration(cfg.CacheTTL) * time.Second
	cacheConfig.MaxSize = cfg.CacheMaxSize
	if cfg.UseRedisCache() {
		cacheConfig.Type = "redis"
		cacheConfig.RedisURL = cfg.RedisURL
		cacheConfig.Prefix = cfg.CachePrefix
	}
	cacheManager := cache.NewManager(cacheConfig)
	defer func() {
		if err := cacheManager.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	slog.Info("cache ready", "backend", cacheManager.Info().Backend)

	// Push notification scheduler
	notifier := notify.New(db, notify.NewExpoClient(cfg.ExpoPushURL), logger, notify.Config{
		InactivityDays: cfg.InactivityDays,
		BatchSize:      cfg.NotifyBatchSize,
		Title:          cfg.NotificationTitle,
		Body:           cfg.NotificationBody,
	})
	sched := scheduler.New(db, notifier, cfg.NotifyCronSpec, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Bearer token verification
	var verifier middleware.TokenVerifier
	if cfg.AuthVerifyURL != "" {
		verifier = middleware.NewIdentityProviderVerifier(cfg.AuthVerifyURL)
		slog.Info("using identity provider token verification", "url", cfg.AuthVerifyURL)
	} else {
		verifier = middleware.StaticVerifier{Secret: cfg.AuthSecret}
		slog.Info("using static shared-secret token verification")
	}

	h := handler.New(db, cacheManager, foodapi.New(cfg.FoodAPIURL))

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(middleware.Timeout(requestTimeout))

	// Unauthenticated liveness probe
	r.Get("/health", h.Health)

	// All API routes require a bearer token and are rate limited per caller
	r.Group(func(r chi.Router) {
		r.Use(middleware.BearerAuth(verifier))
		r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst))

		r.Get("/logements/chauffages", h.Chauffages)
		r.Get("/logements/co2", h.LogementCO2)

		r.Get("/transports/categories", h.TransportCategories)
		r.Get("/transports/co2/creation", h.TransportCO2Creation)
		r.Get("/transports/co2/usage", h.TransportCO2Usage)

		r.Get("/aliments/search/text", h.AlimentsSearchText)
		r.Get("/aliments/search/barcode", h.AlimentsSearchBarcode)
		r.Get("/aliments/co2", h.AlimentCO2)

		r.Get("/moyennesFr", h.MoyennesFr)
		r.Get("/suggestions", h.Suggestions)

		r.Get("/notifications/get-users-to-notify", h.UsersToNotify)
		r.Post("/notifications/save-user-activity", h.SaveUserActivity)
	})

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server",
			"addr", cfg.ServerAddr(), "env", cfg.Env, "version", versionInfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
