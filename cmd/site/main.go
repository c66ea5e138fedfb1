// Copyright (c) 2025-2026 Prime Meridian Capital
// SPDX-License-Identifier: MIT

// Command site runs the Prime Meridian Capital website backend: public
// contact-form intake plus a session-authenticated admin report.
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

	"github.com/primemeridian/site/internal/auth"
	"github.com/primemeridian/site/internal/config"
	"github.com/primemeridian/site/internal/handler"
	"github.com/primemeridian/site/internal/middleware"
	"github.com/primemeridian/site/internal/session"
	"github.com/primemeridian/site/internal/store"
	"github.com/primemeridian/site/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Prime Meridian Capital - site backend\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PMC_SESSION_SECRET       Session/CSRF key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PMC_ADMIN_EMAIL          Admin login email\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PMC_ADMIN_PASSWORD_HASH  bcrypt hash of the admin password\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PMC_SERVER_PORT          Server port (default: 3000)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PMC_ENV                  Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PMC_SUBMISSIONS_PATH     Submissions file (default: ./data/submissions.json)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  PMC_SESSION_DB_PATH      Session database (default: ./data/sessions.db)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("site %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
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

	var logHandler slog.Handler
	if cfg.LogFormat == "json" {
		logHandler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	} else {
		logHandler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	}
	slog.SetDefault(slog.New(logHandler))

	if !cfg.AdminConfigured() {
		slog.Warn("admin credentials not configured; admin login will be rejected")
	}

	// Ensure data directory exists
	if err := os.MkdirAll(filepath.Dir(cfg.SessionDBPath), 0o755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Session database
	slog.Info("initializing session database", "path", cfg.SessionDBPath)
	db, err := store.NewDB(cfg.SessionDBPath)
	if err != nil {
		return fmt.Errorf("initializing session database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing session database", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	gate := auth.NewGate(cfg.AdminEmail, cfg.AdminPasswordHash, sessionManager)

	fileStore, err := store.NewFileStore(cfg.SubmissionsPath)
	if err != nil {
		return fmt.Errorf("initializing submission store: %w", err)
	}
	slog.Info("submission store ready", "path", cfg.SubmissionsPath)

	tmpl, err := web.Templates()
	if err != nil {
		return fmt.Errorf("parsing templates: %w", err)
	}

	// Rate limiters: fixed windows on the sensitive endpoints, token bucket
	// in front of everything as an abuse backstop
	loginLimiter := middleware.NewFixedWindowLimiter(cfg.LoginRateWindow, cfg.LoginRateMax)
	contactLimiter := middleware.NewFixedWindowLimiter(cfg.ContactRateWindow, cfg.ContactRateMax)
	globalLimiter := middleware.NewGlobalRateLimiter(cfg.GlobalRateRPS, cfg.GlobalRateBurst, cfg.TrustProxy)
	slog.Info("rate limiters initialized",
		"login", fmt.Sprintf("%d per %s", cfg.LoginRateMax, cfg.LoginRateWindow),
		"contact", fmt.Sprintf("%d per %s", cfg.ContactRateMax, cfg.ContactRateWindow),
		"global_rps", cfg.GlobalRateRPS,
	)

	// Handlers
	contactHandler := handler.NewContactHandler(fileStore)
	authHandler := handler.NewAuthHandler(gate, tmpl)
	adminHandler := handler.NewAdminHandler(fileStore, tmpl)
	healthHandler := handler.NewHealthHandler(db)

	// Router
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(chimw.GetHead)
	r.Use(middleware.SecurityHeaders(middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	r.Use(middleware.MaxBody(cfg.MaxBodyBytes))
	r.Use(globalLimiter.Middleware())
	if cfg.AccessLogs {
		r.Use(middleware.AccessLogger(cfg.TrustProxy))
	}
	r.Use(sessionManager.LoadAndSave)

	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig(
		[]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerAddr()))

	r.With(contactLimiter.Middleware("Too many submissions, please wait before trying again.", cfg.TrustProxy)).
		Post("/api/contact", contactHandler.Submit)

	r.Get(handler.LoginPath, authHandler.LoginForm)
	r.With(
		csrfMiddleware,
		loginLimiter.Middleware("Too many login attempts, please try again later.", cfg.TrustProxy),
	).Post(handler.LoginPath, authHandler.Login)
	r.Get(handler.LogoutPath, authHandler.Logout)

	r.With(middleware.RequireAuthPage(gate, handler.LoginPath)).
		Get(handler.AdminPath, adminHandler.Report)

	r.Get("/health", healthHandler.Health)

	r.NotFound(handler.NotFound)

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20, // 1MB max header size
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
