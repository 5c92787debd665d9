package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/labdesk/labdesk/internal/config"
	"github.com/labdesk/labdesk/internal/core"
	"github.com/labdesk/labdesk/internal/logging"
	"github.com/labdesk/labdesk/internal/store"
	"github.com/labdesk/labdesk/internal/web"
)

func main() {
	// Load .env file if it exists (Overload overwrites existing env vars)
	if err := godotenv.Overload(); err != nil {
		slog.Info("no .env file found, using environment variables")
	} else {
		slog.Info("loaded .env file (overwriting existing env vars)")
	}

	// Load and validate configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Setup structured logging based on config
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("configuration loaded",
		"port", cfg.Server.Port,
		"data_path", cfg.Data.Path,
		"session_idle_timeout", cfg.Session.IdleTimeout,
		"rate_limit_enabled", cfg.Rate.Enabled,
	)

	st := store.New(cfg.Data.Path)

	// Probe the dataset once so a missing or broken file shows up at
	// startup. The server still starts: the dashboard renders the same
	// condition as an error page and recovers once the file appears.
	ctx := context.Background()
	if ds, _, err := st.Current(ctx); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			slog.Warn("data file not found, run the seed tool to create one", "path", cfg.Data.Path)
		} else {
			slog.Warn("data file unreadable", "path", cfg.Data.Path, "error", err)
		}
	} else {
		slog.Info("dataset loaded", "path", cfg.Data.Path, "rows", len(ds.Projects))
	}

	sessions := core.NewManager(cfg.Session.IdleTimeout)

	server := web.NewServer(st, sessions, cfg)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	// Start server (uses addr from config internally)
	slog.Info("server starting", "addr", cfg.Server.Addr())
	if err := server.Start(); err != nil {
		slog.Info("server stopped", "error", err)
	}
}
