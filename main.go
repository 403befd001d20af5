package main

import (
	"catatin/config"
	"catatin/config/setup"
	"catatin/pkg/logging"
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	cfg := config.Load()

	logger := setupLogger(cfg)
	slog.SetDefault(logger)

	db, err := setup.InitDatabase(cfg.DBDriver, cfg.DBPath, logger)
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(1)
	}

	application, err := setup.InitApp(cfg, db, logger)
	if err != nil {
		logger.Error("failed to initialize application", "error", err)
		setup.Shutdown(db, logger)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.WatchDBFile {
		if err := application.Repo.WatchFile(ctx, logger); err != nil {
			logger.Warn("database file watcher disabled", "error", err)
		}
	}

	app := setup.NewFiberApp(logger, cfg.IsProduction())
	setup.ApplyMiddleware(ctx, app, logger, cfg.CORSOrigins)
	setup.RegisterRoutes(app, application)

	logger.Info("starting server", "port", cfg.Port, "env", cfg.Env)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down server gracefully")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}

	setup.Shutdown(db, logger)
	logger.Info("server stopped")
}

func setupLogger(cfg *config.Config) *slog.Logger {
	return logging.New(os.Stdout, cfg.Env, cfg.LogLevel)
}
