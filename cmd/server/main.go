package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dganalyzer/internal/config"
	"dganalyzer/internal/db"
	"dganalyzer/internal/metrics"
	"dganalyzer/internal/server"
	"dganalyzer/internal/store"
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	var st store.Store
	if cfg.UsesDatabase() {
		database, err := db.New(ctx, cfg.DatabaseURL)
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := database.RunMigrations(cfg.DatabaseURL); err != nil {
			slog.Error("failed to run migrations", "error", err)
			os.Exit(1)
		}
		slog.Info("migrations completed successfully")
		st = database
	} else {
		st = store.NewFileStore(cfg.DataFile)
		slog.Info("using file store", "path", cfg.DataFile)
	}

	metrics.InitAPI(st)

	srv := server.NewAPI(cfg)
	srv.RegisterAPIRoutes(st)

	// Graceful shutdown
	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server")
	if err := srv.Shutdown(); err != nil {
		slog.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}
	slog.Info("server exited")
}
