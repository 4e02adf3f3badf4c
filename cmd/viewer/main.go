package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"dganalyzer/internal/cache"
	"dganalyzer/internal/client"
	"dganalyzer/internal/config"
	"dganalyzer/internal/jobs"
	"dganalyzer/internal/metrics"
	"dganalyzer/internal/retry"
	"dganalyzer/internal/sections"
	"dganalyzer/internal/server"
)

func main() {
	cfg := config.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	})))

	sectionsCfg, err := config.LoadSectionsConfig(cfg.SectionsFile)
	if err != nil {
		slog.Error("failed to load sections config", "path", cfg.SectionsFile, "error", err)
		os.Exit(1)
	}
	table := sections.DefaultTable().WithOverrides(sectionsCfg.Overrides())

	var storage cache.Storage
	if cfg.RedisURL != "" {
		storage = cache.NewRedis(cfg.RedisURL)
		slog.Info("using redis cache")
	} else {
		storage = cache.NewMemory()
	}
	defer storage.Close()

	policy := retry.DefaultPolicy()
	policy.Notify = func(attempt int, err error) {
		slog.Warn("fetch attempt failed", "attempt", attempt, "error", err)
	}
	apiClient := client.New(cfg.APIBase, policy)
	latest := cache.NewLatest(storage, apiClient, cfg.CacheTTL)

	metrics.InitViewer()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	if cfg.WarmInterval > 0 {
		go jobs.NewWarmer(latest, cfg.WarmInterval).Start(ctx)
	}

	srv := server.NewViewer(cfg)
	srv.RegisterViewerRoutes(latest, table, apiClient.LatestURL())

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down viewer")
	cancel()
	if err := srv.Shutdown(); err != nil {
		slog.Error("viewer forced to shutdown", "error", err)
		os.Exit(1)
	}
}
