package server

import (
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/gofiber/fiber/v3/middleware/limiter"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"dganalyzer/internal/handlers"
	"dganalyzer/internal/handlers/api"
	"dganalyzer/internal/models"
	"dganalyzer/internal/sections"
	"dganalyzer/internal/store"
)

// RegisterAPIRoutes registers the ingest, query and probe routes.
func (s *Server) RegisterAPIRoutes(st store.Store) {
	probeHandler := api.NewProbeHandler(st)
	analysisHandler := api.NewAnalysisHandler(st)

	s.App.Get("/health", probeHandler.Liveness)
	s.App.Get("/healthz", probeHandler.Liveness)
	s.App.Get("/readyz", probeHandler.Readiness)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	governance := s.App.Group("/governance")
	if s.Cfg.IngestRateLimit > 0 {
		governance.Post("/analyze", ingestLimiter(s.Cfg.IngestRateLimit), analysisHandler.Analyze)
	} else {
		governance.Post("/analyze", analysisHandler.Analyze)
	}
	governance.Get("/latest", analysisHandler.Latest)
}

// RegisterViewerRoutes registers the dashboard routes. latestURL is shown
// to the user when the API cannot be reached.
func (s *Server) RegisterViewerRoutes(latest handlers.LatestSource, table sections.Table, latestURL string) {
	dashboard := handlers.NewDashboardHandler(latest, table, s.Cfg, latestURL)

	s.App.Get("/", dashboard.Index)
	s.App.Post("/refresh", dashboard.Refresh)
	s.App.Get("/download", dashboard.Download)
	s.App.Get("/raw", dashboard.Raw)
	s.App.Get("/healthz", func(c fiber.Ctx) error {
		return c.JSON(models.StatusResponse{Status: models.StatusOK})
	})
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))
}

// ingestLimiter allows max submissions per minute per client IP.
func ingestLimiter(max int) fiber.Handler {
	return limiter.New(limiter.Config{
		Max:        max,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(models.StatusResponse{
				Status:  models.StatusError,
				Message: "rate limit exceeded, try again later",
			})
		},
	})
}
