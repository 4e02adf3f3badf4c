package server

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/logger"
	"github.com/gofiber/fiber/v3/middleware/recover"
	"github.com/gofiber/fiber/v3/middleware/requestid"
	"github.com/gofiber/template/html/v3"
	"github.com/google/uuid"

	"dganalyzer/internal/config"
	"dganalyzer/internal/models"
	"dganalyzer/views"
)

// Server wraps the Fiber app and configuration.
type Server struct {
	App  *fiber.App
	Cfg  *config.Config
	addr string
}

// NewAPI creates the JSON API server with middleware configured.
func NewAPI(cfg *config.Config) *Server {
	app := fiber.New(fiber.Config{
		AppName:      "dganalyzer-api",
		BodyLimit:    16 * 1024 * 1024,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).JSON(models.StatusResponse{
				Status:  models.StatusError,
				Message: message,
			})
		},
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{
		Generator: uuid.NewString,
	}))
	app.Use(logger.New())

	// CORS middleware
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Split(cfg.CORSOrigins, ","),
		AllowMethods: []string{"GET", "POST", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept", "X-Request-ID"},
		MaxAge:       86400,
	}))

	return &Server{App: app, Cfg: cfg, addr: cfg.ServerAddr}
}

// NewViewer creates the dashboard server with the template engine.
func NewViewer(cfg *config.Config) *Server {
	engine := html.NewFileSystem(http.FS(views.FS), ".html")
	engine.Reload(cfg.IsDev())

	app := fiber.New(fiber.Config{
		AppName:     "dganalyzer-viewer",
		Views:       engine,
		ViewsLayout: "layouts/main",
		ErrorHandler: func(c fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			message := "Internal Server Error"

			var e *fiber.Error
			if errors.As(err, &e) {
				code = e.Code
				message = e.Message
			}

			return c.Status(code).Render("error", fiber.Map{
				"Title":     "Error",
				"Message":   message,
				"SiteTitle": cfg.SiteTitle,
			})
		},
	})

	app.Use(recover.New())
	app.Use(logger.New())

	return &Server{App: app, Cfg: cfg, addr: cfg.ViewerAddr}
}

// Start starts the server on its configured address.
func (s *Server) Start() error {
	slog.Info("server listening", "app", s.App.Config().AppName, "addr", s.addr)
	return s.App.Listen(s.addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.App.Shutdown()
}
