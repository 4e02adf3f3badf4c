package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v3"

	"dganalyzer/internal/config"
	"dganalyzer/internal/jsonx"
	"dganalyzer/internal/models"
	"dganalyzer/internal/sections"
	"dganalyzer/internal/validation"
)

// LatestSource provides the current analysis, possibly from a cache.
type LatestSource interface {
	Get(ctx context.Context) (*models.LatestResponse, error)
	Invalidate() error
}

// DashboardHandler renders the analysis viewer.
type DashboardHandler struct {
	latest    LatestSource
	table     sections.Table
	cfg       *config.Config
	latestURL string
	now       func() time.Time
}

// NewDashboardHandler creates a new dashboard handler.
func NewDashboardHandler(latest LatestSource, table sections.Table, cfg *config.Config, latestURL string) *DashboardHandler {
	return &DashboardHandler{
		latest:    latest,
		table:     table,
		cfg:       cfg,
		latestURL: latestURL,
		now:       time.Now,
	}
}

// Index renders the dashboard for the selected tab.
func (h *DashboardHandler) Index(c fiber.Ctx) error {
	tab := normalizeTab(c.Query("tab", TabSummary))

	data := MergeBranding(fiber.Map{
		"APIBase":   h.cfg.APIBase,
		"LatestURL": h.latestURL,
		"Tab":       tab,
	}, h.cfg)

	latest, err := h.latest.Get(c.Context())
	if err != nil {
		slog.Error("failed to load latest analysis", "error", err)
		data["Error"] = fmt.Sprintf("No se pudo leer /governance/latest. Error: %v", err)
		return c.Status(fiber.StatusBadGateway).Render("dashboard", data)
	}

	if latest.IsEmpty() {
		data["Empty"] = true
		data["EmptyPayload"] = prettyEmpty(latest)
		return c.Render("dashboard", data)
	}

	timestamp := latest.Timestamp
	if timestamp == "" {
		timestamp = "n/a"
	}
	dataset := latest.Dataset
	if dataset == "" {
		dataset = "unknown"
	}

	data["Dataset"] = dataset
	data["Timestamp"] = timestamp
	data["Tabs"] = tabLinks(tab)
	data["View"] = buildAnalysisView(decodeAnalysis(latest.Analysis), h.table)

	return c.Render("dashboard", data)
}

// Refresh drops the cached analysis and sends the browser back to the
// dashboard, which then fetches a fresh copy.
func (h *DashboardHandler) Refresh(c fiber.Ctx) error {
	if err := h.latest.Invalidate(); err != nil {
		slog.Warn("failed to invalidate cache", "error", err)
	}
	tab := normalizeTab(c.FormValue("tab"))
	return c.Redirect().Status(fiber.StatusSeeOther).To("/?tab=" + tab)
}

// Download returns the full analysis as a JSON attachment.
func (h *DashboardHandler) Download(c fiber.Ctx) error {
	latest, body, err := h.rawAnalysis(c)
	if err != nil {
		return err
	}

	filename := fmt.Sprintf("dg_analysis_%s_%s.json",
		validation.SafeFilename(latest.Dataset),
		h.now().UTC().Format("20060102_150405"))

	c.Attachment(filename)
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

// Raw returns the full analysis inline.
func (h *DashboardHandler) Raw(c fiber.Ctx) error {
	_, body, err := h.rawAnalysis(c)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSONCharsetUTF8)
	return c.Send(body)
}

func (h *DashboardHandler) rawAnalysis(c fiber.Ctx) (*models.LatestResponse, []byte, error) {
	latest, err := h.latest.Get(c.Context())
	if err != nil {
		slog.Error("failed to load latest analysis", "error", err)
		return nil, nil, fiber.NewError(fiber.StatusBadGateway, "No se pudo leer /governance/latest")
	}
	if latest.IsEmpty() {
		return nil, nil, fiber.NewError(fiber.StatusNotFound, "Todavía no hay análisis publicado.")
	}

	body, err := jsonx.MarshalIndent(decodeAnalysis(latest.Analysis))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to encode analysis: %w", err)
	}
	return latest, body, nil
}

func prettyEmpty(latest *models.LatestResponse) string {
	obj := jsonx.NewObject()
	obj.Set("status", latest.Status)
	obj.Set("message", latest.Message)
	out, err := jsonx.MarshalIndent(obj)
	if err != nil {
		return latest.Message
	}
	return string(out)
}
