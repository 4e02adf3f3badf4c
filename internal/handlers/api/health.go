package api

import (
	"github.com/gofiber/fiber/v3"

	"dganalyzer/internal/store"
)

// ProbeHandler handles liveness and readiness endpoints.
type ProbeHandler struct {
	store store.Store
}

// NewProbeHandler creates a new probe handler.
func NewProbeHandler(st store.Store) *ProbeHandler {
	return &ProbeHandler{store: st}
}

// Liveness handles /health and /healthz. Viewers call it to wake the
// service before fetching.
func (h *ProbeHandler) Liveness(c fiber.Ctx) error {
	return jsonOK(c)
}

// Readiness handles /readyz. Returns 503 when the store cannot be reached.
func (h *ProbeHandler) Readiness(c fiber.Ctx) error {
	if p, ok := h.store.(store.Pinger); ok {
		if err := p.Ping(c.Context()); err != nil {
			return jsonError(c, fiber.StatusServiceUnavailable, "store unavailable", err.Error())
		}
	}
	return jsonOK(c)
}
