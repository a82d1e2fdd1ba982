package http

import (
	"net/http"
	"time"

	"github.com/go-chi/render"
)

// HealthHandler serves the liveness endpoint.
type HealthHandler struct {
	service DashboardServiceInterface
	version string
	started time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(service DashboardServiceInterface, version string) *HealthHandler {
	return &HealthHandler{
		service: service,
		version: version,
		started: time.Now(),
	}
}

// ServeHTTP handles GET /healthz. The process is healthy as soon as it
// serves; dataset readiness is reported alongside, not folded into the
// status code, so orchestration restarts are not triggered by a slow
// upstream dataset source.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	status := h.service.Status(r.Context())

	render.JSON(w, r, map[string]interface{}{
		"status":  "ok",
		"version": h.version,
		"uptime":  time.Since(h.started).String(),
		"dataset": status,
	})
}
