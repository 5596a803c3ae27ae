package handlers

import (
	"net/http"
	"time"

	"inspire-bytes/internal/core"
)

// Version is reported by the health check
const Version = "1.0.0"

// PortalHandler serves the portal-wide endpoints that belong to no feature
type PortalHandler struct {
	logger   *core.Logger
	registry *core.Registry
	db       *core.Database
}

// NewPortalHandler creates a new portal handler
func NewPortalHandler(logger *core.Logger, registry *core.Registry, db *core.Database) *PortalHandler {
	return &PortalHandler{
		logger:   logger,
		registry: registry,
		db:       db,
	}
}

// HealthCheckHandler reports service health, including database reachability
func (h *PortalHandler) HealthCheckHandler(w http.ResponseWriter, r *http.Request) {
	status, code := "ok", http.StatusOK
	database := "ok"
	if err := h.db.PingWithTimeout(2 * time.Second); err != nil {
		h.logger.WithContext(r.Context()).Error("Health check database ping failed", "error", err)
		status, code = "degraded", http.StatusServiceUnavailable
		database = "unreachable"
	}

	core.WriteJSON(w, code, map[string]any{
		"status":   status,
		"service":  "inspire-bytes",
		"version":  Version,
		"database": database,
		"features": h.registry.GetFeatureStatus(),
	})
}
