package handler

import (
	"context"
	"net/http"
	"time"
)

// PingFunc probes one backing dependency.
type PingFunc func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes. Readiness checks the
// stores the read path depends on; the collector's broker is deliberately not
// included so a broker outage does not take the read API out of rotation.
type HealthHandler struct {
	deps map[string]PingFunc
}

// NewHealthHandler creates a HealthHandler probing the named dependencies.
func NewHealthHandler(deps map[string]PingFunc) *HealthHandler {
	return &HealthHandler{deps: deps}
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// Live handles GET /health. It reports process liveness only.
func (h *HealthHandler) Live(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

// Ready handles GET /health/ready. Each dependency is probed with a short
// timeout; any failure degrades the response to 503 with per-check detail.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(h.deps))}

	for name, ping := range h.deps {
		if err := ping(ctx); err != nil {
			status = http.StatusServiceUnavailable
			resp.Status = "degraded"
			resp.Checks[name] = err.Error()
			continue
		}
		resp.Checks[name] = "ok"
	}

	JSON(w, status, resp)
}
