package handlers

import (
	"net/http"

	"github.com/yhinai/clippy/internal/memory"
	"github.com/yhinai/clippy/pkg/api"
)

// HealthHandler handles GET /health.
type HealthHandler struct {
	Store    memory.Store
	MockMode bool
}

// Health reports service status. A store that cannot bootstrap its schema is
// a process-level failure, so it degrades health to 503.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	mode := "live"
	if h.MockMode {
		mode = "mock"
	}

	if err := h.Store.Ready(r.Context()); err != nil {
		writeError(w, http.StatusServiceUnavailable, "store_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, api.HealthResponse{
		Status:      "ok",
		Service:     "clippy-sidecar",
		Mode:        mode,
		MemoryItems: h.Store.Count(),
	})
}
