package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/yhinai/clippy/internal/memory"
	"github.com/yhinai/clippy/pkg/api"
)

// MemoryHandler handles the archival memory endpoints.
type MemoryHandler struct {
	Store memory.Store
}

// Add handles POST /v1/memory.
func (h *MemoryHandler) Add(w http.ResponseWriter, r *http.Request) {
	var req api.MemoryAddRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}
	if req.Text == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "text must not be empty")
		return
	}

	item, err := h.Store.Add(r.Context(), req.Text, req.SourceApp, req.Tags)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "memory_error", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, api.MemoryAddResponse{ID: item.ID})
}

// List handles GET /v1/memory/list.
func (h *MemoryHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if l := r.URL.Query().Get("limit"); l != "" {
		limit, _ = strconv.Atoi(l)
	}

	items, err := h.Store.List(r.Context(), limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "memory_error", err.Error())
		return
	}

	apiItems := make([]api.MemoryItem, len(items))
	for i, item := range items {
		apiItems[i] = api.MemoryItem{
			ID:        item.ID,
			Text:      item.Text,
			Timestamp: item.Timestamp,
			SourceApp: item.SourceApp,
			Tags:      item.Tags,
		}
	}

	writeJSON(w, http.StatusOK, api.MemoryListResponse{
		Items: apiItems,
		Total: h.Store.Count(),
	})
}

// Count handles GET /v1/memory/count.
func (h *MemoryHandler) Count(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, api.MemoryCountResponse{Count: h.Store.Count()})
}
