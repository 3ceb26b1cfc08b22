package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mindbloom-api/internal/resources"
)

// ListResources serves the support resource directory.
func (h *Handler) ListResources(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, resources.All())
}

// RecordResourceClick bumps a directory entry's click counter. Analytics
// failures must never break the client flow, so the store error is logged
// and swallowed.
func (h *Handler) RecordResourceClick(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if _, ok := resources.ByID(id); !ok {
		writeError(w, http.StatusNotFound, "not found", "not_found")
		return
	}

	h.metrics.RecordResourceClick(id)
	if err := h.store.IncrementResourceClicks(r.Context(), id); err != nil {
		h.log.Warn("record resource click", zap.String("resource", id), zap.Error(err))
	}
	w.WriteHeader(http.StatusNoContent)
}
