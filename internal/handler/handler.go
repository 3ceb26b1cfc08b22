// Package handler exposes the service over HTTP: auth, scheduling, the
// resource directory and the admin surface.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"

	"mindbloom-api/internal/metrics"
	"mindbloom-api/internal/model"
	"mindbloom-api/internal/scheduler"
	"mindbloom-api/internal/store"
)

type Handler struct {
	sched      *scheduler.Scheduler
	store      *store.Store
	metrics    *metrics.Metrics
	log        *zap.Logger
	secret     string
	refreshTTL time.Duration
}

func New(sched *scheduler.Scheduler, st *store.Store, m *metrics.Metrics, log *zap.Logger, secret string, refreshTTL time.Duration) *Handler {
	return &Handler{
		sched:      sched,
		store:      st,
		metrics:    m,
		log:        log,
		secret:     secret,
		refreshTTL: refreshTTL,
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

type errorBody struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg, code string) {
	writeJSON(w, status, errorBody{Error: msg, Code: code})
}

// writeSchedulingError maps scheduler failures onto the API contract.
// Anything not in the taxonomy is a 500 with a neutral message.
func (h *Handler) writeSchedulingError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrInvalidSlot):
		h.metrics.RecordBooking(metrics.OutcomeInvalid)
		writeError(w, http.StatusBadRequest, err.Error(), "invalid_slot")
	case errors.Is(err, model.ErrSlotUnavailable):
		h.metrics.RecordBooking(metrics.OutcomeConflict)
		writeError(w, http.StatusConflict, "This time slot is no longer available.", "slot_unavailable")
	case errors.Is(err, model.ErrNoSlotFound):
		h.metrics.RecordBooking(metrics.OutcomeNoSlot)
		writeError(w, http.StatusConflict, "No appointments available within the booking window.", "no_slot_found")
	default:
		h.metrics.RecordBooking(metrics.OutcomeError)
		h.log.Error("scheduling failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "A server error occurred. Please try again.", "internal")
	}
}
