package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"mindbloom-api/internal/model"
)

// AdminSessions lists every appointment for the admin dashboard.
func (h *Handler) AdminSessions(w http.ResponseWriter, r *http.Request) {
	appts, err := h.sched.AllSessions(r.Context())
	if err != nil {
		h.log.Error("list all sessions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

// AdminAnalytics serves the aggregate counters.
func (h *Handler) AdminAnalytics(w http.ResponseWriter, r *http.Request) {
	a, err := h.store.Analytics(r.Context(), time.Now().UTC())
	if err != nil {
		h.log.Error("load analytics", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}
	writeJSON(w, http.StatusOK, a)
}
