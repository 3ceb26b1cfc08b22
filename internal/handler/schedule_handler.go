package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mindbloom-api/internal/metrics"
	"mindbloom-api/internal/middleware"
	"mindbloom-api/internal/model"
	"mindbloom-api/internal/scheduler"
)

// parseDate accepts a plain calendar date or a full RFC 3339 timestamp; the
// scheduler truncates either to its UTC day.
func parseDate(raw string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", raw)
}

type slotsResponse struct {
	Date      string   `json:"date"`
	Booked    []string `json:"booked"`
	Available []string `json:"available"`
}

// ListSlots reports which slot labels are taken and which remain open on a
// given day. The read path is best-effort: a store outage shows every slot
// as open, and the booking path still refuses to double-book.
func (h *Handler) ListSlots(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		writeError(w, http.StatusBadRequest, "date query parameter required", "bad_request")
		return
	}
	date, err := parseDate(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", "bad_request")
		return
	}

	booked := h.sched.ListBookedSlots(r.Context(), date)
	taken := make(map[string]bool, len(booked))
	for _, s := range booked {
		taken[s] = true
	}
	available := make([]string, 0)
	for _, s := range h.sched.Slots() {
		if !taken[s] {
			available = append(available, s)
		}
	}
	if booked == nil {
		booked = []string{}
	}

	writeJSON(w, http.StatusOK, slotsResponse{
		Date:      date.UTC().Format("2006-01-02"),
		Booked:    booked,
		Available: available,
	})
}

type bookRequest struct {
	Name      string `json:"name"`
	Email     string `json:"email"`
	Date      string `json:"date"`
	TimeSlot  string `json:"time"`
	Priority  bool   `json:"priority"`
	RiskScore *int   `json:"riskScore,omitempty"`
}

// CreateSession books a session. In priority mode the scheduler picks the
// earliest open slot itself; otherwise the request names an exact
// (date, slot) pair.
func (h *Handler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req bookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.Name == "" || req.Email == "" {
		writeError(w, http.StatusBadRequest, "name and email required", "bad_request")
		return
	}
	if req.RiskScore != nil && (*req.RiskScore < 0 || *req.RiskScore > 100) {
		writeError(w, http.StatusBadRequest, "risk score out of range", "bad_request")
		return
	}

	booking := scheduler.BookingRequest{
		Name:      req.Name,
		Email:     req.Email,
		OwnerID:   middleware.UserID(r.Context()),
		RiskScore: req.RiskScore,
	}

	var (
		appt *model.Appointment
		err  error
	)
	if req.Priority {
		h.metrics.RecordPrioritySearch()
		appt, err = h.sched.BookPriority(r.Context(), booking)
	} else {
		if req.Date == "" || req.TimeSlot == "" {
			writeError(w, http.StatusBadRequest, "date and time required", "bad_request")
			return
		}
		booking.Date, err = parseDate(req.Date)
		if err != nil {
			writeError(w, http.StatusBadRequest, "date must be YYYY-MM-DD", "bad_request")
			return
		}
		booking.TimeSlot = req.TimeSlot
		appt, err = h.sched.BookSlot(r.Context(), booking)
	}
	if err != nil {
		h.writeSchedulingError(w, err)
		return
	}

	h.metrics.RecordBooking(metrics.OutcomeConfirmed)
	writeJSON(w, http.StatusCreated, appt)
}

// MySessions lists the caller's own appointments.
func (h *Handler) MySessions(w http.ResponseWriter, r *http.Request) {
	appts, err := h.sched.MySessions(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		h.log.Error("list own sessions", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}
	if appts == nil {
		appts = []model.Appointment{}
	}
	writeJSON(w, http.StatusOK, appts)
}

// DeleteSession cancels an appointment. Students may only cancel their own;
// an appointment that isn't theirs looks like it doesn't exist. Admins may
// cancel anything.
func (h *Handler) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id required", "bad_request")
		return
	}

	if middleware.Role(r.Context()) != model.RoleAdmin {
		appt, err := h.store.SessionByID(r.Context(), id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				writeError(w, http.StatusNotFound, "not found", "not_found")
				return
			}
			h.log.Error("load session", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "internal error", "internal")
			return
		}
		if appt.OwnerID != middleware.UserID(r.Context()) {
			writeError(w, http.StatusNotFound, "not found", "not_found")
			return
		}
	}

	if err := h.sched.Cancel(r.Context(), id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found", "not_found")
			return
		}
		h.log.Error("cancel session", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	h.metrics.RecordCancellation()
	w.WriteHeader(http.StatusNoContent)
}
