package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"mindbloom-api/internal/metrics"
	"mindbloom-api/internal/middleware"
)

// Router assembles the full HTTP surface.
func Router(h *Handler, m *metrics.Metrics, rl *middleware.RateLimiter, log *zap.Logger) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestLogger(log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", m.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			// credential endpoints get the per-IP budget; nothing else does
			r.With(middleware.Limit(rl)).Post("/register", h.Register)
			r.With(middleware.Limit(rl)).Post("/login", h.Login)
			r.Post("/refresh", h.Refresh)
			r.With(middleware.Auth(h.secret)).Post("/logout", h.Logout)
		})

		r.Get("/resources", h.ListResources)
		r.Post("/resources/{id}/click", h.RecordResourceClick)

		r.Route("/schedule", func(r chi.Router) {
			r.Use(middleware.Auth(h.secret))
			r.Get("/slots", h.ListSlots)
			r.Post("/sessions", h.CreateSession)
			r.Get("/sessions/mine", h.MySessions)
			r.Delete("/sessions/{id}", h.DeleteSession)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(middleware.Auth(h.secret), middleware.RequireAdmin)
			r.Get("/sessions", h.AdminSessions)
			r.Get("/analytics", h.AdminAnalytics)
		})
	})

	return r
}
