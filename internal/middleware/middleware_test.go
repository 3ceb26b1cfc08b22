package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"go.uber.org/zap"

	"mindbloom-api/internal/auth"
	"mindbloom-api/internal/middleware"
	"mindbloom-api/internal/model"
)

const secret = "test-secret"

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-UID", middleware.UserID(r.Context()))
		w.Header().Set("X-Role", middleware.Role(r.Context()))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthBearer(t *testing.T) {
	tok, err := auth.MakeToken("user-1", model.RoleStudent, secret)
	if err != nil {
		t.Fatalf("token: %v", err)
	}

	h := middleware.Auth(secret)(echoIdentity())
	req := httptest.NewRequest("GET", "/", nil)
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	if rec.Header().Get("X-UID") != "user-1" {
		t.Errorf("uid: %s", rec.Header().Get("X-UID"))
	}
	if rec.Header().Get("X-Role") != model.RoleStudent {
		t.Errorf("role: %s", rec.Header().Get("X-Role"))
	}
}

func TestAuthCookieFallback(t *testing.T) {
	tok, _ := auth.MakeToken("user-2", model.RoleStudent, secret)

	h := middleware.Auth(secret)(echoIdentity())
	req := httptest.NewRequest("GET", "/", nil)
	req.AddCookie(&http.Cookie{Name: "access_token", Value: tok})
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK || rec.Header().Get("X-UID") != "user-2" {
		t.Errorf("cookie auth failed: %d %s", rec.Code, rec.Header().Get("X-UID"))
	}
}

func TestAuthRejections(t *testing.T) {
	h := middleware.Auth(secret)(echoIdentity())

	tests := []struct {
		name  string
		setup func(*http.Request)
	}{
		{"no token", func(*http.Request) {}},
		{"garbage token", func(r *http.Request) { r.Header.Set("Authorization", "Bearer junk") }},
		{"wrong secret", func(r *http.Request) {
			tok, _ := auth.MakeToken("user-1", model.RoleStudent, "other-secret")
			r.Header.Set("Authorization", "Bearer "+tok)
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("GET", "/", nil)
			tt.setup(req)
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, req)
			if rec.Code != http.StatusUnauthorized {
				t.Errorf("expected 401, got %d", rec.Code)
			}
		})
	}
}

func TestRequireAdmin(t *testing.T) {
	h := middleware.RequireAdmin(echoIdentity())

	req := httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), "u1", model.RoleAdmin))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("admin blocked: %d", rec.Code)
	}

	// students get a 404, not a 403: the surface stays hidden
	req = httptest.NewRequest("GET", "/", nil)
	req = req.WithContext(middleware.WithUser(req.Context(), "u2", model.RoleStudent))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Errorf("expected 404 for student, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	rl := middleware.NewRateLimiter(1, 2)
	h := middleware.Limit(rl)(echoIdentity())

	codes := make([]int, 0, 4)
	for i := 0; i < 4; i++ {
		req := httptest.NewRequest("GET", "/", nil)
		req.RemoteAddr = "10.0.0.1:1234"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	if codes[0] != http.StatusOK || codes[1] != http.StatusOK {
		t.Errorf("burst requests rejected: %v", codes)
	}
	limited := false
	for _, c := range codes[2:] {
		if c == http.StatusTooManyRequests {
			limited = true
		}
	}
	if !limited {
		t.Errorf("limiter never kicked in: %v", codes)
	}

	// a different client has its own bucket
	req := httptest.NewRequest("GET", "/", nil)
	req.RemoteAddr = "10.0.0.2:1234"
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Errorf("independent client limited: %d", rec.Code)
	}
}

func TestRequestLoggerPassesThrough(t *testing.T) {
	h := middleware.RequestLogger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest("GET", "/", nil))
	if rec.Code != http.StatusTeapot {
		t.Errorf("status not preserved: %d", rec.Code)
	}
}
