package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"mindbloom-api/internal/auth"
	"mindbloom-api/internal/model"
)

type ctxKey string

const (
	userIDKey ctxKey = "uid"
	roleKey   ctxKey = "role"
)

// UserID returns the authenticated user id, or "" outside an authed request.
func UserID(ctx context.Context) string {
	uid, _ := ctx.Value(userIDKey).(string)
	return uid
}

func Role(ctx context.Context) string {
	role, _ := ctx.Value(roleKey).(string)
	return role
}

// WithUser is a test helper shape as well as the auth middleware's output:
// a context carrying identity.
func WithUser(ctx context.Context, uid, role string) context.Context {
	ctx = context.WithValue(ctx, userIDKey, uid)
	return context.WithValue(ctx, roleKey, role)
}

// Auth verifies the access token from the Authorization header, falling back
// to the access_token cookie for browser clients, and stores the identity in
// the request context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			raw := ""
			if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
				raw = strings.TrimPrefix(h, "Bearer ")
			} else if c, err := r.Cookie("access_token"); err == nil {
				raw = c.Value
			}
			if raw == "" {
				unauthorized(w, "no token")
				return
			}

			claims, err := auth.ParseToken(raw, secret)
			if err != nil {
				unauthorized(w, "bad token")
				return
			}

			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Role)))
		})
	}
}

// RequireAdmin gates the admin surface. Runs after Auth.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if Role(r.Context()) != model.RoleAdmin {
			// hide the surface rather than confirm it exists
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusNotFound)
			json.NewEncoder(w).Encode(map[string]string{"error": "not found"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
