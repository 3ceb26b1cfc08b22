package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"mindbloom-api/internal/auth"
	"mindbloom-api/internal/middleware"
	"mindbloom-api/internal/model"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type authResponse struct {
	UserID string `json:"userId"`
	Name   string `json:"name"`
	Token  string `json:"token"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "all fields required", "bad_request")
		return
	}
	if len(req.Password) < 8 {
		writeError(w, http.StatusBadRequest, "password too short", "bad_request")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	u := &model.User{
		ID:           uuid.New().String(),
		Email:        req.Email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         model.RoleStudent,
	}
	if err := h.store.CreateUser(r.Context(), u); err != nil {
		// dup email lands here too; don't reveal which
		writeError(w, http.StatusConflict, "registration failed", "conflict")
		return
	}

	h.issueSession(w, r, u)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", "bad_request")
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password required", "bad_request")
		return
	}

	u, err := h.store.UserByEmail(r.Context(), req.Email)
	if err != nil || !auth.CheckPassword(u.PasswordHash, req.Password) {
		writeError(w, http.StatusUnauthorized, "invalid credentials", "unauthorized")
		return
	}

	h.issueSession(w, r, u)
}

// issueSession hands out the access token (body + httponly cookie) and a
// rotatable refresh token cookie scoped to the auth endpoints.
func (h *Handler) issueSession(w http.ResponseWriter, r *http.Request, u *model.User) {
	tok, err := auth.MakeToken(u.ID, u.Role, h.secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	rawRefresh, tokenHash, err := auth.GenerateRefreshToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}
	if _, err := h.store.CreateRefreshToken(r.Context(), u.ID, tokenHash, time.Now().Add(h.refreshTTL)); err != nil {
		h.log.Error("store refresh token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	h.setAuthCookies(w, tok, rawRefresh)
	writeJSON(w, http.StatusOK, authResponse{UserID: u.ID, Name: u.Name, Token: tok})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	c, err := r.Cookie("refresh_token")
	if err != nil || c.Value == "" {
		writeError(w, http.StatusUnauthorized, "no refresh token", "unauthorized")
		return
	}

	rt, err := h.store.RefreshTokenByHash(r.Context(), auth.HashRefreshToken(c.Value))
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		writeError(w, http.StatusUnauthorized, "invalid refresh token", "unauthorized")
		return
	}

	u, err := h.store.UserByID(r.Context(), rt.UserID)
	if err != nil {
		writeError(w, http.StatusUnauthorized, "invalid refresh token", "unauthorized")
		return
	}

	newRaw, newHash, err := auth.GenerateRefreshToken()
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}
	newID := uuid.New().String()
	if err := h.store.RotateRefreshToken(r.Context(), rt.ID, newID, rt.UserID, newHash, time.Now().Add(h.refreshTTL)); err != nil {
		h.log.Error("rotate refresh token", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	tok, err := auth.MakeToken(u.ID, u.Role, h.secret)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal error", "internal")
		return
	}

	h.setAuthCookies(w, tok, newRaw)
	writeJSON(w, http.StatusOK, authResponse{UserID: u.ID, Name: u.Name, Token: tok})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if uid := middleware.UserID(r.Context()); uid != "" {
		if err := h.store.RevokeAllRefreshTokens(r.Context(), uid); err != nil {
			h.log.Warn("revoke refresh tokens", zap.Error(err))
		}
	}
	h.clearAuthCookies(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) setAuthCookies(w http.ResponseWriter, access, refresh string) {
	http.SetCookie(w, &http.Cookie{
		Name: "access_token", Value: access,
		HttpOnly: true, Path: "/", SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name: "refresh_token", Value: refresh,
		HttpOnly: true, Path: "/api/auth/", SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearAuthCookies(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{Name: "access_token", Value: "", MaxAge: -1, Path: "/"})
	http.SetCookie(w, &http.Cookie{Name: "refresh_token", Value: "", MaxAge: -1, Path: "/api/auth/"})
}
