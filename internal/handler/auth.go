package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/templui/shelf/internal/ctxkeys"
	"github.com/templui/shelf/internal/middleware"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/ui"
)

type AuthHandler struct {
	authService *service.AuthService
}

func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{
		authService: authService,
	}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionResponse struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expires_at"`
	User      *model.User    `json:"user"`
	Profile   *model.Profile `json:"profile,omitempty"`
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var in service.RegisterInput
	err := ui.Decode(w, r, &in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	user, profile, err := h.authService.Register(r.Context(), in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	h.startSession(w, r, http.StatusCreated, user, profile)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var in loginRequest
	err := ui.Decode(w, r, &in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	user, err := h.authService.Login(r.Context(), in.Email, in.Password)
	if err != nil {
		slog.Warn("login failed", "error", err)
		ui.Error(w, r, err)
		return
	}

	h.startSession(w, r, http.StatusOK, user, nil)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	clearAuthCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, status int, user *model.User, profile *model.Profile) {
	token, expiresAt, err := h.authService.GenerateJWT(user)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	setAuthCookie(w, r, token, expiresAt)
	ui.JSON(w, status, sessionResponse{
		Token:     token,
		ExpiresAt: expiresAt,
		User:      user,
		Profile:   profile,
	})
}

func setAuthCookie(w http.ResponseWriter, r *http.Request, token string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    token,
		Path:     "/",
		Expires:  expiresAt,
		HttpOnly: true,
		Secure:   secureCookies(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func clearAuthCookie(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.AuthCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   secureCookies(r),
		SameSite: http.SameSiteLaxMode,
	})
}

func secureCookies(r *http.Request) bool {
	cfg := ctxkeys.Config(r.Context())
	return cfg != nil && cfg.IsProduction()
}
