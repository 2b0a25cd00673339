package handler

import (
	"log/slog"
	"net/http"

	"github.com/templui/shelf/internal/ctxkeys"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/ui"
)

type AccountHandler struct {
	userService *service.UserService
}

func NewAccountHandler(userService *service.UserService) *AccountHandler {
	return &AccountHandler{
		userService: userService,
	}
}

type changePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

func (h *AccountHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.ByID(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, user)
}

func (h *AccountHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var in changePasswordRequest
	err := ui.Decode(w, r, &in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	userID := ctxkeys.UserID(r.Context())
	err = h.userService.UpdatePassword(r.Context(), userID, in.CurrentPassword, in.NewPassword)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	slog.Info("password changed", "user_id", userID)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AccountHandler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())
	err := h.userService.DeleteAccount(r.Context(), userID)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	clearAuthCookie(w, r)
	w.WriteHeader(http.StatusNoContent)
}
