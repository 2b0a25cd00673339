package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/shelf/internal/ctxkeys"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/ui"
	"github.com/templui/shelf/internal/validation"
)

type ProfileHandler struct {
	profileService *service.ProfileService
	socialService  *service.SocialService
}

func NewProfileHandler(profileService *service.ProfileService, socialService *service.SocialService) *ProfileHandler {
	return &ProfileHandler{
		profileService: profileService,
		socialService:  socialService,
	}
}

type followResponse struct {
	Following bool `json:"following"`
}

func (h *ProfileHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.profileService.View(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("username"), queryInt(r, "page", 1))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, view)
}

func (h *ProfileHandler) Me(w http.ResponseWriter, r *http.Request) {
	profile, err := h.profileService.ByUserID(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) Followers(w http.ResponseWriter, r *http.Request) {
	users, err := h.socialService.Followers(r.Context(), r.PathValue("username"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, users)
}

func (h *ProfileHandler) Following(w http.ResponseWriter, r *http.Request) {
	users, err := h.socialService.Following(r.Context(), r.PathValue("username"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, users)
}

func (h *ProfileHandler) Follow(w http.ResponseWriter, r *http.Request) {
	target, err := h.profileService.ByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	err = h.socialService.Follow(r.Context(), ctxkeys.UserID(r.Context()), target.UserID)
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, followResponse{Following: true})
}

func (h *ProfileHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	target, err := h.profileService.ByUsername(r.Context(), r.PathValue("username"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	err = h.socialService.Unfollow(r.Context(), ctxkeys.UserID(r.Context()), target.UserID)
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, followResponse{Following: false})
}

func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in service.ProfileInput
	err := ui.Decode(w, r, &in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	profile, err := h.profileService.Update(r.Context(), ctxkeys.UserID(r.Context()), in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, profile)
}

func (h *ProfileHandler) UploadAvatar(w http.ResponseWriter, r *http.Request) {
	userID := ctxkeys.UserID(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxAvatarSize+1<<20)
	err := r.ParseMultipartForm(validation.MaxAvatarSize)
	if err != nil {
		slog.Warn("avatar upload rejected", "error", err, "user_id", userID)
		ui.Error(w, r, &service.Error{Kind: service.KindValidation, Field: "avatar", Err: errors.New("avatar must be a multipart upload under 5MB")})
		return
	}

	_, header, err := r.FormFile("avatar")
	if err != nil {
		ui.Error(w, r, &service.Error{Kind: service.KindValidation, Field: "avatar", Err: errors.New("avatar file is required")})
		return
	}

	profile, err := h.profileService.UploadAvatar(r.Context(), userID, header)
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, profile)
}
