package handler

import (
	"net/http"

	"github.com/templui/shelf/internal/ctxkeys"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/ui"
)

type EngagementHandler struct {
	engagementService *service.EngagementService
}

func NewEngagementHandler(engagementService *service.EngagementService) *EngagementHandler {
	return &EngagementHandler{
		engagementService: engagementService,
	}
}

type commentRequest struct {
	Text string `json:"text"`
}

func (h *EngagementHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	state, err := h.engagementService.ToggleLike(r.Context(), r.PathValue("id"), ctxkeys.UserID(r.Context()))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, state)
}

func (h *EngagementHandler) AddComment(w http.ResponseWriter, r *http.Request) {
	var in commentRequest
	err := ui.Decode(w, r, &in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	thread, err := h.engagementService.AddComment(r.Context(), r.PathValue("id"), ctxkeys.UserID(r.Context()), in.Text)
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusCreated, thread)
}

func (h *EngagementHandler) Comments(w http.ResponseWriter, r *http.Request) {
	thread, err := h.engagementService.Comments(r.Context(), r.PathValue("id"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, thread)
}
