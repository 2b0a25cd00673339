package handler

import (
	"net/http"

	"github.com/templui/shelf/internal/ctxkeys"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/ui"
)

type ListHandler struct {
	listService     *service.ListService
	activityService *service.ActivityService
}

func NewListHandler(listService *service.ListService, activityService *service.ActivityService) *ListHandler {
	return &ListHandler{
		listService:     listService,
		activityService: activityService,
	}
}

// Mine returns the signed-in user's lists, default slots first.
func (h *ListHandler) Mine(w http.ResponseWriter, r *http.Request) {
	lists, err := h.listService.Lists(r.Context(), ctxkeys.UserID(r.Context()))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, lists)
}

func (h *ListHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in service.CreateListInput
	err := ui.Decode(w, r, &in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	list, err := h.listService.Create(r.Context(), ctxkeys.UserID(r.Context()), in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusCreated, list)
}

func (h *ListHandler) View(w http.ResponseWriter, r *http.Request) {
	view, err := h.listService.View(r.Context(), r.PathValue("id"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, view)
}

func (h *ListHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	toggle, err := h.activityService.ToggleListItem(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), r.PathValue("contentID"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, toggle)
}
