package handler

import (
	"net/http"

	"github.com/templui/shelf/internal/ctxkeys"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/ui"
)

type FeedHandler struct {
	feedService   *service.FeedService
	socialService *service.SocialService
}

func NewFeedHandler(feedService *service.FeedService, socialService *service.SocialService) *FeedHandler {
	return &FeedHandler{
		feedService:   feedService,
		socialService: socialService,
	}
}

// Feed serves the viewer's home feed. A cursor takes precedence over a page
// number; clients should follow next_cursor.
func (h *FeedHandler) Feed(w http.ResponseWriter, r *http.Request) {
	viewerID := ctxkeys.UserID(r.Context())
	size := queryInt(r, "size", h.feedService.PageSize())

	if cursor := queryString(r, "cursor"); cursor != "" {
		page, err := h.feedService.ComposeAfter(r.Context(), viewerID, cursor, size)
		if err != nil {
			ui.Error(w, r, err)
			return
		}
		ui.JSON(w, http.StatusOK, page)
		return
	}

	page, err := h.feedService.Compose(r.Context(), viewerID, queryInt(r, "page", 1), size)
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, page)
}

func (h *FeedHandler) PopularUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.socialService.Popular(r.Context(), queryString(r, "q"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, users)
}
