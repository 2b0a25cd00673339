package handler

import (
	"net/http"

	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/ui"
)

type DiscoveryHandler struct {
	discoveryService *service.DiscoveryService
}

func NewDiscoveryHandler(discoveryService *service.DiscoveryService) *DiscoveryHandler {
	return &DiscoveryHandler{
		discoveryService: discoveryService,
	}
}

// Rank lists one ranking for a content type. Without ?limit the ranking is
// uncapped.
func (h *DiscoveryHandler) Rank(w http.ResponseWriter, r *http.Request) {
	contentType := model.ContentType(r.PathValue("type"))
	mode := model.DiscoveryMode(r.PathValue("mode"))

	ranked, err := h.discoveryService.Rank(r.Context(), contentType, mode, queryInt(r, "limit", 0))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, ranked)
}

func (h *DiscoveryHandler) Showcase(w http.ResponseWriter, r *http.Request) {
	showcase, err := h.discoveryService.Showcase(r.Context(), model.ContentType(r.PathValue("type")))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, showcase)
}
