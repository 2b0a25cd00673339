package handler

import (
	"net/http"

	"github.com/goccy/go-json"
	"github.com/templui/shelf/internal/ctxkeys"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/ui"
)

type ContentHandler struct {
	catalogService  *service.CatalogService
	activityService *service.ActivityService
}

func NewContentHandler(catalogService *service.CatalogService, activityService *service.ActivityService) *ContentHandler {
	return &ContentHandler{
		catalogService:  catalogService,
		activityService: activityService,
	}
}

// rateRequest keeps the score as the raw number literal so fractional or
// missing values are rejected by the service rather than truncated here.
type rateRequest struct {
	Score json.Number `json:"score"`
}

type reviewRequest struct {
	Text string `json:"text"`
}

func (h *ContentHandler) Search(w http.ResponseWriter, r *http.Request) {
	contents, err := h.catalogService.Search(r.Context(), queryString(r, "q"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, contents)
}

func (h *ContentHandler) Import(w http.ResponseWriter, r *http.Request) {
	var in service.ImportInput
	err := ui.Decode(w, r, &in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	content, created, err := h.catalogService.ImportOrGet(r.Context(), in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ui.JSON(w, status, content)
}

func (h *ContentHandler) Detail(w http.ResponseWriter, r *http.Request) {
	detail, err := h.catalogService.Detail(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, detail)
}

func (h *ContentHandler) Rate(w http.ResponseWriter, r *http.Request) {
	var in rateRequest
	err := ui.Decode(w, r, &in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	result, err := h.activityService.RateRaw(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), in.Score.String())
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, result)
}

func (h *ContentHandler) Review(w http.ResponseWriter, r *http.Request) {
	var in reviewRequest
	err := ui.Decode(w, r, &in)
	if err != nil {
		ui.Error(w, r, err)
		return
	}

	result, err := h.activityService.Review(r.Context(), ctxkeys.UserID(r.Context()), r.PathValue("id"), in.Text)
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusCreated, result)
}

func (h *ContentHandler) SearchMovies(w http.ResponseWriter, r *http.Request) {
	h.searchRemote(w, r, model.ContentTypeMovie)
}

func (h *ContentHandler) SearchBooks(w http.ResponseWriter, r *http.Request) {
	h.searchRemote(w, r, model.ContentTypeBook)
}

func (h *ContentHandler) searchRemote(w http.ResponseWriter, r *http.Request, contentType model.ContentType) {
	results, err := h.catalogService.SearchRemote(r.Context(), contentType, queryString(r, "q"))
	if err != nil {
		ui.Error(w, r, err)
		return
	}
	ui.JSON(w, http.StatusOK, results)
}
