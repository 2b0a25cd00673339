package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"maps"
	"strings"

	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/validation"
)

const localSearchLimit = 50

// MetadataProvider is the external catalog the service enriches and searches against.
type MetadataProvider interface {
	MovieDetails(ctx context.Context, externalID string) (*model.MovieDetails, error)
	SearchMovies(ctx context.Context, query string) ([]*model.SearchResult, error)
	SearchBooks(ctx context.Context, query string) ([]*model.SearchResult, error)
}

type ImportInput struct {
	Source     string            `json:"source" validate:"required,max=50"`
	ExternalID string            `json:"external_id" validate:"required,max=100"`
	Type       model.ContentType `json:"type" validate:"required,oneof=movie book"`
	Title      string            `json:"title" validate:"required,max=500"`
	Year       *int              `json:"year"`
	PosterURL  string            `json:"poster_url" validate:"omitempty,url,max=1000"`
	// Fields seeds the metadata blob of a newly created item.
	Fields model.Metadata `json:"fields"`
}

type CatalogService struct {
	store    *repository.Store
	provider MetadataProvider
}

func NewCatalogService(store *repository.Store, provider MetadataProvider) *CatalogService {
	return &CatalogService{
		store:    store,
		provider: provider,
	}
}

// ImportOrGet resolves an external item to its catalog row, creating it on
// first sight. An existing row is returned untouched. created reports whether
// this call inserted it.
func (s *CatalogService) ImportOrGet(ctx context.Context, in ImportInput) (content *model.Content, created bool, err error) {
	in.Source = strings.TrimSpace(in.Source)
	in.ExternalID = strings.TrimSpace(in.ExternalID)
	in.Title = strings.TrimSpace(in.Title)
	in.PosterURL = strings.TrimSpace(in.PosterURL)

	err = validation.Struct(in)
	if err != nil {
		return nil, false, validationError("", err)
	}

	repos := s.store.Read()

	existing, err := repos.Contents.BySource(ctx, in.Source, in.ExternalID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrContentNotFound) {
		return nil, false, fmt.Errorf("failed to look up content: %w", err)
	}

	meta := model.Metadata{}
	maps.Copy(meta, in.Fields)
	if in.Source == model.SourceTMDb && in.Type == model.ContentTypeMovie {
		maps.Copy(meta, s.enrichMovie(ctx, in.ExternalID))
	}

	metaJSON, err := model.EncodeMetadata(meta)
	if err != nil {
		slog.Warn("failed to encode content metadata, storing empty blob", "error", err, "external_id", in.ExternalID)
		metaJSON = "{}"
	}

	content = &model.Content{
		Source:     in.Source,
		ExternalID: in.ExternalID,
		Type:       in.Type,
		Title:      in.Title,
		Year:       in.Year,
		PosterURL:  in.PosterURL,
		MetaJSON:   metaJSON,
	}

	err = repos.Contents.Create(ctx, content)
	if errors.Is(err, repository.ErrContentExists) {
		// Another request imported it first
		existing, err = repos.Contents.BySource(ctx, in.Source, in.ExternalID)
		if err != nil {
			return nil, false, fmt.Errorf("failed to load raced content: %w", err)
		}
		return existing, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to create content: %w", err)
	}

	slog.Info("content imported", "content_id", content.ID, "source", content.Source, "external_id", content.ExternalID)
	return content, true, nil
}

// enrichMovie fetches supplementary movie fields. Any provider failure
// yields an empty set.
func (s *CatalogService) enrichMovie(ctx context.Context, externalID string) model.Metadata {
	if s.provider == nil {
		return nil
	}

	details, err := s.provider.MovieDetails(ctx, externalID)
	if err != nil {
		slog.Warn("movie enrichment failed, importing without details", "error", err, "external_id", externalID)
		return nil
	}
	if details == nil {
		return nil
	}
	return details.Metadata()
}

func (s *CatalogService) Content(ctx context.Context, contentID string) (*model.Content, error) {
	content, err := s.store.Read().Contents.ByID(ctx, contentID)
	if errors.Is(err, repository.ErrContentNotFound) {
		return nil, notFound(err)
	}
	return content, err
}

// Detail assembles the content page for a viewer.
func (s *CatalogService) Detail(ctx context.Context, viewerID, contentID string) (*model.ContentDetail, error) {
	content, err := s.Content(ctx, contentID)
	if err != nil {
		return nil, err
	}

	repos := s.store.Read()
	detail := &model.ContentDetail{
		Content:  content,
		Metadata: content.Metadata(),
	}

	rating, err := repos.Ratings.ByUserAndContent(ctx, viewerID, content.ID)
	switch {
	case err == nil:
		detail.UserRating = rating
	case !errors.Is(err, repository.ErrRatingNotFound):
		return nil, fmt.Errorf("failed to load rating: %w", err)
	}

	detail.AvgRating, detail.RatingCount, err = repos.Ratings.Average(ctx, content.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load average rating: %w", err)
	}

	detail.Reviews, err = repos.Reviews.ByContent(ctx, content.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load reviews: %w", err)
	}

	lists, err := repos.Lists.ByUser(ctx, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load lists: %w", err)
	}
	detail.UserLists = make([]*model.List, 0, len(lists))
	for _, l := range lists {
		if l.Accepts(content.Type) {
			detail.UserLists = append(detail.UserLists, l)
		}
	}

	detail.MemberOf, err = repos.Lists.ListsContaining(ctx, viewerID, content.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load list membership: %w", err)
	}

	return detail, nil
}

// Search matches titles already in the catalog, case-insensitively.
func (s *CatalogService) Search(ctx context.Context, query string) ([]*model.Content, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []*model.Content{}, nil
	}
	return s.store.Read().Contents.Search(ctx, query, localSearchLimit)
}

// SearchRemote queries the external provider for the content type. Provider
// failures are logged and read as no results.
func (s *CatalogService) SearchRemote(ctx context.Context, contentType model.ContentType, query string) ([]*model.SearchResult, error) {
	if !contentType.Valid() {
		return nil, invalid("type", ErrInvalidContentType)
	}

	empty := []*model.SearchResult{}
	query = strings.TrimSpace(query)
	if query == "" || s.provider == nil {
		return empty, nil
	}

	var results []*model.SearchResult
	var err error
	if contentType == model.ContentTypeMovie {
		results, err = s.provider.SearchMovies(ctx, query)
	} else {
		results, err = s.provider.SearchBooks(ctx, query)
	}
	if err != nil {
		slog.Warn("remote search failed", "error", err, "type", contentType, "query", query)
		return empty, nil
	}
	return results, nil
}
