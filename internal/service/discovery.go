package service

import (
	"context"
	"fmt"

	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
)

const DefaultShowcaseLimit = 15

type DiscoveryService struct {
	store         *repository.Store
	showcaseLimit int
}

func NewDiscoveryService(store *repository.Store, showcaseLimit int) *DiscoveryService {
	if showcaseLimit <= 0 {
		showcaseLimit = DefaultShowcaseLimit
	}
	return &DiscoveryService{
		store:         store,
		showcaseLimit: showcaseLimit,
	}
}

// Rank orders every item of a content type by mode. limit <= 0 is uncapped.
func (s *DiscoveryService) Rank(ctx context.Context, contentType model.ContentType, mode model.DiscoveryMode, limit int) ([]*model.RankedContent, error) {
	if !contentType.Valid() {
		return nil, invalid("type", ErrInvalidContentType)
	}
	if !mode.Valid() {
		return nil, invalid("mode", ErrInvalidMode)
	}

	ranked, err := s.store.Read().Discovery.Rank(ctx, contentType, mode, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to rank %s: %w", contentType, err)
	}
	return ranked, nil
}

func (s *DiscoveryService) TopRated(ctx context.Context, contentType model.ContentType, limit int) ([]*model.RankedContent, error) {
	return s.Rank(ctx, contentType, model.DiscoveryTopRated, limit)
}

func (s *DiscoveryService) MostPopular(ctx context.Context, contentType model.ContentType, limit int) ([]*model.RankedContent, error) {
	return s.Rank(ctx, contentType, model.DiscoveryPopular, limit)
}

// Showcase is the capped top rated and most popular rows for the home page.
func (s *DiscoveryService) Showcase(ctx context.Context, contentType model.ContentType) (*model.Showcase, error) {
	topRated, err := s.TopRated(ctx, contentType, s.showcaseLimit)
	if err != nil {
		return nil, err
	}
	popular, err := s.MostPopular(ctx, contentType, s.showcaseLimit)
	if err != nil {
		return nil, err
	}
	return &model.Showcase{
		Type:        contentType,
		TopRated:    topRated,
		MostPopular: popular,
	}, nil
}
