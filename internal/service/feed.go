package service

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"github.com/templui/shelf/internal/markdown"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
)

const (
	DefaultFeedPageSize    = 16
	DefaultProfilePageSize = 10
	MaxPageSize            = 100

	// MaxPage keeps the row offset of the last page within an int32.
	MaxPage = math.MaxInt32 / MaxPageSize
)

type FeedService struct {
	store           *repository.Store
	renderer        *markdown.Renderer
	feedPageSize    int
	profilePageSize int
}

func NewFeedService(store *repository.Store, renderer *markdown.Renderer, feedPageSize, profilePageSize int) *FeedService {
	if renderer == nil {
		renderer = markdown.NewRenderer()
	}
	if feedPageSize <= 0 {
		feedPageSize = DefaultFeedPageSize
	}
	if profilePageSize <= 0 {
		profilePageSize = DefaultProfilePageSize
	}
	return &FeedService{
		store:           store,
		renderer:        renderer,
		feedPageSize:    feedPageSize,
		profilePageSize: profilePageSize,
	}
}

func (s *FeedService) PageSize() int {
	return s.feedPageSize
}

// Compose returns page p (1-based) of the viewer's feed: the viewer's own
// activity plus that of everyone they follow, newest first.
func (s *FeedService) Compose(ctx context.Context, viewerID string, page, pageSize int) (*model.FeedPage, error) {
	repos := s.store.Read()
	scope, err := followedIDs(ctx, repos, viewerID)
	if err != nil {
		return nil, err
	}
	return s.page(ctx, repos, viewerID, scope, page, s.clampSize(pageSize, s.feedPageSize))
}

// ComposeAfter continues the feed after the position encoded in token. An
// empty token starts from the newest activity.
func (s *FeedService) ComposeAfter(ctx context.Context, viewerID, token string, pageSize int) (*model.FeedPage, error) {
	repos := s.store.Read()
	scope, err := followedIDs(ctx, repos, viewerID)
	if err != nil {
		return nil, err
	}

	size := s.clampSize(pageSize, s.feedPageSize)
	if token == "" {
		return s.page(ctx, repos, viewerID, scope, 1, size)
	}

	cursor, err := model.DecodeCursor(token)
	if err != nil {
		return nil, invalid("cursor", err)
	}

	entries, err := repos.Activities.FeedBefore(ctx, scope, cursor, size+1)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	return s.assemble(ctx, repos, viewerID, entries, size, 0)
}

// UserActivities is one user's own ledger, paged by the profile page size.
func (s *FeedService) UserActivities(ctx context.Context, viewerID, userID string, page int) (*model.FeedPage, error) {
	return s.page(ctx, s.store.Read(), viewerID, []string{userID}, page, s.profilePageSize)
}

func (s *FeedService) clampSize(size, fallback int) int {
	if size <= 0 {
		return fallback
	}
	return min(size, MaxPageSize)
}

func (s *FeedService) page(ctx context.Context, repos *repository.UnitOfWork, viewerID string, scope []string, page, size int) (*model.FeedPage, error) {
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		return nil, invalid("page", ErrPageOutOfRange)
	}

	entries, err := repos.Activities.Feed(ctx, scope, size+1, (page-1)*size)
	if err != nil {
		return nil, fmt.Errorf("failed to load feed: %w", err)
	}
	return s.assemble(ctx, repos, viewerID, entries, size, page)
}

// assemble trims the look-ahead row, builds the cards and fills the paging
// fields. page is 0 for cursor requests.
func (s *FeedService) assemble(ctx context.Context, repos *repository.UnitOfWork, viewerID string, entries []*model.ActivityEntry, size, page int) (*model.FeedPage, error) {
	hasMore := len(entries) > size
	if hasMore {
		entries = entries[:size]
	}

	cards, err := s.buildCards(ctx, repos, viewerID, entries)
	if err != nil {
		return nil, err
	}

	result := &model.FeedPage{
		Cards:   cards,
		Page:    page,
		HasMore: hasMore,
	}
	if hasMore {
		if page > 0 {
			result.NextPage = page + 1
		}
		last := entries[len(entries)-1]
		result.NextCursor = model.CursorFor(&last.Activity).Encode()
	}
	return result, nil
}

// buildCards resolves each entry's reference and joins likes and comments.
// A reference that cannot be resolved marks its card unavailable.
func (s *FeedService) buildCards(ctx context.Context, repos *repository.UnitOfWork, viewerID string, entries []*model.ActivityEntry) ([]*model.ActivityCard, error) {
	cards := make([]*model.ActivityCard, 0, len(entries))
	if len(entries) == 0 {
		return cards, nil
	}

	activityIDs := make([]string, 0, len(entries))
	var ratingIDs, reviewIDs, itemIDs []string
	refs := make(map[string]model.ActivityRef, len(entries))

	for _, e := range entries {
		activityIDs = append(activityIDs, e.ID)

		ref, err := e.Ref()
		if err != nil {
			slog.Warn("skipping unreadable activity reference", "error", err, "activity_id", e.ID)
			continue
		}
		refs[e.ID] = ref

		switch r := ref.(type) {
		case model.RatingRef:
			ratingIDs = append(ratingIDs, r.ID)
		case model.ReviewRef:
			reviewIDs = append(reviewIDs, r.ID)
		case model.ListItemRef:
			itemIDs = append(itemIDs, r.ID)
		}
	}

	ratings, err := repos.Ratings.ByIDs(ctx, ratingIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve ratings: %w", err)
	}
	reviews, err := repos.Reviews.ByIDs(ctx, reviewIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve reviews: %w", err)
	}
	items, err := repos.Lists.ItemsByIDs(ctx, itemIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve list items: %w", err)
	}

	likeCounts, err := repos.Likes.Counts(ctx, activityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to count likes: %w", err)
	}
	liked, err := repos.Likes.LikedBy(ctx, activityIDs, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to load viewer likes: %w", err)
	}
	comments, err := repos.Comments.ByActivities(ctx, activityIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load comments: %w", err)
	}

	for _, e := range entries {
		card := &model.ActivityCard{
			ActivityEntry: *e,
			LikeCount:     likeCounts[e.ID],
			Liked:         liked[e.ID],
			Comments:      comments[e.ID],
		}
		if card.Comments == nil {
			card.Comments = []*model.ActivityComment{}
		}

		switch r := refs[e.ID].(type) {
		case model.RatingRef:
			card.Rating = ratings[r.ID]
			card.Unavailable = card.Rating == nil
		case model.ReviewRef:
			card.Review = reviews[r.ID]
			card.Unavailable = card.Review == nil
			if card.Review != nil {
				card.ReviewHTML = s.renderReview(card.Review)
			}
		case model.ListItemRef:
			card.ListItem = items[r.ID]
			card.Unavailable = card.ListItem == nil
		default:
			card.Unavailable = true
		}

		cards = append(cards, card)
	}
	return cards, nil
}

func (s *FeedService) renderReview(review *model.Review) string {
	html, err := s.renderer.Render(review.Text)
	if err != nil {
		slog.Warn("failed to render review", "error", err, "review_id", review.ID)
		return ""
	}
	return html
}
