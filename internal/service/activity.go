package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/templui/shelf/internal/metrics"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/validation"
)

// ActivityService owns the catalog mutators. Each one writes its primary row
// and the matching ledger entry in a single transaction.
type ActivityService struct {
	store   *repository.Store
	metrics metrics.Recorder
}

func NewActivityService(store *repository.Store, rec metrics.Recorder) *ActivityService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &ActivityService{
		store:   store,
		metrics: rec,
	}
}

// RateResult is a rating together with the activity it produced.
type RateResult struct {
	Rating   *model.Rating   `json:"rating"`
	Activity *model.Activity `json:"activity"`
}

type ReviewResult struct {
	Review   *model.Review   `json:"review"`
	Activity *model.Activity `json:"activity"`
}

// RateRaw parses score from form input before rating.
func (s *ActivityService) RateRaw(ctx context.Context, userID, contentID, raw string) (*RateResult, error) {
	score, err := validation.ParseScore(raw)
	if err != nil {
		return nil, invalid("score", err)
	}
	return s.Rate(ctx, userID, contentID, score)
}

// Rate sets the user's score for a content item. A second rating updates the
// same row, so every rating activity for the pair points at one rating id.
func (s *ActivityService) Rate(ctx context.Context, userID, contentID string, score int) (*RateResult, error) {
	err := validation.ValidateScore(score)
	if err != nil {
		return nil, invalid("score", err)
	}

	result := &RateResult{}
	err = s.store.Do(ctx, func(uow *repository.UnitOfWork) error {
		err := requireContent(ctx, uow, contentID)
		if err != nil {
			return err
		}

		rating, err := uow.Ratings.Upsert(ctx, userID, contentID, score)
		if err != nil {
			return fmt.Errorf("failed to save rating: %w", err)
		}

		activity, err := appendActivity(ctx, uow, userID, contentID, model.RatingRef{ID: rating.ID})
		if err != nil {
			return err
		}

		result.Rating = rating
		result.Activity = activity
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordActivity(string(model.ActivityTypeRating))
	slog.Info("content rated", "user_id", userID, "content_id", contentID, "score", score)
	return result, nil
}

// Review always inserts a new review. Earlier reviews by the same user stay.
func (s *ActivityService) Review(ctx context.Context, userID, contentID, text string) (*ReviewResult, error) {
	text, err := validation.CleanText(text, validation.MaxReviewLength)
	if err != nil {
		return nil, invalid("text", err)
	}

	result := &ReviewResult{}
	err = s.store.Do(ctx, func(uow *repository.UnitOfWork) error {
		err := requireContent(ctx, uow, contentID)
		if err != nil {
			return err
		}

		review := &model.Review{
			UserID:    userID,
			ContentID: contentID,
			Text:      text,
		}
		err = uow.Reviews.Create(ctx, review)
		if err != nil {
			return fmt.Errorf("failed to save review: %w", err)
		}

		activity, err := appendActivity(ctx, uow, userID, contentID, model.ReviewRef{ID: review.ID})
		if err != nil {
			return err
		}

		result.Review = review
		result.Activity = activity
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordActivity(string(model.ActivityTypeReview))
	slog.Info("content reviewed", "user_id", userID, "content_id", contentID, "review_id", result.Review.ID)
	return result, nil
}

// ToggleListItem removes content from the list when present, silently, and
// otherwise adds it with a list_add activity.
func (s *ActivityService) ToggleListItem(ctx context.Context, userID, listID, contentID string) (*model.ListToggle, error) {
	toggle := &model.ListToggle{
		ListID:    listID,
		ContentID: contentID,
	}

	err := s.store.Do(ctx, func(uow *repository.UnitOfWork) error {
		list, err := uow.Lists.ByID(ctx, listID)
		if errors.Is(err, repository.ErrListNotFound) {
			return notFound(err)
		}
		if err != nil {
			return err
		}
		if list.UserID != userID {
			return forbidden(ErrListNotOwned)
		}

		content, err := uow.Contents.ByID(ctx, contentID)
		if errors.Is(err, repository.ErrContentNotFound) {
			return notFound(err)
		}
		if err != nil {
			return err
		}
		if !list.Accepts(content.Type) {
			return invalid("content_id", ErrListTypeMismatch)
		}

		removed, err := uow.Lists.RemoveItem(ctx, listID, contentID)
		if err != nil {
			return fmt.Errorf("failed to remove list item: %w", err)
		}
		if removed {
			toggle.Member = false
			return nil
		}

		item := &model.ListItem{
			ListID:    listID,
			ContentID: contentID,
		}
		added, err := uow.Lists.AddItem(ctx, item)
		if err != nil {
			return fmt.Errorf("failed to add list item: %w", err)
		}
		toggle.Member = true
		if !added {
			// A concurrent toggle inserted the item first
			return nil
		}

		activity, err := appendActivity(ctx, uow, userID, contentID, model.ListItemRef{ID: item.ID})
		if err != nil {
			return err
		}

		toggle.Item = item
		toggle.Activity = activity
		return nil
	})
	if err != nil {
		return nil, err
	}

	if toggle.Activity != nil {
		s.metrics.RecordActivity(string(model.ActivityTypeListAdd))
	}
	slog.Info("list item toggled", "user_id", userID, "list_id", listID, "content_id", contentID, "member", toggle.Member)
	return toggle, nil
}

func requireContent(ctx context.Context, uow *repository.UnitOfWork, contentID string) error {
	_, err := uow.Contents.ByID(ctx, contentID)
	if errors.Is(err, repository.ErrContentNotFound) {
		return notFound(err)
	}
	return err
}

func appendActivity(ctx context.Context, uow *repository.UnitOfWork, userID, contentID string, ref model.ActivityRef) (*model.Activity, error) {
	activity := model.NewActivity("", userID, contentID, ref, time.Time{})
	err := uow.Activities.Create(ctx, activity)
	if err != nil {
		return nil, fmt.Errorf("failed to append %s activity: %w", ref.ActivityType(), err)
	}
	return activity, nil
}
