package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/templui/shelf/internal/metrics"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/validation"
)

type EngagementService struct {
	store   *repository.Store
	metrics metrics.Recorder
}

func NewEngagementService(store *repository.Store, rec metrics.Recorder) *EngagementService {
	if rec == nil {
		rec = metrics.Nop{}
	}
	return &EngagementService{
		store:   store,
		metrics: rec,
	}
}

// ToggleLike flips the user's like on an activity and returns the new state
// with the recounted total.
func (s *EngagementService) ToggleLike(ctx context.Context, activityID, userID string) (*model.LikeState, error) {
	state := &model.LikeState{ActivityID: activityID}

	err := s.store.Do(ctx, func(uow *repository.UnitOfWork) error {
		err := requireActivity(ctx, uow, activityID)
		if err != nil {
			return err
		}

		removed, err := uow.Likes.Remove(ctx, activityID, userID)
		if err != nil {
			return fmt.Errorf("failed to unlike: %w", err)
		}
		if !removed {
			_, err = uow.Likes.Add(ctx, activityID, userID)
			if err != nil {
				return fmt.Errorf("failed to like: %w", err)
			}
		}
		state.Liked = !removed

		state.LikeCount, err = uow.Likes.Count(ctx, activityID)
		return err
	})
	if err != nil {
		return nil, err
	}

	if state.Liked {
		s.metrics.RecordEngagement("like")
	} else {
		s.metrics.RecordEngagement("unlike")
	}
	return state, nil
}

// AddComment appends a comment and returns the whole thread, oldest first.
func (s *EngagementService) AddComment(ctx context.Context, activityID, userID, text string) (*model.CommentThread, error) {
	text, err := validation.CleanText(text, validation.MaxCommentLength)
	if err != nil {
		return nil, invalid("text", err)
	}

	thread := &model.CommentThread{ActivityID: activityID}
	err = s.store.Do(ctx, func(uow *repository.UnitOfWork) error {
		err := requireActivity(ctx, uow, activityID)
		if err != nil {
			return err
		}

		err = uow.Comments.Create(ctx, &model.ActivityComment{
			ActivityID: activityID,
			UserID:     userID,
			Text:       text,
		})
		if err != nil {
			return fmt.Errorf("failed to save comment: %w", err)
		}

		thread.Comments, err = uow.Comments.ByActivity(ctx, activityID)
		if err != nil {
			return fmt.Errorf("failed to load comments: %w", err)
		}
		thread.CommentCount = len(thread.Comments)
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.RecordEngagement("comment")
	return thread, nil
}

// Comments returns an activity's thread without modifying it.
func (s *EngagementService) Comments(ctx context.Context, activityID string) (*model.CommentThread, error) {
	repos := s.store.Read()
	err := requireActivity(ctx, repos, activityID)
	if err != nil {
		return nil, err
	}

	comments, err := repos.Comments.ByActivity(ctx, activityID)
	if err != nil {
		return nil, err
	}
	return &model.CommentThread{
		ActivityID:   activityID,
		Comments:     comments,
		CommentCount: len(comments),
	}, nil
}

func requireActivity(ctx context.Context, uow *repository.UnitOfWork, activityID string) error {
	_, err := uow.Activities.ByID(ctx, activityID)
	if errors.Is(err, repository.ErrActivityNotFound) {
		return notFound(err)
	}
	return err
}
