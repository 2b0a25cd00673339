package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/validation"
)

// PopularUsersLimit is how many users the popular sidebar shows.
const PopularUsersLimit = 10

type SocialService struct {
	store *repository.Store
}

func NewSocialService(store *repository.Store) *SocialService {
	return &SocialService{store: store}
}

// Follow adds the edge follower -> followed. Following someone twice is a no-op.
func (s *SocialService) Follow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return forbidden(ErrSelfFollow)
	}

	return s.store.Do(ctx, func(uow *repository.UnitOfWork) error {
		_, err := uow.Users.ByID(ctx, followedID)
		if errors.Is(err, repository.ErrUserNotFound) {
			return notFound(err)
		}
		if err != nil {
			return err
		}

		created, err := uow.Follows.Create(ctx, followerID, followedID)
		if err != nil {
			return fmt.Errorf("failed to follow: %w", err)
		}
		if created {
			slog.Info("user followed", "follower_id", followerID, "followed_id", followedID)
		}
		return nil
	})
}

// Unfollow removes the edge if present.
func (s *SocialService) Unfollow(ctx context.Context, followerID, followedID string) error {
	if followerID == followedID {
		return forbidden(ErrSelfUnfollow)
	}

	_, err := s.store.Read().Follows.Delete(ctx, followerID, followedID)
	if err != nil {
		return fmt.Errorf("failed to unfollow: %w", err)
	}
	return nil
}

func (s *SocialService) IsFollowing(ctx context.Context, followerID, followedID string) (bool, error) {
	return s.store.Read().Follows.Exists(ctx, followerID, followedID)
}

// FollowedIDs is the feed scope of a user: itself plus everyone it follows.
func (s *SocialService) FollowedIDs(ctx context.Context, userID string) ([]string, error) {
	return followedIDs(ctx, s.store.Read(), userID)
}

func followedIDs(ctx context.Context, repos *repository.UnitOfWork, userID string) ([]string, error) {
	followed, err := repos.Follows.FollowedIDs(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load followed users: %w", err)
	}

	ids := make([]string, 0, len(followed)+1)
	ids = append(ids, userID)
	for _, id := range followed {
		if id != userID {
			ids = append(ids, id)
		}
	}
	return ids, nil
}

func (s *SocialService) Followers(ctx context.Context, username string) ([]*model.UserSummary, error) {
	profile, err := s.profile(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.store.Read().Follows.Followers(ctx, profile.UserID)
}

func (s *SocialService) Following(ctx context.Context, username string) ([]*model.UserSummary, error) {
	profile, err := s.profile(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.store.Read().Follows.Following(ctx, profile.UserID)
}

// Popular lists the most followed users whose handle contains query.
func (s *SocialService) Popular(ctx context.Context, query string) ([]*model.UserSummary, error) {
	return s.store.Read().Profiles.Popular(ctx, validation.NormalizeUsername(query), PopularUsersLimit)
}

func (s *SocialService) profile(ctx context.Context, username string) (*model.Profile, error) {
	profile, err := s.store.Read().Profiles.ByUsername(ctx, validation.NormalizeUsername(username))
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, notFound(err)
	}
	if err != nil {
		return nil, err
	}
	return profile, nil
}
