package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/storage"
	"github.com/templui/shelf/internal/validation"
)

var ErrInvalidCurrentPassword = errors.New("current password is incorrect")

type UserService struct {
	store   *repository.Store
	auth    *AuthService
	storage storage.Storage
}

func NewUserService(store *repository.Store, auth *AuthService, storage storage.Storage) *UserService {
	return &UserService{
		store:   store,
		auth:    auth,
		storage: storage,
	}
}

func (s *UserService) ByID(ctx context.Context, id string) (*model.User, error) {
	user, err := s.store.Read().Users.ByID(ctx, id)
	if errors.Is(err, repository.ErrUserNotFound) {
		return nil, notFound(err)
	}
	if err != nil {
		return nil, err
	}
	user.PasswordHash = ""
	return user, nil
}

func (s *UserService) UpdatePassword(ctx context.Context, userID, currentPassword, newPassword string) error {
	repos := s.store.Read()
	user, err := repos.Users.ByID(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return notFound(err)
	}
	if err != nil {
		return fmt.Errorf("failed to get user: %w", err)
	}

	if s.auth.ComparePassword(currentPassword, user.PasswordHash) != nil {
		return invalid("current_password", ErrInvalidCurrentPassword)
	}

	err = validation.ValidatePassword(newPassword)
	if err != nil {
		return invalid("new_password", err)
	}

	hash, err := s.auth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	err = repos.Users.UpdatePassword(ctx, userID, hash)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	slog.Info("password updated", "user_id", userID)
	return nil
}

// DeleteAccount removes the user. Foreign keys cascade the delete to the
// profile, lists, ratings, reviews, activities, likes, comments and follows.
func (s *UserService) DeleteAccount(ctx context.Context, userID string) error {
	repos := s.store.Read()

	profile, err := repos.Profiles.ByUserID(ctx, userID)
	if err != nil && !errors.Is(err, repository.ErrProfileNotFound) {
		slog.Warn("failed to get profile for deletion", "user_id", userID, "error", err)
	}

	err = repos.Users.Delete(ctx, userID)
	if errors.Is(err, repository.ErrUserNotFound) {
		return notFound(err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}

	if profile != nil && profile.AvatarKey != "" && s.storage != nil {
		err = s.storage.Delete(ctx, profile.AvatarKey)
		if err != nil {
			// Orphaned objects are acceptable once the account is gone
			slog.Warn("failed to delete avatar from storage", "user_id", userID, "key", profile.AvatarKey, "error", err)
		}
	}

	slog.Info("account deleted", "user_id", userID)
	return nil
}
