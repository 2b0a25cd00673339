package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"strings"

	"github.com/google/uuid"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/storage"
	"github.com/templui/shelf/internal/validation"
)

// ShelfSize is how many recent items each default shelf shows on a profile.
const ShelfSize = 20

// ProfileInput is a partial profile edit. Nil fields are left unchanged.
type ProfileInput struct {
	Username  *string `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type ProfileService struct {
	store   *repository.Store
	feed    *FeedService
	storage storage.Storage
}

// NewProfileService wires profile pages. storage may be nil, which disables
// avatar uploads.
func NewProfileService(store *repository.Store, feed *FeedService, storage storage.Storage) *ProfileService {
	return &ProfileService{
		store:   store,
		feed:    feed,
		storage: storage,
	}
}

func (s *ProfileService) ByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.store.Read().Profiles.ByUserID(ctx, userID)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, notFound(err)
	}
	if err != nil {
		return nil, err
	}
	s.resolveAvatar(ctx, profile)
	return profile, nil
}

func (s *ProfileService) ByUsername(ctx context.Context, username string) (*model.Profile, error) {
	profile, err := s.store.Read().Profiles.ByUsername(ctx, validation.NormalizeUsername(username))
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, notFound(err)
	}
	if err != nil {
		return nil, err
	}
	s.resolveAvatar(ctx, profile)
	return profile, nil
}

// View assembles a profile page as seen by viewerID.
func (s *ProfileService) View(ctx context.Context, viewerID, username string, page int) (*model.ProfileView, error) {
	profile, err := s.ByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	repos := s.store.Read()
	view := &model.ProfileView{
		Profile: profile,
		IsOwner: profile.UserID == viewerID,
		Shelves: make(map[model.ListSlot][]*model.ListEntry, len(model.DefaultSlots)),
	}

	view.FollowerCount, err = repos.Follows.CountFollowers(ctx, profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count followers: %w", err)
	}
	view.FollowingCount, err = repos.Follows.CountFollowing(ctx, profile.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to count following: %w", err)
	}
	if !view.IsOwner {
		view.IsFollowing, err = repos.Follows.Exists(ctx, viewerID, profile.UserID)
		if err != nil {
			return nil, fmt.Errorf("failed to check follow: %w", err)
		}
	}

	view.Activities, err = s.feed.UserActivities(ctx, viewerID, profile.UserID, page)
	if err != nil {
		return nil, err
	}

	for _, slot := range model.DefaultSlots {
		entries := []*model.ListEntry{}
		list, err := repos.Lists.BySlot(ctx, profile.UserID, slot)
		switch {
		case errors.Is(err, repository.ErrListNotFound):
		case err != nil:
			return nil, fmt.Errorf("failed to load %s shelf: %w", slot, err)
		default:
			entries, err = repos.Lists.Items(ctx, list.ID, ShelfSize)
			if err != nil {
				return nil, fmt.Errorf("failed to load %s shelf: %w", slot, err)
			}
		}
		view.Shelves[slot] = entries
	}

	return view, nil
}

// Update applies a partial edit. A taken username is a conflict.
func (s *ProfileService) Update(ctx context.Context, userID string, in ProfileInput) (*model.Profile, error) {
	var staleKey string

	var profile *model.Profile
	err := s.store.Do(ctx, func(uow *repository.UnitOfWork) error {
		var err error
		profile, err = uow.Profiles.ByUserID(ctx, userID)
		if errors.Is(err, repository.ErrProfileNotFound) {
			return notFound(err)
		}
		if err != nil {
			return err
		}

		if in.Username != nil {
			username := validation.NormalizeUsername(*in.Username)
			err = validation.ValidateUsername(username)
			if err != nil {
				return invalid("username", err)
			}
			profile.Username = username
		}

		if in.Bio != nil {
			bio := strings.TrimSpace(*in.Bio)
			if bio != "" {
				bio, err = validation.CleanText(bio, validation.MaxBioLength)
				if err != nil && !errors.Is(err, validation.ErrTextRequired) {
					return invalid("bio", err)
				}
			}
			profile.Bio = bio
		}

		if in.AvatarURL != nil {
			avatarURL := strings.TrimSpace(*in.AvatarURL)
			err = validation.Var("avatar_url", avatarURL, "omitempty,url,max=1000")
			if err != nil {
				return validationError("avatar_url", err)
			}
			staleKey = profile.AvatarKey
			profile.AvatarURL = avatarURL
			profile.AvatarKey = ""
		}

		err = uow.Profiles.Update(ctx, profile)
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return conflict("username", err)
		}
		return err
	})
	if err != nil {
		return nil, err
	}

	s.deleteAvatar(ctx, staleKey)
	s.resolveAvatar(ctx, profile)
	slog.Info("profile updated", "user_id", userID, "username", profile.Username)
	return profile, nil
}

// UploadAvatar stores a new avatar image and points the profile at it. The
// previous upload, if any, is removed afterwards.
func (s *ProfileService) UploadAvatar(ctx context.Context, userID string, header *multipart.FileHeader) (*model.Profile, error) {
	if s.storage == nil {
		return nil, invalid("avatar", ErrUploadsDisabled)
	}

	contentType, ext, err := validation.ValidateAvatar(header)
	if err != nil {
		return nil, validationError("avatar", err)
	}

	file, err := header.Open()
	if err != nil {
		return nil, invalid("avatar", err)
	}
	defer func() { _ = file.Close() }()

	key := fmt.Sprintf("avatars/%s%s", uuid.New().String(), ext)
	err = s.storage.Save(ctx, key, file, contentType)
	if err != nil {
		return nil, fmt.Errorf("failed to save avatar: %w", err)
	}

	var staleKey string
	var profile *model.Profile
	err = s.store.Do(ctx, func(uow *repository.UnitOfWork) error {
		var err error
		profile, err = uow.Profiles.ByUserID(ctx, userID)
		if errors.Is(err, repository.ErrProfileNotFound) {
			return notFound(err)
		}
		if err != nil {
			return err
		}

		staleKey = profile.AvatarKey
		profile.AvatarKey = key
		profile.AvatarURL = s.storage.URL(ctx, key)
		return uow.Profiles.Update(ctx, profile)
	})
	if err != nil {
		s.deleteAvatar(ctx, key)
		return nil, fmt.Errorf("failed to update avatar: %w", err)
	}

	s.deleteAvatar(ctx, staleKey)
	slog.Info("avatar uploaded", "user_id", userID, "key", key)
	return profile, nil
}

// resolveAvatar refreshes the URL of an uploaded avatar, whose stored URL
// may be a presigned link that has expired.
func (s *ProfileService) resolveAvatar(ctx context.Context, profile *model.Profile) {
	if s.storage == nil || profile.AvatarKey == "" {
		return
	}
	profile.AvatarURL = s.storage.URL(ctx, profile.AvatarKey)
}

func (s *ProfileService) deleteAvatar(ctx context.Context, key string) {
	if s.storage == nil || key == "" {
		return
	}
	err := s.storage.Delete(ctx, key)
	if err != nil {
		slog.Warn("failed to delete avatar from storage", "error", err, "key", key)
	}
}
