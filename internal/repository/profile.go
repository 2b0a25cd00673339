package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
	"github.com/templui/shelf/internal/model"
)

type ProfileRepository interface {
	Create(ctx context.Context, profile *model.Profile) error
	ByUserID(ctx context.Context, userID string) (*model.Profile, error)
	ByUsername(ctx context.Context, username string) (*model.Profile, error)
	Update(ctx context.Context, profile *model.Profile) error
	// Popular ranks users by follower count, optionally filtered by a handle substring.
	Popular(ctx context.Context, query string, limit int) ([]*model.UserSummary, error)
}

type profileRepository struct {
	db sqlx.ExtContext
}

func NewProfileRepository(db sqlx.ExtContext) ProfileRepository {
	return &profileRepository{db: db}
}

func (r *profileRepository) Create(ctx context.Context, profile *model.Profile) error {
	if profile.ID == "" {
		profile.ID = newID()
	}
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now()
	}
	if profile.UpdatedAt.IsZero() {
		profile.UpdatedAt = profile.CreatedAt
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO profiles (id, user_id, username, bio, avatar_url, avatar_key, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, profile.ID, profile.UserID, profile.Username, profile.Bio, profile.AvatarURL, profile.AvatarKey, profile.CreatedAt, profile.UpdatedAt)
	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}

	return err
}

func (r *profileRepository) ByUserID(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := sqlx.GetContext(ctx, r.db, &profile, `SELECT * FROM profiles WHERE user_id = $1`, userID)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) ByUsername(ctx context.Context, username string) (*model.Profile, error) {
	var profile model.Profile
	err := sqlx.GetContext(ctx, r.db, &profile, `SELECT * FROM profiles WHERE username = $1`, username)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepository) Update(ctx context.Context, profile *model.Profile) error {
	profile.UpdatedAt = now()
	result, err := r.db.ExecContext(ctx, `
		UPDATE profiles
		SET username = $1, bio = $2, avatar_url = $3, avatar_key = $4, updated_at = $5
		WHERE user_id = $6
	`, profile.Username, profile.Bio, profile.AvatarURL, profile.AvatarKey, profile.UpdatedAt, profile.UserID)

	if isUniqueViolation(err) {
		return ErrDuplicateUsername
	}
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}

func (r *profileRepository) Popular(ctx context.Context, query string, limit int) ([]*model.UserSummary, error) {
	users := []*model.UserSummary{}
	err := sqlx.SelectContext(ctx, r.db, &users, `
		SELECT p.user_id, p.username, p.avatar_url, COUNT(f.id) AS follower_count
		FROM profiles p
		LEFT JOIN follows f ON f.followed_id = p.user_id
		WHERE p.username LIKE $1 ESCAPE '\'
		GROUP BY p.user_id, p.username, p.avatar_url
		ORDER BY follower_count DESC, p.username ASC
		LIMIT $2
	`, "%"+escapeLike(query)+"%", limit)
	if err != nil {
		return nil, err
	}

	return users, nil
}
