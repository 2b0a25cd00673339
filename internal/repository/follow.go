package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/templui/shelf/internal/model"
)

type FollowRepository interface {
	// Create inserts the edge and reports whether it was new.
	Create(ctx context.Context, followerID, followedID string) (bool, error)
	// Delete removes the edge and reports whether it existed.
	Delete(ctx context.Context, followerID, followedID string) (bool, error)
	Exists(ctx context.Context, followerID, followedID string) (bool, error)
	FollowedIDs(ctx context.Context, followerID string) ([]string, error)
	Followers(ctx context.Context, userID string) ([]*model.UserSummary, error)
	Following(ctx context.Context, userID string) ([]*model.UserSummary, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowing(ctx context.Context, userID string) (int, error)
}

type followRepository struct {
	db sqlx.ExtContext
}

func NewFollowRepository(db sqlx.ExtContext) FollowRepository {
	return &followRepository{db: db}
}

func (r *followRepository) Create(ctx context.Context, followerID, followedID string) (bool, error) {
	query := `INSERT INTO follows (id, follower_id, followed_id, created_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (follower_id, followed_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, newID(), followerID, followedID, now())
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followedID string) (bool, error) {
	query := `DELETE FROM follows WHERE follower_id = $1 AND followed_id = $2`

	result, err := r.db.ExecContext(ctx, query, followerID, followedID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followedID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND followed_id = $2)`
	err := sqlx.GetContext(ctx, r.db, &exists, query, followerID, followedID)
	return exists, err
}

func (r *followRepository) FollowedIDs(ctx context.Context, followerID string) ([]string, error) {
	ids := []string{}
	query := `SELECT followed_id FROM follows WHERE follower_id = $1 ORDER BY created_at ASC`
	err := sqlx.SelectContext(ctx, r.db, &ids, query, followerID)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *followRepository) Followers(ctx context.Context, userID string) ([]*model.UserSummary, error) {
	return r.summaries(ctx, `
		SELECT p.user_id, p.username, p.avatar_url,
		       (SELECT COUNT(*) FROM follows x WHERE x.followed_id = p.user_id) AS follower_count
		FROM follows f
		JOIN profiles p ON p.user_id = f.follower_id
		WHERE f.followed_id = $1
		ORDER BY f.created_at DESC
	`, userID)
}

func (r *followRepository) Following(ctx context.Context, userID string) ([]*model.UserSummary, error) {
	return r.summaries(ctx, `
		SELECT p.user_id, p.username, p.avatar_url,
		       (SELECT COUNT(*) FROM follows x WHERE x.followed_id = p.user_id) AS follower_count
		FROM follows f
		JOIN profiles p ON p.user_id = f.followed_id
		WHERE f.follower_id = $1
		ORDER BY f.created_at DESC
	`, userID)
}

func (r *followRepository) summaries(ctx context.Context, query, userID string) ([]*model.UserSummary, error) {
	users := []*model.UserSummary{}
	err := sqlx.SelectContext(ctx, r.db, &users, query, userID)
	if err != nil {
		return nil, err
	}
	return users, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM follows WHERE followed_id = $1`, userID)
	return count, err
}

func (r *followRepository) CountFollowing(ctx context.Context, userID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID)
	return count, err
}
