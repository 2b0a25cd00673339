package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/templui/shelf/internal/model"
)

type LikeRepository interface {
	// Add records the like and reports whether it was new.
	Add(ctx context.Context, activityID, userID string) (bool, error)
	// Remove deletes the like and reports whether one existed.
	Remove(ctx context.Context, activityID, userID string) (bool, error)
	Exists(ctx context.Context, activityID, userID string) (bool, error)
	Count(ctx context.Context, activityID string) (int, error)
	Counts(ctx context.Context, activityIDs []string) (map[string]int, error)
	// LikedBy returns the subset of activityIDs the user has liked.
	LikedBy(ctx context.Context, activityIDs []string, userID string) (map[string]bool, error)
}

type likeRepository struct {
	db sqlx.ExtContext
}

func NewLikeRepository(db sqlx.ExtContext) LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Add(ctx context.Context, activityID, userID string) (bool, error) {
	like := &model.ActivityLike{
		ID:         newID(),
		ActivityID: activityID,
		UserID:     userID,
		CreatedAt:  now(),
	}

	query := `INSERT INTO activity_likes (id, activity_id, user_id, created_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (activity_id, user_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, like.ID, like.ActivityID, like.UserID, like.CreatedAt)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *likeRepository) Remove(ctx context.Context, activityID, userID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM activity_likes WHERE activity_id = $1 AND user_id = $2`, activityID, userID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *likeRepository) Exists(ctx context.Context, activityID, userID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM activity_likes WHERE activity_id = $1 AND user_id = $2)`
	err := sqlx.GetContext(ctx, r.db, &exists, query, activityID, userID)
	return exists, err
}

func (r *likeRepository) Count(ctx context.Context, activityID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM activity_likes WHERE activity_id = $1`, activityID)
	return count, err
}

func (r *likeRepository) Counts(ctx context.Context, activityIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(activityIDs))
	if len(activityIDs) == 0 {
		return counts, nil
	}

	query, args, err := inQuery(r.db, `
		SELECT activity_id, COUNT(*) AS n
		FROM activity_likes
		WHERE activity_id IN (?)
		GROUP BY activity_id`, activityIDs)
	if err != nil {
		return nil, err
	}

	var rows []struct {
		ActivityID string `db:"activity_id"`
		N          int    `db:"n"`
	}
	err = sqlx.SelectContext(ctx, r.db, &rows, query, args...)
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.ActivityID] = row.N
	}
	return counts, nil
}

func (r *likeRepository) LikedBy(ctx context.Context, activityIDs []string, userID string) (map[string]bool, error) {
	liked := make(map[string]bool)
	if len(activityIDs) == 0 || userID == "" {
		return liked, nil
	}

	query, args, err := inQuery(r.db, `
		SELECT activity_id FROM activity_likes
		WHERE user_id = ? AND activity_id IN (?)`, userID, activityIDs)
	if err != nil {
		return nil, err
	}

	var ids []string
	err = sqlx.SelectContext(ctx, r.db, &ids, query, args...)
	if err != nil {
		return nil, err
	}

	for _, id := range ids {
		liked[id] = true
	}
	return liked, nil
}
