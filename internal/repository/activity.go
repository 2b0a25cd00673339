package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/shelf/internal/model"
)

var (
	ErrActivityNotFound = errors.New("activity not found")
)

type ActivityRepository interface {
	Create(ctx context.Context, activity *model.Activity) error
	ByID(ctx context.Context, id string) (*model.Activity, error)
	// Feed returns activities by any of userIDs, newest first, skipping offset rows.
	Feed(ctx context.Context, userIDs []string, limit, offset int) ([]*model.ActivityEntry, error)
	// FeedBefore returns activities strictly older than cursor in feed order.
	FeedBefore(ctx context.Context, userIDs []string, cursor model.FeedCursor, limit int) ([]*model.ActivityEntry, error)
	CountByUser(ctx context.Context, userID string) (int, error)
}

type activityRepository struct {
	db sqlx.ExtContext
}

func NewActivityRepository(db sqlx.ExtContext) ActivityRepository {
	return &activityRepository{db: db}
}

const activityEntryColumns = `
	SELECT a.*,
	       COALESCE(p.username, '') AS actor,
	       COALESCE(c.title, '') AS content_title,
	       COALESCE(c.type, '') AS content_kind,
	       COALESCE(c.poster_url, '') AS content_poster
	FROM activities a
	LEFT JOIN profiles p ON p.user_id = a.user_id
	LEFT JOIN contents c ON c.id = a.content_id`

func (r *activityRepository) Create(ctx context.Context, activity *model.Activity) error {
	if activity.ID == "" {
		activity.ID = newID()
	}
	if activity.CreatedAt.IsZero() {
		activity.CreatedAt = now()
	}

	query := `INSERT INTO activities (id, user_id, content_id, activity_type, ref_id, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6)`

	_, err := r.db.ExecContext(ctx, query,
		activity.ID,
		activity.UserID,
		activity.ContentID,
		activity.Type,
		activity.RefID,
		activity.CreatedAt,
	)
	return err
}

func (r *activityRepository) ByID(ctx context.Context, id string) (*model.Activity, error) {
	activity := &model.Activity{}
	err := sqlx.GetContext(ctx, r.db, activity, `SELECT * FROM activities WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrActivityNotFound
	}
	if err != nil {
		return nil, err
	}
	return activity, nil
}

func (r *activityRepository) Feed(ctx context.Context, userIDs []string, limit, offset int) ([]*model.ActivityEntry, error) {
	entries := []*model.ActivityEntry{}
	if len(userIDs) == 0 || limit <= 0 {
		return entries, nil
	}
	if offset < 0 {
		offset = 0
	}

	query, args, err := inQuery(r.db, activityEntryColumns+`
		WHERE a.user_id IN (?)
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ? OFFSET ?`, userIDs, limit, offset)
	if err != nil {
		return nil, err
	}

	err = sqlx.SelectContext(ctx, r.db, &entries, query, args...)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *activityRepository) FeedBefore(ctx context.Context, userIDs []string, cursor model.FeedCursor, limit int) ([]*model.ActivityEntry, error) {
	entries := []*model.ActivityEntry{}
	if len(userIDs) == 0 || limit <= 0 {
		return entries, nil
	}

	query, args, err := inQuery(r.db, activityEntryColumns+`
		WHERE a.user_id IN (?)
		  AND (a.created_at < ? OR (a.created_at = ? AND a.id < ?))
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT ?`, userIDs, cursor.CreatedAt, cursor.CreatedAt, cursor.ID, limit)
	if err != nil {
		return nil, err
	}

	err = sqlx.SelectContext(ctx, r.db, &entries, query, args...)
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *activityRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM activities WHERE user_id = $1`, userID)
	return count, err
}
