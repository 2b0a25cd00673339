package repository

import (
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/templui/shelf/internal/model"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.ActivityComment) error
	// ByActivity lists comments oldest first.
	ByActivity(ctx context.Context, activityID string) ([]*model.ActivityComment, error)
	ByActivities(ctx context.Context, activityIDs []string) (map[string][]*model.ActivityComment, error)
	Count(ctx context.Context, activityID string) (int, error)
}

type commentRepository struct {
	db sqlx.ExtContext
}

func NewCommentRepository(db sqlx.ExtContext) CommentRepository {
	return &commentRepository{db: db}
}

const commentColumns = `
	SELECT m.id, m.activity_id, m.user_id, m.text, m.created_at,
	       COALESCE(p.username, '') AS author
	FROM activity_comments m
	LEFT JOIN profiles p ON p.user_id = m.user_id`

func (r *commentRepository) Create(ctx context.Context, comment *model.ActivityComment) error {
	if comment.ID == "" {
		comment.ID = newID()
	}
	if comment.CreatedAt.IsZero() {
		comment.CreatedAt = now()
	}

	query := `INSERT INTO activity_comments (id, activity_id, user_id, text, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, comment.ID, comment.ActivityID, comment.UserID, comment.Text, comment.CreatedAt)
	return err
}

func (r *commentRepository) ByActivity(ctx context.Context, activityID string) ([]*model.ActivityComment, error) {
	comments := []*model.ActivityComment{}
	query := commentColumns + ` WHERE m.activity_id = $1 ORDER BY m.created_at ASC, m.id ASC`
	err := sqlx.SelectContext(ctx, r.db, &comments, query, activityID)
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) ByActivities(ctx context.Context, activityIDs []string) (map[string][]*model.ActivityComment, error) {
	grouped := make(map[string][]*model.ActivityComment, len(activityIDs))
	if len(activityIDs) == 0 {
		return grouped, nil
	}

	query, args, err := inQuery(r.db, commentColumns+`
		WHERE m.activity_id IN (?)
		ORDER BY m.created_at ASC, m.id ASC`, activityIDs)
	if err != nil {
		return nil, err
	}

	var comments []*model.ActivityComment
	err = sqlx.SelectContext(ctx, r.db, &comments, query, args...)
	if err != nil {
		return nil, err
	}

	for _, c := range comments {
		grouped[c.ActivityID] = append(grouped[c.ActivityID], c)
	}
	return grouped, nil
}

func (r *commentRepository) Count(ctx context.Context, activityID string) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, r.db, &count, `SELECT COUNT(*) FROM activity_comments WHERE activity_id = $1`, activityID)
	return count, err
}
