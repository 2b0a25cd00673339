package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/shelf/internal/model"
)

var (
	ErrReviewNotFound = errors.New("review not found")
)

type ReviewRepository interface {
	Create(ctx context.Context, review *model.Review) error
	ByID(ctx context.Context, id string) (*model.Review, error)
	ByIDs(ctx context.Context, ids []string) (map[string]*model.Review, error)
	// ByContent lists a content's reviews newest first, with author handles.
	ByContent(ctx context.Context, contentID string) ([]*model.ReviewEntry, error)
	Delete(ctx context.Context, id string) error
}

type reviewRepository struct {
	db sqlx.ExtContext
}

func NewReviewRepository(db sqlx.ExtContext) ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, review *model.Review) error {
	if review.ID == "" {
		review.ID = newID()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now()
	}

	query := `INSERT INTO reviews (id, user_id, content_id, text, created_at)
	          VALUES ($1, $2, $3, $4, $5)`

	_, err := r.db.ExecContext(ctx, query, review.ID, review.UserID, review.ContentID, review.Text, review.CreatedAt)
	return err
}

func (r *reviewRepository) ByID(ctx context.Context, id string) (*model.Review, error) {
	review := &model.Review{}
	err := sqlx.GetContext(ctx, r.db, review, `SELECT * FROM reviews WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrReviewNotFound
	}
	if err != nil {
		return nil, err
	}
	return review, nil
}

func (r *reviewRepository) ByIDs(ctx context.Context, ids []string) (map[string]*model.Review, error) {
	found := make(map[string]*model.Review, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := inQuery(r.db, `SELECT * FROM reviews WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var reviews []*model.Review
	err = sqlx.SelectContext(ctx, r.db, &reviews, query, args...)
	if err != nil {
		return nil, err
	}

	for _, review := range reviews {
		found[review.ID] = review
	}
	return found, nil
}

func (r *reviewRepository) ByContent(ctx context.Context, contentID string) ([]*model.ReviewEntry, error) {
	reviews := []*model.ReviewEntry{}
	query := `SELECT r.*, COALESCE(p.username, '') AS author
	          FROM reviews r
	          LEFT JOIN profiles p ON p.user_id = r.user_id
	          WHERE r.content_id = $1
	          ORDER BY r.created_at DESC, r.id DESC`

	err := sqlx.SelectContext(ctx, r.db, &reviews, query, contentID)
	if err != nil {
		return nil, err
	}
	return reviews, nil
}

func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrReviewNotFound
	}
	return nil
}
