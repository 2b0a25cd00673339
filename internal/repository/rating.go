package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/shelf/internal/model"
)

var (
	ErrRatingNotFound = errors.New("rating not found")
)

type RatingRepository interface {
	// Upsert stores the user's score for the content. An existing rating is
	// updated in place and keeps its id; the stored row is returned.
	Upsert(ctx context.Context, userID, contentID string, score int) (*model.Rating, error)
	ByID(ctx context.Context, id string) (*model.Rating, error)
	ByIDs(ctx context.Context, ids []string) (map[string]*model.Rating, error)
	ByUserAndContent(ctx context.Context, userID, contentID string) (*model.Rating, error)
	// Average returns the mean score and rating count for a content item.
	// An unrated item averages 0.
	Average(ctx context.Context, contentID string) (float64, int, error)
	Delete(ctx context.Context, id string) error
}

type ratingRepository struct {
	db sqlx.ExtContext
}

func NewRatingRepository(db sqlx.ExtContext) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Upsert(ctx context.Context, userID, contentID string, score int) (*model.Rating, error) {
	ts := now()
	rating := &model.Rating{}

	// A concurrent first rating loses the insert race and becomes an update.
	query := `INSERT INTO ratings (id, user_id, content_id, score, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6)
	          ON CONFLICT (user_id, content_id)
	          DO UPDATE SET score = excluded.score, updated_at = excluded.updated_at
	          RETURNING *`

	err := sqlx.GetContext(ctx, r.db, rating, query, newID(), userID, contentID, score, ts, ts)
	if err != nil {
		return nil, err
	}

	return rating, nil
}

func (r *ratingRepository) ByID(ctx context.Context, id string) (*model.Rating, error) {
	rating := &model.Rating{}
	err := sqlx.GetContext(ctx, r.db, rating, `SELECT * FROM ratings WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	return rating, nil
}

func (r *ratingRepository) ByIDs(ctx context.Context, ids []string) (map[string]*model.Rating, error) {
	found := make(map[string]*model.Rating, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := inQuery(r.db, `SELECT * FROM ratings WHERE id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var ratings []*model.Rating
	err = sqlx.SelectContext(ctx, r.db, &ratings, query, args...)
	if err != nil {
		return nil, err
	}

	for _, rating := range ratings {
		found[rating.ID] = rating
	}
	return found, nil
}

func (r *ratingRepository) ByUserAndContent(ctx context.Context, userID, contentID string) (*model.Rating, error) {
	rating := &model.Rating{}
	query := `SELECT * FROM ratings WHERE user_id = $1 AND content_id = $2`

	err := sqlx.GetContext(ctx, r.db, rating, query, userID, contentID)
	if err == sql.ErrNoRows {
		return nil, ErrRatingNotFound
	}
	if err != nil {
		return nil, err
	}
	return rating, nil
}

func (r *ratingRepository) Average(ctx context.Context, contentID string) (float64, int, error) {
	var row struct {
		Avg   float64 `db:"avg_score"`
		Count int     `db:"rating_count"`
	}
	query := `SELECT COALESCE(AVG(CAST(score AS DOUBLE PRECISION)), 0.0) AS avg_score, COUNT(*) AS rating_count
	          FROM ratings WHERE content_id = $1`

	err := sqlx.GetContext(ctx, r.db, &row, query, contentID)
	if err != nil {
		return 0, 0, err
	}
	return row.Avg, row.Count, nil
}

func (r *ratingRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM ratings WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrRatingNotFound
	}
	return nil
}
