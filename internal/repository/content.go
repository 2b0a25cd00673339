package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/templui/shelf/internal/model"
)

var (
	ErrContentNotFound = errors.New("content not found")
	ErrContentExists   = errors.New("content already imported")
)

type ContentRepository interface {
	// Create inserts new content. It returns ErrContentExists when the
	// (source, external_id) pair is already taken.
	Create(ctx context.Context, content *model.Content) error
	ByID(ctx context.Context, id string) (*model.Content, error)
	BySource(ctx context.Context, source, externalID string) (*model.Content, error)
	Search(ctx context.Context, title string, limit int) ([]*model.Content, error)
}

type contentRepository struct {
	db sqlx.ExtContext
}

func NewContentRepository(db sqlx.ExtContext) ContentRepository {
	return &contentRepository{db: db}
}

func (r *contentRepository) Create(ctx context.Context, content *model.Content) error {
	if content.ID == "" {
		content.ID = newID()
	}
	if content.CreatedAt.IsZero() {
		content.CreatedAt = now()
	}
	if content.MetaJSON == "" {
		content.MetaJSON = "{}"
	}

	query := `INSERT INTO contents (id, source, external_id, type, title, year, poster_url, meta_json, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          ON CONFLICT (source, external_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query,
		content.ID,
		content.Source,
		content.ExternalID,
		content.Type,
		content.Title,
		content.Year,
		content.PosterURL,
		content.MetaJSON,
		content.CreatedAt,
	)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrContentExists
	}

	return nil
}

func (r *contentRepository) ByID(ctx context.Context, id string) (*model.Content, error) {
	content := &model.Content{}
	err := sqlx.GetContext(ctx, r.db, content, `SELECT * FROM contents WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}

	return content, nil
}

func (r *contentRepository) BySource(ctx context.Context, source, externalID string) (*model.Content, error) {
	content := &model.Content{}
	query := `SELECT * FROM contents WHERE external_id = $1 AND source = $2`

	err := sqlx.GetContext(ctx, r.db, content, query, externalID, source)
	if err == sql.ErrNoRows {
		return nil, ErrContentNotFound
	}
	if err != nil {
		return nil, err
	}

	return content, nil
}

func (r *contentRepository) Search(ctx context.Context, title string, limit int) ([]*model.Content, error) {
	contents := []*model.Content{}
	query := `SELECT * FROM contents
	          WHERE LOWER(title) LIKE $1 ESCAPE '\'
	          ORDER BY title ASC
	          LIMIT $2`

	pattern := "%" + escapeLike(strings.ToLower(title)) + "%"
	err := sqlx.SelectContext(ctx, r.db, &contents, query, pattern, limit)
	if err != nil {
		return nil, err
	}

	return contents, nil
}
