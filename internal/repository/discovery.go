package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/templui/shelf/internal/model"
)

type DiscoveryRepository interface {
	// Rank orders every content item of the given type by mode. A limit of
	// zero or less returns the full ranking.
	Rank(ctx context.Context, contentType model.ContentType, mode model.DiscoveryMode, limit int) ([]*model.RankedContent, error)
}

type discoveryRepository struct {
	db sqlx.ExtContext
}

func NewDiscoveryRepository(db sqlx.ExtContext) DiscoveryRepository {
	return &discoveryRepository{db: db}
}

// Aggregates are computed per table before joining so one table's rows
// never multiply another's counts.
const rankedContentQuery = `
	SELECT c.*,
	       COALESCE(r.avg_score, 0.0) AS avg_score,
	       COALESCE(r.rating_count, 0) AS rating_count,
	       COALESCE(l.list_count, 0) AS list_count,
	       COALESCE(v.review_count, 0) AS review_count
	FROM contents c
	LEFT JOIN (
		SELECT content_id, AVG(CAST(score AS DOUBLE PRECISION)) AS avg_score, COUNT(*) AS rating_count
		FROM ratings GROUP BY content_id
	) r ON r.content_id = c.id
	LEFT JOIN (
		SELECT content_id, COUNT(DISTINCT list_id) AS list_count
		FROM list_items GROUP BY content_id
	) l ON l.content_id = c.id
	LEFT JOIN (
		SELECT content_id, COUNT(*) AS review_count
		FROM reviews GROUP BY content_id
	) v ON v.content_id = c.id
	WHERE c.type = $1`

var rankOrder = map[model.DiscoveryMode]string{
	model.DiscoveryTopRated: `
	ORDER BY COALESCE(r.avg_score, 0.0) DESC, COALESCE(r.rating_count, 0) DESC, c.title ASC, c.id ASC`,
	model.DiscoveryPopular: `
	ORDER BY COALESCE(l.list_count, 0) + COALESCE(v.review_count, 0) DESC, c.title ASC, c.id ASC`,
}

func (r *discoveryRepository) Rank(ctx context.Context, contentType model.ContentType, mode model.DiscoveryMode, limit int) ([]*model.RankedContent, error) {
	order, ok := rankOrder[mode]
	if !ok {
		return nil, fmt.Errorf("unknown discovery mode %q", mode)
	}

	ranked := []*model.RankedContent{}
	query := rankedContentQuery + order

	var err error
	if limit > 0 {
		err = sqlx.SelectContext(ctx, r.db, &ranked, query+` LIMIT $2`, contentType, limit)
	} else {
		err = sqlx.SelectContext(ctx, r.db, &ranked, query, contentType)
	}
	if err != nil {
		return nil, err
	}
	return ranked, nil
}
