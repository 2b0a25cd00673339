package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/templui/shelf/internal/model"
)

var (
	ErrListNotFound     = errors.New("list not found")
	ErrListItemNotFound = errors.New("list item not found")
	ErrDuplicateSlot    = errors.New("user already has a list for this slot")
)

type ListRepository interface {
	Create(ctx context.Context, list *model.List) error
	ByID(ctx context.Context, id string) (*model.List, error)
	ByUser(ctx context.Context, userID string) ([]*model.List, error)
	ByUserAndType(ctx context.Context, userID string, listType model.ListType) ([]*model.List, error)
	BySlot(ctx context.Context, userID string, slot model.ListSlot) (*model.List, error)

	// AddItem inserts the membership and reports whether it was new. A row
	// that already exists (including one inserted by a concurrent request)
	// yields false and leaves item untouched.
	AddItem(ctx context.Context, item *model.ListItem) (bool, error)
	// RemoveItem deletes the membership and reports whether it existed.
	RemoveItem(ctx context.Context, listID, contentID string) (bool, error)
	ItemsByIDs(ctx context.Context, ids []string) (map[string]*model.ListItemDetail, error)
	Items(ctx context.Context, listID string, limit int) ([]*model.ListEntry, error)
	// ListsContaining returns the ids of the user's lists that hold contentID.
	ListsContaining(ctx context.Context, userID, contentID string) ([]string, error)
	DeleteItem(ctx context.Context, id string) error
}

type listRepository struct {
	db sqlx.ExtContext
}

func NewListRepository(db sqlx.ExtContext) ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(ctx context.Context, list *model.List) error {
	if list.ID == "" {
		list.ID = newID()
	}
	if list.CreatedAt.IsZero() {
		list.CreatedAt = now()
	}
	if list.Slot == "" {
		list.Slot = model.ListSlotCustom
	}

	query := `INSERT INTO user_lists (id, user_id, name, description, list_type, slot, is_default, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.db.ExecContext(ctx, query,
		list.ID,
		list.UserID,
		list.Name,
		list.Description,
		list.ListType,
		list.Slot,
		list.IsDefault,
		list.CreatedAt,
	)
	if isUniqueViolation(err) {
		return ErrDuplicateSlot
	}
	return err
}

func (r *listRepository) ByID(ctx context.Context, id string) (*model.List, error) {
	list := &model.List{}
	err := sqlx.GetContext(ctx, r.db, list, `SELECT * FROM user_lists WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *listRepository) ByUser(ctx context.Context, userID string) ([]*model.List, error) {
	lists := []*model.List{}
	query := `SELECT * FROM user_lists WHERE user_id = $1 ORDER BY is_default DESC, created_at ASC, id ASC`
	err := sqlx.SelectContext(ctx, r.db, &lists, query, userID)
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *listRepository) ByUserAndType(ctx context.Context, userID string, listType model.ListType) ([]*model.List, error) {
	lists := []*model.List{}
	query := `SELECT * FROM user_lists WHERE user_id = $1 AND list_type = $2 ORDER BY created_at ASC, id ASC`
	err := sqlx.SelectContext(ctx, r.db, &lists, query, userID, listType)
	if err != nil {
		return nil, err
	}
	return lists, nil
}

func (r *listRepository) BySlot(ctx context.Context, userID string, slot model.ListSlot) (*model.List, error) {
	list := &model.List{}
	query := `SELECT * FROM user_lists WHERE user_id = $1 AND slot = $2`
	err := sqlx.GetContext(ctx, r.db, list, query, userID, slot)
	if err == sql.ErrNoRows {
		return nil, ErrListNotFound
	}
	if err != nil {
		return nil, err
	}
	return list, nil
}

func (r *listRepository) AddItem(ctx context.Context, item *model.ListItem) (bool, error) {
	if item.ID == "" {
		item.ID = newID()
	}
	if item.AddedAt.IsZero() {
		item.AddedAt = now()
	}

	query := `INSERT INTO list_items (id, list_id, content_id, added_at)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (list_id, content_id) DO NOTHING`

	result, err := r.db.ExecContext(ctx, query, item.ID, item.ListID, item.ContentID, item.AddedAt)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *listRepository) RemoveItem(ctx context.Context, listID, contentID string) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM list_items WHERE list_id = $1 AND content_id = $2`, listID, contentID)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *listRepository) ItemsByIDs(ctx context.Context, ids []string) (map[string]*model.ListItemDetail, error) {
	found := make(map[string]*model.ListItemDetail, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query, args, err := inQuery(r.db, `
		SELECT i.*, l.name AS list_name, l.slot AS list_slot, l.user_id AS owner_id
		FROM list_items i
		JOIN user_lists l ON l.id = i.list_id
		WHERE i.id IN (?)`, ids)
	if err != nil {
		return nil, err
	}

	var items []*model.ListItemDetail
	err = sqlx.SelectContext(ctx, r.db, &items, query, args...)
	if err != nil {
		return nil, err
	}

	for _, item := range items {
		found[item.ID] = item
	}
	return found, nil
}

func (r *listRepository) Items(ctx context.Context, listID string, limit int) ([]*model.ListEntry, error) {
	entries := []*model.ListEntry{}
	query := `SELECT i.*, c.title, c.type, c.poster_url, c.year
	          FROM list_items i
	          JOIN contents c ON c.id = i.content_id
	          WHERE i.list_id = $1
	          ORDER BY i.added_at DESC, i.id DESC`

	var err error
	if limit > 0 {
		err = sqlx.SelectContext(ctx, r.db, &entries, query+` LIMIT $2`, listID, limit)
	} else {
		err = sqlx.SelectContext(ctx, r.db, &entries, query, listID)
	}
	if err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *listRepository) ListsContaining(ctx context.Context, userID, contentID string) ([]string, error) {
	ids := []string{}
	query := `SELECT l.id FROM user_lists l
	          JOIN list_items i ON i.list_id = l.id
	          WHERE l.user_id = $1 AND i.content_id = $2
	          ORDER BY l.created_at ASC`
	err := sqlx.SelectContext(ctx, r.db, &ids, query, userID, contentID)
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *listRepository) DeleteItem(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM list_items WHERE id = $1`, id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrListItemNotFound
	}
	return nil
}
