package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// UnitOfWork binds every repository to the same query executor: a *sqlx.Tx
// inside Store.Do, or the pool for plain reads.
type UnitOfWork struct {
	Users      UserRepository
	Profiles   ProfileRepository
	Follows    FollowRepository
	Contents   ContentRepository
	Ratings    RatingRepository
	Reviews    ReviewRepository
	Lists      ListRepository
	Activities ActivityRepository
	Likes      LikeRepository
	Comments   CommentRepository
	Discovery  DiscoveryRepository
}

func newUnitOfWork(q sqlx.ExtContext) *UnitOfWork {
	return &UnitOfWork{
		Users:      NewUserRepository(q),
		Profiles:   NewProfileRepository(q),
		Follows:    NewFollowRepository(q),
		Contents:   NewContentRepository(q),
		Ratings:    NewRatingRepository(q),
		Reviews:    NewReviewRepository(q),
		Lists:      NewListRepository(q),
		Activities: NewActivityRepository(q),
		Likes:      NewLikeRepository(q),
		Comments:   NewCommentRepository(q),
		Discovery:  NewDiscoveryRepository(q),
	}
}

type Store struct {
	db   *sqlx.DB
	read *UnitOfWork
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{
		db:   db,
		read: newUnitOfWork(db),
	}
}

// Read returns repositories that run outside any transaction.
func (s *Store) Read() *UnitOfWork {
	return s.read
}

// Do runs fn inside one transaction. The transaction commits when fn returns
// nil and rolls back otherwise, so every write made through uow lands together
// or not at all.
func (s *Store) Do(ctx context.Context, fn func(uow *UnitOfWork) error) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	committed := false
	defer func() {
		if committed {
			return
		}
		rbErr := tx.Rollback()
		if rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			slog.Error("failed to roll back transaction", "error", rbErr)
		}
	}()

	err = fn(newUnitOfWork(tx))
	if err != nil {
		return err
	}

	err = tx.Commit()
	if err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	committed = true
	return nil
}

// isUniqueViolation checks for unique constraint violations (works for both SQLite and PostgreSQL)
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	errStr := err.Error()
	return strings.Contains(errStr, "UNIQUE constraint failed") || strings.Contains(errStr, "duplicate key value")
}

// inQuery expands slice arguments of a `?` query and rebinds it for the driver.
func inQuery(q sqlx.ExtContext, query string, args ...any) (string, []any, error) {
	query, args, err := sqlx.In(query, args...)
	if err != nil {
		return "", nil, err
	}
	return q.Rebind(query), args, nil
}

// escapeLike escapes LIKE wildcards so user input matches literally (use with ESCAPE '\').
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

// now is the timestamp written on new rows. Microsecond precision keeps SQLite
// and PostgreSQL ordering identical.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// newID returns a time-ordered id, so id order matches insertion order.
func newID() string {
	return uuid.Must(uuid.NewV7()).String()
}
