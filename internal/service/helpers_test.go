package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/testutil"
)

type fixture struct {
	db    *sqlx.DB
	store *repository.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	return &fixture{
		db:    db,
		store: repository.NewStore(db),
	}
}

// count runs a COUNT(*) style query and returns the single integer.
func (f *fixture) count(t *testing.T, query string, args ...any) int {
	t.Helper()
	var n int
	err := f.db.Get(&n, f.db.Rebind(query), args...)
	require.NoError(t, err)
	return n
}

// activityAt appends a rating activity with a fixed timestamp, backed by a real rating row.
func (f *fixture) activityAt(t *testing.T, member *testutil.Member, content *model.Content, score int, at time.Time) *model.Activity {
	t.Helper()
	ctx := context.Background()

	var activity *model.Activity
	err := f.store.Do(ctx, func(uow *repository.UnitOfWork) error {
		rating, err := uow.Ratings.Upsert(ctx, member.ID(), content.ID, score)
		if err != nil {
			return err
		}
		activity = model.NewActivity("", member.ID(), content.ID, model.RatingRef{ID: rating.ID}, at)
		return uow.Activities.Create(ctx, activity)
	})
	require.NoError(t, err)
	return activity
}

func requireKind(t *testing.T, err error, kind service.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind.String(), service.KindOf(err).String(), "unexpected error: %v", err)
}
