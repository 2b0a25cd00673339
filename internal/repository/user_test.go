package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/repository"
	"github.com/templui/shelf/internal/testutil"
)

func TestUserRepositoryCreate(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	user := &model.User{Email: "carol@example.com", PasswordHash: "x"}
	require.NoError(t, store.Read().Users.Create(ctx, user))

	id, err := uuid.Parse(user.ID)
	require.NoError(t, err)
	assert.Equal(t, uuid.Version(7), id.Version())
	assert.False(t, user.CreatedAt.IsZero())

	stored, err := store.Read().Users.ByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "carol@example.com", stored.Email)
	assert.True(t, user.CreatedAt.Equal(stored.CreatedAt))

	err = store.Read().Users.Create(ctx, &model.User{Email: "carol@example.com", PasswordHash: "x"})
	assert.ErrorIs(t, err, repository.ErrDuplicateEmail)
}

func TestStoreDoRollsBack(t *testing.T) {
	store := testutil.NewStore(t)
	ctx := context.Background()

	alice := testutil.SeedMember(t, store, "alice")
	movie := testutil.SeedContent(t, store, model.ContentTypeMovie, "Heat")
	failed := errors.New("activity failed")

	err := store.Do(ctx, func(uow *repository.UnitOfWork) error {
		_, err := uow.Ratings.Upsert(ctx, alice.ID(), movie.ID, 7)
		if err != nil {
			return err
		}
		return failed
	})
	require.ErrorIs(t, err, failed)

	_, err = store.Read().Ratings.ByUserAndContent(ctx, alice.ID(), movie.ID)
	assert.ErrorIs(t, err, repository.ErrRatingNotFound)
}
