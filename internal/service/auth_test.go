package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/service"
)

const testPassword = "correct-horse-battery-staple"

func newAuth(f *fixture) *service.AuthService {
	return service.NewAuthService(f.store, "test-secret", time.Hour)
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(f)
	ctx := context.Background()

	user, profile, err := auth.Register(ctx, service.RegisterInput{
		Username: "  Alice_1 ",
		Email:    " Alice@Example.com",
		Password: testPassword,
	})
	require.NoError(t, err)
	assert.Equal(t, "alice@example.com", user.Email)
	assert.Equal(t, "alice_1", profile.Username)
	assert.NotEqual(t, testPassword, user.PasswordHash)
	assert.NotEmpty(t, user.ID)
	assert.Equal(t, user.ID, profile.UserID)
	assert.False(t, user.CreatedAt.IsZero())

	lists, err := f.store.Read().Lists.ByUser(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, lists, 4)
	slots := map[model.ListSlot]bool{}
	for _, l := range lists {
		assert.True(t, l.IsDefault)
		slots[l.Slot] = true
	}
	for _, slot := range model.DefaultSlots {
		assert.True(t, slots[slot], "missing slot %s", slot)
	}

	t.Run("duplicate email", func(t *testing.T) {
		_, _, err := auth.Register(ctx, service.RegisterInput{Username: "other", Email: "alice@example.com", Password: testPassword})
		requireKind(t, err, service.KindConflict)
	})

	t.Run("duplicate username in another case", func(t *testing.T) {
		_, _, err := auth.Register(ctx, service.RegisterInput{Username: "ALICE_1", Email: "a2@example.com", Password: testPassword})
		requireKind(t, err, service.KindConflict)
		assert.Equal(t, 1, f.count(t, `SELECT COUNT(*) FROM users`))
		assert.Equal(t, 4, f.count(t, `SELECT COUNT(*) FROM user_lists`))
	})

	t.Run("invalid input", func(t *testing.T) {
		cases := []service.RegisterInput{
			{Username: "x", Email: "x@example.com", Password: testPassword},
			{Username: "has space", Email: "x@example.com", Password: testPassword},
			{Username: "valid_name", Email: "not-an-email", Password: testPassword},
			{Username: "valid_name", Email: "x@example.com", Password: "short"},
			{Username: "valid_name", Email: "x@example.com", Password: "mypassword123456"},
		}
		for _, in := range cases {
			_, _, err := auth.Register(ctx, in)
			requireKind(t, err, service.KindValidation)
		}
	})
}

func TestLoginAndToken(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(f)
	ctx := context.Background()

	registered, _, err := auth.Register(ctx, service.RegisterInput{Username: "bob", Email: "bob@example.com", Password: testPassword})
	require.NoError(t, err)

	_, err = auth.Login(ctx, "bob@example.com", "wrong-password-here")
	requireKind(t, err, service.KindUnauthorized)

	_, err = auth.Login(ctx, "nobody@example.com", testPassword)
	requireKind(t, err, service.KindUnauthorized)

	user, err := auth.Login(ctx, " BOB@example.com ", testPassword)
	require.NoError(t, err)
	assert.Equal(t, registered.ID, user.ID)

	token, expiresAt, err := auth.GenerateJWT(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	authed, profile, err := auth.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, authed.ID)
	assert.Empty(t, authed.PasswordHash)
	assert.Equal(t, "bob", profile.Username)

	_, _, err = auth.Authenticate(ctx, token+"x")
	requireKind(t, err, service.KindUnauthorized)

	other := service.NewAuthService(f.store, "another-secret", time.Hour)
	_, _, err = other.Authenticate(ctx, token)
	requireKind(t, err, service.KindUnauthorized)
}

func TestUpdatePasswordAndDelete(t *testing.T) {
	f := newFixture(t)
	auth := newAuth(f)
	users := service.NewUserService(f.store, auth, nil)
	activities := service.NewActivityService(f.store, nil)
	ctx := context.Background()

	user, _, err := auth.Register(ctx, service.RegisterInput{Username: "carol", Email: "carol@example.com", Password: testPassword})
	require.NoError(t, err)

	err = users.UpdatePassword(ctx, user.ID, "not-the-password", "brand-new-secret-phrase")
	requireKind(t, err, service.KindValidation)

	err = users.UpdatePassword(ctx, user.ID, testPassword, "brand-new-secret-phrase")
	require.NoError(t, err)

	_, err = auth.Login(ctx, "carol@example.com", "brand-new-secret-phrase")
	require.NoError(t, err)

	movie := &model.Content{Source: model.SourceTMDb, ExternalID: "1", Type: model.ContentTypeMovie, Title: "Heat", MetaJSON: "{}"}
	require.NoError(t, f.store.Read().Contents.Create(ctx, movie))
	_, err = activities.Rate(ctx, user.ID, movie.ID, 9)
	require.NoError(t, err)

	require.NoError(t, users.DeleteAccount(ctx, user.ID))
	assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM profiles`))
	assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM user_lists`))
	assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM ratings`))
	assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM activities`))
	assert.Equal(t, 1, f.count(t, `SELECT COUNT(*) FROM contents`))

	err = users.DeleteAccount(ctx, user.ID)
	requireKind(t, err, service.KindNotFound)
}
