package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/testutil"
)

func TestRateTwiceUpdatesInPlace(t *testing.T) {
	f := newFixture(t)
	svc := service.NewActivityService(f.store, nil)
	ctx := context.Background()

	alice := testutil.SeedMember(t, f.store, "alice")
	movie := testutil.SeedContent(t, f.store, model.ContentTypeMovie, "Fight Club")

	first, err := svc.Rate(ctx, alice.ID(), movie.ID, 7)
	require.NoError(t, err)
	second, err := svc.Rate(ctx, alice.ID(), movie.ID, 9)
	require.NoError(t, err)

	assert.Equal(t, first.Rating.ID, second.Rating.ID)
	assert.Equal(t, 9, second.Rating.Score)
	assert.NotEqual(t, first.Activity.ID, second.Activity.ID)

	assert.Equal(t, 1, f.count(t, `SELECT COUNT(*) FROM ratings`))
	assert.Equal(t, 9, f.count(t, `SELECT score FROM ratings WHERE id = ?`, first.Rating.ID))
	assert.Equal(t, 2, f.count(t,
		`SELECT COUNT(*) FROM activities WHERE activity_type = 'rating' AND ref_id = ?`, first.Rating.ID))
}

func TestRateRejectsOutOfRange(t *testing.T) {
	f := newFixture(t)
	svc := service.NewActivityService(f.store, nil)
	ctx := context.Background()

	alice := testutil.SeedMember(t, f.store, "alice")
	movie := testutil.SeedContent(t, f.store, model.ContentTypeMovie, "Fight Club")

	for _, score := range []int{0, 11, -3} {
		_, err := svc.Rate(ctx, alice.ID(), movie.ID, score)
		requireKind(t, err, service.KindValidation)
	}

	for _, raw := range []string{"", "abc", "7.5", "11"} {
		_, err := svc.RateRaw(ctx, alice.ID(), movie.ID, raw)
		requireKind(t, err, service.KindValidation)

		var svcErr *service.Error
		require.ErrorAs(t, err, &svcErr)
		assert.Equal(t, "score", svcErr.Field)
	}

	assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM ratings`))
	assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM activities`))

	result, err := svc.RateRaw(ctx, alice.ID(), movie.ID, " 10 ")
	require.NoError(t, err)
	assert.Equal(t, 10, result.Rating.Score)
}

func TestRateUnknownContent(t *testing.T) {
	f := newFixture(t)
	svc := service.NewActivityService(f.store, nil)
	alice := testutil.SeedMember(t, f.store, "alice")

	_, err := svc.Rate(context.Background(), alice.ID(), "missing", 5)
	requireKind(t, err, service.KindNotFound)
	assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM activities`))
}

func TestReview(t *testing.T) {
	f := newFixture(t)
	svc := service.NewActivityService(f.store, nil)
	ctx := context.Background()

	alice := testutil.SeedMember(t, f.store, "alice")
	book := testutil.SeedContent(t, f.store, model.ContentTypeBook, "Dune")

	t.Run("blank text is rejected", func(t *testing.T) {
		for _, text := range []string{"", "   \n\t", " \r\n "} {
			_, err := svc.Review(ctx, alice.ID(), book.ID, text)
			requireKind(t, err, service.KindValidation)
		}
		assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM reviews`))
		assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM activities`))
	})

	t.Run("every review is a new row", func(t *testing.T) {
		first, err := svc.Review(ctx, alice.ID(), book.ID, "  A classic.  ")
		require.NoError(t, err)
		assert.Equal(t, "A classic.", first.Review.Text)
		assert.Equal(t, model.ActivityTypeReview, first.Activity.Type)
		assert.Equal(t, first.Review.ID, first.Activity.RefID)

		second, err := svc.Review(ctx, alice.ID(), book.ID, "Even better the second time.")
		require.NoError(t, err)
		assert.NotEqual(t, first.Review.ID, second.Review.ID)

		assert.Equal(t, 2, f.count(t, `SELECT COUNT(*) FROM reviews`))
		assert.Equal(t, 2, f.count(t, `SELECT COUNT(*) FROM activities WHERE activity_type = 'review'`))
	})

	t.Run("text is stored verbatim", func(t *testing.T) {
		const text = "if a<b and c>d then <b>fine</b> &amp; done"
		result, err := svc.Review(ctx, alice.ID(), book.ID, text)
		require.NoError(t, err)
		assert.Equal(t, text, result.Review.Text)

		var stored string
		err = f.db.Get(&stored, f.db.Rebind(`SELECT text FROM reviews WHERE id = ?`), result.Review.ID)
		require.NoError(t, err)
		assert.Equal(t, text, stored)
	})
}

func TestToggleListItem(t *testing.T) {
	f := newFixture(t)
	svc := service.NewActivityService(f.store, nil)
	ctx := context.Background()

	alice := testutil.SeedMember(t, f.store, "alice")
	bob := testutil.SeedMember(t, f.store, "bob")
	movie := testutil.SeedContent(t, f.store, model.ContentTypeMovie, "Alien")
	book := testutil.SeedContent(t, f.store, model.ContentTypeBook, "Solaris")
	watchlist := alice.List(model.ListSlotWatchTodo)

	t.Run("add then remove", func(t *testing.T) {
		added, err := svc.ToggleListItem(ctx, alice.ID(), watchlist.ID, movie.ID)
		require.NoError(t, err)
		assert.True(t, added.Member)
		require.NotNil(t, added.Activity)
		assert.Equal(t, model.ActivityTypeListAdd, added.Activity.Type)
		assert.Equal(t, added.Item.ID, added.Activity.RefID)

		removed, err := svc.ToggleListItem(ctx, alice.ID(), watchlist.ID, movie.ID)
		require.NoError(t, err)
		assert.False(t, removed.Member)
		assert.Nil(t, removed.Activity)

		assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM list_items WHERE list_id = ?`, watchlist.ID))
		assert.Equal(t, 1, f.count(t, `SELECT COUNT(*) FROM activities WHERE activity_type = 'list_add'`))
	})

	t.Run("another user's list", func(t *testing.T) {
		_, err := svc.ToggleListItem(ctx, bob.ID(), watchlist.ID, movie.ID)
		requireKind(t, err, service.KindForbidden)
		assert.ErrorIs(t, err, service.ErrListNotOwned)
		assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM list_items WHERE list_id = ?`, watchlist.ID))
	})

	t.Run("wrong content type for the list", func(t *testing.T) {
		_, err := svc.ToggleListItem(ctx, alice.ID(), watchlist.ID, book.ID)
		requireKind(t, err, service.KindValidation)
	})

	t.Run("custom lists accept both types", func(t *testing.T) {
		lists := service.NewListService(f.store)
		custom, err := lists.Create(ctx, alice.ID(), service.CreateListInput{Name: "Favourites"})
		require.NoError(t, err)

		_, err = svc.ToggleListItem(ctx, alice.ID(), custom.ID, book.ID)
		require.NoError(t, err)
		_, err = svc.ToggleListItem(ctx, alice.ID(), custom.ID, movie.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, f.count(t, `SELECT COUNT(*) FROM list_items WHERE list_id = ?`, custom.ID))
	})

	t.Run("missing list or content", func(t *testing.T) {
		_, err := svc.ToggleListItem(ctx, alice.ID(), "missing", movie.ID)
		requireKind(t, err, service.KindNotFound)

		_, err = svc.ToggleListItem(ctx, alice.ID(), watchlist.ID, "missing")
		requireKind(t, err, service.KindNotFound)
	})
}

func TestActivityWritesRollBackTogether(t *testing.T) {
	f := newFixture(t)
	svc := service.NewActivityService(f.store, nil)
	ctx := context.Background()

	alice := testutil.SeedMember(t, f.store, "alice")
	movie := testutil.SeedContent(t, f.store, model.ContentTypeMovie, "Heat")
	book := testutil.SeedContent(t, f.store, model.ContentTypeBook, "Dune")

	rated, err := svc.Rate(ctx, alice.ID(), movie.ID, 4)
	require.NoError(t, err)

	// Every ledger append fails from here on.
	_, err = f.db.Exec(`CREATE TRIGGER reject_activities BEFORE INSERT ON activities
		BEGIN SELECT RAISE(ABORT, 'activity rejected'); END`)
	require.NoError(t, err)

	counts := func() [4]int {
		return [4]int{
			f.count(t, `SELECT COUNT(*) FROM ratings`),
			f.count(t, `SELECT COUNT(*) FROM reviews`),
			f.count(t, `SELECT COUNT(*) FROM list_items`),
			f.count(t, `SELECT COUNT(*) FROM activities`),
		}
	}
	before := counts()
	assert.Equal(t, [4]int{1, 0, 0, 1}, before)

	t.Run("new rating", func(t *testing.T) {
		_, err := svc.Rate(ctx, alice.ID(), book.ID, 8)
		require.Error(t, err)
		assert.Equal(t, before, counts())
	})

	t.Run("changed rating keeps the old score", func(t *testing.T) {
		_, err := svc.Rate(ctx, alice.ID(), movie.ID, 9)
		require.Error(t, err)
		assert.Equal(t, before, counts())

		var score int
		err = f.db.Get(&score, f.db.Rebind(`SELECT score FROM ratings WHERE id = ?`), rated.Rating.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, score)
	})

	t.Run("review", func(t *testing.T) {
		_, err := svc.Review(ctx, alice.ID(), book.ID, "Never saved")
		require.Error(t, err)
		assert.Equal(t, before, counts())
	})

	t.Run("list add", func(t *testing.T) {
		_, err := svc.ToggleListItem(ctx, alice.ID(), alice.List(model.ListSlotWatchTodo).ID, movie.ID)
		require.Error(t, err)
		assert.Equal(t, before, counts())
	})
}
