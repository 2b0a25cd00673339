package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/shelf/internal/model"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/testutil"
)

func TestCustomLists(t *testing.T) {
	f := newFixture(t)
	lists := service.NewListService(f.store)
	activities := service.NewActivityService(f.store, nil)
	ctx := context.Background()

	alice := testutil.SeedMember(t, f.store, "alice")
	movie := testutil.SeedContent(t, f.store, model.ContentTypeMovie, "Heat")
	book := testutil.SeedContent(t, f.store, model.ContentTypeBook, "Dune")

	custom, err := lists.Create(ctx, alice.ID(), service.CreateListInput{Name: "  Desert island  ", Description: "keepers"})
	require.NoError(t, err)
	assert.Equal(t, "Desert island", custom.Name)
	assert.Equal(t, model.ListTypeCustom, custom.ListType)
	assert.Equal(t, model.ListSlotCustom, custom.Slot)
	assert.False(t, custom.IsDefault)

	// Several custom lists may coexist
	_, err = lists.Create(ctx, alice.ID(), service.CreateListInput{Name: "Another"})
	require.NoError(t, err)

	all, err := lists.Lists(ctx, alice.ID())
	require.NoError(t, err)
	require.Len(t, all, 6)
	for _, l := range all[:4] {
		assert.True(t, l.IsDefault)
	}

	_, err = activities.ToggleListItem(ctx, alice.ID(), custom.ID, movie.ID)
	require.NoError(t, err)
	_, err = activities.ToggleListItem(ctx, alice.ID(), custom.ID, book.ID)
	require.NoError(t, err)

	view, err := lists.View(ctx, custom.ID)
	require.NoError(t, err)
	assert.Equal(t, custom.ID, view.List.ID)
	require.Len(t, view.Items, 2)
	assert.Equal(t, "Dune", view.Items[0].Title)
	assert.Equal(t, "Heat", view.Items[1].Title)

	_, err = lists.View(ctx, "missing")
	requireKind(t, err, service.KindNotFound)

	for _, in := range []service.CreateListInput{
		{Name: ""},
		{Name: strings.Repeat("x", 101)},
		{Name: "Typed", ListType: "album"},
	} {
		_, err = lists.Create(ctx, alice.ID(), in)
		requireKind(t, err, service.KindValidation)
	}
}
