package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/templui/shelf/internal/service"
	"github.com/templui/shelf/internal/testutil"
)

func TestFollowedIDsIncludesSelf(t *testing.T) {
	f := newFixture(t)
	svc := service.NewSocialService(f.store)
	ctx := context.Background()

	alice := testutil.SeedMember(t, f.store, "alice")
	bob := testutil.SeedMember(t, f.store, "bob")

	ids, err := svc.FollowedIDs(ctx, alice.ID())
	require.NoError(t, err)
	assert.Equal(t, []string{alice.ID()}, ids)

	require.NoError(t, svc.Follow(ctx, alice.ID(), bob.ID()))

	ids, err = svc.FollowedIDs(ctx, alice.ID())
	require.NoError(t, err)
	assert.Equal(t, alice.ID(), ids[0])
	assert.ElementsMatch(t, []string{alice.ID(), bob.ID()}, ids)
}

func TestFollow(t *testing.T) {
	f := newFixture(t)
	svc := service.NewSocialService(f.store)
	ctx := context.Background()

	alice := testutil.SeedMember(t, f.store, "alice")
	bob := testutil.SeedMember(t, f.store, "bob")

	t.Run("duplicate is a no-op", func(t *testing.T) {
		require.NoError(t, svc.Follow(ctx, alice.ID(), bob.ID()))
		require.NoError(t, svc.Follow(ctx, alice.ID(), bob.ID()))

		assert.Equal(t, 1, f.count(t, `SELECT COUNT(*) FROM follows WHERE follower_id = ?`, alice.ID()))

		following, err := svc.IsFollowing(ctx, alice.ID(), bob.ID())
		require.NoError(t, err)
		assert.True(t, following)

		following, err = svc.IsFollowing(ctx, bob.ID(), alice.ID())
		require.NoError(t, err)
		assert.False(t, following)
	})

	t.Run("self follow is rejected", func(t *testing.T) {
		err := svc.Follow(ctx, alice.ID(), alice.ID())
		requireKind(t, err, service.KindForbidden)
		assert.ErrorIs(t, err, service.ErrSelfFollow)
		assert.Equal(t, 0, f.count(t, `SELECT COUNT(*) FROM follows WHERE followed_id = follower_id`))
	})

	t.Run("unknown user", func(t *testing.T) {
		err := svc.Follow(ctx, alice.ID(), "missing")
		requireKind(t, err, service.KindNotFound)
	})
}

func TestUnfollow(t *testing.T) {
	f := newFixture(t)
	svc := service.NewSocialService(f.store)
	ctx := context.Background()

	alice := testutil.SeedMember(t, f.store, "alice")
	bob := testutil.SeedMember(t, f.store, "bob")
	testutil.Follow(t, f.store, alice, bob)

	require.NoError(t, svc.Unfollow(ctx, alice.ID(), bob.ID()))
	following, err := svc.IsFollowing(ctx, alice.ID(), bob.ID())
	require.NoError(t, err)
	assert.False(t, following)

	// Absent edge
	require.NoError(t, svc.Unfollow(ctx, alice.ID(), bob.ID()))

	err = svc.Unfollow(ctx, alice.ID(), alice.ID())
	requireKind(t, err, service.KindForbidden)
}

func TestFollowersAndPopular(t *testing.T) {
	f := newFixture(t)
	svc := service.NewSocialService(f.store)
	ctx := context.Background()

	alice := testutil.SeedMember(t, f.store, "alice")
	bob := testutil.SeedMember(t, f.store, "bob")
	carol := testutil.SeedMember(t, f.store, "carol")
	testutil.Follow(t, f.store, alice, bob)
	testutil.Follow(t, f.store, carol, bob)
	testutil.Follow(t, f.store, bob, carol)

	followers, err := svc.Followers(ctx, "BOB")
	require.NoError(t, err)
	require.Len(t, followers, 2)

	following, err := svc.Following(ctx, "bob")
	require.NoError(t, err)
	require.Len(t, following, 1)
	assert.Equal(t, "carol", following[0].Username)

	_, err = svc.Followers(ctx, "nobody")
	requireKind(t, err, service.KindNotFound)

	popular, err := svc.Popular(ctx, "")
	require.NoError(t, err)
	require.Len(t, popular, 3)
	assert.Equal(t, "bob", popular[0].Username)
	assert.Equal(t, 2, popular[0].FollowerCount)
	assert.Equal(t, "carol", popular[1].Username)
	assert.Equal(t, "alice", popular[2].Username)

	popular, err = svc.Popular(ctx, "CAR")
	require.NoError(t, err)
	require.Len(t, popular, 1)
	assert.Equal(t, "carol", popular[0].Username)
}
