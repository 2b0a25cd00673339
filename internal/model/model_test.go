package model

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeedCursor(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 30, 0, 123456000, time.UTC)
	cursor := FeedCursor{CreatedAt: at, ID: "0190f2a4-1111-7000-8000-000000000001"}

	decoded, err := DecodeCursor(cursor.Encode())
	require.NoError(t, err)
	assert.True(t, at.Equal(decoded.CreatedAt))
	assert.Equal(t, cursor.ID, decoded.ID)

	for _, token := range []string{"", "!!!", "bm8tc2VwYXJhdG9y", "bm90LWEtdGltZXxpZA"} {
		_, err := DecodeCursor(token)
		assert.ErrorIs(t, err, ErrInvalidCursor, "token %q", token)
	}
}

func TestActivityRef(t *testing.T) {
	cases := []struct {
		ref  ActivityRef
		kind ActivityType
	}{
		{RatingRef{ID: "r1"}, ActivityTypeRating},
		{ReviewRef{ID: "r2"}, ActivityTypeReview},
		{ListItemRef{ID: "r3"}, ActivityTypeListAdd},
	}

	for _, tc := range cases {
		a := NewActivity("a1", "u1", "c1", tc.ref, time.Now())
		assert.Equal(t, tc.kind, a.Type)

		decoded, err := a.Ref()
		require.NoError(t, err)
		assert.Equal(t, tc.ref, decoded)
	}

	_, err := (&Activity{ID: "a", Type: "follow", RefID: "x"}).Ref()
	assert.Error(t, err)

	_, err = (&Activity{ID: "a", Type: ActivityTypeRating}).Ref()
	assert.Error(t, err)
}

func TestListAccepts(t *testing.T) {
	watch := &List{ListType: ListTypeWatch}
	read := &List{ListType: ListTypeRead}
	custom := &List{ListType: ListTypeCustom}

	assert.True(t, watch.Accepts(ContentTypeMovie))
	assert.False(t, watch.Accepts(ContentTypeBook))
	assert.True(t, read.Accepts(ContentTypeBook))
	assert.False(t, read.Accepts(ContentTypeMovie))
	assert.True(t, custom.Accepts(ContentTypeMovie))
	assert.True(t, custom.Accepts(ContentTypeBook))

	for _, slot := range DefaultSlots {
		assert.True(t, slot.IsDefault())
		assert.NotEmpty(t, slot.DefaultName())
	}
	assert.False(t, ListSlotCustom.IsDefault())
}

func TestMovieDetailsMetadata(t *testing.T) {
	meta := (&MovieDetails{Director: "Michael Mann"}).Metadata()
	assert.Equal(t, "Michael Mann", meta["director"])
	assert.Equal(t, []string{}, meta["cast"])
	assert.Nil(t, meta["runtime"])

	encoded, err := EncodeMetadata(nil)
	require.NoError(t, err)
	assert.Equal(t, "{}", encoded)
}
