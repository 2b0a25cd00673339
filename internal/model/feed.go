package model

import (
	"encoding/base64"
	"errors"
	"strings"
	"time"
)

var ErrInvalidCursor = errors.New("invalid feed cursor")

// ActivityCard is one rendered feed entry. Exactly one of Rating, Review or
// ListItem is set, matching the activity type; all three are nil when the
// referenced row no longer exists.
type ActivityCard struct {
	ActivityEntry
	Rating      *Rating            `json:"rating,omitempty"`
	Review      *Review            `json:"review,omitempty"`
	ReviewHTML  string             `json:"review_html,omitempty"`
	ListItem    *ListItemDetail    `json:"list_item,omitempty"`
	Unavailable bool               `json:"unavailable"`
	LikeCount   int                `json:"like_count"`
	Liked       bool               `json:"liked"`
	Comments    []*ActivityComment `json:"comments"`
}

type FeedPage struct {
	Cards      []*ActivityCard `json:"cards"`
	Page       int             `json:"page,omitempty"`
	NextPage   int             `json:"next_page,omitempty"`
	NextCursor string          `json:"next_cursor,omitempty"`
	HasMore    bool            `json:"has_more"`
}

// FeedCursor is the keyset position of the last card a client has seen.
type FeedCursor struct {
	CreatedAt time.Time
	ID        string
}

func CursorFor(a *Activity) FeedCursor {
	return FeedCursor{CreatedAt: a.CreatedAt, ID: a.ID}
}

func (c FeedCursor) Encode() string {
	raw := c.CreatedAt.UTC().Format(time.RFC3339Nano) + "|" + c.ID
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func DecodeCursor(token string) (FeedCursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return FeedCursor{}, ErrInvalidCursor
	}
	ts, id, ok := strings.Cut(string(raw), "|")
	if !ok || id == "" {
		return FeedCursor{}, ErrInvalidCursor
	}
	createdAt, err := time.Parse(time.RFC3339Nano, ts)
	if err != nil {
		return FeedCursor{}, ErrInvalidCursor
	}
	return FeedCursor{CreatedAt: createdAt.UTC(), ID: id}, nil
}
