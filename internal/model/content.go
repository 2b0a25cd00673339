package model

import (
	"time"

	"github.com/goccy/go-json"
)

type ContentType string

const (
	ContentTypeMovie ContentType = "movie"
	ContentTypeBook  ContentType = "book"
)

const (
	SourceTMDb        = "tmdb"
	SourceOpenLibrary = "open_library"
	SourceGoogleBooks = "google_books"
)

func (t ContentType) Valid() bool {
	return t == ContentTypeMovie || t == ContentTypeBook
}

// ListType returns the list domain a content type is shelved in.
func (t ContentType) ListType() ListType {
	if t == ContentTypeBook {
		return ListTypeRead
	}
	return ListTypeWatch
}

type Content struct {
	ID         string      `db:"id" json:"id"`
	Source     string      `db:"source" json:"source"`
	ExternalID string      `db:"external_id" json:"external_id"`
	Type       ContentType `db:"type" json:"type"`
	Title      string      `db:"title" json:"title"`
	Year       *int        `db:"year" json:"year,omitempty"`
	PosterURL  string      `db:"poster_url" json:"poster_url"`
	MetaJSON   string      `db:"meta_json" json:"-"`
	CreatedAt  time.Time   `db:"created_at" json:"created_at"`
}

// Metadata is the source specific key/value blob stored with a content item.
type Metadata map[string]any

// Metadata parses the stored blob. A malformed blob reads as empty.
func (c *Content) Metadata() Metadata {
	meta := Metadata{}
	if c.MetaJSON == "" {
		return meta
	}
	err := json.Unmarshal([]byte(c.MetaJSON), &meta)
	if err != nil {
		return Metadata{}
	}
	return meta
}

// EncodeMetadata serializes a metadata blob for storage. Nil encodes as "{}".
func EncodeMetadata(meta Metadata) (string, error) {
	if meta == nil {
		return "{}", nil
	}
	b, err := json.Marshal(meta)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// ContentDetail is the content page: the item, its aggregate rating and the
// viewer's own state.
type ContentDetail struct {
	Content     *Content       `json:"content"`
	Metadata    Metadata       `json:"metadata"`
	UserRating  *Rating        `json:"user_rating,omitempty"`
	AvgRating   float64        `json:"avg_rating"`
	RatingCount int            `json:"rating_count"`
	Reviews     []*ReviewEntry `json:"reviews"`
	UserLists   []*List        `json:"user_lists"`
	// MemberOf holds the ids of the viewer's lists that contain this content.
	MemberOf []string `json:"member_of"`
}
