package model

import (
	"fmt"
	"time"
)

type ActivityType string

const (
	ActivityTypeRating  ActivityType = "rating"
	ActivityTypeReview  ActivityType = "review"
	ActivityTypeListAdd ActivityType = "list_add"
)

// ActivityRef points from a ledger entry at the row that caused it. The
// concrete variants are RatingRef, ReviewRef and ListItemRef.
type ActivityRef interface {
	ActivityType() ActivityType
	RefID() string
	sealed()
}

type RatingRef struct{ ID string }

type ReviewRef struct{ ID string }

type ListItemRef struct{ ID string }

func (r RatingRef) ActivityType() ActivityType   { return ActivityTypeRating }
func (r ReviewRef) ActivityType() ActivityType   { return ActivityTypeReview }
func (r ListItemRef) ActivityType() ActivityType { return ActivityTypeListAdd }

func (r RatingRef) RefID() string   { return r.ID }
func (r ReviewRef) RefID() string   { return r.ID }
func (r ListItemRef) RefID() string { return r.ID }

func (RatingRef) sealed()   {}
func (ReviewRef) sealed()   {}
func (ListItemRef) sealed() {}

// Activity is an append-only ledger entry.
type Activity struct {
	ID        string       `db:"id" json:"id"`
	UserID    string       `db:"user_id" json:"user_id"`
	ContentID string       `db:"content_id" json:"content_id"`
	Type      ActivityType `db:"activity_type" json:"type"`
	RefID     string       `db:"ref_id" json:"ref_id"`
	CreatedAt time.Time    `db:"created_at" json:"created_at"`
}

func NewActivity(id, userID, contentID string, ref ActivityRef, at time.Time) *Activity {
	return &Activity{
		ID:        id,
		UserID:    userID,
		ContentID: contentID,
		Type:      ref.ActivityType(),
		RefID:     ref.RefID(),
		CreatedAt: at,
	}
}

// Ref decodes the stored (type, ref_id) pair.
func (a *Activity) Ref() (ActivityRef, error) {
	if a.RefID == "" {
		return nil, fmt.Errorf("activity %s has no reference", a.ID)
	}
	switch a.Type {
	case ActivityTypeRating:
		return RatingRef{ID: a.RefID}, nil
	case ActivityTypeReview:
		return ReviewRef{ID: a.RefID}, nil
	case ActivityTypeListAdd:
		return ListItemRef{ID: a.RefID}, nil
	default:
		return nil, fmt.Errorf("activity %s has unknown type %q", a.ID, a.Type)
	}
}

// ActivityEntry is a ledger row joined with its actor and content.
type ActivityEntry struct {
	Activity
	Actor        string      `db:"actor" json:"actor"`
	ContentTitle string      `db:"content_title" json:"content_title"`
	ContentKind  ContentType `db:"content_kind" json:"content_type"`
	PosterURL    string      `db:"content_poster" json:"poster_url"`
}
