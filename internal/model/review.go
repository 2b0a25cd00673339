package model

import "time"

type Review struct {
	ID        string     `db:"id" json:"id"`
	UserID    string     `db:"user_id" json:"user_id"`
	ContentID string     `db:"content_id" json:"content_id"`
	Text      string     `db:"text" json:"text"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt *time.Time `db:"updated_at" json:"updated_at,omitempty"`
}

// ReviewEntry is a review joined with its author's handle.
type ReviewEntry struct {
	Review
	Author string `db:"author" json:"author"`
}
