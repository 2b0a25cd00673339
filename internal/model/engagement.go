package model

import "time"

type ActivityLike struct {
	ID         string    `db:"id"`
	ActivityID string    `db:"activity_id"`
	UserID     string    `db:"user_id"`
	CreatedAt  time.Time `db:"created_at"`
}

type ActivityComment struct {
	ID         string    `db:"id" json:"id"`
	ActivityID string    `db:"activity_id" json:"activity_id"`
	UserID     string    `db:"user_id" json:"user_id"`
	Text       string    `db:"text" json:"text"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`

	// Computed fields (joined, not stored on the row)
	Author string `db:"author" json:"author"`
}

type LikeState struct {
	ActivityID string `json:"activity_id"`
	Liked      bool   `json:"liked"`
	LikeCount  int    `json:"like_count"`
}

type CommentThread struct {
	ActivityID   string             `json:"activity_id"`
	Comments     []*ActivityComment `json:"comments"`
	CommentCount int                `json:"comment_count"`
}
