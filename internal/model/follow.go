package model

import "time"

type Follow struct {
	ID         string    `db:"id"`
	FollowerID string    `db:"follower_id"`
	FollowedID string    `db:"followed_id"`
	CreatedAt  time.Time `db:"created_at"`
}

// UserSummary is a compact user row for follower lists and popularity rankings.
type UserSummary struct {
	UserID        string `db:"user_id" json:"user_id"`
	Username      string `db:"username" json:"username"`
	AvatarURL     string `db:"avatar_url" json:"avatar_url"`
	FollowerCount int    `db:"follower_count" json:"follower_count"`
}
