package model

import "time"

// Profile holds the public face of a user. Username is the unique handle.
type Profile struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	Username  string    `db:"username" json:"username"`
	Bio       string    `db:"bio" json:"bio"`
	AvatarURL string    `db:"avatar_url" json:"avatar_url"`
	AvatarKey string    `db:"avatar_key" json:"-"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProfileView is everything shown on a profile page.
type ProfileView struct {
	Profile        *Profile                  `json:"profile"`
	FollowerCount  int                       `json:"follower_count"`
	FollowingCount int                       `json:"following_count"`
	IsOwner        bool                      `json:"is_owner"`
	IsFollowing    bool                      `json:"is_following"`
	Activities     *FeedPage                 `json:"activities"`
	Shelves        map[ListSlot][]*ListEntry `json:"shelves"`
}
