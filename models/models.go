package models

import "time"

// Profile is the follower/following view of an account. The relation is
// stored as a single directed edge set; both slices are derived by query
// direction.
type Profile struct {
	AccountID  int64
	Username   string
	Followers  []int64
	Followings []int64
}

type Post struct {
	ID          int64
	Title       string
	Description *string
	CreatedAt   time.Time
	AuthorID    int64
}

type Comment struct {
	ID        int64
	Body      string
	CreatedAt time.Time
	PostID    int64
	AuthorID  int64
}
