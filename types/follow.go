package types

import "time"

// Follow is a directed edge in the social graph: follower follows following.
// At most one row exists per ordered pair, enforced by a unique constraint
// in storage.
type Follow struct {
	ID          int       `json:"id" db:"id"`
	FollowerID  int       `json:"follower_id" db:"follower_id"`
	FollowingID int       `json:"following_id" db:"following_id"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`

	// Follower and Following carry the user records on either end of the
	// edge when the caller loads the expanded aggregate.
	Follower  *User `json:"follower,omitempty" db:"-"`
	Following *User `json:"following,omitempty" db:"-"`
}
