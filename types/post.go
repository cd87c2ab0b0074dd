package types

import "time"

// Post represents a short text post published by a user.
// Posts are immutable after creation; likes and comments attach to them
// as separate rows.
type Post struct {
	// ID is the unique identifier of the post.
	ID int `json:"id" db:"id"`

	// Content is the post body. It is required and never empty.
	Content string `json:"content" db:"content"`

	// AuthorID is the identifier of the user who published the post.
	AuthorID int `json:"author_id" db:"author_id"`

	// Author is the post author, populated when the caller loads the
	// full aggregate.
	Author *User `json:"author,omitempty" db:"-"`

	// Comments attached to the post, each with its commenter, populated
	// when the caller loads the full aggregate.
	Comments []Comment `json:"comments,omitempty" db:"-"`

	// Likes is the set of like edges on the post, populated when the
	// caller loads the full aggregate. Membership of the viewer in this
	// set drives the liked_by_user projection.
	Likes []Like `json:"likes,omitempty" db:"-"`

	// CreatedAt is the timestamp at which the post was published.
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Comment is a reply attached to a post.
type Comment struct {
	ID        int       `json:"id" db:"id"`
	PostID    int       `json:"post_id" db:"post_id"`
	UserID    int       `json:"user_id" db:"user_id"`
	Content   string    `json:"content" db:"content"`
	User      *User     `json:"user,omitempty" db:"-"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Like is a membership fact: user liked post. At most one row exists per
// (user, post) pair, enforced by a unique constraint in storage.
type Like struct {
	ID        int       `json:"id" db:"id"`
	UserID    int       `json:"user_id" db:"user_id"`
	PostID    int       `json:"post_id" db:"post_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
