// Package views computes viewer-relative response shapes from stored
// entities. Everything here is a pure transformation: callers load the
// aggregates, views only derive flags, so the whole layer is testable
// with in-memory fixtures.
package views

import "github.com/linkwave/apiserver/types"

// PostView is a post annotated with viewer-relative state.
type PostView struct {
	types.Post
	LikedByUser bool `json:"liked_by_user"`
}

// ProfileView is a user profile annotated with viewer-relative state.
type ProfileView struct {
	types.User
	IsFollowing bool `json:"is_following"`
}

// ProjectPost derives the liked_by_user flag for the given viewer by
// scanning the post's loaded like set. All other fields pass through
// unchanged; loading breadth is the caller's concern.
func ProjectPost(post types.Post, viewerID int) PostView {
	liked := false
	for _, like := range post.Likes {
		if like.UserID == viewerID {
			liked = true
			break
		}
	}
	return PostView{Post: post, LikedByUser: liked}
}

// ProjectPosts maps every post through ProjectPost for one viewer.
//
// The scan is O(likes) per post. If that ever matters, precompute the
// viewer's like set once and look edges up instead; the output contract
// stays the same.
func ProjectPosts(posts []types.Post, viewerID int) []PostView {
	projected := make([]PostView, 0, len(posts))
	for _, post := range posts {
		projected = append(projected, ProjectPost(post, viewerID))
	}
	return projected
}

// ProjectProfile merges a precomputed follow-edge existence check into the
// profile. It does not traverse the graph itself.
func ProjectProfile(user types.User, isFollowing bool) ProfileView {
	return ProfileView{User: user, IsFollowing: isFollowing}
}
