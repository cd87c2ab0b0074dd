package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strconv"
	"strings"

	"github.com/linkwave/apiserver/internal/events"
	"github.com/linkwave/apiserver/internal/store"
	"github.com/linkwave/apiserver/internal/views"
	"github.com/linkwave/apiserver/types"
)

// PostRepository defines persistence operations for posts.
type PostRepository interface {
	Create(ctx context.Context, post types.Post) (types.Post, error)
	GetByID(ctx context.Context, id int) (types.Post, error)
	List(ctx context.Context) ([]types.Post, error)
	Delete(ctx context.Context, id int) error
	Exists(ctx context.Context, id int) (bool, error)
}

// LikeRepository defines persistence operations for like edges.
type LikeRepository interface {
	Create(ctx context.Context, userID, postID int) error
	Delete(ctx context.Context, userID, postID int) error
}

// CommentRepository defines persistence operations for comments.
type CommentRepository interface {
	Create(ctx context.Context, comment types.Comment) (types.Comment, error)
}

// EventBus publishes domain events to the configured broker.
type EventBus interface {
	Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error)
}

// PostService encapsulates post use-cases, including the viewer-relative
// read paths.
type PostService struct {
	posts    PostRepository
	likes    LikeRepository
	comments CommentRepository
	bus      EventBus
}

func NewPostService(posts PostRepository, likes LikeRepository, comments CommentRepository, bus EventBus) *PostService {
	return &PostService{
		posts:    posts,
		likes:    likes,
		comments: comments,
		bus:      bus,
	}
}

// Create persists a new post. The created post has no likes yet, so no
// viewer projection is needed on the way out.
func (s *PostService) Create(ctx context.Context, authorID int, content string) (types.Post, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return types.Post{}, fmt.Errorf("%w: content is required", ErrValidation)
	}

	post, err := s.posts.Create(ctx, types.Post{Content: content, AuthorID: authorID})
	if err != nil {
		return types.Post{}, err
	}

	publishEvent(ctx, s.bus, events.ChannelPostCreated, postCreatedEvent{
		PostID:   post.ID,
		AuthorID: post.AuthorID,
	}, map[string]string{"post_id": strconv.Itoa(post.ID)})

	return post, nil
}

// Get loads the full post aggregate and annotates it for the viewer.
func (s *PostService) Get(ctx context.Context, id, viewerID int) (views.PostView, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return views.PostView{}, err
	}
	return views.ProjectPost(post, viewerID), nil
}

// List loads all posts newest first and annotates each for the viewer.
func (s *PostService) List(ctx context.Context, viewerID int) ([]views.PostView, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, err
	}
	return views.ProjectPosts(posts, viewerID), nil
}

// Delete removes a post. Only the author may delete their post.
func (s *PostService) Delete(ctx context.Context, id, requestorID int) error {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if post.AuthorID != requestorID {
		return ErrForbidden
	}
	return s.posts.Delete(ctx, id)
}

// Like records that the user liked the post. Liking an already-liked
// post is a no-op: the edge is a set membership fact, never a counter.
func (s *PostService) Like(ctx context.Context, userID, postID int) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}
	return s.likes.Create(ctx, userID, postID)
}

// Unlike removes the user's like edge. Removing an absent edge is a no-op.
func (s *PostService) Unlike(ctx context.Context, userID, postID int) error {
	if err := s.requirePost(ctx, postID); err != nil {
		return err
	}
	return s.likes.Delete(ctx, userID, postID)
}

// AddComment attaches a comment to the post.
func (s *PostService) AddComment(ctx context.Context, postID, userID int, content string) (types.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return types.Comment{}, fmt.Errorf("%w: content is required", ErrValidation)
	}
	if err := s.requirePost(ctx, postID); err != nil {
		return types.Comment{}, err
	}
	return s.comments.Create(ctx, types.Comment{
		PostID:  postID,
		UserID:  userID,
		Content: content,
	})
}

func (s *PostService) requirePost(ctx context.Context, id int) error {
	exists, err := s.posts.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return store.ErrNotFound
	}
	return nil
}

type postCreatedEvent struct {
	PostID   int `json:"post_id"`
	AuthorID int `json:"author_id"`
}

// publishEvent fires a domain event without letting a broker failure
// bubble into the request path.
func publishEvent(ctx context.Context, bus EventBus, channel string, payload any, attrs map[string]string) {
	if bus == nil {
		return
	}
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("marshal %s event: %v", channel, err)
		return
	}
	if _, err := bus.Publish(ctx, channel, data, attrs); err != nil {
		log.Printf("publish %s event: %v", channel, err)
	}
}
