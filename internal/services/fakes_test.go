package services

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/linkwave/apiserver/internal/store"
	"github.com/linkwave/apiserver/types"
)

// In-memory doubles for the repository interfaces. They mirror the
// storage constraints that matter to the services: unique emails, and
// set semantics for like and follow edges.

type fakeUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]types.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{nextID: 1, users: make(map[int]types.User)}
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	user, ok := f.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (f *fakeUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	for _, existing := range f.users {
		if existing.ID != user.ID && existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.UpdatedAt = time.Now()
	f.users[user.ID] = user
	return user, nil
}

func (f *fakeUserRepo) GetWithEdges(ctx context.Context, id int) (types.User, error) {
	return f.GetByID(ctx, id)
}

type followPair struct {
	follower  int
	following int
}

type fakeFollowRepo struct {
	mu    sync.Mutex
	edges map[followPair]bool
}

func newFakeFollowRepo() *fakeFollowRepo {
	return &fakeFollowRepo{edges: make(map[followPair]bool)}
}

func (f *fakeFollowRepo) Create(ctx context.Context, followerID, followingID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.edges[followPair{followerID, followingID}] = true
	return nil
}

func (f *fakeFollowRepo) Delete(ctx context.Context, followerID, followingID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.edges, followPair{followerID, followingID})
	return nil
}

func (f *fakeFollowRepo) Exists(ctx context.Context, followerID, followingID int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.edges[followPair{followerID, followingID}], nil
}

func (f *fakeFollowRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edges)
}

type likePair struct {
	user int
	post int
}

type fakeLikeRepo struct {
	mu     sync.Mutex
	nextID int
	edges  map[likePair]types.Like
}

func newFakeLikeRepo() *fakeLikeRepo {
	return &fakeLikeRepo{nextID: 1, edges: make(map[likePair]types.Like)}
}

func (f *fakeLikeRepo) Create(ctx context.Context, userID, postID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	pair := likePair{userID, postID}
	if _, ok := f.edges[pair]; ok {
		return nil
	}
	f.edges[pair] = types.Like{ID: f.nextID, UserID: userID, PostID: postID, CreatedAt: time.Now()}
	f.nextID++
	return nil
}

func (f *fakeLikeRepo) Delete(ctx context.Context, userID, postID int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.edges, likePair{userID, postID})
	return nil
}

func (f *fakeLikeRepo) likesFor(postID int) []types.Like {
	f.mu.Lock()
	defer f.mu.Unlock()
	likes := make([]types.Like, 0)
	for _, like := range f.edges {
		if like.PostID == postID {
			likes = append(likes, like)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].ID < likes[j].ID })
	return likes
}

func (f *fakeLikeRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.edges)
}

type fakePostRepo struct {
	mu     sync.Mutex
	nextID int
	posts  map[int]types.Post
	likes  *fakeLikeRepo
}

func newFakePostRepo(likes *fakeLikeRepo) *fakePostRepo {
	return &fakePostRepo{nextID: 1, posts: make(map[int]types.Post), likes: likes}
}

func (f *fakePostRepo) Create(ctx context.Context, post types.Post) (types.Post, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	post.ID = f.nextID
	f.nextID++
	if post.CreatedAt.IsZero() {
		post.CreatedAt = time.Now()
	}
	f.posts[post.ID] = post
	return post, nil
}

func (f *fakePostRepo) GetByID(ctx context.Context, id int) (types.Post, error) {
	f.mu.Lock()
	post, ok := f.posts[id]
	f.mu.Unlock()
	if !ok {
		return types.Post{}, store.ErrNotFound
	}
	post.Likes = f.likes.likesFor(id)
	return post, nil
}

func (f *fakePostRepo) List(ctx context.Context) ([]types.Post, error) {
	f.mu.Lock()
	posts := make([]types.Post, 0, len(f.posts))
	for _, post := range f.posts {
		posts = append(posts, post)
	}
	f.mu.Unlock()
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	for i := range posts {
		posts[i].Likes = f.likes.likesFor(posts[i].ID)
	}
	return posts, nil
}

func (f *fakePostRepo) Delete(ctx context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(f.posts, id)
	return nil
}

func (f *fakePostRepo) Exists(ctx context.Context, id int) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.posts[id]
	return ok, nil
}

type fakeCommentRepo struct {
	mu       sync.Mutex
	nextID   int
	comments []types.Comment
}

func newFakeCommentRepo() *fakeCommentRepo {
	return &fakeCommentRepo{nextID: 1}
}

func (f *fakeCommentRepo) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	comment.ID = f.nextID
	f.nextID++
	comment.CreatedAt = time.Now()
	f.comments = append(f.comments, comment)
	return comment, nil
}

type fakeAvatarGenerator struct{}

func (fakeAvatarGenerator) Generate(seed string) ([]byte, error) {
	return []byte("png:" + seed), nil
}

type fakeBlobStore struct {
	mu   sync.Mutex
	keys []string
}

func (f *fakeBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keys = append(f.keys, key)
	_, err := io.ReadAll(r)
	return err
}

func (f *fakeBlobStore) URL(key string) string {
	return "/uploads/" + key
}

type fakeEventBus struct {
	mu       sync.Mutex
	channels []string
}

func (f *fakeEventBus) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.channels = append(f.channels, channel)
	return "msg", nil
}
