package handlers

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/linkwave/apiserver/internal/services"
	"github.com/linkwave/apiserver/internal/store"
	"github.com/linkwave/apiserver/types"
)

const testJWTSecret = "test-secret"

// newTestRouter assembles the real routers and services over in-memory
// repositories, mirroring the production wiring in internal/server.
func newTestRouter() *chi.Mux {
	users := &memUserRepo{nextID: 1, users: make(map[int]types.User)}
	follows := &memFollowRepo{edges: make(map[[2]int]bool)}
	likes := &memLikeRepo{nextID: 1, edges: make(map[[2]int]types.Like)}
	posts := &memPostRepo{nextID: 1, posts: make(map[int]types.Post), likes: likes}
	comments := &memCommentRepo{nextID: 1}

	userService := services.NewUserService(users, follows, memAvatarGen{}, &memBlobStore{})
	postService := services.NewPostService(posts, likes, comments, nil)
	followService := services.NewFollowService(follows, users, nil)

	authMiddleware := RequireAuth(testJWTSecret)

	router := chi.NewRouter()
	router.Route("/auth", func(r chi.Router) {
		AuthRouter(r, userService, testJWTSecret)
	})
	router.Route("/posts", func(r chi.Router) {
		PostRouter(r, postService, authMiddleware)
	})
	router.Route("/users", func(r chi.Router) {
		UserRouter(r, userService, followService, authMiddleware)
	})
	return router
}

type memUserRepo struct {
	mu     sync.Mutex
	nextID int
	users  map[int]types.User
}

func (m *memUserRepo) GetByID(ctx context.Context, id int) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[id]
	if !ok {
		return types.User{}, store.ErrNotFound
	}
	return user, nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return types.User{}, store.ErrNotFound
}

func (m *memUserRepo) Create(ctx context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.users {
		if existing.Email == user.Email {
			return types.User{}, store.ErrDuplicate
		}
	}
	user.ID = m.nextID
	m.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) Update(ctx context.Context, user types.User) (types.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.ID]; !ok {
		return types.User{}, store.ErrNotFound
	}
	user.UpdatedAt = time.Now()
	m.users[user.ID] = user
	return user, nil
}

func (m *memUserRepo) GetWithEdges(ctx context.Context, id int) (types.User, error) {
	return m.GetByID(ctx, id)
}

type memFollowRepo struct {
	mu    sync.Mutex
	edges map[[2]int]bool
}

func (m *memFollowRepo) Create(ctx context.Context, followerID, followingID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.edges[[2]int{followerID, followingID}] = true
	return nil
}

func (m *memFollowRepo) Delete(ctx context.Context, followerID, followingID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.edges, [2]int{followerID, followingID})
	return nil
}

func (m *memFollowRepo) Exists(ctx context.Context, followerID, followingID int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.edges[[2]int{followerID, followingID}], nil
}

type memLikeRepo struct {
	mu     sync.Mutex
	nextID int
	edges  map[[2]int]types.Like
}

func (m *memLikeRepo) Create(ctx context.Context, userID, postID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	pair := [2]int{userID, postID}
	if _, ok := m.edges[pair]; ok {
		return nil
	}
	m.edges[pair] = types.Like{ID: m.nextID, UserID: userID, PostID: postID, CreatedAt: time.Now()}
	m.nextID++
	return nil
}

func (m *memLikeRepo) Delete(ctx context.Context, userID, postID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.edges, [2]int{userID, postID})
	return nil
}

func (m *memLikeRepo) likesFor(postID int) []types.Like {
	m.mu.Lock()
	defer m.mu.Unlock()
	likes := make([]types.Like, 0)
	for _, like := range m.edges {
		if like.PostID == postID {
			likes = append(likes, like)
		}
	}
	sort.Slice(likes, func(i, j int) bool { return likes[i].ID < likes[j].ID })
	return likes
}

type memPostRepo struct {
	mu     sync.Mutex
	nextID int
	posts  map[int]types.Post
	likes  *memLikeRepo
}

func (m *memPostRepo) Create(ctx context.Context, post types.Post) (types.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	post.ID = m.nextID
	m.nextID++
	post.CreatedAt = time.Now()
	m.posts[post.ID] = post
	return post, nil
}

func (m *memPostRepo) GetByID(ctx context.Context, id int) (types.Post, error) {
	m.mu.Lock()
	post, ok := m.posts[id]
	m.mu.Unlock()
	if !ok {
		return types.Post{}, store.ErrNotFound
	}
	post.Likes = m.likes.likesFor(id)
	return post, nil
}

func (m *memPostRepo) List(ctx context.Context) ([]types.Post, error) {
	m.mu.Lock()
	posts := make([]types.Post, 0, len(m.posts))
	for _, post := range m.posts {
		posts = append(posts, post)
	}
	m.mu.Unlock()
	sort.Slice(posts, func(i, j int) bool {
		if !posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].CreatedAt.After(posts[j].CreatedAt)
		}
		return posts[i].ID > posts[j].ID
	})
	for i := range posts {
		posts[i].Likes = m.likes.likesFor(posts[i].ID)
	}
	return posts, nil
}

func (m *memPostRepo) Delete(ctx context.Context, id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.posts, id)
	return nil
}

func (m *memPostRepo) Exists(ctx context.Context, id int) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.posts[id]
	return ok, nil
}

type memCommentRepo struct {
	mu     sync.Mutex
	nextID int
}

func (m *memCommentRepo) Create(ctx context.Context, comment types.Comment) (types.Comment, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	comment.ID = m.nextID
	m.nextID++
	comment.CreatedAt = time.Now()
	return comment, nil
}

type memAvatarGen struct{}

func (memAvatarGen) Generate(seed string) ([]byte, error) {
	return []byte("png:" + seed), nil
}

type memBlobStore struct{}

func (memBlobStore) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := io.ReadAll(r)
	return err
}

func (memBlobStore) URL(key string) string {
	return "/uploads/" + key
}
