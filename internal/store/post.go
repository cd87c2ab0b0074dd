package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/linkwave/apiserver/types"
)

// PostRepository handles persistence for posts and their aggregates.
type PostRepository struct {
	db *sql.DB
}

func NewPostRepository(db *sql.DB) *PostRepository {
	return &PostRepository{db: db}
}

func (r *PostRepository) Create(ctx context.Context, post types.Post) (types.Post, error) {
	post.CreatedAt = time.Now()

	const query = `
		INSERT INTO posts (content, author_id, created_at)
		VALUES ($1, $2, $3)
		RETURNING id`
	if err := r.db.QueryRowContext(
		ctx,
		query,
		post.Content,
		post.AuthorID,
		post.CreatedAt,
	).Scan(&post.ID); err != nil {
		return types.Post{}, err
	}
	return post, nil
}

// GetByID loads a post with its author, comments (each with commenter)
// and like edges.
func (r *PostRepository) GetByID(ctx context.Context, id int) (types.Post, error) {
	const query = `
		SELECT p.id, p.content, p.author_id, p.created_at,
			u.id, u.email, u.name, u.avatar_url, u.date_of_birth, u.bio, u.location, u.password_hash, u.created_at, u.updated_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		WHERE p.id = $1`
	var post types.Post
	var author types.User
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&post.ID,
		&post.Content,
		&post.AuthorID,
		&post.CreatedAt,
		&author.ID,
		&author.Email,
		&author.Name,
		&author.AvatarURL,
		&author.DateOfBirth,
		&author.Bio,
		&author.Location,
		&author.PasswordHash,
		&author.CreatedAt,
		&author.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.Post{}, ErrNotFound
		}
		return types.Post{}, err
	}
	post.Author = &author

	comments, err := r.commentsForPosts(ctx, []int{post.ID}, true)
	if err != nil {
		return types.Post{}, err
	}
	post.Comments = comments[post.ID]

	likes, err := r.likesForPosts(ctx, []int{post.ID})
	if err != nil {
		return types.Post{}, err
	}
	post.Likes = likes[post.ID]

	return post, nil
}

// List loads all posts newest first, each with its author, comments and
// like edges. Ties on created_at break by id so the order is stable.
func (r *PostRepository) List(ctx context.Context) ([]types.Post, error) {
	const query = `
		SELECT p.id, p.content, p.author_id, p.created_at,
			u.id, u.email, u.name, u.avatar_url, u.date_of_birth, u.bio, u.location, u.password_hash, u.created_at, u.updated_at
		FROM posts p
		JOIN users u ON u.id = p.author_id
		ORDER BY p.created_at DESC, p.id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	posts := make([]types.Post, 0)
	ids := make([]int, 0)
	for rows.Next() {
		var post types.Post
		var author types.User
		if err := rows.Scan(
			&post.ID,
			&post.Content,
			&post.AuthorID,
			&post.CreatedAt,
			&author.ID,
			&author.Email,
			&author.Name,
			&author.AvatarURL,
			&author.DateOfBirth,
			&author.Bio,
			&author.Location,
			&author.PasswordHash,
			&author.CreatedAt,
			&author.UpdatedAt,
		); err != nil {
			return nil, err
		}
		post.Author = &author
		posts = append(posts, post)
		ids = append(ids, post.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(posts) == 0 {
		return posts, nil
	}

	comments, err := r.commentsForPosts(ctx, ids, false)
	if err != nil {
		return nil, err
	}
	likes, err := r.likesForPosts(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range posts {
		posts[i].Comments = comments[posts[i].ID]
		posts[i].Likes = likes[posts[i].ID]
	}

	return posts, nil
}

// Exists reports whether a post with the given id exists.
func (r *PostRepository) Exists(ctx context.Context, id int) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM posts WHERE id = $1)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *PostRepository) Delete(ctx context.Context, id int) error {
	const query = `DELETE FROM posts WHERE id = $1`
	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PostRepository) commentsForPosts(ctx context.Context, postIDs []int, withUsers bool) (map[int][]types.Comment, error) {
	query := `
		SELECT id, post_id, user_id, content, created_at
		FROM comments
		WHERE post_id = ANY($1)
		ORDER BY id`
	if withUsers {
		query = `
			SELECT c.id, c.post_id, c.user_id, c.content, c.created_at,
				u.id, u.email, u.name, u.avatar_url, u.date_of_birth, u.bio, u.location, u.password_hash, u.created_at, u.updated_at
			FROM comments c
			JOIN users u ON u.id = c.user_id
			WHERE c.post_id = ANY($1)
			ORDER BY c.id`
	}

	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byPost := make(map[int][]types.Comment)
	for rows.Next() {
		var comment types.Comment
		if withUsers {
			var user types.User
			if err := rows.Scan(
				&comment.ID,
				&comment.PostID,
				&comment.UserID,
				&comment.Content,
				&comment.CreatedAt,
				&user.ID,
				&user.Email,
				&user.Name,
				&user.AvatarURL,
				&user.DateOfBirth,
				&user.Bio,
				&user.Location,
				&user.PasswordHash,
				&user.CreatedAt,
				&user.UpdatedAt,
			); err != nil {
				return nil, err
			}
			comment.User = &user
		} else {
			if err := rows.Scan(
				&comment.ID,
				&comment.PostID,
				&comment.UserID,
				&comment.Content,
				&comment.CreatedAt,
			); err != nil {
				return nil, err
			}
		}
		byPost[comment.PostID] = append(byPost[comment.PostID], comment)
	}
	return byPost, rows.Err()
}

func (r *PostRepository) likesForPosts(ctx context.Context, postIDs []int) (map[int][]types.Like, error) {
	const query = `
		SELECT id, user_id, post_id, created_at
		FROM likes
		WHERE post_id = ANY($1)
		ORDER BY id`
	rows, err := r.db.QueryContext(ctx, query, pq.Array(postIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	byPost := make(map[int][]types.Like)
	for rows.Next() {
		var like types.Like
		if err := rows.Scan(&like.ID, &like.UserID, &like.PostID, &like.CreatedAt); err != nil {
			return nil, err
		}
		byPost[like.PostID] = append(byPost[like.PostID], like)
	}
	return byPost, rows.Err()
}
