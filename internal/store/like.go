package store

import (
	"context"
	"database/sql"
)

// LikeRepository handles persistence for like edges.
type LikeRepository struct {
	db *sql.DB
}

func NewLikeRepository(db *sql.DB) *LikeRepository {
	return &LikeRepository{db: db}
}

// Create inserts the (user, post) like edge. Inserting an edge that
// already exists is a no-op; the unique constraint is the backstop under
// concurrent inserts.
func (r *LikeRepository) Create(ctx context.Context, userID, postID int) error {
	const query = `
		INSERT INTO likes (user_id, post_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, post_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, userID, postID)
	return err
}

// Delete removes the (user, post) like edge. Removing an absent edge is
// a no-op.
func (r *LikeRepository) Delete(ctx context.Context, userID, postID int) error {
	const query = `DELETE FROM likes WHERE user_id = $1 AND post_id = $2`
	_, err := r.db.ExecContext(ctx, query, userID, postID)
	return err
}
