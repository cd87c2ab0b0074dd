package store

import (
	"context"
	"database/sql"
)

// FollowRepository handles persistence for follow edges.
type FollowRepository struct {
	db *sql.DB
}

func NewFollowRepository(db *sql.DB) *FollowRepository {
	return &FollowRepository{db: db}
}

// Create inserts the directed (follower, following) edge. Inserting an
// edge that already exists is a no-op; the unique constraint on the
// ordered pair is the backstop under concurrent inserts.
func (r *FollowRepository) Create(ctx context.Context, followerID, followingID int) error {
	const query = `
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, following_id) DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, followerID, followingID)
	return err
}

// Delete removes the directed edge. Removing an absent edge is a no-op.
func (r *FollowRepository) Delete(ctx context.Context, followerID, followingID int) error {
	const query = `DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`
	_, err := r.db.ExecContext(ctx, query, followerID, followingID)
	return err
}

// Exists reports whether the directed (follower, following) edge exists.
// The check is on the exact ordered pair; the reverse edge does not count.
func (r *FollowRepository) Exists(ctx context.Context, followerID, followingID int) (bool, error) {
	const query = `
		SELECT EXISTS (
			SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2
		)`
	var exists bool
	if err := r.db.QueryRowContext(ctx, query, followerID, followingID).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}
