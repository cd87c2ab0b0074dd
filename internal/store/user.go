package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"
	"github.com/linkwave/apiserver/types"
)

// UserRepository handles persistence for users.
type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, email, name, avatar_url, date_of_birth, bio, location, password_hash, created_at, updated_at`

func scanUser(row interface{ Scan(...any) error }) (types.User, error) {
	var user types.User
	err := row.Scan(
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
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return types.User{}, ErrNotFound
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id int) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE id = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, id))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (types.User, error) {
	const query = `
		SELECT ` + userColumns + `
		FROM users
		WHERE email = $1`
	return scanUser(r.db.QueryRowContext(ctx, query, email))
}

func (r *UserRepository) Create(ctx context.Context, user types.User) (types.User, error) {
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	const query = `
		INSERT INTO users (email, name, avatar_url, date_of_birth, bio, location, password_hash, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	err := r.db.QueryRowContext(
		ctx,
		query,
		user.Email,
		user.Name,
		user.AvatarURL,
		user.DateOfBirth,
		user.Bio,
		user.Location,
		user.PasswordHash,
		user.CreatedAt,
		user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return types.User{}, ErrDuplicate
		}
		return types.User{}, err
	}
	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user types.User) (types.User, error) {
	user.UpdatedAt = time.Now()

	const query = `
		UPDATE users
		SET email = $1,
			name = $2,
			avatar_url = $3,
			date_of_birth = $4,
			bio = $5,
			location = $6,
			updated_at = $7
		WHERE id = $8`
	result, err := r.db.ExecContext(
		ctx,
		query,
		user.Email,
		user.Name,
		user.AvatarURL,
		user.DateOfBirth,
		user.Bio,
		user.Location,
		user.UpdatedAt,
		user.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return types.User{}, ErrDuplicate
		}
		return types.User{}, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return types.User{}, err
	}
	if affected == 0 {
		return types.User{}, ErrNotFound
	}
	return user, nil
}

// GetWithEdges loads a user together with its follower and following edges,
// each edge carrying the user record on the far end.
func (r *UserRepository) GetWithEdges(ctx context.Context, id int) (types.User, error) {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return types.User{}, err
	}

	const followersQuery = `
		SELECT f.id, f.follower_id, f.following_id, f.created_at,
			u.id, u.email, u.name, u.avatar_url, u.date_of_birth, u.bio, u.location, u.password_hash, u.created_at, u.updated_at
		FROM follows f
		JOIN users u ON u.id = f.follower_id
		WHERE f.following_id = $1
		ORDER BY f.id`
	followers, err := r.queryEdges(ctx, followersQuery, id, true)
	if err != nil {
		return types.User{}, err
	}
	user.Followers = followers

	const followingQuery = `
		SELECT f.id, f.follower_id, f.following_id, f.created_at,
			u.id, u.email, u.name, u.avatar_url, u.date_of_birth, u.bio, u.location, u.password_hash, u.created_at, u.updated_at
		FROM follows f
		JOIN users u ON u.id = f.following_id
		WHERE f.follower_id = $1
		ORDER BY f.id`
	following, err := r.queryEdges(ctx, followingQuery, id, false)
	if err != nil {
		return types.User{}, err
	}
	user.Following = following

	return user, nil
}

func (r *UserRepository) queryEdges(ctx context.Context, query string, id int, farEndIsFollower bool) ([]types.Follow, error) {
	rows, err := r.db.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	edges := make([]types.Follow, 0)
	for rows.Next() {
		var edge types.Follow
		var farEnd types.User
		if err := rows.Scan(
			&edge.ID,
			&edge.FollowerID,
			&edge.FollowingID,
			&edge.CreatedAt,
			&farEnd.ID,
			&farEnd.Email,
			&farEnd.Name,
			&farEnd.AvatarURL,
			&farEnd.DateOfBirth,
			&farEnd.Bio,
			&farEnd.Location,
			&farEnd.PasswordHash,
			&farEnd.CreatedAt,
			&farEnd.UpdatedAt,
		); err != nil {
			return nil, err
		}
		if farEndIsFollower {
			edge.Follower = &farEnd
		} else {
			edge.Following = &farEnd
		}
		edges = append(edges, edge)
	}
	return edges, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
