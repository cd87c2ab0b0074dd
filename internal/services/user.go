package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/linkwave/apiserver/internal/store"
	"github.com/linkwave/apiserver/internal/views"
	"github.com/linkwave/apiserver/types"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByID(ctx context.Context, id int) (types.User, error)
	GetByEmail(ctx context.Context, email string) (types.User, error)
	Create(ctx context.Context, user types.User) (types.User, error)
	Update(ctx context.Context, user types.User) (types.User, error)
	GetWithEdges(ctx context.Context, id int) (types.User, error)
}

// AvatarGenerator renders a deterministic placeholder avatar for a seed.
type AvatarGenerator interface {
	Generate(seed string) ([]byte, error)
}

// BlobStore persists avatar images and knows their serving address.
type BlobStore interface {
	Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error
	URL(key string) string
}

// UserService encapsulates registration, authentication and profile
// use-cases.
type UserService struct {
	repo    UserRepository
	follows FollowRepository
	avatars AvatarGenerator
	blobs   BlobStore
}

func NewUserService(repo UserRepository, follows FollowRepository, avatars AvatarGenerator, blobs BlobStore) *UserService {
	return &UserService{
		repo:    repo,
		follows: follows,
		avatars: avatars,
		blobs:   blobs,
	}
}

// Register creates a new account: checks email uniqueness, hashes the
// password, renders and stores a placeholder avatar, and persists the
// user. The returned user carries no password in any serializable field.
func (s *UserService) Register(ctx context.Context, email, password, name string) (types.User, error) {
	email = strings.TrimSpace(email)
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return types.User{}, fmt.Errorf("%w: email, password and name are required", ErrValidation)
	}

	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return types.User{}, ErrEmailTaken
	} else if !errors.Is(err, store.ErrNotFound) {
		return types.User{}, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return types.User{}, err
	}

	avatarURL, err := s.storeAvatar(ctx, name)
	if err != nil {
		return types.User{}, err
	}

	user, err := s.repo.Create(ctx, types.User{
		Email:        email,
		Name:         name,
		AvatarURL:    avatarURL,
		PasswordHash: string(hashed),
	})
	if err != nil {
		// Concurrent registration of the same email loses the race at
		// the unique constraint, not here.
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, ErrEmailTaken
		}
		return types.User{}, err
	}
	return user, nil
}

// Authenticate verifies the email/password pair and returns the account.
// Every failure mode yields ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (types.User, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return types.User{}, fmt.Errorf("%w: email and password are required", ErrValidation)
	}

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.User{}, ErrInvalidCredentials
		}
		return types.User{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return types.User{}, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) GetByID(ctx context.Context, id int) (types.User, error) {
	return s.repo.GetByID(ctx, id)
}

// CurrentUser loads the viewer's own record with follower and following
// lists expanded. Self-view needs no is_following flag.
func (s *UserService) CurrentUser(ctx context.Context, viewerID int) (types.User, error) {
	return s.repo.GetWithEdges(ctx, viewerID)
}

// GetProfile loads a user with its edges and annotates it with whether
// the viewer follows them.
func (s *UserService) GetProfile(ctx context.Context, id, viewerID int) (views.ProfileView, error) {
	user, err := s.repo.GetWithEdges(ctx, id)
	if err != nil {
		return views.ProfileView{}, err
	}

	isFollowing, err := s.follows.Exists(ctx, viewerID, id)
	if err != nil {
		return views.ProfileView{}, err
	}

	return views.ProjectProfile(user, isFollowing), nil
}

// ProfileUpdate carries the fields of a partial profile update. Nil
// means "leave unchanged"; a pointer to the zero value is an explicit
// assignment.
type ProfileUpdate struct {
	Email       *string
	Name        *string
	DateOfBirth *time.Time
	Bio         *string
	Location    *string
}

// UpdateProfile applies a partial update to the target user. Only the
// owner may edit their profile. An email change is rejected when another
// account already owns the address.
func (s *UserService) UpdateProfile(ctx context.Context, targetID, requestorID int, upd ProfileUpdate) (types.User, error) {
	if targetID != requestorID {
		return types.User{}, ErrForbidden
	}

	user, err := s.repo.GetByID(ctx, targetID)
	if err != nil {
		return types.User{}, err
	}

	if upd.Email != nil && *upd.Email != user.Email {
		email := strings.TrimSpace(*upd.Email)
		if email == "" {
			return types.User{}, fmt.Errorf("%w: email cannot be empty", ErrValidation)
		}
		other, err := s.repo.GetByEmail(ctx, email)
		if err == nil && other.ID != targetID {
			return types.User{}, ErrEmailTaken
		}
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			return types.User{}, err
		}
		user.Email = email
	}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return types.User{}, fmt.Errorf("%w: name cannot be empty", ErrValidation)
		}
		user.Name = name
	}
	if upd.DateOfBirth != nil {
		user.DateOfBirth = upd.DateOfBirth
	}
	if upd.Bio != nil {
		user.Bio = *upd.Bio
	}
	if upd.Location != nil {
		user.Location = *upd.Location
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		if errors.Is(err, store.ErrDuplicate) {
			return types.User{}, ErrEmailTaken
		}
		return types.User{}, err
	}
	return updated, nil
}

func (s *UserService) storeAvatar(ctx context.Context, name string) (string, error) {
	png, err := s.avatars.Generate(name)
	if err != nil {
		return "", err
	}

	key := fmt.Sprintf("%s_%d.png", avatarSlug(name), time.Now().UnixMilli())
	if err := s.blobs.Put(ctx, key, bytes.NewReader(png), int64(len(png)), "image/png"); err != nil {
		return "", err
	}
	return s.blobs.URL(key), nil
}

func avatarSlug(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		default:
			b.WriteByte('-')
		}
	}
	return b.String()
}
