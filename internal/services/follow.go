package services

import (
	"context"
	"fmt"
	"strconv"

	"github.com/linkwave/apiserver/internal/events"
)

// FollowRepository defines persistence operations for follow edges.
type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID int) error
	Delete(ctx context.Context, followerID, followingID int) error
	Exists(ctx context.Context, followerID, followingID int) (bool, error)
}

// FollowService encapsulates the social graph use-cases.
type FollowService struct {
	follows FollowRepository
	users   UserRepository
	bus     EventBus
}

func NewFollowService(follows FollowRepository, users UserRepository, bus EventBus) *FollowService {
	return &FollowService{
		follows: follows,
		users:   users,
		bus:     bus,
	}
}

// Follow creates the directed edge follower -> following. Following an
// already-followed user is a no-op; the storage constraint keeps the
// edge unique under concurrent requests. Following yourself is rejected.
func (s *FollowService) Follow(ctx context.Context, followerID, followingID int) error {
	if followerID == followingID {
		return fmt.Errorf("%w: cannot follow yourself", ErrValidation)
	}
	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		return err
	}
	if err := s.follows.Create(ctx, followerID, followingID); err != nil {
		return err
	}

	publishEvent(ctx, s.bus, events.ChannelUserFollowed, userFollowedEvent{
		FollowerID:  followerID,
		FollowingID: followingID,
	}, map[string]string{"following_id": strconv.Itoa(followingID)})

	return nil
}

// Unfollow removes the directed edge. Unfollowing someone you do not
// follow is a no-op.
func (s *FollowService) Unfollow(ctx context.Context, followerID, followingID int) error {
	if _, err := s.users.GetByID(ctx, followingID); err != nil {
		return err
	}
	return s.follows.Delete(ctx, followerID, followingID)
}

// IsFollowing reports whether the exact ordered edge exists.
func (s *FollowService) IsFollowing(ctx context.Context, followerID, followingID int) (bool, error) {
	return s.follows.Exists(ctx, followerID, followingID)
}

type userFollowedEvent struct {
	FollowerID  int `json:"follower_id"`
	FollowingID int `json:"following_id"`
}
