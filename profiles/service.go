// This file contains the business logic of the follow graph: resolving the
// target user, the self-follow rule, and idempotency-guarded follow and
// unfollow toggles.
package profiles

import (
	"context"

	"go.uber.org/zap"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
)

// UserSource is the slice of the identity store this service needs.
// Satisfied by auth.UserStore.
type UserSource interface {
	GetByUsername(ctx context.Context, username string) (*auth.User, error)
}

// Service implements profile reads and follow/unfollow.
type Service struct {
	users   UserSource
	follows FollowStore
	log     *zap.SugaredLogger
}

// NewService creates a new profiles Service.
func NewService(users UserSource, follows FollowStore, log *zap.SugaredLogger) *Service {
	return &Service{users: users, follows: follows, log: log}
}

// GetProfile resolves a profile by username. `following` is true iff the
// viewer follows the target; anonymous viewers (nil viewerID) always see
// false.
func (s *Service) GetProfile(ctx context.Context, username string, viewerID *int) (*Profile, error) {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != nil {
		following, err = s.follows.Exists(ctx, *viewerID, target.ID)
		if err != nil {
			return nil, err
		}
	}

	profile := NewProfile(target, following)
	return &profile, nil
}

// Follow creates a follow edge from follower to the named target.
// Self-follows are rejected regardless of prior state, and following an
// already-followed user is a visible error rather than a silent no-op.
func (s *Service) Follow(ctx context.Context, targetUsername string, followerID int) (*Profile, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	if target.ID == followerID {
		return nil, apperror.NewBadRequestError("you cannot follow yourself", nil)
	}

	following, err := s.follows.Exists(ctx, followerID, target.ID)
	if err != nil {
		return nil, err
	}
	if following {
		return nil, apperror.NewBadRequestError("already following this user", nil)
	}

	if err := s.follows.Create(ctx, followerID, target.ID); err != nil {
		// A concurrent duplicate slipped past the pre-check and hit the
		// primary key; present it exactly like the pre-checked case.
		if apperror.IsConflictError(err) {
			return nil, apperror.NewBadRequestError("already following this user", nil)
		}
		return nil, err
	}

	s.log.Infow("user followed", "follower_id", followerID, "following_id", target.ID)
	profile := NewProfile(target, true)
	return &profile, nil
}

// Unfollow removes a follow edge from follower to the named target.
func (s *Service) Unfollow(ctx context.Context, targetUsername string, followerID int) (*Profile, error) {
	target, err := s.users.GetByUsername(ctx, targetUsername)
	if err != nil {
		return nil, err
	}

	if target.ID == followerID {
		return nil, apperror.NewBadRequestError("you cannot unfollow yourself", nil)
	}

	following, err := s.follows.Exists(ctx, followerID, target.ID)
	if err != nil {
		return nil, err
	}
	if !following {
		return nil, apperror.NewBadRequestError("you are not following this user", nil)
	}

	if err := s.follows.Delete(ctx, followerID, target.ID); err != nil {
		return nil, err
	}

	profile := NewProfile(target, false)
	return &profile, nil
}
