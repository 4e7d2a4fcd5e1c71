package profiles

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
)

type ProfileServiceSuite struct {
	suite.Suite
	ctx     context.Context
	users   *auth.MemoryUserStore
	follows *MemoryFollowStore
	service *Service
}

func (s *ProfileServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.users = auth.NewMemoryUserStore()
	s.follows = NewMemoryFollowStore()
	s.service = NewService(s.users, s.follows, zap.NewNop().Sugar())
}

func TestProfileServiceSuite(t *testing.T) {
	suite.Run(t, new(ProfileServiceSuite))
}

func (s *ProfileServiceSuite) newUser(username string) *auth.User {
	user, err := s.users.Create(s.ctx, &auth.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "irrelevant",
	})
	s.Require().NoError(err)
	return user
}

func (s *ProfileServiceSuite) TestGetProfile() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")

	s.Run("anonymous viewer sees following false", func() {
		profile, err := s.service.GetProfile(s.ctx, "alice", nil)
		s.Require().NoError(err)
		s.Equal("alice", profile.Username)
		s.False(profile.Following)
	})

	s.Run("unknown username is not found", func() {
		_, err := s.service.GetProfile(s.ctx, "nobody", nil)
		s.Require().Error(err)
		s.True(apperror.IsNotFound(err))
	})

	s.Run("follower sees following true", func() {
		s.Require().NoError(s.follows.Create(s.ctx, bob.ID, alice.ID))

		profile, err := s.service.GetProfile(s.ctx, "alice", &bob.ID)
		s.Require().NoError(err)
		s.True(profile.Following)
	})
}

func (s *ProfileServiceSuite) TestFollow() {
	s.newUser("alice")
	bob := s.newUser("bob")

	s.Run("following a user flips the flag", func() {
		profile, err := s.service.Follow(s.ctx, "alice", bob.ID)
		s.Require().NoError(err)
		s.True(profile.Following)
	})

	s.Run("following twice is a bad request", func() {
		_, err := s.service.Follow(s.ctx, "alice", bob.ID)
		s.Require().Error(err)
		s.True(apperror.IsBadRequestError(err))
		s.Contains(err.Error(), "already following this user")
	})

	s.Run("self-follow is rejected", func() {
		_, err := s.service.Follow(s.ctx, "bob", bob.ID)
		s.Require().Error(err)
		s.True(apperror.IsBadRequestError(err))
		s.Contains(err.Error(), "you cannot follow yourself")
	})

	s.Run("following an unknown user is not found", func() {
		_, err := s.service.Follow(s.ctx, "nobody", bob.ID)
		s.Require().Error(err)
		s.True(apperror.IsNotFound(err))
	})
}

// staleFollowStore wraps the memory store but always reports the edge as
// absent, so the service's pre-check passes and the duplicate is only caught
// by the store's uniqueness constraint on insert, as happens when two
// follow requests race.
type staleFollowStore struct {
	*MemoryFollowStore
}

func (s *staleFollowStore) Exists(ctx context.Context, followerID, followingID int) (bool, error) {
	return false, nil
}

func (s *ProfileServiceSuite) TestFollowInsertRace() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")
	s.Require().NoError(s.follows.Create(s.ctx, bob.ID, alice.ID))

	service := NewService(s.users, &staleFollowStore{s.follows}, zap.NewNop().Sugar())

	// The pre-check sees no edge, the insert hits the primary key; the
	// caller must get the same answer as the pre-checked duplicate.
	_, err := service.Follow(s.ctx, "alice", bob.ID)
	s.Require().Error(err)
	s.True(apperror.IsBadRequestError(err))
	s.Contains(err.Error(), "already following this user")
}

func (s *ProfileServiceSuite) TestUnfollow() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")

	s.Run("unfollowing without a follow is a bad request", func() {
		_, err := s.service.Unfollow(s.ctx, "alice", bob.ID)
		s.Require().Error(err)
		s.True(apperror.IsBadRequestError(err))
		s.Contains(err.Error(), "you are not following this user")
	})

	s.Run("unfollowing removes the edge", func() {
		_, err := s.service.Follow(s.ctx, "alice", bob.ID)
		s.Require().NoError(err)

		profile, err := s.service.Unfollow(s.ctx, "alice", bob.ID)
		s.Require().NoError(err)
		s.False(profile.Following)

		exists, err := s.follows.Exists(s.ctx, bob.ID, alice.ID)
		s.Require().NoError(err)
		s.False(exists)
	})

	s.Run("self-unfollow is rejected", func() {
		_, err := s.service.Unfollow(s.ctx, "bob", bob.ID)
		s.Require().Error(err)
		s.True(apperror.IsBadRequestError(err))
		s.Contains(err.Error(), "you cannot unfollow yourself")
	})
}
