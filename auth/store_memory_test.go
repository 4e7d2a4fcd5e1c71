package auth

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"

	"github.com/user/conduit-go/apperror"
)

type MemoryUserStoreSuite struct {
	suite.Suite
	ctx   context.Context
	store *MemoryUserStore

	alice *User
	bob   *User
}

func (s *MemoryUserStoreSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewMemoryUserStore()

	var err error
	s.alice, err = s.store.Create(s.ctx, &User{
		Username: "alice", Email: "alice@example.com", HashedPassword: "x",
	})
	s.Require().NoError(err)
	s.bob, err = s.store.Create(s.ctx, &User{
		Username: "bob", Email: "bob@example.com", HashedPassword: "x",
	})
	s.Require().NoError(err)
}

func TestMemoryUserStoreSuite(t *testing.T) {
	suite.Run(t, new(MemoryUserStoreSuite))
}

func (s *MemoryUserStoreSuite) TestUpdateUniqueness() {
	str := func(v string) *string { return &v }

	s.Run("a combined patch applies atomically", func() {
		updated, err := s.store.Update(s.ctx, s.alice.ID, UserPatch{
			Username: str("alicia"),
			Email:    str("alicia@example.com"),
		})
		s.Require().NoError(err)
		s.Equal("alicia", updated.Username)
		s.Equal("alicia@example.com", updated.Email)
	})

	s.Run("a rejected patch leaves the user untouched", func() {
		// Valid new username, but the email collides with bob's. The whole
		// patch must be refused, including the username half.
		_, err := s.store.Update(s.ctx, s.alice.ID, UserPatch{
			Username: str("alice2"),
			Email:    str("bob@example.com"),
		})
		s.Require().Error(err)
		s.True(apperror.IsConflictError(err))

		stored, err := s.store.GetByID(s.ctx, s.alice.ID)
		s.Require().NoError(err)
		s.Equal("alicia", stored.Username, "failed update must not leave partial state")
		s.Equal("alicia@example.com", stored.Email)
	})

	s.Run("a colliding username is also refused whole", func() {
		_, err := s.store.Update(s.ctx, s.alice.ID, UserPatch{
			Username: str("bob"),
			Email:    str("fresh@example.com"),
		})
		s.Require().Error(err)
		s.True(apperror.IsConflictError(err))

		stored, err := s.store.GetByID(s.ctx, s.alice.ID)
		s.Require().NoError(err)
		s.Equal("alicia@example.com", stored.Email)
	})
}
