package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
)

// stubIssuer stands in for the auth service so these tests only exercise the
// user logic.
type stubIssuer struct{}

func (stubIssuer) AccessToken(userID int) (string, error) {
	return "stub-token", nil
}

type UserServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *auth.MemoryUserStore
	service *Service

	alice *auth.User
}

func (s *UserServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = auth.NewMemoryUserStore()
	s.service = NewService(s.store, stubIssuer{}, zap.NewNop().Sugar())

	hashed, err := bcrypt.GenerateFromPassword([]byte("original"), bcrypt.MinCost)
	s.Require().NoError(err)
	s.alice, err = s.store.Create(s.ctx, &auth.User{
		Username:       "alice",
		Email:          "alice@example.com",
		HashedPassword: string(hashed),
	})
	s.Require().NoError(err)
}

func TestUserServiceSuite(t *testing.T) {
	suite.Run(t, new(UserServiceSuite))
}

func (s *UserServiceSuite) TestGetCurrentUser() {
	s.Run("returns the account with a token", func() {
		resp, err := s.service.GetCurrentUser(s.ctx, s.alice.ID)
		s.Require().NoError(err)
		s.Equal("alice", resp.User.Username)
		s.Equal("alice@example.com", resp.User.Email)
		s.Equal("stub-token", resp.User.Token)
	})

	s.Run("unknown id is not found", func() {
		_, err := s.service.GetCurrentUser(s.ctx, 999)
		s.Require().Error(err)
		s.True(apperror.IsNotFound(err))
	})
}

func (s *UserServiceSuite) TestUpdateCurrentUser() {
	str := func(v string) *string { return &v }

	s.Run("an empty patch is a no-op", func() {
		resp, err := s.service.UpdateCurrentUser(s.ctx, s.alice.ID, UpdateUserRequest{})
		s.Require().NoError(err)
		s.Equal("alice", resp.User.Username)
	})

	s.Run("updates profile fields", func() {
		resp, err := s.service.UpdateCurrentUser(s.ctx, s.alice.ID, UpdateUserRequest{
			Bio:   str("gopher"),
			Image: str("https://example.com/alice.png"),
		})
		s.Require().NoError(err)
		s.Require().NotNil(resp.User.Bio)
		s.Equal("gopher", *resp.User.Bio)
	})

	s.Run("lowercases a new email", func() {
		resp, err := s.service.UpdateCurrentUser(s.ctx, s.alice.ID, UpdateUserRequest{
			Email: str("Alice@NEW.example.com"),
		})
		s.Require().NoError(err)
		s.Equal("alice@new.example.com", resp.User.Email)
	})

	s.Run("re-hashes a new password", func() {
		_, err := s.service.UpdateCurrentUser(s.ctx, s.alice.ID, UpdateUserRequest{
			Password: str("brand-new"),
		})
		s.Require().NoError(err)

		stored, err := s.store.GetByID(s.ctx, s.alice.ID)
		s.Require().NoError(err)
		s.NotEqual("brand-new", stored.HashedPassword, "passwords are never stored in the clear")
		s.NoError(bcrypt.CompareHashAndPassword([]byte(stored.HashedPassword), []byte("brand-new")))
	})

	s.Run("rejects an empty password", func() {
		_, err := s.service.UpdateCurrentUser(s.ctx, s.alice.ID, UpdateUserRequest{
			Password: str(""),
		})
		s.Require().Error(err)
		s.True(apperror.IsValidationError(err))
	})

	s.Run("rejects a taken username", func() {
		_, err := s.store.Create(s.ctx, &auth.User{
			Username: "bob", Email: "bob@example.com", HashedPassword: "x",
		})
		s.Require().NoError(err)

		_, err = s.service.UpdateCurrentUser(s.ctx, s.alice.ID, UpdateUserRequest{
			Username: str("bob"),
		})
		s.Require().Error(err)
		s.True(apperror.IsConflictError(err))
	})
}
