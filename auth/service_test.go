package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/config"
)

type AuthServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *MemoryUserStore
	service *AuthService
}

func (s *AuthServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewMemoryUserStore()
	s.service = NewAuthService(s.store, config.AuthConfig{
		JWTSecret:            "test-secret",
		AccessTokenDuration:  15 * time.Minute,
		RefreshTokenDuration: 24 * time.Hour,
	}, zap.NewNop().Sugar())
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) register(username, email, password string) (*User, *TokenResponse) {
	user, tokens, err := s.service.Register(s.ctx, RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	s.Require().NoError(err)
	return user, tokens
}

func (s *AuthServiceSuite) TestRegister() {
	s.Run("creates the user and issues a token pair", func() {
		user, tokens := s.register("alice", "Alice@Example.com", "s3cret")
		s.Equal("alice", user.Username)
		s.Equal("alice@example.com", user.Email, "emails are stored lowercased")
		s.NotEmpty(tokens.AccessToken)
		s.NotEmpty(tokens.RefreshToken)
		s.NotEqual(tokens.AccessToken, tokens.RefreshToken)
	})

	s.Run("rejects missing fields", func() {
		_, _, err := s.service.Register(s.ctx, RegisterRequest{Username: "bob"})
		s.Require().Error(err)
		s.True(apperror.IsValidationError(err))
	})

	s.Run("rejects a duplicate username", func() {
		_, _, err := s.service.Register(s.ctx, RegisterRequest{
			Username: "alice", Email: "other@example.com", Password: "pw",
		})
		s.Require().Error(err)
		s.True(apperror.IsConflictError(err))
		s.Contains(err.Error(), "username already exists")
	})

	s.Run("rejects a duplicate email regardless of case", func() {
		_, _, err := s.service.Register(s.ctx, RegisterRequest{
			Username: "alice2", Email: "ALICE@example.com", Password: "pw",
		})
		s.Require().Error(err)
		s.True(apperror.IsConflictError(err))
		s.Contains(err.Error(), "email already exists")
	})
}

func (s *AuthServiceSuite) TestLogin() {
	s.register("alice", "alice@example.com", "s3cret")

	s.Run("valid credentials log in", func() {
		user, tokens, err := s.service.Login(s.ctx, LoginRequest{
			Email: "alice@example.com", Password: "s3cret",
		})
		s.Require().NoError(err)
		s.Equal("alice", user.Username)
		s.NotEmpty(tokens.AccessToken)
	})

	s.Run("wrong password and unknown email fail identically", func() {
		_, _, errPw := s.service.Login(s.ctx, LoginRequest{
			Email: "alice@example.com", Password: "wrong",
		})
		_, _, errEmail := s.service.Login(s.ctx, LoginRequest{
			Email: "nobody@example.com", Password: "s3cret",
		})
		s.Require().Error(errPw)
		s.Require().Error(errEmail)
		s.True(apperror.IsAuthError(errPw))
		s.True(apperror.IsAuthError(errEmail))
		s.Equal(errPw.Error(), errEmail.Error())
	})
}

func (s *AuthServiceSuite) TestTokens() {
	user, tokens := s.register("alice", "alice@example.com", "s3cret")

	s.Run("the access token carries the user id and type", func() {
		claims, err := s.service.ValidateToken(tokens.AccessToken, "access")
		s.Require().NoError(err)
		s.Equal(user.ID, claims.UserID)
	})

	s.Run("an access token cannot be used as a refresh token", func() {
		_, err := s.service.ValidateToken(tokens.AccessToken, "refresh")
		s.Require().Error(err)
	})

	s.Run("refresh issues a new pair", func() {
		fresh, err := s.service.RefreshToken(s.ctx, tokens.RefreshToken)
		s.Require().NoError(err)
		s.NotEmpty(fresh.AccessToken)
		s.NotEmpty(fresh.RefreshToken)
	})

	s.Run("refresh rejects an access token", func() {
		_, err := s.service.RefreshToken(s.ctx, tokens.AccessToken)
		s.Require().Error(err)
		s.True(apperror.IsAuthError(err))
	})

	s.Run("refresh rejects garbage", func() {
		_, err := s.service.RefreshToken(s.ctx, "not-a-token")
		s.Require().Error(err)
		s.True(apperror.IsAuthError(err))
	})

	s.Run("AccessToken mints a standalone valid access token", func() {
		token, err := s.service.AccessToken(user.ID)
		s.Require().NoError(err)

		claims, err := s.service.ValidateToken(token, "access")
		s.Require().NoError(err)
		s.Equal(user.ID, claims.UserID)
	})
}

func (s *AuthServiceSuite) TestAssertOwnership() {
	s.Run("owner passes", func() {
		s.NoError(AssertOwnership(7, 7))
	})

	s.Run("anyone else is rejected", func() {
		err := AssertOwnership(7, 8)
		s.Require().Error(err)
		s.True(apperror.IsUnauthorizedError(err))
		s.Contains(err.Error(), "you do not own this resource")
	})
}
