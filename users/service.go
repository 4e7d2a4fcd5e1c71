// This file contains the business logic for the current-user endpoints:
// reading the authenticated account and applying partial updates to it.
package users

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
)

// UserSource is the slice of the identity store this service needs.
// Satisfied by auth.UserStore.
type UserSource interface {
	GetByID(ctx context.Context, id int) (*auth.User, error)
	Update(ctx context.Context, id int, patch auth.UserPatch) (*auth.User, error)
}

// TokenIssuer mints access tokens for the user views. Satisfied by
// auth.AuthService.
type TokenIssuer interface {
	AccessToken(userID int) (string, error)
}

// Service implements the current-user operations.
type Service struct {
	store  UserSource
	tokens TokenIssuer
	log    *zap.SugaredLogger
}

// NewService creates a new users Service.
func NewService(store UserSource, tokens TokenIssuer, log *zap.SugaredLogger) *Service {
	return &Service{store: store, tokens: tokens, log: log}
}

// GetCurrentUser returns the authenticated user's account, with a fresh
// access token minted into the view.
func (s *Service) GetCurrentUser(ctx context.Context, userID int) (*UserResponse, error) {
	user, err := s.store.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.respond(user)
}

// UpdateCurrentUser applies a partial update to the authenticated user's
// account. A new password is re-hashed before it touches the store; a new
// email is lowercased like at registration. Username and email collisions
// come back from the store as conflicts.
func (s *Service) UpdateCurrentUser(ctx context.Context, userID int, req UpdateUserRequest) (*UserResponse, error) {
	if req.IsEmpty() {
		user, err := s.store.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		return s.respond(user)
	}

	patch := auth.UserPatch{
		Username: req.Username,
		Bio:      req.Bio,
		Image:    req.Image,
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		patch.Email = &email
	}
	if req.Password != nil {
		if *req.Password == "" {
			return nil, apperror.NewValidationError("password must not be empty", nil)
		}
		hashed, err := bcrypt.GenerateFromPassword([]byte(*req.Password), bcrypt.DefaultCost)
		if err != nil {
			return nil, apperror.NewInternalError("failed to hash password", err)
		}
		hashedStr := string(hashed)
		patch.HashedPassword = &hashedStr
	}

	user, err := s.store.Update(ctx, userID, patch)
	if err != nil {
		return nil, err
	}

	s.log.Infow("user updated", "user_id", userID)
	return s.respond(user)
}

func (s *Service) respond(user *auth.User) (*UserResponse, error) {
	token, err := s.tokens.AccessToken(user.ID)
	if err != nil {
		return nil, apperror.NewInternalError("failed to issue access token", err)
	}
	return &UserResponse{User: NewUserView(user, token)}, nil
}
