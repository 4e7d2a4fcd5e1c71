// This file contains the business logic for registration, login, and token
// issuance. It acts as the "Service" layer, analogous to a Service class in
// Nest.js; handlers stay thin and delegate here.
package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/config"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
)

// AuthService provides authentication-related services on top of a UserStore.
type AuthService struct {
	store      UserStore
	authConfig config.AuthConfig
	log        *zap.SugaredLogger
}

// NewAuthService creates a new AuthService. Dependencies are injected
// explicitly via the constructor, the Go counterpart of Nest.js's
// decorator-based DI.
func NewAuthService(store UserStore, authConfig config.AuthConfig, log *zap.SugaredLogger) *AuthService {
	return &AuthService{
		store:      store,
		authConfig: authConfig,
		log:        log,
	}
}

// CustomClaims is the JWT payload: the standard registered claims plus the
// user id and the token's role ("access" or "refresh"). Keeping the type in
// the claims prevents a refresh token from being replayed as an access token.
type CustomClaims struct {
	UserID    int    `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// Register creates a new user and logs it in by issuing a token pair.
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*User, *TokenResponse, error) {
	if req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, nil, apperror.NewValidationError("username, email and password are required", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, nil, apperror.NewInternalError("failed to hash password", err)
	}

	user := &User{
		Username: req.Username,
		// Emails are stored lowercased so lookups are case-insensitive.
		Email:          strings.ToLower(req.Email),
		HashedPassword: string(hashedPassword),
	}

	// The store reports duplicate username/email as ConflictError; it is
	// passed through untouched so the handler renders 409.
	created, err := s.store.Create(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	tokens, err := s.generateTokens(created.ID)
	if err != nil {
		return nil, nil, err
	}
	s.log.Infow("user registered", "user_id", created.ID, "username", created.Username)
	return created, tokens, nil
}

// Login authenticates a user by email and password and returns fresh tokens.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*User, *TokenResponse, error) {
	user, err := s.store.GetByEmail(ctx, req.Email)
	if err != nil {
		if apperror.IsNotFound(err) {
			// Same error for unknown email and wrong password, so the
			// response never reveals which part was wrong.
			return nil, nil, apperror.NewAuthError("invalid credentials", nil)
		}
		return nil, nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.HashedPassword), []byte(req.Password)); err != nil {
		return nil, nil, apperror.NewAuthError("invalid credentials", nil)
	}

	tokens, err := s.generateTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}
	return user, tokens, nil
}

// RefreshToken validates a refresh token and issues a new token pair.
func (s *AuthService) RefreshToken(ctx context.Context, refreshTokenString string) (*TokenResponse, error) {
	claims, err := s.ValidateToken(refreshTokenString, tokenTypeRefresh)
	if err != nil {
		return nil, apperror.NewAuthError(fmt.Sprintf("invalid refresh token: %s", err.Error()), err)
	}

	// The user must still exist; a deleted account must not be able to mint
	// new access tokens from an old refresh token.
	if _, err := s.store.GetByID(ctx, claims.UserID); err != nil {
		return nil, apperror.NewAuthError("invalid refresh token", err)
	}

	return s.generateTokens(claims.UserID)
}

// AccessToken issues a bare access token for the given user id. Used by the
// users module, which returns a token alongside the current-user payload.
func (s *AuthService) AccessToken(userID int) (string, error) {
	token, _, err := s.generateSpecificToken(userID, tokenTypeAccess, s.authConfig.AccessTokenDuration)
	return token, err
}

// generateTokens creates an access/refresh token pair for a user.
func (s *AuthService) generateTokens(userID int) (*TokenResponse, error) {
	accessToken, accessExpiresAt, err := s.generateSpecificToken(userID, tokenTypeAccess, s.authConfig.AccessTokenDuration)
	if err != nil {
		return nil, apperror.NewInternalError("failed to generate access token", err)
	}

	refreshToken, refreshExpiresAt, err := s.generateSpecificToken(userID, tokenTypeRefresh, s.authConfig.RefreshTokenDuration)
	if err != nil {
		return nil, apperror.NewInternalError("failed to generate refresh token", err)
	}

	return &TokenResponse{
		AccessToken:           accessToken,
		AccessTokenExpiresAt:  accessExpiresAt,
		RefreshToken:          refreshToken,
		RefreshTokenExpiresAt: refreshExpiresAt,
	}, nil
}

// generateSpecificToken signs one token of the given type and duration.
func (s *AuthService) generateSpecificToken(userID int, tokenType string, duration time.Duration) (string, time.Time, error) {
	expiresAt := time.Now().Add(duration)
	claims := CustomClaims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(s.authConfig.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// ValidateToken parses and verifies a token, enforcing the expected token
// type and the HMAC signing method.
func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*CustomClaims, error) {
	claims := &CustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.authConfig.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	if claims.TokenType != expectedType {
		return nil, fmt.Errorf("token is not a %s token", expectedType)
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("token has no user_id claim")
	}
	return claims, nil
}
