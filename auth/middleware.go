// This file defines the HTTP middleware that authenticates requests.
// Middleware process requests before they reach handlers; in Nest.js terms
// these are the Guards in front of the controllers.
package auth

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/config"
)

// ContextKey is a private type for context keys so values set here can never
// collide with keys from other packages. A common Go idiom.
type ContextKey string

const (
	// UserIDKey is the context key under which the authenticated user's id
	// is stored for downstream handlers.
	UserIDKey ContextKey = "userID"
)

// parseClaims validates a bearer token string against the configured secret
// and returns its claims. Shared by the required and optional middleware.
func parseClaims(tokenString string, cfg *config.AuthConfig) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(cfg.JWTSecret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, fmt.Errorf("token is not valid")
	}
	// Only access tokens open doors; a refresh token in the Authorization
	// header is rejected.
	if claims.TokenType != "" && claims.TokenType != tokenTypeAccess {
		return nil, fmt.Errorf("token is not an access token")
	}
	if claims.UserID == 0 {
		return nil, fmt.Errorf("token has no user_id claim")
	}
	return claims, nil
}

// Claims is the JWT payload shape checked by the middleware. It mirrors
// CustomClaims; having the middleware own its copy keeps it decoupled from
// the issuing service.
type Claims struct {
	UserID    int    `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// bearerToken extracts the token from an "Authorization: Bearer x" header.
// Returns "" when the header is absent, and an error when it is malformed.
func bearerToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", nil
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", fmt.Errorf("authorization header format must be Bearer {token}")
	}
	return parts[1], nil
}

// JWTMiddleware requires a valid access token and stores the user id in the
// request context. Requests without a token are rejected with 401.
func JWTMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError(err.Error(), nil))
				return
			}
			if tokenString == "" {
				WriteError(w, r, apperror.NewAuthError("authorization header is missing", nil))
				return
			}

			claims, err := parseClaims(tokenString, cfg)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError(fmt.Sprintf("invalid token: %v", err), err))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalJWTMiddleware populates the user id when a valid token is present
// but lets anonymous requests through. Public reads (article listing,
// profiles) use it so the view can still be personalized for logged-in
// callers. A token that is present but invalid is still a 401: silently
// downgrading a bad token to an anonymous view would mask client bugs.
func OptionalJWTMiddleware(cfg *config.AuthConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenString, err := bearerToken(r)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError(err.Error(), nil))
				return
			}
			if tokenString == "" {
				next.ServeHTTP(w, r)
				return
			}

			claims, err := parseClaims(tokenString, cfg)
			if err != nil {
				WriteError(w, r, apperror.NewAuthError(fmt.Sprintf("invalid token: %v", err), err))
				return
			}

			ctx := context.WithValue(r.Context(), UserIDKey, claims.UserID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserIDFromContext retrieves the authenticated user id set by the
// middleware. Returns 0 and false for anonymous requests.
func GetUserIDFromContext(ctx context.Context) (int, bool) {
	userID, ok := ctx.Value(UserIDKey).(int)
	return userID, ok
}

// ViewerIDFromContext is the optional-auth companion to
// GetUserIDFromContext: it returns a *int that is nil for anonymous
// requests, the shape the read paths take for personalization.
func ViewerIDFromContext(ctx context.Context) *int {
	if userID, ok := GetUserIDFromContext(ctx); ok {
		return &userID
	}
	return nil
}
