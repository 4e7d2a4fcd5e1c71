// This file defines Data Transfer Objects (DTOs) for the auth module:
// request bodies decoded from JSON and the response shapes returned to
// clients, kept separate from the persisted User model.
package auth

import "time"

// RegisterRequest is the body for creating an account.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginRequest is the body for logging in. Login is by email.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest is the body for exchanging a refresh token for new tokens.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// TokenResponse carries a freshly issued token pair.
type TokenResponse struct {
	AccessToken           string    `json:"access_token"`
	AccessTokenExpiresAt  time.Time `json:"access_token_expires_at"`
	RefreshToken          string    `json:"refresh_token"`
	RefreshTokenExpiresAt time.Time `json:"refresh_token_expires_at"`
}

// UserView is the public projection of a user returned by auth endpoints.
type UserView struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// AuthResponse pairs the user with its tokens, the shape returned by
// register and login.
type AuthResponse struct {
	User   UserView      `json:"user"`
	Tokens TokenResponse `json:"tokens"`
}

// NewUserView projects a User into its public view.
func NewUserView(u *User) UserView {
	return UserView{
		Username: u.Username,
		Email:    u.Email,
		Bio:      u.Bio,
		Image:    u.Image,
	}
}
