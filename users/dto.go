// This file defines the data transfer objects (DTOs) for the current-user
// endpoints.
package users

import "github.com/user/conduit-go/auth"

// UpdateUserRequest is the payload for updating the current user. Every
// field is optional; omitted fields keep their current values.
type UpdateUserRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// IsEmpty reports whether the request carries no changes.
func (r UpdateUserRequest) IsEmpty() bool {
	return r.Username == nil && r.Email == nil && r.Password == nil &&
		r.Bio == nil && r.Image == nil
}

// UserView is the current-user read model. Unlike the public profile it
// includes the email and a fresh access token.
type UserView struct {
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Token    string  `json:"token"`
	Bio      *string `json:"bio"`
	Image    *string `json:"image"`
}

// UserResponse wraps the current user.
type UserResponse struct {
	User UserView `json:"user"`
}

// NewUserView builds a UserView from the user entity and an access token.
func NewUserView(u *auth.User, token string) UserView {
	return UserView{
		Username: u.Username,
		Email:    u.Email,
		Token:    token,
		Bio:      u.Bio,
		Image:    u.Image,
	}
}
