// Package auth is responsible for authentication and identity: user
// registration, login, token generation (JWT), token validation, and the
// middleware that feeds the authenticated user id to every other feature.
// In a Nest.js analogy this directory would be the "AuthModule".
package auth

import "time"

// User represents a user in the system. It is the identity record consumed
// by every other feature: profiles render its public fields, articles and
// comments reference it by id.
type User struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	// The `json:"-"` tag keeps the hash out of every API response.
	HashedPassword string    `json:"-"`
	Bio            *string   `json:"bio,omitempty"`
	Image          *string   `json:"image,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// UserPatch describes a partial update to a user record. Pointer fields
// distinguish "not provided" (nil) from "set to this value", the same
// convention the request DTOs use.
type UserPatch struct {
	Username       *string
	Email          *string
	HashedPassword *string
	Bio            *string
	Image          *string
}

// IsEmpty reports whether the patch carries no changes at all.
func (p UserPatch) IsEmpty() bool {
	return p.Username == nil && p.Email == nil && p.HashedPassword == nil &&
		p.Bio == nil && p.Image == nil
}
