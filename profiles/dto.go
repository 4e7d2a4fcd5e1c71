// Package profiles implements the public profile read-model and the follow
// graph between users: a directed follower/following relation with
// idempotency-guarded toggles.
package profiles

import "github.com/user/conduit-go/auth"

// Profile is the public projection of a user as seen by a viewer. It is
// never persisted; `following` is computed per request from the follow
// relation.
type Profile struct {
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	Image     *string `json:"image"`
	Following bool    `json:"following"`
}

// ProfileResponse is the envelope returned by the profile endpoints.
type ProfileResponse struct {
	Profile Profile `json:"profile"`
}

// NewProfile projects a user into a Profile for the given viewer relation.
func NewProfile(u *auth.User, following bool) Profile {
	return Profile{
		Username:  u.Username,
		Bio:       u.Bio,
		Image:     u.Image,
		Following: following,
	}
}
