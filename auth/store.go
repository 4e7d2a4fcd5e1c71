package auth

import "context"

// UserStore is the persistence boundary for user records. Implementations
// translate their storage errors into apperror values: NotFoundError for a
// missing user, ConflictError ("username already exists" / "email already
// exists") for uniqueness violations, so services never see driver details.
type UserStore interface {
	Create(ctx context.Context, user *User) (*User, error)
	GetByID(ctx context.Context, id int) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Update(ctx context.Context, id int, patch UserPatch) (*User, error)
}
