package profiles

import "context"

// FollowStore is the persistence boundary for the follow relation.
// Create must reject a duplicate (follower, following) pair with a
// ConflictError, backed by the primary key in postgres, because the
// service's pre-check alone cannot rule out a concurrent duplicate insert.
type FollowStore interface {
	Create(ctx context.Context, followerID, followingID int) error
	Delete(ctx context.Context, followerID, followingID int) error
	Exists(ctx context.Context, followerID, followingID int) (bool, error)
	FollowingIDs(ctx context.Context, followerID int) ([]int, error)
}
