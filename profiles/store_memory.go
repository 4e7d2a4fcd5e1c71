package profiles

import (
	"context"
	"sync"

	"github.com/user/conduit-go/apperror"
)

// MemoryFollowStore is an in-memory FollowStore for the test suites. It
// enforces pair uniqueness like the (follower_id, following_id) primary key.
type MemoryFollowStore struct {
	mu    sync.Mutex
	edges map[[2]int]struct{}
}

// NewMemoryFollowStore creates an empty MemoryFollowStore.
func NewMemoryFollowStore() *MemoryFollowStore {
	return &MemoryFollowStore{edges: make(map[[2]int]struct{})}
}

// Create inserts a follow edge, rejecting duplicates.
func (s *MemoryFollowStore) Create(ctx context.Context, followerID, followingID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int{followerID, followingID}
	if _, ok := s.edges[key]; ok {
		return apperror.NewConflictError("already following", nil)
	}
	s.edges[key] = struct{}{}
	return nil
}

// Delete removes a follow edge; absent edges are a no-op.
func (s *MemoryFollowStore) Delete(ctx context.Context, followerID, followingID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.edges, [2]int{followerID, followingID})
	return nil
}

// Exists reports whether the edge is present.
func (s *MemoryFollowStore) Exists(ctx context.Context, followerID, followingID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.edges[[2]int{followerID, followingID}]
	return ok, nil
}

// FollowingIDs returns the ids the follower follows.
func (s *MemoryFollowStore) FollowingIDs(ctx context.Context, followerID int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var ids []int
	for key := range s.edges {
		if key[0] == followerID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}
