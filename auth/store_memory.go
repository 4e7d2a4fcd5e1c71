package auth

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/user/conduit-go/apperror"
)

// MemoryUserStore is an in-memory UserStore used by the test suites. It
// enforces the same username/email uniqueness as the database schema and
// returns the same apperror values as the postgres store, so services behave
// identically against either implementation.
type MemoryUserStore struct {
	mu     sync.Mutex
	users  map[int]*User
	nextID int
}

// NewMemoryUserStore creates an empty MemoryUserStore.
func NewMemoryUserStore() *MemoryUserStore {
	return &MemoryUserStore{users: make(map[int]*User), nextID: 1}
}

func copyUser(u *User) *User {
	cp := *u
	return &cp
}

// Create inserts a new user, rejecting duplicate usernames or emails.
func (s *MemoryUserStore) Create(ctx context.Context, user *User) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if existing.Username == user.Username {
			return nil, apperror.NewConflictError("username already exists", nil)
		}
		if existing.Email == strings.ToLower(user.Email) {
			return nil, apperror.NewConflictError("email already exists", nil)
		}
	}

	stored := copyUser(user)
	stored.ID = s.nextID
	stored.Email = strings.ToLower(stored.Email)
	stored.CreatedAt = time.Now()
	s.nextID++
	s.users[stored.ID] = stored
	return copyUser(stored), nil
}

// GetByID fetches a user by id.
func (s *MemoryUserStore) GetByID(ctx context.Context, id int) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}
	return copyUser(user), nil
}

// GetByEmail fetches a user by email.
func (s *MemoryUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Email == strings.ToLower(email) {
			return copyUser(user), nil
		}
	}
	return nil, apperror.NewNotFoundError("user not found", nil)
}

// GetByUsername fetches a user by username.
func (s *MemoryUserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, user := range s.users {
		if user.Username == username {
			return copyUser(user), nil
		}
	}
	return nil, apperror.NewNotFoundError("user not found", nil)
}

// Update applies the non-nil patch fields under the same uniqueness rules as Create.
func (s *MemoryUserStore) Update(ctx context.Context, id int, patch UserPatch) (*User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[id]
	if !ok {
		return nil, apperror.NewNotFoundError("user not found", nil)
	}

	// Every uniqueness check runs before any field is assigned, so a
	// rejected patch leaves the stored user untouched, same as the postgres
	// store's single atomic UPDATE.
	if patch.Username != nil {
		for otherID, other := range s.users {
			if otherID != id && other.Username == *patch.Username {
				return nil, apperror.NewConflictError("username already exists", nil)
			}
		}
	}
	if patch.Email != nil {
		email := strings.ToLower(*patch.Email)
		for otherID, other := range s.users {
			if otherID != id && other.Email == email {
				return nil, apperror.NewConflictError("email already exists", nil)
			}
		}
	}

	if patch.Username != nil {
		user.Username = *patch.Username
	}
	if patch.Email != nil {
		user.Email = strings.ToLower(*patch.Email)
	}
	if patch.HashedPassword != nil {
		user.HashedPassword = *patch.HashedPassword
	}
	if patch.Bio != nil {
		user.Bio = patch.Bio
	}
	if patch.Image != nil {
		user.Image = patch.Image
	}

	return copyUser(user), nil
}
