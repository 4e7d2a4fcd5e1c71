package comments

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/user/conduit-go/apperror"
)

// MemoryCommentStore is an in-memory CommentStore for the test suites.
type MemoryCommentStore struct {
	mu       sync.Mutex
	comments map[int]*Comment
	nextID   int
}

// NewMemoryCommentStore creates an empty MemoryCommentStore.
func NewMemoryCommentStore() *MemoryCommentStore {
	return &MemoryCommentStore{comments: make(map[int]*Comment), nextID: 1}
}

func copyComment(c *Comment) *Comment {
	cp := *c
	return &cp
}

// Create inserts the comment.
func (s *MemoryCommentStore) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := copyComment(comment)
	stored.ID = s.nextID
	s.nextID++
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.comments[stored.ID] = stored
	return copyComment(stored), nil
}

// GetByID fetches a comment by id.
func (s *MemoryCommentStore) GetByID(ctx context.Context, id int) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, apperror.NewNotFoundError("comment not found", nil)
	}
	return copyComment(c), nil
}

// ListByArticle returns the article's comments, oldest first.
func (s *MemoryCommentStore) ListByArticle(ctx context.Context, articleID int) ([]*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	comments := []*Comment{}
	for _, c := range s.comments {
		if c.ArticleID == articleID {
			comments = append(comments, copyComment(c))
		}
	}
	sort.Slice(comments, func(i, j int) bool {
		if !comments[i].CreatedAt.Equal(comments[j].CreatedAt) {
			return comments[i].CreatedAt.Before(comments[j].CreatedAt)
		}
		return comments[i].ID < comments[j].ID
	})
	return comments, nil
}

// Update replaces the comment body.
func (s *MemoryCommentStore) Update(ctx context.Context, id int, body string) (*Comment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.comments[id]
	if !ok {
		return nil, apperror.NewNotFoundError("comment not found", nil)
	}
	c.Body = body
	c.UpdatedAt = time.Now()
	return copyComment(c), nil
}

// Delete removes the comment.
func (s *MemoryCommentStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.comments[id]; !ok {
		return apperror.NewNotFoundError("comment not found", nil)
	}
	delete(s.comments, id)
	return nil
}
