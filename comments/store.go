package comments

import "context"

// CommentStore is the persistence boundary for comments. Implementations
// return apperror values; a missing row surfaces as a NotFoundError.
type CommentStore interface {
	// Create inserts the comment and returns it with id and timestamps set.
	Create(ctx context.Context, comment *Comment) (*Comment, error)
	// GetByID fetches a comment by id.
	GetByID(ctx context.Context, id int) (*Comment, error)
	// ListByArticle returns the article's comments, oldest first.
	ListByArticle(ctx context.Context, articleID int) ([]*Comment, error)
	// Update replaces the comment body, bumping updated_at.
	Update(ctx context.Context, id int, body string) (*Comment, error)
	// Delete removes the comment.
	Delete(ctx context.Context, id int) error
}
