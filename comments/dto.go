// This file defines the data transfer objects (DTOs) for the comment
// endpoints.
package comments

import (
	"time"

	"github.com/user/conduit-go/profiles"
)

// AddCommentRequest is the payload for adding or editing a comment.
type AddCommentRequest struct {
	Body string `json:"body" example:"Great article!"`
}

// CommentView is the read model for a comment, with the author's profile as
// seen by the viewer.
type CommentView struct {
	ID        int              `json:"id"`
	Body      string           `json:"body"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
	Author    profiles.Profile `json:"author"`
}

// CommentResponse wraps a single comment.
type CommentResponse struct {
	Comment CommentView `json:"comment"`
}

// CommentsResponse wraps an article's comments, oldest first.
type CommentsResponse struct {
	Comments []CommentView `json:"comments"`
}
