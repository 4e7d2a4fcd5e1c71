// Package comments implements flat (non-threaded) comments on articles,
// with author-only editing and deletion.
package comments

import "time"

// Comment is the persisted comment entity. Comments belong to exactly one
// article and die with it.
type Comment struct {
	ID        int       `json:"id"`
	Body      string    `json:"body"`
	ArticleID int       `json:"article_id"`
	AuthorID  int       `json:"author_id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
