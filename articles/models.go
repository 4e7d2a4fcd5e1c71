// Package articles is the heart of the content domain: slug allocation,
// article CRUD with ownership enforcement, filtered listing, the favorite
// ledger, and the personalized feed.
package articles

import "time"

// Article is the persisted article entity. The slug is globally unique and
// assigned once at creation. There is no stored favorites count; it is
// derived from the favorite relation at read time so there is never a second
// source of truth to keep consistent.
type Article struct {
	ID          int       `json:"id"`
	Slug        string    `json:"slug"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Body        string    `json:"body"`
	TagList     []string  `json:"tag_list"`
	AuthorID    int       `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ArticlePatch describes a partial update. Pointer fields distinguish
// "not provided" from "set to this value". Only these four fields are
// mutable; slug and author never change after creation.
type ArticlePatch struct {
	Title       *string
	Description *string
	Body        *string
	TagList     *[]string
}

// IsEmpty reports whether the patch carries no changes.
func (p ArticlePatch) IsEmpty() bool {
	return p.Title == nil && p.Description == nil && p.Body == nil && p.TagList == nil
}

// ListFilter is the store-level listing constraint. IDs is three-valued:
// nil means unconstrained, a non-nil empty slice means "match nothing"
// (used when a favorited-by filter names an unknown user), and a non-empty
// slice restricts to those article ids.
type ListFilter struct {
	Tag      string
	AuthorID *int
	IDs      []int
	Limit    int
	Offset   int
}
