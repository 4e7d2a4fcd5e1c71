// This file defines the data transfer objects (DTOs) for the article
// endpoints, analogous to the request/response classes of a typical REST
// framework.
package articles

import (
	"time"

	"github.com/user/conduit-go/profiles"
)

// CreateArticleRequest is the payload for creating an article.
type CreateArticleRequest struct {
	Title       string   `json:"title" example:"How to write Go"`
	Description string   `json:"description" example:"A short guide"`
	Body        string   `json:"body" example:"Start with a package clause."`
	TagList     []string `json:"tagList" example:"go,writing"`
}

// UpdateArticleRequest is the payload for partially updating an article.
// Omitted fields keep their current values; the slug is never recomputed.
type UpdateArticleRequest struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Body        *string   `json:"body"`
	TagList     *[]string `json:"tagList"`
}

// Patch converts the request into a store-level ArticlePatch.
func (r UpdateArticleRequest) Patch() ArticlePatch {
	return ArticlePatch{
		Title:       r.Title,
		Description: r.Description,
		Body:        r.Body,
		TagList:     r.TagList,
	}
}

// ListQuery carries the public listing filters, all optional. Author and
// Favorited are usernames resolved by the service before the store is asked.
type ListQuery struct {
	Tag       string
	Author    string
	Favorited string
	Limit     int
	Offset    int
}

// ArticleView is the read model returned by every article endpoint. It
// embeds the author's profile as seen by the viewer, so `following` and
// `favorited` are both viewer-relative.
type ArticleView struct {
	Slug           string           `json:"slug"`
	Title          string           `json:"title"`
	Description    string           `json:"description"`
	Body           string           `json:"body"`
	TagList        []string         `json:"tagList"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
	Favorited      bool             `json:"favorited"`
	FavoritesCount int64            `json:"favoritesCount"`
	Author         profiles.Profile `json:"author"`
}

// ArticleResponse wraps a single article.
type ArticleResponse struct {
	Article ArticleView `json:"article"`
}

// ArticlesResponse wraps a page of articles. ArticlesCount is the total
// matching the filters before pagination, so clients can page.
type ArticlesResponse struct {
	Articles      []ArticleView `json:"articles"`
	ArticlesCount int64         `json:"articlesCount"`
}
