package articles

import "context"

// ArticleStore is the persistence boundary for articles, their tags, and the
// favorite relation. Implementations return apperror values: a unique slug
// violation surfaces as a ConflictError (the slug allocator retries on it),
// a missing row as a NotFoundError.
type ArticleStore interface {
	// Create inserts the article and returns it with id and timestamps set.
	// A slug collision yields a ConflictError.
	Create(ctx context.Context, article *Article) (*Article, error)
	// GetBySlug fetches an article by its slug.
	GetBySlug(ctx context.Context, slug string) (*Article, error)
	// SlugExists reports whether a slug is already taken.
	SlugExists(ctx context.Context, slug string) (bool, error)
	// List returns one page of articles matching the filter, newest first,
	// plus the total match count before pagination.
	List(ctx context.Context, filter ListFilter) ([]*Article, int64, error)
	// ListByAuthors returns one page of articles by any of the given
	// authors, newest first, plus the total match count before pagination.
	// An empty author set matches nothing.
	ListByAuthors(ctx context.Context, authorIDs []int, limit, offset int) ([]*Article, int64, error)
	// Update applies a partial update to the article with the given id.
	Update(ctx context.Context, id int, patch ArticlePatch) (*Article, error)
	// Delete removes the article and, by cascade, its comments and
	// favorite rows.
	Delete(ctx context.Context, id int) error

	// AddFavorite records that the user favorites the article. A duplicate
	// yields a ConflictError.
	AddFavorite(ctx context.Context, userID, articleID int) error
	// RemoveFavorite deletes the favorite row, reporting whether one existed.
	RemoveFavorite(ctx context.Context, userID, articleID int) (bool, error)
	// IsFavorited reports whether the user favorites the article.
	IsFavorited(ctx context.Context, userID, articleID int) (bool, error)
	// CountFavorites returns the number of users favoriting the article.
	CountFavorites(ctx context.Context, articleID int) (int64, error)
	// FavoriteArticleIDs returns the ids of every article the user favorites.
	FavoriteArticleIDs(ctx context.Context, userID int) ([]int, error)

	// AllTagLists returns the tag list of every article, duplicates and all;
	// the tags service folds them into a sorted set.
	AllTagLists(ctx context.Context) ([][]string, error)
}
