package articles

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/user/conduit-go/apperror"
)

// MemoryArticleStore is an in-memory ArticleStore for the test suites. It
// enforces the same constraints as the schema (unique slug, unique favorite
// pair, delete cascading to favorites) so the conflict and race paths are
// exercisable without a database.
type MemoryArticleStore struct {
	mu        sync.Mutex
	articles  map[int]*Article
	favorites map[[2]int]struct{} // (user_id, article_id)
	nextID    int
}

// NewMemoryArticleStore creates an empty MemoryArticleStore.
func NewMemoryArticleStore() *MemoryArticleStore {
	return &MemoryArticleStore{
		articles:  make(map[int]*Article),
		favorites: make(map[[2]int]struct{}),
		nextID:    1,
	}
}

func copyArticle(a *Article) *Article {
	c := *a
	c.TagList = append([]string(nil), a.TagList...)
	if c.TagList == nil {
		c.TagList = []string{}
	}
	return &c
}

// Create inserts the article, rejecting slug duplicates.
func (s *MemoryArticleStore) Create(ctx context.Context, article *Article) (*Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.articles {
		if existing.Slug == article.Slug {
			return nil, apperror.NewConflictError("slug already exists", nil)
		}
	}

	stored := copyArticle(article)
	stored.ID = s.nextID
	s.nextID++
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	s.articles[stored.ID] = stored
	return copyArticle(stored), nil
}

// GetBySlug fetches an article by slug.
func (s *MemoryArticleStore) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.articles {
		if a.Slug == slug {
			return copyArticle(a), nil
		}
	}
	return nil, apperror.NewNotFoundError("article not found", nil)
}

// SlugExists reports whether a slug is taken.
func (s *MemoryArticleStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.articles {
		if a.Slug == slug {
			return true, nil
		}
	}
	return false, nil
}

func sortNewestFirst(articles []*Article) {
	sort.Slice(articles, func(i, j int) bool {
		if !articles[i].CreatedAt.Equal(articles[j].CreatedAt) {
			return articles[i].CreatedAt.After(articles[j].CreatedAt)
		}
		return articles[i].ID > articles[j].ID
	})
}

func paginate(articles []*Article, limit, offset int) []*Article {
	if offset >= len(articles) {
		return []*Article{}
	}
	articles = articles[offset:]
	if limit < len(articles) {
		articles = articles[:limit]
	}
	return articles
}

// List returns one page matching the filter plus the total match count.
func (s *MemoryArticleStore) List(ctx context.Context, filter ListFilter) ([]*Article, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var idSet map[int]struct{}
	if filter.IDs != nil {
		idSet = make(map[int]struct{}, len(filter.IDs))
		for _, id := range filter.IDs {
			idSet[id] = struct{}{}
		}
	}

	matched := []*Article{}
	for _, a := range s.articles {
		if filter.Tag != "" && !containsTag(a.TagList, filter.Tag) {
			continue
		}
		if filter.AuthorID != nil && a.AuthorID != *filter.AuthorID {
			continue
		}
		if idSet != nil {
			if _, ok := idSet[a.ID]; !ok {
				continue
			}
		}
		matched = append(matched, a)
	}
	sortNewestFirst(matched)
	total := int64(len(matched))

	page := []*Article{}
	for _, a := range paginate(matched, filter.Limit, filter.Offset) {
		page = append(page, copyArticle(a))
	}
	return page, total, nil
}

func containsTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

// ListByAuthors returns one page of articles by any of the given authors
// plus the total match count.
func (s *MemoryArticleStore) ListByAuthors(ctx context.Context, authorIDs []int, limit, offset int) ([]*Article, int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	authorSet := make(map[int]struct{}, len(authorIDs))
	for _, id := range authorIDs {
		authorSet[id] = struct{}{}
	}

	matched := []*Article{}
	for _, a := range s.articles {
		if _, ok := authorSet[a.AuthorID]; ok {
			matched = append(matched, a)
		}
	}
	sortNewestFirst(matched)

	page := []*Article{}
	for _, a := range paginate(matched, limit, offset) {
		page = append(page, copyArticle(a))
	}
	return page, int64(len(matched)), nil
}

// Update applies a partial update.
func (s *MemoryArticleStore) Update(ctx context.Context, id int, patch ArticlePatch) (*Article, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.articles[id]
	if !ok {
		return nil, apperror.NewNotFoundError("article not found", nil)
	}

	if patch.Title != nil {
		a.Title = *patch.Title
	}
	if patch.Description != nil {
		a.Description = *patch.Description
	}
	if patch.Body != nil {
		a.Body = *patch.Body
	}
	if patch.TagList != nil {
		a.TagList = append([]string(nil), *patch.TagList...)
	}
	a.UpdatedAt = time.Now()
	return copyArticle(a), nil
}

// Delete removes the article and cascades to its favorite rows.
func (s *MemoryArticleStore) Delete(ctx context.Context, id int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.articles[id]; !ok {
		return apperror.NewNotFoundError("article not found", nil)
	}
	delete(s.articles, id)
	for key := range s.favorites {
		if key[1] == id {
			delete(s.favorites, key)
		}
	}
	return nil
}

// AddFavorite records a favorite, rejecting duplicates.
func (s *MemoryArticleStore) AddFavorite(ctx context.Context, userID, articleID int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int{userID, articleID}
	if _, ok := s.favorites[key]; ok {
		return apperror.NewConflictError("already favorited", nil)
	}
	s.favorites[key] = struct{}{}
	return nil
}

// RemoveFavorite deletes a favorite row, reporting whether one existed.
func (s *MemoryArticleStore) RemoveFavorite(ctx context.Context, userID, articleID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := [2]int{userID, articleID}
	if _, ok := s.favorites[key]; !ok {
		return false, nil
	}
	delete(s.favorites, key)
	return true, nil
}

// IsFavorited reports whether the user favorites the article.
func (s *MemoryArticleStore) IsFavorited(ctx context.Context, userID, articleID int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, ok := s.favorites[[2]int{userID, articleID}]
	return ok, nil
}

// CountFavorites counts the users favoriting the article.
func (s *MemoryArticleStore) CountFavorites(ctx context.Context, articleID int) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var count int64
	for key := range s.favorites {
		if key[1] == articleID {
			count++
		}
	}
	return count, nil
}

// FavoriteArticleIDs returns the ids of every article the user favorites.
func (s *MemoryArticleStore) FavoriteArticleIDs(ctx context.Context, userID int) ([]int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := []int{}
	for key := range s.favorites {
		if key[0] == userID {
			ids = append(ids, key[1])
		}
	}
	return ids, nil
}

// AllTagLists returns the tag list of every article.
func (s *MemoryArticleStore) AllTagLists(ctx context.Context) ([][]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	lists := [][]string{}
	for _, a := range s.articles {
		lists = append(lists, append([]string(nil), a.TagList...))
	}
	return lists, nil
}
