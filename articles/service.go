// This file contains the business logic of the article domain: unique slug
// allocation, CRUD with ownership checks, filtered listing, the favorite
// toggles, and the personalized feed.
package articles

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
	"github.com/user/conduit-go/profiles"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// UserSource is the slice of the identity store this service needs.
// Satisfied by auth.UserStore.
type UserSource interface {
	GetByID(ctx context.Context, id int) (*auth.User, error)
	GetByUsername(ctx context.Context, username string) (*auth.User, error)
}

// FollowSource is the slice of the follow graph this service needs.
// Satisfied by profiles.FollowStore.
type FollowSource interface {
	Exists(ctx context.Context, followerID, followingID int) (bool, error)
	FollowingIDs(ctx context.Context, followerID int) ([]int, error)
}

// Service implements the article operations.
type Service struct {
	store   ArticleStore
	users   UserSource
	follows FollowSource
	log     *zap.SugaredLogger
}

// NewService creates a new articles Service.
func NewService(store ArticleStore, users UserSource, follows FollowSource, log *zap.SugaredLogger) *Service {
	return &Service{store: store, users: users, follows: follows, log: log}
}

// Create creates an article for the author, allocating a unique slug from
// the title. The first article titled "Hello World" gets "hello-world", the
// next "hello-world-1", and so on. The probe loop finds the first free
// candidate; the unique index on slug is the final arbiter, so a concurrent
// insert of the same candidate just sends us around the loop again.
func (s *Service) Create(ctx context.Context, authorID int, req CreateArticleRequest) (*ArticleView, error) {
	if req.Title == "" {
		return nil, apperror.NewValidationError("title is required", nil)
	}
	if req.Description == "" {
		return nil, apperror.NewValidationError("description is required", nil)
	}
	if req.Body == "" {
		return nil, apperror.NewValidationError("body is required", nil)
	}

	tagList := req.TagList
	if tagList == nil {
		tagList = []string{}
	}

	base := slugify(req.Title)
	for {
		slug, err := s.nextFreeSlug(ctx, base)
		if err != nil {
			return nil, err
		}

		created, err := s.store.Create(ctx, &Article{
			Slug:        slug,
			Title:       req.Title,
			Description: req.Description,
			Body:        req.Body,
			TagList:     tagList,
			AuthorID:    authorID,
		})
		if err != nil {
			if apperror.IsConflictError(err) {
				// A concurrent creator claimed the candidate between the
				// probe and the insert; the rival's row is now visible, so
				// the next probe lands on a later suffix.
				continue
			}
			return nil, err
		}

		s.log.Infow("article created", "slug", created.Slug, "author_id", authorID)
		viewerID := authorID
		return s.buildView(ctx, created, &viewerID)
	}
}

// nextFreeSlug probes base, base-1, base-2, ... and returns the first slug
// not yet taken.
func (s *Service) nextFreeSlug(ctx context.Context, base string) (string, error) {
	slug := base
	for count := 1; ; count++ {
		taken, err := s.store.SlugExists(ctx, slug)
		if err != nil {
			return "", err
		}
		if !taken {
			return slug, nil
		}
		slug = fmt.Sprintf("%s-%d", base, count)
	}
}

// Get fetches a single article by slug, rendered for the viewer.
func (s *Service) Get(ctx context.Context, slug string, viewerID *int) (*ArticleView, error) {
	article, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, article, viewerID)
}

// List returns one page of articles matching the query, newest first, plus
// the total match count. Username filters are resolved here: an unknown
// author or favoriting user yields an empty page, not an error.
func (s *Service) List(ctx context.Context, query ListQuery, viewerID *int) ([]ArticleView, int64, error) {
	filter := ListFilter{
		Tag:    query.Tag,
		Limit:  normalizeLimit(query.Limit),
		Offset: normalizeOffset(query.Offset),
	}

	if query.Author != "" {
		author, err := s.users.GetByUsername(ctx, query.Author)
		if err != nil {
			if apperror.IsNotFound(err) {
				return []ArticleView{}, 0, nil
			}
			return nil, 0, err
		}
		filter.AuthorID = &author.ID
	}

	if query.Favorited != "" {
		user, err := s.users.GetByUsername(ctx, query.Favorited)
		if err != nil {
			if apperror.IsNotFound(err) {
				// Constrain to the empty id set rather than bailing out so
				// the response shape stays a normal empty page.
				filter.IDs = []int{}
			} else {
				return nil, 0, err
			}
		} else {
			ids, err := s.store.FavoriteArticleIDs(ctx, user.ID)
			if err != nil {
				return nil, 0, err
			}
			if ids == nil {
				ids = []int{}
			}
			filter.IDs = ids
		}
	}

	articles, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	views, err := s.buildViews(ctx, articles, viewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Feed returns one page of articles authored by users the viewer follows,
// newest first, plus the total matching count so clients can page. A viewer
// following nobody gets an empty feed.
func (s *Service) Feed(ctx context.Context, viewerID, limit, offset int) ([]ArticleView, int64, error) {
	authorIDs, err := s.follows.FollowingIDs(ctx, viewerID)
	if err != nil {
		return nil, 0, err
	}
	if len(authorIDs) == 0 {
		return []ArticleView{}, 0, nil
	}

	articles, total, err := s.store.ListByAuthors(ctx, authorIDs, normalizeLimit(limit), normalizeOffset(offset))
	if err != nil {
		return nil, 0, err
	}

	views, err := s.buildViews(ctx, articles, &viewerID)
	if err != nil {
		return nil, 0, err
	}
	return views, total, nil
}

// Update applies a partial update to the requester's own article. The slug
// is never recomputed, even when the title changes.
func (s *Service) Update(ctx context.Context, slug string, requesterID int, req UpdateArticleRequest) (*ArticleView, error) {
	article, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := auth.AssertOwnership(article.AuthorID, requesterID); err != nil {
		return nil, err
	}

	patch := req.Patch()
	if !patch.IsEmpty() {
		article, err = s.store.Update(ctx, article.ID, patch)
		if err != nil {
			return nil, err
		}
	}
	return s.buildView(ctx, article, &requesterID)
}

// Delete removes the requester's own article, returning its final state.
// Comments and favorite rows disappear with it.
func (s *Service) Delete(ctx context.Context, slug string, requesterID int) (*ArticleView, error) {
	article, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if err := auth.AssertOwnership(article.AuthorID, requesterID); err != nil {
		return nil, err
	}

	// Render the view first; the favorite counts are gone after the delete.
	view, err := s.buildView(ctx, article, &requesterID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, article.ID); err != nil {
		return nil, err
	}

	s.log.Infow("article deleted", "slug", slug, "author_id", requesterID)
	return view, nil
}

// Favorite records that the user favorites the article. Favoriting twice is
// a visible conflict, not a silent no-op.
func (s *Service) Favorite(ctx context.Context, slug string, userID int) (*ArticleView, error) {
	article, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	if err := s.store.AddFavorite(ctx, userID, article.ID); err != nil {
		if apperror.IsConflictError(err) {
			return nil, apperror.NewConflictError("article already favorited", nil)
		}
		return nil, err
	}
	return s.buildView(ctx, article, &userID)
}

// Unfavorite removes the user's favorite of the article.
func (s *Service) Unfavorite(ctx context.Context, slug string, userID int) (*ArticleView, error) {
	article, err := s.store.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	removed, err := s.store.RemoveFavorite(ctx, userID, article.ID)
	if err != nil {
		return nil, err
	}
	if !removed {
		return nil, apperror.NewConflictError("article is not favorited", nil)
	}
	return s.buildView(ctx, article, &userID)
}

// buildView renders one article for the viewer: author profile with the
// viewer's follow state, the derived favorites count, and the viewer's
// favorite flag.
func (s *Service) buildView(ctx context.Context, article *Article, viewerID *int) (*ArticleView, error) {
	views, err := s.buildViews(ctx, []*Article{article}, viewerID)
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

func (s *Service) buildViews(ctx context.Context, articles []*Article, viewerID *int) ([]ArticleView, error) {
	// Pages share authors; memoize the per-author lookups across the page.
	authorCache := map[int]*auth.User{}
	followingCache := map[int]bool{}

	views := make([]ArticleView, 0, len(articles))
	for _, article := range articles {
		author, ok := authorCache[article.AuthorID]
		if !ok {
			var err error
			author, err = s.users.GetByID(ctx, article.AuthorID)
			if err != nil {
				return nil, err
			}
			authorCache[article.AuthorID] = author
		}

		following := false
		if viewerID != nil {
			following, ok = followingCache[article.AuthorID]
			if !ok {
				var err error
				following, err = s.follows.Exists(ctx, *viewerID, article.AuthorID)
				if err != nil {
					return nil, err
				}
				followingCache[article.AuthorID] = following
			}
		}

		favorited := false
		if viewerID != nil {
			var err error
			favorited, err = s.store.IsFavorited(ctx, *viewerID, article.ID)
			if err != nil {
				return nil, err
			}
		}
		count, err := s.store.CountFavorites(ctx, article.ID)
		if err != nil {
			return nil, err
		}

		tagList := article.TagList
		if tagList == nil {
			tagList = []string{}
		}
		views = append(views, ArticleView{
			Slug:           article.Slug,
			Title:          article.Title,
			Description:    article.Description,
			Body:           article.Body,
			TagList:        tagList,
			CreatedAt:      article.CreatedAt,
			UpdatedAt:      article.UpdatedAt,
			Favorited:      favorited,
			FavoritesCount: count,
			Author:         profiles.NewProfile(author, following),
		})
	}
	return views, nil
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return defaultPageLimit
	}
	if limit > maxPageLimit {
		return maxPageLimit
	}
	return limit
}

func normalizeOffset(offset int) int {
	if offset < 0 {
		return 0
	}
	return offset
}
