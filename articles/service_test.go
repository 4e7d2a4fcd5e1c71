package articles

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
	"github.com/user/conduit-go/profiles"
)

type ArticleServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *MemoryArticleStore
	users   *auth.MemoryUserStore
	follows *profiles.MemoryFollowStore
	service *Service
}

func (s *ArticleServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = NewMemoryArticleStore()
	s.users = auth.NewMemoryUserStore()
	s.follows = profiles.NewMemoryFollowStore()
	s.service = NewService(s.store, s.users, s.follows, zap.NewNop().Sugar())
}

func TestArticleServiceSuite(t *testing.T) {
	suite.Run(t, new(ArticleServiceSuite))
}

func (s *ArticleServiceSuite) newUser(username string) *auth.User {
	user, err := s.users.Create(s.ctx, &auth.User{
		Username:       username,
		Email:          username + "@example.com",
		HashedPassword: "irrelevant",
	})
	s.Require().NoError(err)
	return user
}

func (s *ArticleServiceSuite) newArticle(authorID int, title string, tags ...string) *ArticleView {
	view, err := s.service.Create(s.ctx, authorID, CreateArticleRequest{
		Title:       title,
		Description: "description of " + title,
		Body:        "body of " + title,
		TagList:     tags,
	})
	s.Require().NoError(err)
	return view
}

func (s *ArticleServiceSuite) TestSlugAllocation() {
	author := s.newUser("alice")

	s.Run("first title claims the base slug", func() {
		view := s.newArticle(author.ID, "Hello World")
		s.Equal("hello-world", view.Slug)
	})

	s.Run("same title gets a numbered suffix", func() {
		s.Equal("hello-world-1", s.newArticle(author.ID, "Hello World").Slug)
		s.Equal("hello-world-2", s.newArticle(author.ID, "Hello World").Slug)
	})

	s.Run("different titles do not collide", func() {
		s.Equal("goodbye-world", s.newArticle(author.ID, "Goodbye World").Slug)
	})
}

// racingArticleStore wraps the memory store to simulate a concurrent
// creator: the first `races` Create calls claim the candidate slug for a
// rival author and report the unique violation, exactly what the database
// does when another insert wins between the probe and the write.
type racingArticleStore struct {
	*MemoryArticleStore
	races         int
	rivalAuthorID int
}

func (s *racingArticleStore) Create(ctx context.Context, article *Article) (*Article, error) {
	if s.races > 0 {
		s.races--
		rival := *article
		rival.AuthorID = s.rivalAuthorID
		if _, err := s.MemoryArticleStore.Create(ctx, &rival); err != nil {
			return nil, err
		}
		return nil, apperror.NewConflictError("slug already exists", nil)
	}
	return s.MemoryArticleStore.Create(ctx, article)
}

func (s *ArticleServiceSuite) TestSlugInsertRace() {
	author := s.newUser("alice")
	rival := s.newUser("bob")

	s.Run("a lost insert retries onto the next suffix", func() {
		store := &racingArticleStore{
			MemoryArticleStore: s.store,
			races:              1,
			rivalAuthorID:      rival.ID,
		}
		service := NewService(store, s.users, s.follows, zap.NewNop().Sugar())

		view, err := service.Create(s.ctx, author.ID, CreateArticleRequest{
			Title: "Hello World", Description: "d", Body: "b",
		})
		s.Require().NoError(err)
		s.Equal("hello-world-1", view.Slug, "the rival kept the base slug")

		rivalArticle, err := s.store.GetBySlug(s.ctx, "hello-world")
		s.Require().NoError(err)
		s.Equal(rival.ID, rivalArticle.AuthorID)
	})

	s.Run("repeated losses keep walking the suffixes", func() {
		store := &racingArticleStore{
			MemoryArticleStore: s.store,
			races:              2,
			rivalAuthorID:      rival.ID,
		}
		service := NewService(store, s.users, s.follows, zap.NewNop().Sugar())

		view, err := service.Create(s.ctx, author.ID, CreateArticleRequest{
			Title: "Race On", Description: "d", Body: "b",
		})
		s.Require().NoError(err)
		s.Equal("race-on-2", view.Slug)
	})
}

func (s *ArticleServiceSuite) TestCreateValidation() {
	author := s.newUser("alice")

	s.Run("missing title is rejected", func() {
		_, err := s.service.Create(s.ctx, author.ID, CreateArticleRequest{
			Description: "d", Body: "b",
		})
		s.Require().Error(err)
		s.True(apperror.IsValidationError(err))
	})

	s.Run("missing body is rejected", func() {
		_, err := s.service.Create(s.ctx, author.ID, CreateArticleRequest{
			Title: "t", Description: "d",
		})
		s.Require().Error(err)
		s.True(apperror.IsValidationError(err))
	})

	s.Run("nil tag list normalizes to empty", func() {
		view := s.newArticle(author.ID, "No Tags")
		s.NotNil(view.TagList)
		s.Empty(view.TagList)
	})
}

func (s *ArticleServiceSuite) TestGet() {
	author := s.newUser("alice")
	created := s.newArticle(author.ID, "Hello World", "greetings")

	s.Run("anonymous view has no viewer-relative flags set", func() {
		view, err := s.service.Get(s.ctx, created.Slug, nil)
		s.Require().NoError(err)
		s.Equal("Hello World", view.Title)
		s.Equal([]string{"greetings"}, view.TagList)
		s.False(view.Favorited)
		s.Zero(view.FavoritesCount)
		s.Equal("alice", view.Author.Username)
		s.False(view.Author.Following)
	})

	s.Run("unknown slug is not found", func() {
		_, err := s.service.Get(s.ctx, "no-such-slug", nil)
		s.Require().Error(err)
		s.True(apperror.IsNotFound(err))
	})

	s.Run("follower sees the author as followed", func() {
		reader := s.newUser("bob")
		s.Require().NoError(s.follows.Create(s.ctx, reader.ID, author.ID))

		view, err := s.service.Get(s.ctx, created.Slug, &reader.ID)
		s.Require().NoError(err)
		s.True(view.Author.Following)
	})
}

func (s *ArticleServiceSuite) TestUpdate() {
	author := s.newUser("alice")
	intruder := s.newUser("mallory")
	created := s.newArticle(author.ID, "Hello World")

	s.Run("only the author may update", func() {
		title := "Hijacked"
		_, err := s.service.Update(s.ctx, created.Slug, intruder.ID, UpdateArticleRequest{Title: &title})
		s.Require().Error(err)
		s.True(apperror.IsUnauthorizedError(err))
	})

	s.Run("slug survives a title change", func() {
		title := "Hello Again"
		view, err := s.service.Update(s.ctx, created.Slug, author.ID, UpdateArticleRequest{Title: &title})
		s.Require().NoError(err)
		s.Equal("Hello Again", view.Title)
		s.Equal("hello-world", view.Slug)
	})

	s.Run("omitted fields are untouched", func() {
		body := "new body"
		view, err := s.service.Update(s.ctx, created.Slug, author.ID, UpdateArticleRequest{Body: &body})
		s.Require().NoError(err)
		s.Equal("new body", view.Body)
		s.Equal("Hello Again", view.Title)
	})
}

func (s *ArticleServiceSuite) TestDelete() {
	author := s.newUser("alice")
	reader := s.newUser("bob")
	created := s.newArticle(author.ID, "Hello World")

	s.Run("only the author may delete", func() {
		_, err := s.service.Delete(s.ctx, created.Slug, reader.ID)
		s.Require().Error(err)
		s.True(apperror.IsUnauthorizedError(err))
	})

	s.Run("delete removes the article and its favorites", func() {
		_, err := s.service.Favorite(s.ctx, created.Slug, reader.ID)
		s.Require().NoError(err)

		view, err := s.service.Delete(s.ctx, created.Slug, author.ID)
		s.Require().NoError(err)
		s.Equal(created.Slug, view.Slug)

		_, err = s.service.Get(s.ctx, created.Slug, nil)
		s.True(apperror.IsNotFound(err))

		ids, err := s.store.FavoriteArticleIDs(s.ctx, reader.ID)
		s.Require().NoError(err)
		s.Empty(ids)
	})

	s.Run("the slug becomes available again", func() {
		s.Equal("hello-world", s.newArticle(author.ID, "Hello World").Slug)
	})
}

func (s *ArticleServiceSuite) TestFavoriteWalk() {
	author := s.newUser("alice")
	reader := s.newUser("bob")
	created := s.newArticle(author.ID, "Hello World")

	s.Run("favoriting sets the flag and bumps the count", func() {
		view, err := s.service.Favorite(s.ctx, created.Slug, reader.ID)
		s.Require().NoError(err)
		s.True(view.Favorited)
		s.EqualValues(1, view.FavoritesCount)
	})

	s.Run("favoriting twice is a conflict", func() {
		_, err := s.service.Favorite(s.ctx, created.Slug, reader.ID)
		s.Require().Error(err)
		s.True(apperror.IsConflictError(err))
		s.Contains(err.Error(), "article already favorited")
	})

	s.Run("the count is per-article, not per-user", func() {
		other := s.newUser("carol")
		view, err := s.service.Favorite(s.ctx, created.Slug, other.ID)
		s.Require().NoError(err)
		s.EqualValues(2, view.FavoritesCount)
	})

	s.Run("unfavoriting clears the flag and drops the count", func() {
		view, err := s.service.Unfavorite(s.ctx, created.Slug, reader.ID)
		s.Require().NoError(err)
		s.False(view.Favorited)
		s.EqualValues(1, view.FavoritesCount)
	})

	s.Run("unfavoriting when not favorited is a conflict", func() {
		_, err := s.service.Unfavorite(s.ctx, created.Slug, reader.ID)
		s.Require().Error(err)
		s.True(apperror.IsConflictError(err))
		s.Contains(err.Error(), "article is not favorited")
	})
}

func (s *ArticleServiceSuite) TestList() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")
	a1 := s.newArticle(alice.ID, "Go Basics", "go")
	s.newArticle(alice.ID, "Go Advanced", "go", "advanced")
	s.newArticle(bob.ID, "Cooking", "food")

	s.Run("unfiltered listing returns everything newest first", func() {
		views, total, err := s.service.List(s.ctx, ListQuery{}, nil)
		s.Require().NoError(err)
		s.EqualValues(3, total)
		s.Require().Len(views, 3)
		s.Equal("cooking", views[0].Slug)
		s.Equal("go-advanced", views[1].Slug)
		s.Equal("go-basics", views[2].Slug)
	})

	s.Run("tag filter", func() {
		views, total, err := s.service.List(s.ctx, ListQuery{Tag: "go"}, nil)
		s.Require().NoError(err)
		s.EqualValues(2, total)
		s.Len(views, 2)
	})

	s.Run("author filter", func() {
		views, total, err := s.service.List(s.ctx, ListQuery{Author: "bob"}, nil)
		s.Require().NoError(err)
		s.EqualValues(1, total)
		s.Require().Len(views, 1)
		s.Equal("cooking", views[0].Slug)
	})

	s.Run("unknown author yields an empty page, not an error", func() {
		views, total, err := s.service.List(s.ctx, ListQuery{Author: "nobody"}, nil)
		s.Require().NoError(err)
		s.Zero(total)
		s.Empty(views)
	})

	s.Run("favorited filter", func() {
		_, err := s.service.Favorite(s.ctx, a1.Slug, bob.ID)
		s.Require().NoError(err)

		views, total, err := s.service.List(s.ctx, ListQuery{Favorited: "bob"}, nil)
		s.Require().NoError(err)
		s.EqualValues(1, total)
		s.Require().Len(views, 1)
		s.Equal("go-basics", views[0].Slug)
	})

	s.Run("unknown favorited user yields an empty page", func() {
		views, total, err := s.service.List(s.ctx, ListQuery{Favorited: "nobody"}, nil)
		s.Require().NoError(err)
		s.Zero(total)
		s.Empty(views)
	})

	s.Run("pagination keeps the full total", func() {
		views, total, err := s.service.List(s.ctx, ListQuery{Limit: 2, Offset: 2}, nil)
		s.Require().NoError(err)
		s.EqualValues(3, total)
		s.Require().Len(views, 1)
		s.Equal("go-basics", views[0].Slug)
	})
}

func (s *ArticleServiceSuite) TestFeed() {
	alice := s.newUser("alice")
	bob := s.newUser("bob")
	carol := s.newUser("carol")
	for i := 0; i < 3; i++ {
		s.newArticle(alice.ID, fmt.Sprintf("Alice %d", i))
	}
	s.newArticle(bob.ID, "Bob Post")

	s.Run("following nobody means an empty feed", func() {
		views, total, err := s.service.Feed(s.ctx, carol.ID, 0, 0)
		s.Require().NoError(err)
		s.Empty(views)
		s.Zero(total)
	})

	s.Run("feed contains only followed authors, newest first", func() {
		s.Require().NoError(s.follows.Create(s.ctx, carol.ID, alice.ID))

		views, total, err := s.service.Feed(s.ctx, carol.ID, 0, 0)
		s.Require().NoError(err)
		s.EqualValues(3, total)
		s.Require().Len(views, 3)
		s.Equal("alice-2", views[0].Slug)
		s.Equal("alice-0", views[2].Slug)
		for _, v := range views {
			s.Equal("alice", v.Author.Username)
			s.True(v.Author.Following)
		}
	})

	s.Run("feed pagination keeps the full total", func() {
		views, total, err := s.service.Feed(s.ctx, carol.ID, 2, 2)
		s.Require().NoError(err)
		s.EqualValues(3, total, "the total must count all matches, not the page")
		s.Require().Len(views, 1)
		s.Equal("alice-0", views[0].Slug)
	})
}
