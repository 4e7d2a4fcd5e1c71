package tags

import (
	"context"
	"testing"

	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"

	"github.com/user/conduit-go/articles"
)

type TagServiceSuite struct {
	suite.Suite
	ctx     context.Context
	store   *articles.MemoryArticleStore
	service *Service
}

func (s *TagServiceSuite) SetupTest() {
	s.ctx = context.Background()
	s.store = articles.NewMemoryArticleStore()
	s.service = NewService(s.store, zap.NewNop().Sugar())
}

func TestTagServiceSuite(t *testing.T) {
	suite.Run(t, new(TagServiceSuite))
}

func (s *TagServiceSuite) newArticle(slug string, tags ...string) {
	_, err := s.store.Create(s.ctx, &articles.Article{
		Slug:        slug,
		Title:       slug,
		Description: "d",
		Body:        "b",
		TagList:     tags,
		AuthorID:    1,
	})
	s.Require().NoError(err)
}

func (s *TagServiceSuite) TestList() {
	s.Run("no articles means no tags", func() {
		tags, err := s.service.List(s.ctx)
		s.Require().NoError(err)
		s.Empty(tags)
		s.NotNil(tags)
	})

	s.Run("tags are deduplicated and sorted", func() {
		s.newArticle("a", "b", "a")
		s.newArticle("b", "b", "c")
		s.newArticle("c")

		tags, err := s.service.List(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"a", "b", "c"}, tags)
	})

	s.Run("a deleted article's exclusive tags vanish", func() {
		article, err := s.store.GetBySlug(s.ctx, "b")
		s.Require().NoError(err)
		s.Require().NoError(s.store.Delete(s.ctx, article.ID))

		tags, err := s.service.List(s.ctx)
		s.Require().NoError(err)
		s.Equal([]string{"a", "b"}, tags)
	})
}
