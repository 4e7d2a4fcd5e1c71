// This file contains the business logic for comments: slug-scoped lookups,
// the cross-article id check, and author-only editing.
package comments

import (
	"context"

	"go.uber.org/zap"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/articles"
	"github.com/user/conduit-go/auth"
	"github.com/user/conduit-go/profiles"
)

// ArticleSource resolves the article a comment route is scoped to.
// Satisfied by articles.ArticleStore.
type ArticleSource interface {
	GetBySlug(ctx context.Context, slug string) (*articles.Article, error)
}

// UserSource is the slice of the identity store this service needs.
// Satisfied by auth.UserStore.
type UserSource interface {
	GetByID(ctx context.Context, id int) (*auth.User, error)
}

// FollowSource is the slice of the follow graph this service needs.
// Satisfied by profiles.FollowStore.
type FollowSource interface {
	Exists(ctx context.Context, followerID, followingID int) (bool, error)
}

// Service implements the comment operations.
type Service struct {
	store    CommentStore
	articles ArticleSource
	users    UserSource
	follows  FollowSource
	log      *zap.SugaredLogger
}

// NewService creates a new comments Service.
func NewService(store CommentStore, articleSource ArticleSource, users UserSource, follows FollowSource, log *zap.SugaredLogger) *Service {
	return &Service{store: store, articles: articleSource, users: users, follows: follows, log: log}
}

// Add creates a comment on the article behind the slug.
func (s *Service) Add(ctx context.Context, slug string, authorID int, body string) (*CommentView, error) {
	if body == "" {
		return nil, apperror.NewValidationError("body is required", nil)
	}

	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	created, err := s.store.Create(ctx, &Comment{
		Body:      body,
		ArticleID: article.ID,
		AuthorID:  authorID,
	})
	if err != nil {
		return nil, err
	}

	s.log.Infow("comment added", "comment_id", created.ID, "slug", slug, "author_id", authorID)
	return s.buildView(ctx, created, &authorID)
}

// List returns the article's comments, oldest first, rendered for the
// viewer.
func (s *Service) List(ctx context.Context, slug string, viewerID *int) ([]CommentView, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}

	comments, err := s.store.ListByArticle(ctx, article.ID)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, comment := range comments {
		view, err := s.buildView(ctx, comment, viewerID)
		if err != nil {
			return nil, err
		}
		views = append(views, *view)
	}
	return views, nil
}

// Update replaces the body of the requester's own comment.
func (s *Service) Update(ctx context.Context, slug string, commentID, requesterID int, body string) (*CommentView, error) {
	if body == "" {
		return nil, apperror.NewValidationError("body is required", nil)
	}

	comment, err := s.resolve(ctx, slug, commentID)
	if err != nil {
		return nil, err
	}
	if err := auth.AssertOwnership(comment.AuthorID, requesterID); err != nil {
		return nil, err
	}

	updated, err := s.store.Update(ctx, comment.ID, body)
	if err != nil {
		return nil, err
	}
	return s.buildView(ctx, updated, &requesterID)
}

// Delete removes the requester's own comment, returning its final state.
func (s *Service) Delete(ctx context.Context, slug string, commentID, requesterID int) (*CommentView, error) {
	comment, err := s.resolve(ctx, slug, commentID)
	if err != nil {
		return nil, err
	}
	if err := auth.AssertOwnership(comment.AuthorID, requesterID); err != nil {
		return nil, err
	}

	view, err := s.buildView(ctx, comment, &requesterID)
	if err != nil {
		return nil, err
	}
	if err := s.store.Delete(ctx, comment.ID); err != nil {
		return nil, err
	}

	s.log.Infow("comment deleted", "comment_id", comment.ID, "slug", slug)
	return view, nil
}

// resolve fetches the comment through its article's slug. A comment id that
// exists but belongs to a different article reads as not found, so comment
// ids cannot be probed across articles.
func (s *Service) resolve(ctx context.Context, slug string, commentID int) (*Comment, error) {
	article, err := s.articles.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	comment, err := s.store.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.ArticleID != article.ID {
		return nil, apperror.NewNotFoundError("comment not found", nil)
	}
	return comment, nil
}

func (s *Service) buildView(ctx context.Context, comment *Comment, viewerID *int) (*CommentView, error) {
	author, err := s.users.GetByID(ctx, comment.AuthorID)
	if err != nil {
		return nil, err
	}

	following := false
	if viewerID != nil {
		following, err = s.follows.Exists(ctx, *viewerID, comment.AuthorID)
		if err != nil {
			return nil, err
		}
	}

	return &CommentView{
		ID:        comment.ID,
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
		UpdatedAt: comment.UpdatedAt,
		Author:    profiles.NewProfile(author, following),
	}, nil
}
