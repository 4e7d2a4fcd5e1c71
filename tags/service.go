// Package tags aggregates the tag vocabulary across all articles.
package tags

import (
	"context"
	"sort"

	"go.uber.org/zap"
)

// Store is the slice of the article store this service needs. Satisfied by
// articles.ArticleStore.
type Store interface {
	AllTagLists(ctx context.Context) ([][]string, error)
}

// Service folds per-article tag lists into one deduplicated vocabulary.
type Service struct {
	store Store
	log   *zap.SugaredLogger
}

// NewService creates a new tags Service.
func NewService(store Store, log *zap.SugaredLogger) *Service {
	return &Service{store: store, log: log}
}

// List returns every distinct tag in use, sorted lexicographically. Tags
// whose last article disappeared are gone with it, since the vocabulary is
// derived rather than stored.
func (s *Service) List(ctx context.Context) ([]string, error) {
	lists, err := s.store.AllTagLists(ctx)
	if err != nil {
		return nil, err
	}

	seen := map[string]struct{}{}
	tags := []string{}
	for _, list := range lists {
		for _, tag := range list {
			if _, ok := seen[tag]; ok {
				continue
			}
			seen[tag] = struct{}{}
			tags = append(tags, tag)
		}
	}
	sort.Strings(tags)
	return tags, nil
}
