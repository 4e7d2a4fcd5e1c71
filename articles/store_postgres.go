package articles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/conduit-go/apperror"
)

const pgUniqueViolation = "23505"

// articleColumns is the canonical column list so every scan sees the same
// shape.
const articleColumns = `id, slug, title, description, body, tag_list, author_id, created_at, updated_at`

// PostgresArticleStore is the pgx-backed ArticleStore.
type PostgresArticleStore struct {
	db *pgxpool.Pool
}

// NewPostgresArticleStore creates a PostgresArticleStore on the given pool.
func NewPostgresArticleStore(db *pgxpool.Pool) *PostgresArticleStore {
	return &PostgresArticleStore{db: db}
}

func scanArticle(row pgx.Row) (*Article, error) {
	var a Article
	err := row.Scan(
		&a.ID, &a.Slug, &a.Title, &a.Description, &a.Body,
		&a.TagList, &a.AuthorID, &a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if a.TagList == nil {
		a.TagList = []string{}
	}
	return &a, nil
}

// Create inserts the article. The unique index on slug is the final arbiter
// of slug races: a violation comes back as a ConflictError and the slug
// allocator in the service picks a new candidate and retries.
func (s *PostgresArticleStore) Create(ctx context.Context, article *Article) (*Article, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO articles (slug, title, description, body, tag_list, author_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+articleColumns,
		article.Slug, article.Title, article.Description, article.Body,
		article.TagList, article.AuthorID)

	created, err := scanArticle(row)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return nil, apperror.NewConflictError("slug already exists", nil)
		}
		return nil, apperror.NewDatabaseError("failed to create article", err)
	}
	return created, nil
}

// GetBySlug fetches an article by slug.
func (s *PostgresArticleStore) GetBySlug(ctx context.Context, slug string) (*Article, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+articleColumns+` FROM articles
		WHERE slug = $1`,
		slug)

	article, err := scanArticle(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("article not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get article", err)
	}
	return article, nil
}

// SlugExists reports whether a slug is taken.
func (s *PostgresArticleStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (SELECT 1 FROM articles WHERE slug = $1)`,
		slug).Scan(&exists)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to check slug", err)
	}
	return exists, nil
}

// List returns one page matching the filter plus the total match count. Both
// queries run in one transaction so the count and the page agree.
func (s *PostgresArticleStore) List(ctx context.Context, filter ListFilter) ([]*Article, int64, error) {
	// A non-nil empty id set means "match nothing"; skip the round trip.
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return []*Article{}, 0, nil
	}

	var conds []string
	var args []any
	if filter.Tag != "" {
		args = append(args, filter.Tag)
		conds = append(conds, fmt.Sprintf("$%d = ANY(tag_list)", len(args)))
	}
	if filter.AuthorID != nil {
		args = append(args, *filter.AuthorID)
		conds = append(conds, fmt.Sprintf("author_id = $%d", len(args)))
	}
	if filter.IDs != nil {
		args = append(args, filter.IDs)
		conds = append(conds, fmt.Sprintf("id = ANY($%d)", len(args)))
	}
	where := ""
	if len(conds) > 0 {
		where = " WHERE " + strings.Join(conds, " AND ")
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var total int64
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM articles`+where, args...).Scan(&total); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to count articles", err)
	}

	pageArgs := append(args, filter.Limit, filter.Offset)
	rows, err := tx.Query(ctx, fmt.Sprintf(
		`SELECT %s FROM articles%s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		articleColumns, where, len(pageArgs)-1, len(pageArgs)),
		pageArgs...)
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list articles", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to commit article listing", err)
	}
	return articles, total, nil
}

// ListByAuthors returns one page of articles by any of the given authors
// plus the total match count. Like List, both queries share a transaction so
// the count and the page agree.
func (s *PostgresArticleStore) ListByAuthors(ctx context.Context, authorIDs []int, limit, offset int) ([]*Article, int64, error) {
	if len(authorIDs) == 0 {
		return []*Article{}, 0, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to begin transaction", err)
	}
	defer tx.Rollback(ctx)

	var total int64
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM articles WHERE author_id = ANY($1)`,
		authorIDs).Scan(&total)
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to count feed articles", err)
	}

	rows, err := tx.Query(ctx, `
		SELECT `+articleColumns+` FROM articles
		WHERE author_id = ANY($1)
		ORDER BY created_at DESC, id DESC
		LIMIT $2 OFFSET $3`,
		authorIDs, limit, offset)
	if err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to list feed articles", err)
	}

	articles, err := collectArticles(rows)
	if err != nil {
		return nil, 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, 0, apperror.NewDatabaseError("failed to commit feed listing", err)
	}
	return articles, total, nil
}

func collectArticles(rows pgx.Rows) ([]*Article, error) {
	defer rows.Close()

	articles := []*Article{}
	for rows.Next() {
		article, err := scanArticle(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan article", err)
		}
		articles = append(articles, article)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read articles", err)
	}
	return articles, nil
}

// Update applies a partial update, bumping updated_at. The slug column is
// deliberately untouched: links to an article survive retitling.
func (s *PostgresArticleStore) Update(ctx context.Context, id int, patch ArticlePatch) (*Article, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []any{}

	addSet := func(column string, value any) {
		args = append(args, value)
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if patch.Title != nil {
		addSet("title", *patch.Title)
	}
	if patch.Description != nil {
		addSet("description", *patch.Description)
	}
	if patch.Body != nil {
		addSet("body", *patch.Body)
	}
	if patch.TagList != nil {
		addSet("tag_list", *patch.TagList)
	}

	args = append(args, id)
	query := fmt.Sprintf(
		`UPDATE articles SET %s WHERE id = $%d RETURNING %s`,
		strings.Join(setClauses, ", "), len(args), articleColumns)

	article, err := scanArticle(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("article not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update article", err)
	}
	return article, nil
}

// Delete removes the article; comments and favorite rows go with it via the
// ON DELETE CASCADE foreign keys.
func (s *PostgresArticleStore) Delete(ctx context.Context, id int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM articles WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete article", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("article not found", nil)
	}
	return nil
}

// AddFavorite records a favorite. The composite primary key rejects
// duplicates, surfaced as a ConflictError.
func (s *PostgresArticleStore) AddFavorite(ctx context.Context, userID, articleID int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO favorites (user_id, article_id)
		VALUES ($1, $2)`,
		userID, articleID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewConflictError("already favorited", nil)
		}
		return apperror.NewDatabaseError("failed to add favorite", err)
	}
	return nil
}

// RemoveFavorite deletes a favorite row and reports whether one existed.
func (s *PostgresArticleStore) RemoveFavorite(ctx context.Context, userID, articleID int) (bool, error) {
	tag, err := s.db.Exec(ctx, `
		DELETE FROM favorites
		WHERE user_id = $1 AND article_id = $2`,
		userID, articleID)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to remove favorite", err)
	}
	return tag.RowsAffected() > 0, nil
}

// IsFavorited reports whether the user favorites the article.
func (s *PostgresArticleStore) IsFavorited(ctx context.Context, userID, articleID int) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM favorites
			WHERE user_id = $1 AND article_id = $2
		)`,
		userID, articleID).Scan(&exists)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to check favorite", err)
	}
	return exists, nil
}

// CountFavorites counts the users favoriting the article.
func (s *PostgresArticleStore) CountFavorites(ctx context.Context, articleID int) (int64, error) {
	var count int64
	err := s.db.QueryRow(ctx, `
		SELECT COUNT(*) FROM favorites WHERE article_id = $1`,
		articleID).Scan(&count)
	if err != nil {
		return 0, apperror.NewDatabaseError("failed to count favorites", err)
	}
	return count, nil
}

// FavoriteArticleIDs returns the ids of every article the user favorites.
func (s *PostgresArticleStore) FavoriteArticleIDs(ctx context.Context, userID int) ([]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT article_id FROM favorites WHERE user_id = $1`,
		userID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list favorites", err)
	}
	defer rows.Close()

	ids := []int{}
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan favorite id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read favorites", err)
	}
	return ids, nil
}

// AllTagLists returns the tag list of every article.
func (s *PostgresArticleStore) AllTagLists(ctx context.Context) ([][]string, error) {
	rows, err := s.db.Query(ctx, `SELECT tag_list FROM articles`)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list tags", err)
	}
	defer rows.Close()

	lists := [][]string{}
	for rows.Next() {
		var tags []string
		if err := rows.Scan(&tags); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan tag list", err)
		}
		lists = append(lists, tags)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read tag lists", err)
	}
	return lists, nil
}
