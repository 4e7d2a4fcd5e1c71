package comments

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/conduit-go/apperror"
)

const commentColumns = `id, body, article_id, author_id, created_at, updated_at`

// PostgresCommentStore is the pgx-backed CommentStore.
type PostgresCommentStore struct {
	db *pgxpool.Pool
}

// NewPostgresCommentStore creates a PostgresCommentStore on the given pool.
func NewPostgresCommentStore(db *pgxpool.Pool) *PostgresCommentStore {
	return &PostgresCommentStore{db: db}
}

func scanComment(row pgx.Row) (*Comment, error) {
	var c Comment
	err := row.Scan(&c.ID, &c.Body, &c.ArticleID, &c.AuthorID, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// Create inserts the comment.
func (s *PostgresCommentStore) Create(ctx context.Context, comment *Comment) (*Comment, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO comments (body, article_id, author_id)
		VALUES ($1, $2, $3)
		RETURNING `+commentColumns,
		comment.Body, comment.ArticleID, comment.AuthorID)

	created, err := scanComment(row)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to create comment", err)
	}
	return created, nil
}

// GetByID fetches a comment by id.
func (s *PostgresCommentStore) GetByID(ctx context.Context, id int) (*Comment, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE id = $1`,
		id)

	comment, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("comment not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get comment", err)
	}
	return comment, nil
}

// ListByArticle returns the article's comments, oldest first.
func (s *PostgresCommentStore) ListByArticle(ctx context.Context, articleID int) ([]*Comment, error) {
	rows, err := s.db.Query(ctx, `
		SELECT `+commentColumns+` FROM comments
		WHERE article_id = $1
		ORDER BY created_at ASC, id ASC`,
		articleID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list comments", err)
	}
	defer rows.Close()

	comments := []*Comment{}
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			return nil, apperror.NewDatabaseError("failed to scan comment", err)
		}
		comments = append(comments, comment)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read comments", err)
	}
	return comments, nil
}

// Update replaces the comment body.
func (s *PostgresCommentStore) Update(ctx context.Context, id int, body string) (*Comment, error) {
	row := s.db.QueryRow(ctx, `
		UPDATE comments
		SET body = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING `+commentColumns,
		body, id)

	comment, err := scanComment(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("comment not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to update comment", err)
	}
	return comment, nil
}

// Delete removes the comment.
func (s *PostgresCommentStore) Delete(ctx context.Context, id int) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete comment", err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NewNotFoundError("comment not found", nil)
	}
	return nil
}
