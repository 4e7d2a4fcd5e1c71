package profiles

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/user/conduit-go/apperror"
)

const pgUniqueViolation = "23505"

// PostgresFollowStore is the pgx-backed FollowStore.
type PostgresFollowStore struct {
	db *pgxpool.Pool
}

// NewPostgresFollowStore creates a PostgresFollowStore on the given pool.
func NewPostgresFollowStore(db *pgxpool.Pool) *PostgresFollowStore {
	return &PostgresFollowStore{db: db}
}

// Create inserts a follow edge. The (follower_id, following_id) primary key
// turns a concurrent duplicate insert into a unique violation, surfaced as a
// ConflictError for the service to translate.
func (s *PostgresFollowStore) Create(ctx context.Context, followerID, followingID int) error {
	_, err := s.db.Exec(ctx, `
		INSERT INTO follows (follower_id, following_id)
		VALUES ($1, $2)`,
		followerID, followingID)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return apperror.NewConflictError("already following", nil)
		}
		return apperror.NewDatabaseError("failed to create follow", err)
	}
	return nil
}

// Delete removes a follow edge. Deleting an absent edge is a no-op; the
// service pre-checks existence for the user-visible error.
func (s *PostgresFollowStore) Delete(ctx context.Context, followerID, followingID int) error {
	_, err := s.db.Exec(ctx, `
		DELETE FROM follows
		WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID)
	if err != nil {
		return apperror.NewDatabaseError("failed to delete follow", err)
	}
	return nil
}

// Exists reports whether followerID follows followingID.
func (s *PostgresFollowStore) Exists(ctx context.Context, followerID, followingID int) (bool, error) {
	var exists bool
	err := s.db.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM follows
			WHERE follower_id = $1 AND following_id = $2
		)`,
		followerID, followingID).Scan(&exists)
	if err != nil {
		return false, apperror.NewDatabaseError("failed to check follow", err)
	}
	return exists, nil
}

// FollowingIDs returns the ids of every user the follower follows.
func (s *PostgresFollowStore) FollowingIDs(ctx context.Context, followerID int) ([]int, error) {
	rows, err := s.db.Query(ctx, `
		SELECT following_id FROM follows
		WHERE follower_id = $1`,
		followerID)
	if err != nil {
		return nil, apperror.NewDatabaseError("failed to list followed users", err)
	}
	defer rows.Close()

	var ids []int
	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, apperror.NewDatabaseError("failed to scan followed user id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDatabaseError("failed to read followed users", err)
	}
	return ids, nil
}
