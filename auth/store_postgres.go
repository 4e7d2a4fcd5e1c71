package auth

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

// pgUniqueViolation is the PostgreSQL error code for unique constraint violations.
const pgUniqueViolation = "23505"

// PostgresUserStore is the pgx-backed UserStore.
type PostgresUserStore struct {
	db *pgxpool.Pool
}

// NewPostgresUserStore creates a PostgresUserStore on the given pool.
func NewPostgresUserStore(db *pgxpool.Pool) *PostgresUserStore {
	return &PostgresUserStore{db: db}
}

const userColumns = `id, username, email, password, bio, image, created_at`

// scanUser reads one user row. pgx scans nullable text columns into *string
// directly, so bio and image need no sql.Null wrappers.
func scanUser(row pgx.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.HashedPassword, &u.Bio, &u.Image, &u.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// translateUniqueViolation converts a unique-violation error on the users
// table into the ConflictError the services and handlers expect. Any other
// error is returned as a DatabaseError.
func translateUniqueViolation(err error, action string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		if strings.Contains(pgErr.ConstraintName, "username") {
			return apperror.NewConflictError("username already exists", nil)
		}
		if strings.Contains(pgErr.ConstraintName, "email") {
			return apperror.NewConflictError("email already exists", nil)
		}
	}
	return apperror.NewDatabaseError(action, err)
}

// Create inserts a new user and returns the stored record.
func (s *PostgresUserStore) Create(ctx context.Context, user *User) (*User, error) {
	row := s.db.QueryRow(ctx, `
		INSERT INTO users (username, email, password, bio, image)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+userColumns,
		user.Username, user.Email, user.HashedPassword, user.Bio, user.Image)

	created, err := scanUser(row)
	if err != nil {
		return nil, translateUniqueViolation(err, "failed to create user")
	}
	return created, nil
}

// GetByID fetches a user by id.
func (s *PostgresUserStore) GetByID(ctx context.Context, id int) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

// GetByEmail fetches a user by email (emails are stored lowercased).
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE email = $1`, strings.ToLower(email))
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

// GetByUsername fetches a user by username.
func (s *PostgresUserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	row := s.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE username = $1`, username)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, apperror.NewDatabaseError("failed to get user", err)
	}
	return user, nil
}

// Update applies a partial update, building the SET clause dynamically from
// the non-nil patch fields so untouched columns keep their values.
func (s *PostgresUserStore) Update(ctx context.Context, id int, patch UserPatch) (*User, error) {
	if patch.IsEmpty() {
		return s.GetByID(ctx, id)
	}

	var setClauses []string
	var args []interface{}
	argID := 1

	addSet := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, argID))
		args = append(args, value)
		argID++
	}

	if patch.Username != nil {
		addSet("username", *patch.Username)
	}
	if patch.Email != nil {
		addSet("email", strings.ToLower(*patch.Email))
	}
	if patch.HashedPassword != nil {
		addSet("password", *patch.HashedPassword)
	}
	if patch.Bio != nil {
		addSet("bio", *patch.Bio)
	}
	if patch.Image != nil {
		addSet("image", *patch.Image)
	}

	args = append(args, id)
	query := fmt.Sprintf(`
		UPDATE users
		SET %s
		WHERE id = $%d
		RETURNING `+userColumns,
		strings.Join(setClauses, ", "), argID)

	user, err := scanUser(s.db.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NewNotFoundError("user not found", nil)
		}
		return nil, translateUniqueViolation(err, "failed to update user")
	}
	return user, nil
}
