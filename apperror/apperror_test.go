package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusCodes(t *testing.T) {
	tests := []struct {
		name string
		err  *AppError
		want int
	}{
		{"database maps to 500", NewDatabaseError("db", nil), http.StatusInternalServerError},
		{"auth maps to 401", NewAuthError("who are you", nil), http.StatusUnauthorized},
		{"unauthorized maps to 403", NewUnauthorizedError("not yours", nil), http.StatusForbidden},
		{"not found maps to 404", NewNotFoundError("gone", nil), http.StatusNotFound},
		{"validation maps to 400", NewValidationError("bad input", nil), http.StatusBadRequest},
		{"bad request maps to 400", NewBadRequestError("bad state", nil), http.StatusBadRequest},
		{"conflict maps to 409", NewConflictError("taken", nil), http.StatusConflict},
		{"internal maps to 500", NewInternalError("boom", nil), http.StatusInternalServerError},
		{"unknown maps to 500", NewAppError(UnknownError, "???", nil), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.StatusCode())
		})
	}
}

func TestErrorAndUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := NewDatabaseError("failed to query", cause)

	assert.Equal(t, "failed to query: connection refused", err.Error())
	assert.ErrorIs(t, err, cause, "the wrapped cause is reachable via errors.Is")

	bare := NewNotFoundError("article not found", nil)
	assert.Equal(t, "article not found", bare.Error())
}

func TestToResponseHidesCause(t *testing.T) {
	err := NewDatabaseError("failed to query", errors.New("password=hunter2"))
	resp := err.ToResponse()
	assert.Equal(t, "failed to query", resp.Error)
	assert.NotContains(t, resp.Error, "hunter2")
}

func TestFromError(t *testing.T) {
	t.Run("recovers an AppError from a wrapped chain", func(t *testing.T) {
		inner := NewConflictError("slug already exists", nil)
		wrapped := fmt.Errorf("creating article: %w", inner)

		appErr, ok := FromError(wrapped)
		require.True(t, ok)
		assert.Equal(t, ConflictError, appErr.Type)
	})

	t.Run("plain errors do not convert", func(t *testing.T) {
		_, ok := FromError(errors.New("plain"))
		assert.False(t, ok)
	})

	t.Run("nil does not convert", func(t *testing.T) {
		_, ok := FromError(nil)
		assert.False(t, ok)
	})
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsNotFound(NewNotFoundError("x", nil)))
	assert.True(t, IsConflictError(fmt.Errorf("wrapped: %w", NewConflictError("x", nil))))
	assert.False(t, IsConflictError(NewNotFoundError("x", nil)))
	assert.False(t, IsNotFound(nil))
	assert.True(t, IsAuthError(NewAuthError("x", nil)))
	assert.True(t, IsUnauthorizedError(NewUnauthorizedError("x", nil)))
	assert.True(t, IsValidationError(NewValidationError("x", nil)))
	assert.True(t, IsBadRequestError(NewBadRequestError("x", nil)))
}
