// This file handles the HTTP requests for comments, all scoped under an
// article's slug.
package comments

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
)

// Handlers provides HTTP handlers for the comment endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates new comment Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

func commentID(r *http.Request) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		return 0, apperror.NewValidationError("invalid comment id", err)
	}
	return id, nil
}

// HandleList godoc
// @Summary List an article's comments
// @Description Returns the article's comments, oldest first.
// @Tags comments
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} CommentsResponse
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug}/comments [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := auth.ViewerIDFromContext(r.Context())

		views, err := h.service.List(r.Context(), chi.URLParam(r, "slug"), viewerID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, CommentsResponse{Comments: views})
	}
}

// HandleAdd godoc
// @Summary Add a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param request body AddCommentRequest true "Comment payload"
// @Success 201 {object} CommentResponse
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug}/comments [post]
func (h *Handlers) HandleAdd() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		var req AddCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
			return
		}

		view, err := h.service.Add(r.Context(), chi.URLParam(r, "slug"), userID, req.Body)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, CommentResponse{Comment: *view})
	}
}

// HandleUpdate godoc
// @Summary Edit a comment
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param id path int true "Comment id"
// @Param request body AddCommentRequest true "New body"
// @Success 200 {object} CommentResponse
// @Failure 403 {object} apperror.ErrorResponse "Not the author"
// @Failure 404 {object} apperror.ErrorResponse "Article or comment not found"
// @Router /articles/{slug}/comments/{id} [patch]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		id, err := commentID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		var req AddCommentRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
			return
		}

		view, err := h.service.Update(r.Context(), chi.URLParam(r, "slug"), id, userID, req.Body)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, CommentResponse{Comment: *view})
	}
}

// HandleDelete godoc
// @Summary Delete a comment
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param id path int true "Comment id"
// @Success 200 {object} CommentResponse
// @Failure 403 {object} apperror.ErrorResponse "Not the author"
// @Failure 404 {object} apperror.ErrorResponse "Article or comment not found"
// @Router /articles/{slug}/comments/{id} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		id, err := commentID(r)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		view, err := h.service.Delete(r.Context(), chi.URLParam(r, "slug"), id, userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, CommentResponse{Comment: *view})
	}
}
