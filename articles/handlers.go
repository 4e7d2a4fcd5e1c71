// This file handles the HTTP requests for articles: CRUD, listing, the
// favorite toggles, and the personalized feed.
package articles

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
)

// Handlers provides HTTP handlers for the article endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates new article Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// queryInt parses an integer query parameter, treating absence or garbage
// as zero so the service applies its defaults.
func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

// HandleList godoc
// @Summary List articles
// @Description Lists articles newest first, filterable by tag, author, and favoriting user.
// @Tags articles
// @Produce json
// @Param tag query string false "Tag filter"
// @Param author query string false "Author username filter"
// @Param favorited query string false "Favorited-by username filter"
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Page offset"
// @Success 200 {object} ArticlesResponse
// @Router /articles [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := ListQuery{
			Tag:       r.URL.Query().Get("tag"),
			Author:    r.URL.Query().Get("author"),
			Favorited: r.URL.Query().Get("favorited"),
			Limit:     queryInt(r, "limit"),
			Offset:    queryInt(r, "offset"),
		}
		viewerID := auth.ViewerIDFromContext(r.Context())

		views, total, err := h.service.List(r.Context(), query, viewerID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ArticlesResponse{Articles: views, ArticlesCount: total})
	}
}

// HandleFeed godoc
// @Summary Get the personal feed
// @Description Lists articles authored by users the caller follows, newest first.
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param limit query int false "Page size (default 20)"
// @Param offset query int false "Page offset"
// @Success 200 {object} ArticlesResponse
// @Router /articles/feed [get]
func (h *Handlers) HandleFeed() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		views, total, err := h.service.Feed(r.Context(), userID, queryInt(r, "limit"), queryInt(r, "offset"))
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ArticlesResponse{Articles: views, ArticlesCount: total})
	}
}

// HandleCreate godoc
// @Summary Create an article
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateArticleRequest true "Article payload"
// @Success 201 {object} ArticleResponse
// @Failure 400 {object} apperror.ErrorResponse "Validation failed"
// @Router /articles [post]
func (h *Handlers) HandleCreate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		var req CreateArticleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
			return
		}

		view, err := h.service.Create(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusCreated, ArticleResponse{Article: *view})
	}
}

// HandleGet godoc
// @Summary Get an article
// @Tags articles
// @Produce json
// @Param slug path string true "Article slug"
// @Success 200 {object} ArticleResponse
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug} [get]
func (h *Handlers) HandleGet() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		viewerID := auth.ViewerIDFromContext(r.Context())

		view, err := h.service.Get(r.Context(), chi.URLParam(r, "slug"), viewerID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ArticleResponse{Article: *view})
	}
}

// HandleUpdate godoc
// @Summary Update an article
// @Description Partially updates the caller's own article. The slug never changes.
// @Tags articles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Param request body UpdateArticleRequest true "Fields to update"
// @Success 200 {object} ArticleResponse
// @Failure 403 {object} apperror.ErrorResponse "Not the author"
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug} [put]
func (h *Handlers) HandleUpdate() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		var req UpdateArticleRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
			return
		}

		view, err := h.service.Update(r.Context(), chi.URLParam(r, "slug"), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ArticleResponse{Article: *view})
	}
}

// HandleDelete godoc
// @Summary Delete an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} ArticleResponse
// @Failure 403 {object} apperror.ErrorResponse "Not the author"
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Router /articles/{slug} [delete]
func (h *Handlers) HandleDelete() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		view, err := h.service.Delete(r.Context(), chi.URLParam(r, "slug"), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ArticleResponse{Article: *view})
	}
}

// HandleFavorite godoc
// @Summary Favorite an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} ArticleResponse
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Failure 409 {object} apperror.ErrorResponse "Already favorited"
// @Router /articles/{slug}/favorite [post]
func (h *Handlers) HandleFavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		view, err := h.service.Favorite(r.Context(), chi.URLParam(r, "slug"), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ArticleResponse{Article: *view})
	}
}

// HandleUnfavorite godoc
// @Summary Unfavorite an article
// @Tags articles
// @Produce json
// @Security BearerAuth
// @Param slug path string true "Article slug"
// @Success 200 {object} ArticleResponse
// @Failure 404 {object} apperror.ErrorResponse "Article not found"
// @Failure 409 {object} apperror.ErrorResponse "Not favorited"
// @Router /articles/{slug}/favorite [delete]
func (h *Handlers) HandleUnfavorite() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		view, err := h.service.Unfavorite(r.Context(), chi.URLParam(r, "slug"), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ArticleResponse{Article: *view})
	}
}
