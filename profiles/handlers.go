// This file handles the HTTP requests for profiles: a public read plus
// authenticated follow/unfollow.
package profiles

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
)

// Handlers provides HTTP handlers for the profile endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates new profile Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGetProfile godoc
// @Summary Get a profile
// @Description Returns a user's public profile; `following` reflects the viewer when authenticated.
// @Tags profiles
// @Produce json
// @Param username path string true "Username"
// @Success 200 {object} ProfileResponse
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /profiles/{username} [get]
func (h *Handlers) HandleGetProfile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := chi.URLParam(r, "username")
		viewerID := auth.ViewerIDFromContext(r.Context())

		profile, err := h.service.GetProfile(r.Context(), username, viewerID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: *profile})
	}
}

// HandleFollow godoc
// @Summary Follow a user
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} apperror.ErrorResponse "Self-follow or already following"
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /profiles/{username}/follow [post]
func (h *Handlers) HandleFollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		profile, err := h.service.Follow(r.Context(), chi.URLParam(r, "username"), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: *profile})
	}
}

// HandleUnfollow godoc
// @Summary Unfollow a user
// @Tags profiles
// @Produce json
// @Security BearerAuth
// @Param username path string true "Username"
// @Success 200 {object} ProfileResponse
// @Failure 400 {object} apperror.ErrorResponse "Self-unfollow or not following"
// @Failure 404 {object} apperror.ErrorResponse "User not found"
// @Router /profiles/{username}/follow [delete]
func (h *Handlers) HandleUnfollow() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		profile, err := h.service.Unfollow(r.Context(), chi.URLParam(r, "username"), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, ProfileResponse{Profile: *profile})
	}
}
