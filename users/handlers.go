// This file handles the HTTP requests for the current-user endpoints.
package users

import (
	"encoding/json"
	"net/http"

	"github.com/user/conduit-go/apperror"
	"github.com/user/conduit-go/auth"
)

// Handlers provides HTTP handlers for the current-user endpoints.
type Handlers struct {
	service *Service
}

// NewHandlers creates new user Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleGetCurrentUser godoc
// @Summary Get the current user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} UserResponse
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Router /user [get]
func (h *Handlers) HandleGetCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		resp, err := h.service.GetCurrentUser(r.Context(), userID)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, resp)
	}
}

// HandleUpdateCurrentUser godoc
// @Summary Update the current user
// @Description Partially updates the caller's account; omitted fields are untouched.
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateUserRequest true "Fields to update"
// @Success 200 {object} UserResponse
// @Failure 401 {object} apperror.ErrorResponse "Missing or invalid token"
// @Failure 409 {object} apperror.ErrorResponse "Username or email already taken"
// @Router /user [put]
func (h *Handlers) HandleUpdateCurrentUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, ok := auth.GetUserIDFromContext(r.Context())
		if !ok {
			auth.WriteError(w, r, apperror.NewAuthError("user id not found in context", nil))
			return
		}

		var req UpdateUserRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			auth.WriteError(w, r, apperror.NewValidationError("invalid request body", err))
			return
		}

		resp, err := h.service.UpdateCurrentUser(r.Context(), userID, req)
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, resp)
	}
}
