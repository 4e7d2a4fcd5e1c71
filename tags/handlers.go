package tags

import (
	"net/http"

	"github.com/user/conduit-go/auth"
)

// TagsResponse wraps the tag vocabulary.
type TagsResponse struct {
	Tags []string `json:"tags"`
}

// Handlers provides the HTTP handler for the tag endpoint.
type Handlers struct {
	service *Service
}

// NewHandlers creates new tag Handlers.
func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleList godoc
// @Summary List tags
// @Description Returns every tag in use, sorted alphabetically.
// @Tags tags
// @Produce json
// @Success 200 {object} TagsResponse
// @Router /tags [get]
func (h *Handlers) HandleList() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tags, err := h.service.List(r.Context())
		if err != nil {
			auth.WriteError(w, r, err)
			return
		}

		auth.WriteJSON(w, http.StatusOK, TagsResponse{Tags: tags})
	}
}
