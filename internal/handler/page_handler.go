package handler

import (
	"net/http"

	"storefront/internal/content"

	"github.com/rs/zerolog"
)

// PageSource looks up a policy page by slug.
type PageSource interface {
	Get(slug string) (*content.Page, error)
}

// PageHandler serves the static policy pages.
type PageHandler struct {
	pages  PageSource
	logger zerolog.Logger
}

// NewPageHandler creates a new page handler.
func NewPageHandler(pages PageSource, logger zerolog.Logger) *PageHandler {
	return &PageHandler{
		pages:  pages,
		logger: logger.With().Str("handler", "page").Logger(),
	}
}

// Get handles GET /api/pages/{slug} requests.
func (h *PageHandler) Get(w http.ResponseWriter, r *http.Request) {
	page, err := h.pages.Get(r.PathValue("slug"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	w.Header().Set("Cache-Control", "public, max-age=300")
	writeJSON(w, http.StatusOK, page)
}
