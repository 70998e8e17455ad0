package handler

import (
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue and rating HTTP requests.
type ProductHandler struct {
	products service.ProductService
	ratings  service.RatingService
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(products service.ProductService, ratings service.RatingService, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		products: products,
		ratings:  ratings,
		logger:   logger.With().Str("handler", "product").Logger(),
	}
}

// List handles GET /api/products?category=...&after=... requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	category := strings.TrimSpace(r.URL.Query().Get("category"))
	if category == "" {
		writeError(w, r, model.NewMissingFieldError("category"), h.logger)
		return
	}

	page, err := h.products.ListByCategory(r.Context(), category, r.URL.Query().Get("after"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// GetByID handles GET /api/products/{id} requests.
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	product, err := h.products.GetByID(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Related handles GET /api/products/{id}/related requests.
func (h *ProductHandler) Related(w http.ResponseWriter, r *http.Request) {
	products, err := h.products.Related(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, products)
}

// Ratings handles GET /api/products/{id}/ratings requests.
func (h *ProductHandler) Ratings(w http.ResponseWriter, r *http.Request) {
	summary, err := h.ratings.Summary(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, summary)
}

// SubmitRating handles POST /api/products/{id}/ratings requests.
func (h *ProductHandler) SubmitRating(w http.ResponseWriter, r *http.Request) {
	var req model.RatingRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	rating, err := h.ratings.Submit(r.Context(), buyerID(r), r.PathValue("id"), &req)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, rating)
}
