package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/geocode"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// GeocodeHandler exposes address lookups to the checkout form.
type GeocodeHandler struct {
	geocoder geocode.Geocoder
	logger   zerolog.Logger
}

// NewGeocodeHandler creates a new geocode handler.
func NewGeocodeHandler(geocoder geocode.Geocoder, logger zerolog.Logger) *GeocodeHandler {
	return &GeocodeHandler{
		geocoder: geocoder,
		logger:   logger.With().Str("handler", "geocode").Logger(),
	}
}

// Forward handles GET /api/geocode?address=...&city=...&pincode=... requests.
func (h *GeocodeHandler) Forward(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	coords, err := h.geocoder.Forward(r.Context(), model.BillingDetails{
		Address: q.Get("address"),
		City:    q.Get("city"),
		Pincode: q.Get("pincode"),
	})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, coords)
}

// Reverse handles GET /api/geocode/reverse?lat=...&lng=... requests.
func (h *GeocodeHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	lat, latErr := strconv.ParseFloat(r.URL.Query().Get("lat"), 64)
	lng, lngErr := strconv.ParseFloat(r.URL.Query().Get("lng"), 64)
	if latErr != nil || lngErr != nil {
		writeError(w, r, model.NewMissingFieldError("lat and lng"), h.logger)
		return
	}

	result, err := h.geocoder.Reverse(r.Context(), model.Coordinates{Lat: lat, Lng: lng})
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, result)
}
