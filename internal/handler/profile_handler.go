package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	"github.com/rs/zerolog"
)

// ProfileHandler handles saved checkout details.
type ProfileHandler struct {
	service service.ProfileService
	logger  zerolog.Logger
}

// NewProfileHandler creates a new profile handler.
func NewProfileHandler(service service.ProfileService, logger zerolog.Logger) *ProfileHandler {
	return &ProfileHandler{
		service: service,
		logger:  logger.With().Str("handler", "profile").Logger(),
	}
}

type saveProfileRequest struct {
	Billing     model.BillingDetails `json:"billingDetails"`
	Coordinates *model.Coordinates   `json:"coordinates,omitempty"`
}

// Get handles GET /api/profile requests.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	profile, err := h.service.Get(r.Context(), buyerID(r))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// Save handles PUT /api/profile requests.
func (h *ProfileHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req saveProfileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	profile, err := h.service.Save(r.Context(), buyerID(r), req.Billing, req.Coordinates)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
