package handler

import (
	"fmt"
	"net/http"
	"strings"

	"storefront/internal/model"
	"storefront/internal/receipt"

	"github.com/rs/zerolog"
)

// ReceiptHandler serves the receipts cached for the calling device.
type ReceiptHandler struct {
	cache  receipt.Cache
	logger zerolog.Logger
}

// NewReceiptHandler creates a new receipt handler.
func NewReceiptHandler(cache receipt.Cache, logger zerolog.Logger) *ReceiptHandler {
	return &ReceiptHandler{
		cache:  cache,
		logger: logger.With().Str("handler", "receipt").Logger(),
	}
}

func deviceID(r *http.Request) (string, error) {
	id := strings.TrimSpace(r.Header.Get(DeviceIDHeader))
	if id == "" {
		return "", model.NewMissingFieldError(DeviceIDHeader)
	}
	return id, nil
}

// List handles GET /api/receipts requests.
func (h *ReceiptHandler) List(w http.ResponseWriter, r *http.Request) {
	device, err := deviceID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	receipts, err := h.cache.List(r.Context(), device)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, receipts)
}

// Download handles GET /api/receipts/{id}/download requests.
func (h *ReceiptHandler) Download(w http.ResponseWriter, r *http.Request) {
	device, err := deviceID(r)
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}

	rec, err := h.cache.Get(r.Context(), device, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err, h.logger)
		return
	}
	if rec == nil {
		writeError(w, r, model.ErrOrderNotFound, h.logger)
		return
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", receipt.Filename(*rec)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(receipt.Text(*rec)))
}
