package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/rs/zerolog"
)

// DeviceIDHeader identifies the browser a receipt was issued to.
const DeviceIDHeader = "X-Device-ID"

// statusByCode maps domain error codes to HTTP status codes. Codes not
// listed are treated as bad requests when recoverable and as internal
// errors otherwise.
var statusByCode = map[string]int{
	model.ErrCodeInvalidJSON:               http.StatusBadRequest,
	model.ErrCodeMissingField:              http.StatusBadRequest,
	model.ErrCodeInvalidQuantity:           http.StatusBadRequest,
	model.ErrCodeInvalidRating:             http.StatusBadRequest,
	model.ErrCodeEmptyCart:                 http.StatusBadRequest,
	model.ErrCodeAddressIncomplete:         http.StatusBadRequest,
	model.ErrCodeAddressNotFound:           http.StatusUnprocessableEntity,
	model.ErrCodeAddressUnresolved:         http.StatusUnprocessableEntity,
	model.ErrCodePaymentVerificationFailed: http.StatusPaymentRequired,
	model.ErrCodeAuthenticationRequired:    http.StatusUnauthorized,
	model.ErrCodeUnauthorised:              http.StatusUnauthorized,
	model.ErrCodeProductNotFound:           http.StatusNotFound,
	model.ErrCodeOrderNotFound:             http.StatusNotFound,
	model.ErrCodePageNotFound:              http.StatusNotFound,
	model.ErrCodeGeocoderUnavailable:       http.StatusServiceUnavailable,
	model.ErrCodePaymentGatewayUnavailable: http.StatusBadGateway,
	model.ErrCodeOrderPersistFailed:        http.StatusInternalServerError,
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError translates err into an ErrorResponse. Domain errors keep
// their code and message; anything else becomes an opaque internal error.
func writeError(w http.ResponseWriter, r *http.Request, err error, logger zerolog.Logger) {
	correlationID := middleware.RequestID(r.Context())

	var domainErr *model.DomainError
	if !errors.As(err, &domainErr) {
		logger.Error().Err(err).Str("path", r.URL.Path).Str("request_id", correlationID).Msg("handler error")
		writeJSON(w, http.StatusInternalServerError, model.ErrorResponse{
			Error:         model.ErrCodeInternalError,
			Message:       "internal server error",
			CorrelationID: correlationID,
		})
		return
	}

	status, ok := statusByCode[domainErr.Code]
	if !ok {
		status = http.StatusInternalServerError
		if domainErr.Recoverable {
			status = http.StatusBadRequest
		}
	}

	event := logger.Warn()
	if status >= http.StatusInternalServerError {
		event = logger.Error()
	}
	event.Err(err).
		Str("code", domainErr.Code).
		Int("status", status).
		Str("path", r.URL.Path).
		Str("request_id", correlationID).
		Msg("request failed")

	writeJSON(w, status, model.ErrorResponse{
		Error:         domainErr.Code,
		Message:       domainErr.Message,
		Recoverable:   domainErr.Recoverable,
		CorrelationID: correlationID,
	})
}

// decodeJSON reads the request body into v.
func decodeJSON(r *http.Request, v interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return model.NewRecoverableError(model.ErrCodeInvalidJSON, "invalid request body").Wrap(err)
	}
	return nil
}

// queryInt parses an optional integer query parameter.
func queryInt(r *http.Request, name string, defaultValue int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, model.NewRecoverableError(model.ErrCodeMissingField, "invalid "+name+" parameter")
	}
	return v, nil
}

func buyerID(r *http.Request) string {
	return middleware.BuyerID(r.Context())
}
