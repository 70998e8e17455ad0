package model

import (
	"errors"
	"fmt"
)

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error         string `json:"error"`
	Message       string `json:"message"`
	Recoverable   bool   `json:"recoverable"`
	CorrelationID string `json:"correlationId,omitempty"`
}

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON               = "INVALID_JSON"
	ErrCodeMissingField              = "MISSING_FIELD"
	ErrCodeProductNotFound           = "PRODUCT_NOT_FOUND"
	ErrCodeOrderNotFound             = "ORDER_NOT_FOUND"
	ErrCodePageNotFound              = "PAGE_NOT_FOUND"
	ErrCodeInvalidQuantity           = "INVALID_QUANTITY"
	ErrCodeInvalidRating             = "INVALID_RATING"
	ErrCodeUnauthorised              = "UNAUTHORIZED"
	ErrCodeInternalError             = "INTERNAL_ERROR"
	ErrCodeAuthenticationRequired    = "AUTHENTICATION_REQUIRED"
	ErrCodeEmptyCart                 = "EMPTY_CART"
	ErrCodeAddressUnresolved         = "ADDRESS_UNRESOLVED"
	ErrCodeAddressIncomplete         = "ADDRESS_INCOMPLETE"
	ErrCodeAddressNotFound           = "ADDRESS_NOT_FOUND"
	ErrCodeGeocoderUnavailable       = "GEOCODER_UNAVAILABLE"
	ErrCodePaymentGatewayUnavailable = "PAYMENT_GATEWAY_UNAVAILABLE"
	ErrCodePaymentVerificationFailed = "PAYMENT_VERIFICATION_FAILED"
	ErrCodeOrderPersistFailed        = "ORDER_PERSIST_FAILED"
	ErrCodeSellerProjectionFailed    = "SELLER_PROJECTION_FAILED"
	ErrCodeProfileBootstrapFailed    = "PROFILE_BOOTSTRAP_FAILED"
)

// DomainError is a business error with a stable code.
// Recoverable errors are fixed by the user (log in, correct the address);
// the rest are terminal for the current attempt.
type DomainError struct {
	Code        string
	Message     string
	Recoverable bool
	Err         error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Is matches any DomainError carrying the same code, so wrapped copies
// produced by Wrap still satisfy errors.Is against the sentinel.
func (e *DomainError) Is(target error) bool {
	t, ok := target.(*DomainError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

// Wrap returns a copy of the error that carries cause.
func (e *DomainError) Wrap(cause error) *DomainError {
	return &DomainError{
		Code:        e.Code,
		Message:     e.Message,
		Recoverable: e.Recoverable,
		Err:         cause,
	}
}

// NewDomainError creates a new terminal domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// NewRecoverableError creates a domain error the user can fix and retry.
func NewRecoverableError(code, message string) *DomainError {
	return &DomainError{
		Code:        code,
		Message:     message,
		Recoverable: true,
	}
}

// Common domain errors
var (
	ErrProductNotFound = NewRecoverableError(ErrCodeProductNotFound, "One or more products not found")
	ErrOrderNotFound   = NewRecoverableError(ErrCodeOrderNotFound, "Order not found")
	ErrPageNotFound    = NewRecoverableError(ErrCodePageNotFound, "Page not found")
	ErrInvalidQuantity = NewRecoverableError(ErrCodeInvalidQuantity, "Quantity must be greater than zero")
	ErrInvalidRating   = NewRecoverableError(ErrCodeInvalidRating, "Rating must be between 1 and 5")

	ErrAuthenticationRequired = NewRecoverableError(ErrCodeAuthenticationRequired, "You must be logged in to place an order")
	ErrEmptyCart              = NewRecoverableError(ErrCodeEmptyCart, "Your cart is empty")
	ErrAddressUnresolved      = NewRecoverableError(ErrCodeAddressUnresolved, "Could not confirm shipping address location")
	ErrAddressIncomplete      = NewRecoverableError(ErrCodeAddressIncomplete, "Address is incomplete")
	ErrAddressNotFound        = NewRecoverableError(ErrCodeAddressNotFound, "Address could not be accurately located, please check the spelling")
	ErrGeocoderUnavailable    = NewRecoverableError(ErrCodeGeocoderUnavailable, "Failed to connect to geocoding service")

	ErrPaymentGatewayUnavailable = NewDomainError(ErrCodePaymentGatewayUnavailable, "Payment gateway failed to load")
	ErrPaymentVerificationFailed = NewDomainError(ErrCodePaymentVerificationFailed, "Payment could not be verified")
	ErrOrderPersistFailed        = NewDomainError(ErrCodeOrderPersistFailed, "Failed to save order details, please try again")
	ErrSellerProjectionFailed    = NewDomainError(ErrCodeSellerProjectionFailed, "Seller order projection failed")
	ErrProfileBootstrapFailed    = NewDomainError(ErrCodeProfileBootstrapFailed, "Seller profile bootstrap failed")
)

// NewMissingFieldError reports a required request field that was left empty.
func NewMissingFieldError(field string) *DomainError {
	return NewRecoverableError(ErrCodeMissingField, fmt.Sprintf("%s is required", field))
}

// IsAddressError reports whether err is one of the address resolution failures.
func IsAddressError(err error) bool {
	return errors.Is(err, ErrAddressUnresolved) ||
		errors.Is(err, ErrAddressIncomplete) ||
		errors.Is(err, ErrAddressNotFound) ||
		errors.Is(err, ErrGeocoderUnavailable)
}
