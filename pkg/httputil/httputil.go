// Package httputil centralizes JSON encoding, request decoding, and domain
// error translation for the HTTP layer. Error responses carry a single
// "error" string; driver internals and stack traces never reach the caller.
package httputil

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "greenleaf/pkg/domain-errors"
)

// ErrorResponse is the JSON envelope for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
	// AttemptsLeft is only populated on failed logins.
	AttemptsLeft *int `json:"attemptsLeft,omitempty"`
}

// WriteJSON encodes a response with the given status.
func WriteJSON(w http.ResponseWriter, status int, response any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Errors after WriteHeader cannot change the status code, so encoding
	// errors are ignored; headers are already sent.
	_ = json.NewEncoder(w).Encode(response)
}

// WriteError translates domain errors into HTTP status codes and a JSON body.
func WriteError(w http.ResponseWriter, err error) {
	var domainErr *dErrors.Error
	if errors.As(err, &domainErr) {
		WriteJSON(w, StatusForCode(domainErr.Code), ErrorResponse{Error: domainErr.Error()})
		return
	}

	// Caught fallback for anything unexpected.
	WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: "Internal server error"})
}

// StatusForCode maps domain error codes to HTTP status codes.
func StatusForCode(code dErrors.Code) int {
	switch code {
	case dErrors.CodeBadRequest, dErrors.CodeValidation:
		return http.StatusBadRequest
	case dErrors.CodePayloadTooLarge:
		return http.StatusRequestEntityTooLarge
	case dErrors.CodeRateLimited:
		return http.StatusTooManyRequests
	case dErrors.CodeConflict:
		return http.StatusConflict
	case dErrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case dErrors.CodeNotFound:
		return http.StatusNotFound
	case dErrors.CodeConfig, dErrors.CodeInternal:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// DecodeJSON decodes a JSON request body into the target type.
// Overflowing the route's body ceiling surfaces as a payload_too_large domain
// error so the caller sees 413 before any validation runs.
func DecodeJSON[T any](r *http.Request) (*T, error) {
	var req T
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			return nil, dErrors.New(dErrors.CodePayloadTooLarge, "Request payload too large")
		}
		return nil, dErrors.New(dErrors.CodeBadRequest, "Invalid JSON format")
	}
	return &req, nil
}

// Validatable is implemented by request types that support validation.
type Validatable interface {
	Validate() error
}

// Normalizable is implemented by request types that support normalization.
type Normalizable interface {
	Normalize()
}

// Sanitizable is implemented by request types that support sanitization.
type Sanitizable interface {
	Sanitize()
}

// PrepareRequest sanitizes, normalizes, and validates a request.
func PrepareRequest(req any) error {
	if s, ok := req.(Sanitizable); ok {
		s.Sanitize()
	}
	if n, ok := req.(Normalizable); ok {
		n.Normalize()
	}
	if v, ok := req.(Validatable); ok {
		return v.Validate()
	}
	return nil
}

// DecodeAndPrepare combines JSON decoding with request preparation. It decodes
// the body, then calls Sanitize(), Normalize(), and Validate() if the target
// type implements those interfaces.
func DecodeAndPrepare[T any](r *http.Request) (*T, error) {
	req, err := DecodeJSON[T](r)
	if err != nil {
		return nil, err
	}

	if err := PrepareRequest(req); err != nil {
		var domainErr *dErrors.Error
		if errors.As(err, &domainErr) {
			return nil, err
		}
		return nil, dErrors.New(dErrors.CodeValidation, err.Error())
	}

	return req, nil
}
