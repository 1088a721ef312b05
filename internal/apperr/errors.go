// Package apperr defines sentinel error values that are reused across the
// application. These sentinels allow handlers to distinguish failure
// scenarios and translate them into HTTP responses without inspecting
// error strings. For example, ErrConflict signals a duplicate product
// number or username, while ErrUpstream marks a failed call to one of
// the external collaborators (document database, image host, messaging
// API).
package apperr

import (
	"errors"
	"net/http"
)

// ErrUnauthenticated is returned when a request carries no token, or a
// token that is unknown or expired. Handlers translate it into 401.
var ErrUnauthenticated = errors.New("unauthenticated")

// ErrForbidden is returned when a valid session lacks the permission
// required by an endpoint. Handlers translate it into 403.
var ErrForbidden = errors.New("forbidden")

// ErrNotFound is returned when a product, user or image cannot be
// located. Handlers translate it into 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an insert collides with an existing
// business key (product number, username). Handlers translate it into 409.
var ErrConflict = errors.New("conflict")

// ErrValidation is returned for malformed input such as unparseable
// price strings or an unknown role. Handlers translate it into 400.
var ErrValidation = errors.New("validation failed")

// ErrUpstream is returned when a call to an external collaborator fails
// or times out. Read paths degrade instead of surfacing it; write paths
// translate it into 502.
var ErrUpstream = errors.New("upstream failure")

// Status maps a sentinel (possibly wrapped) to its HTTP status code.
// Unknown errors map to 500.
func Status(err error) int {
	switch {
	case errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUpstream):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
