package driven

import (
	"errors"
	"fmt"
	"net/http"
)

// APIError is a non-2xx response from the family API. Detail carries the
// server's human-readable message verbatim; the web layer shows it to the
// user unchanged (self-rating rejections, permission denials, "already paid"
// conflicts all arrive this way).
type APIError struct {
	StatusCode int
	Detail     string
}

// Error returns the server's message when present, otherwise a generic
// status line.
func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("family api: HTTP %d", e.StatusCode)
}

// IsUnauthorized reports whether err is an APIError with status 401.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}

// IsForbidden reports whether err is an APIError with status 403.
func IsForbidden(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusForbidden
}

// IsNotFound reports whether err is an APIError with status 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
