package networking

import (
	"errors"
	"fmt"
)

// HTTPError is a non-success status returned by the server. The endpoint does
// not speak JSON-RPC on such responses, so the leading bytes of the body are
// kept as a diagnostic preview instead of being decoded.
type HTTPError struct {
	// StatusCode is the HTTP status code.
	StatusCode int

	// URL is the requested URL.
	URL string

	// BodyPreview holds up to DefaultErrorPreviewSize bytes of the body.
	BodyPreview string
}

// Error implements the error interface.
func (e *HTTPError) Error() string {
	if e.BodyPreview == "" {
		return fmt.Sprintf("%s returned HTTP %d", e.URL, e.StatusCode)
	}
	return fmt.Sprintf("%s returned HTTP %d: %s", e.URL, e.StatusCode, e.BodyPreview)
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, url, bodyPreview string) error {
	return &HTTPError{
		StatusCode:  statusCode,
		URL:         url,
		BodyPreview: bodyPreview,
	}
}

// IsHTTPError reports whether err carries an HTTPError with the given status
// code. A statusCode of 0 matches any HTTPError.
func IsHTTPError(err error, statusCode int) bool {
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) {
		return false
	}
	return statusCode == 0 || httpErr.StatusCode == statusCode
}
