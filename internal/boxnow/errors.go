package boxnow

import (
	"errors"
	"fmt"
)

// ErrNotConfigured is returned by any operation when the carrier client
// id/secret are missing from the environment.
var ErrNotConfigured = errors.New("boxnow client credentials are not configured")

// APIError is a non-2xx response from the carrier. The body is kept
// verbatim so callers can relay the carrier's own error detail to the
// client unmodified.
type APIError struct {
	StatusCode  int
	Body        []byte
	ContentType string
}

func (e *APIError) Error() string {
	body := e.Body
	if len(body) > 256 {
		body = body[:256]
	}
	return fmt.Sprintf("boxnow upstream status %d: %s", e.StatusCode, body)
}
