package identity

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a 2xx response cannot be read as a user.
var ErrMalformedResponse = errors.New("identity: malformed response")

// HTTPError represents a non-2xx response from the identity service.
type HTTPError struct {
	StatusCode int
	Message    string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// IsStatus returns true if err (or any wrapped error) is an HTTPError with the given status code.
func IsStatus(err error, code int) bool {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == code
	}
	return false
}
