package catalog

import (
	"errors"
	"fmt"
)

// ErrBusy reports that a mutation is already in flight for the targeted
// product. The caller surfaces it immediately; it is never retried
// automatically and never queued.
var ErrBusy = errors.New("another change is still being applied")

// APIError describes a failed exchange with the remote catalog service,
// either a transport failure (StatusCode zero) or a non-2xx response.
type APIError struct {
	Op         string
	StatusCode int
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: api returned status %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *APIError) Unwrap() error { return e.Err }

// IsAPIError reports whether err wraps an APIError and returns it.
func IsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}
