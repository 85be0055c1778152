package commerce

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNoSession is returned by session-dependent operations when the inbound
// request carried no checkout session cookie.
var ErrNoSession = errors.New("no checkout session")

// APIError is a non-2xx response from the commerce API. The cache layer
// propagates it unchanged to the route handler and never stores it.
type APIError struct {
	StatusCode int
	Message    string
}

// Error implements the error interface.
func (e *APIError) Error() string {
	return fmt.Sprintf("commerce api error (status %d): %s", e.StatusCode, e.Message)
}

// IsNotFound reports whether err is a commerce API 404.
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound
}
