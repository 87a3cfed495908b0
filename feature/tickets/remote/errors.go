package remote

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound matches any HTTPError with status 404.
var ErrNotFound = errors.New("not found")

// HTTPError is returned for every non-2xx response that is not retried.
type HTTPError struct {
	Method     string
	Path       string
	StatusCode int
	// Message is the API's "message" field, when present.
	Message string
	Body    string
}

func (e *HTTPError) Error() string {
	detail := e.Message
	if detail == "" {
		detail = e.Body
	}
	if detail == "" {
		detail = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("%s %s: http %d: %s", e.Method, e.Path, e.StatusCode, detail)
}

func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
