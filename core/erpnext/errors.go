package erpnext

import (
	"errors"
	"fmt"
)

// ErrNotFound reports an authoritative 404 from the resource API.
var ErrNotFound = errors.New("erpnext: document not found")

// ErrConflict reports a definitive duplicate signal during creation:
// a 409/417 status or an "already exists" message in the response body.
var ErrConflict = errors.New("erpnext: document already exists")

// APIError carries enough request context for manual reconciliation:
// the status code and a snippet of the response body.
type APIError struct {
	StatusCode int
	Method     string
	Path       string
	Body       string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("erpnext: %s %s returned %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}
