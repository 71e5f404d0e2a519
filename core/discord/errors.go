package discord

import (
	"fmt"
	"net/http"
	"time"

	"presence-sync/core/reconcile"
)

// APIError is a non-2xx response from the REST API.
type APIError struct {
	// Status is the HTTP status code.
	Status int
	// Code is Discord's JSON error code, when present.
	Code int
	// Message is Discord's error message, when present.
	Message string
	// RetryAfter is set on 429 responses.
	RetryAfter time.Duration
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("discord: %d %s (code %d)", e.Status, e.Message, e.Code)
	}
	return fmt.Sprintf("discord: %d %s", e.Status, http.StatusText(e.Status))
}

// Unwrap maps 404 responses onto reconcile.ErrNotFound.
func (e *APIError) Unwrap() error {
	if e.Status == http.StatusNotFound {
		return reconcile.ErrNotFound
	}
	return nil
}

// RateLimited reports whether the response was a 429.
func (e *APIError) RateLimited() bool {
	return e.Status == http.StatusTooManyRequests
}
