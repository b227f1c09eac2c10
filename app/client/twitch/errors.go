package twitch

import (
	"errors"
	"fmt"
)

var (
	// ErrNotInitialized indicates a call made outside an open session.
	ErrNotInitialized = errors.New("client is not initialized, open a session first")
	// ErrSessionOpen indicates Open was called on an already open session.
	ErrSessionOpen = errors.New("session is already open")
	// ErrNotFound indicates an empty result set from a lookup.
	ErrNotFound = errors.New("not found")
)

// StatusError is a non-2xx response from the Twitch API.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API request failed: status %d, body: %s", e.StatusCode, e.Body)
}
