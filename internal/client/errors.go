package client

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidZoneID is returned by constructors given an empty zone id.
	ErrInvalidZoneID = errors.New("client: a valid zone id is required")

	// ErrNoCallback is returned by Subscribe when onEvent is nil.
	ErrNoCallback = errors.New("client: subscribe requires an event callback")

	// ErrAlreadySubscribed is returned by Subscribe while a previous
	// subscription is still running. Call Unsubscribe first.
	ErrAlreadySubscribed = errors.New("client: already subscribed")

	// ErrSessionNotOpen is returned when writing to a session that is still
	// connecting or already closed.
	ErrSessionNotOpen = errors.New("client: session not open")
)

// StatusError is a non-2xx HTTP response.
type StatusError struct {
	Method string
	URL    string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: %d %s", e.Method, e.URL, e.Code, e.Body)
}
