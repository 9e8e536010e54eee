package notes

import (
	"errors"
	"fmt"
)

var (
	// ErrNetwork wraps transport failures and non-2xx responses.
	ErrNetwork = errors.New("notes service request failed")

	// ErrRateLimited indicates the daily create quota was exceeded.
	ErrRateLimited = errors.New("notes rate limited")

	// ErrSignedOut indicates a mutation without a user identity.
	ErrSignedOut = errors.New("not signed in")

	// ErrEmptyTitle indicates a note without a title.
	ErrEmptyTitle = errors.New("note title is required")
)

// DefaultRateLimitMessage is shown when a 429 carries no message.
const DefaultRateLimitMessage = "Rate limit: max 100 notes per day."

// StatusError carries the status and server message of a failed request.
// It unwraps to ErrNetwork, or to ErrRateLimited for 429.
type StatusError struct {
	Status  int
	Message string
	kind    error
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%v: status %d", e.kind, e.Status)
	}
	return fmt.Sprintf("%v: status %d: %s", e.kind, e.Status, e.Message)
}

func (e *StatusError) Unwrap() error {
	return e.kind
}
