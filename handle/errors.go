package handle

import (
	"errors"
	"fmt"
	"os"
)

var (
	// ErrNotFound is returned when a resource does not exist.
	//
	// Implementations return an error that satisfies `errors.Is(err, ErrNotFound)`.
	ErrNotFound = os.ErrNotExist

	// ErrClosed is returned by operations on a closed handle.
	ErrClosed = errors.New("handle: closed")

	// ErrReadOnly is returned by Write on read-only handles.
	ErrReadOnly = errors.New("handle: read-only")

	// ErrNegativeOffset is returned when seeking before the start of a resource.
	ErrNegativeOffset = errors.New("handle: negative offset")
)

// DelayedNotFoundError is a lookup failure captured when a remote handle was
// opened and replayed by the first operation that needs a valid resource.
//
// The original lookup failure can be accessed via errors.Unwrap.
type DelayedNotFoundError struct {
	ID    string
	cause error
}

// NewDelayedNotFoundError wraps cause as a delayed-not-found error for id.
func NewDelayedNotFoundError(id string, cause error) *DelayedNotFoundError {
	return &DelayedNotFoundError{ID: id, cause: cause}
}

func (e *DelayedNotFoundError) Error() string {
	if e.cause == nil {
		return fmt.Sprintf("delayed not found: %s", e.ID)
	}
	return fmt.Sprintf("delayed not found: %s: %v", e.ID, e.cause)
}

func (e *DelayedNotFoundError) Unwrap() error { return e.cause }

// Is makes every delayed-not-found error match ErrNotFound.
func (e *DelayedNotFoundError) Is(target error) bool { return target == ErrNotFound }
