package locio

import (
	"errors"
	"fmt"

	"github.com/hupe1980/locio/handle"
)

var (
	// ErrNotFound is returned when a resource does not exist.
	ErrNotFound = handle.ErrNotFound

	// ErrNotWritable is returned when a writable handle is requested for an
	// identifier that is not a local file.
	ErrNotWritable = errors.New("locio: not writable")

	// ErrUnsupported is returned by filesystem mutations on URL locations.
	ErrUnsupported = errors.New("locio: unsupported for URL locations")
)

// OpenError describes a failed Resolver.Open.
//
// The original underlying error can be accessed via errors.Unwrap.
type OpenError struct {
	ID      string
	Backend string
	cause   error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("open %s (%s): %v", e.ID, e.Backend, e.cause)
}

func (e *OpenError) Unwrap() error { return e.cause }
