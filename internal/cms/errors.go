package cms

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested metaobject does not exist.
	ErrNotFound = errors.New("metaobject not found")

	// ErrMalformedResponse is returned when an upstream response is missing a required field.
	ErrMalformedResponse = errors.New("malformed upstream response")

	// ErrInvalidID is returned for a route id that cannot form a metaobject gid.
	ErrInvalidID = errors.New("invalid metaobject id")

	// ErrInvalidType is returned for an empty metaobject type handle.
	ErrInvalidType = errors.New("metaobject type is required")
)

// LoadError is the single error a loader returns. Its message is the one
// shown to the user.
type LoadError struct {
	Target string // "metaobjects" or "metaobject"
	Err    error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("Failed to load %s: %v", e.Target, e.Err)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Malformed wraps ErrMalformedResponse with the missing path.
func Malformed(path string) error {
	return fmt.Errorf("%w: missing %s", ErrMalformedResponse, path)
}
