package clips

import "errors"

var (
	// ErrNotFound is returned when a clip is not in the catalog.
	ErrNotFound = errors.New("clip not found")

	// ErrInvalidClip is returned when a clip has no name or no length.
	ErrInvalidClip = errors.New("invalid clip")
)
