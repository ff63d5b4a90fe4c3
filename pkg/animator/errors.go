package animator

import "errors"

var (
	// ErrSkeletonNotFound is returned by Prepare when the rig has no skeleton root.
	ErrSkeletonNotFound = errors.New("skeleton root not found")

	// ErrNoEngine is returned when an operation needs a bound playback engine.
	ErrNoEngine = errors.New("no playback engine bound")

	// ErrUnknownVariant is returned for unmatched variant tags under VariantFail.
	ErrUnknownVariant = errors.New("unknown body variant")

	// ErrNoLocomotionSet is returned when no locomotion set can be bound.
	ErrNoLocomotionSet = errors.New("no locomotion set")
)
