package annotation

import "errors"

// Errors returned by annotation operations.
var (
	// ErrOverlap indicates a requested range intersects an existing
	// annotation without being contained by it.
	ErrOverlap = errors.New("annotation ranges intersect")

	// ErrMissingAnnotation indicates the persisted count names an
	// annotation that has no record. The set is left untouched.
	ErrMissingAnnotation = errors.New("annotation record missing")

	// ErrCorruptState indicates the persisted value does not have the
	// annotation set shape.
	ErrCorruptState = errors.New("corrupt annotation state")

	// ErrEmptySelection indicates an annotation was requested for an empty
	// selection.
	ErrEmptySelection = errors.New("empty selection")
)
