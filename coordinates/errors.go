package coordinates

import "errors"

// Error taxonomy for the coordinate algebra. All validation happens
// synchronously at the call that violates the contract; callers match with
// errors.Is.
var (
	// ErrInvalidCoords marks malformed coordinate input: wrong shape,
	// mixed value types, or mismatched coords/dims counts.
	ErrInvalidCoords = errors.New("invalid coordinates")

	// ErrInvalidStep marks a zero step, a step whose sign disagrees with
	// the start/stop ordering, or a datetime range that does not divide
	// evenly into the requested size.
	ErrInvalidStep = errors.New("invalid step")

	// ErrDtypeMismatch marks mixed numeric/datetime values within one
	// coordinate object or between objects being combined.
	ErrDtypeMismatch = errors.New("dtype mismatch")

	// ErrSizeMismatch marks stacked components of unequal size.
	ErrSizeMismatch = errors.New("size mismatch")

	// ErrDuplicateDim marks a dimension name used twice.
	ErrDuplicateDim = errors.New("duplicate dimension")

	// ErrDimNotFound marks a lookup or delete of a missing dimension, or
	// a delete that would split a stacked dimension.
	ErrDimNotFound = errors.New("dimension not found")

	// ErrIndexOutOfRange marks a positional index outside [0, size).
	ErrIndexOutOfRange = errors.New("index out of range")

	// ErrIncompatible marks operations on objects whose stacking
	// structure or dtype cannot be combined.
	ErrIncompatible = errors.New("incompatible coordinates")

	// ErrInvalidDefinition marks a definition document that cannot be
	// parsed back into coordinates.
	ErrInvalidDefinition = errors.New("invalid coordinates definition")
)
