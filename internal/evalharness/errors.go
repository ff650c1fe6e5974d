package evalharness

import "errors"

// Sentinel errors for evaluation runs.
var (
	ErrBadRange       = errors.New("invalid range, use start-end (e.g. 1-10)")
	ErrMissingColumn  = errors.New("required column missing")
	ErrRowOutOfBounds = errors.New("row index out of bounds")
	ErrLabelMismatch  = errors.New("label file has fewer rows than the test file")
)
