package training

import "errors"

// Sentinel errors for training runs.
var (
	ErrTooFewExamples = errors.New("too few examples to split")
	ErrBadFraction    = errors.New("test fraction must be in (0, 1)")
)
