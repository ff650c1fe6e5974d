package boosting

import "errors"

// Sentinel errors for model fitting.
var (
	ErrInvalidParams = errors.New("invalid boosting params")
	ErrShape         = errors.New("feature and label shapes differ")
	ErrEmpty         = errors.New("no training rows")
)
