package encoding

import "errors"

// Sentinel errors for feature encoding.
var (
	ErrUnknownCategory = errors.New("unknown category")
	ErrUnknownCode     = errors.New("unknown code")
	ErrNoRows          = errors.New("no rows to encode")
)
