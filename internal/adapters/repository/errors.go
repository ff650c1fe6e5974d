package repository

import "errors"

// Sentinel kinds for model bundle errors.
var (
	ErrNotFound        = errors.New("model bundle not found")
	ErrCorrupt         = errors.New("model bundle is corrupt")
	ErrVersionMismatch = errors.New("model bundle format version mismatch")
	ErrIncomplete      = errors.New("model bundle is incomplete")
)
