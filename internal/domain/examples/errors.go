package examples

import "errors"

// Sentinel errors for example building.
var (
	ErrNoExamples = errors.New("no training examples built")
	ErrNoScorer   = errors.New("builder requires a scorer")
)
