package console

import "errors"

// Sentinel errors for the terminal dialogue.
var (
	ErrInputClosed = errors.New("input closed before the dialogue finished")
	ErrNoRanker    = errors.New("console requires a ranker")
)
