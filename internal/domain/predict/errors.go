package predict

import "errors"

// Sentinel errors for candidate ranking.
var (
	ErrNoModel       = errors.New("predictor has no model")
	ErrUnknownSlot   = errors.New("lineup must contain exactly one unknown slot")
	ErrNoCandidates  = errors.New("no candidates to rank")
	ErrIncompleteFix = errors.New("four fixed players are required")
)
