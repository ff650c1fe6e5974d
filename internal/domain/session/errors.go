package session

import "errors"

// Sentinel errors that end a session early.
var (
	ErrEmptyRoster     = errors.New("no players found for team and season")
	ErrNoCandidates    = errors.New("no candidates match the alphabetical constraints")
	ErrSessionFinished = errors.New("session already finished")
)
