package matchups

import "errors"

// Sentinel kinds for matchup data errors.
var (
	ErrNoData          = errors.New("no matchup files were loaded")
	ErrMissingColumn   = errors.New("required column missing")
	ErrNoFlagColumn    = errors.New("metadata has no 'Can be used in the model' column")
	ErrNoFeatureColumn = errors.New("metadata has no 'Feature' column")
	ErrEmptyMetadata   = errors.New("metadata sheet is empty")
)
