package evalharness

import "time"

// Default evaluation settings.
const (
	DefaultFirstSeason = 2007
	DefaultLastSeason  = 2015
	DefaultTimeout     = 2 * time.Minute
)

// PercentageMultiplier converts a ratio to percent.
const PercentageMultiplier = 100

// ResultMarker starts the predictor output line naming the chosen player.
const ResultMarker = "Predicted 5th Player:"
