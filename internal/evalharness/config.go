package evalharness

import "time"

// Config holds configuration for an evaluation run.
type Config struct {
	TestFile    string        // CSV of test rows with one '?' in the home slots
	LabelFile   string        // CSV with the removed_value column
	Binary      string        // predictor executable
	Args        []string      // extra predictor arguments
	Row         int           // single row to test, -1 for all
	Range       string        // inclusive row range "a-b"
	ResultOnly  bool          // print only the running and final accuracy
	Detailed    bool          // echo the full predictor output
	FirstSeason int           // seasons outside [FirstSeason, LastSeason] are skipped
	LastSeason  int           // see FirstSeason
	Timeout     time.Duration // per-row predictor timeout
	LogFile     string        // optional log file for harness logs
}

// Case is one test row turned into predictor input.
type Case struct {
	Index       int
	HomeTeam    string
	AwayTeam    string
	Season      int
	StartingMin string
	Home        []string
	Away        []string
}

// Stats holds evaluation totals.
type Stats struct {
	RunID     string
	Correct   int
	Valid     int
	Skipped   int
	Failed    int
	StartTime time.Time
	Duration  time.Duration
}

// Accuracy returns the share of valid predictions that matched, in percent.
func (s Stats) Accuracy() float64 {
	if s.Valid == 0 {
		return 0
	}
	return float64(s.Correct) / float64(s.Valid) * PercentageMultiplier
}
