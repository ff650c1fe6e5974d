package evalharness

import (
	"fmt"
	"io"
	"os"

	"github.com/okian/lineup/pkg/logger"
)

const logFilePermission = 0600

// SetupLogging sends harness logs to stderr, and also to logFile when set.
// The returned close function releases the log file.
func SetupLogging(logFile string, stderr io.Writer) (func() error, error) {
	if logFile == "" {
		if err := logger.InitWithWriter(stderr); err != nil {
			return nil, fmt.Errorf("failed to initialize logger: %w", err)
		}
		return func() error { return nil }, nil
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return nil, fmt.Errorf("failed to create log file: %w", err)
	}
	if err := logger.InitWithWriter(io.MultiWriter(stderr, file)); err != nil {
		_ = file.Close()
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return file.Close, nil
}

// ShowHelp prints usage information for the evaluation tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `Lineup Evaluation Tool
======================

Replays held-out lineups through the predictor and reports how often the
predicted fifth player matches the removed one.

Usage:
  lineup-eval [options]

Options:
  -data string
        Test rows with one '?' in the home slots (default "data/test/NBA_test.csv")
  -labels string
        Labels with the removed_value column (default "data/test/NBA_test_labels.csv")
  -binary string
        Predictor executable (default "lineup")
  -model-path string
        Model bundle passed to the predictor
  -row int
        Test a single row (default -1, all rows)
  -range string
        Test an inclusive row range, e.g. 1-10
  -first-season int / -last-season int
        Rows outside the season range are skipped (default 2007-2015)
  -timeout duration
        Per-row predictor timeout (default 2m)
  -result
        Print only accuracy lines
  -detailed
        Echo full predictor output
  -log string
        Also write harness logs to this file
  -help
        Show this help message

Examples:
  lineup-eval -range 0-99 -result
  lineup-eval -row 12 -detailed
`)
}
