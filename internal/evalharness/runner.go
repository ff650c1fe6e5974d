package evalharness

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/lineup/pkg/logger"
)

// Predictor answers one interactive session and returns its output.
type Predictor interface {
	Predict(ctx context.Context, input string) (string, error)
}

// ExecPredictor runs the predictor binary once per row, feeding input on stdin.
type ExecPredictor struct {
	Binary  string
	Args    []string
	Timeout time.Duration
}

// Predict implements Predictor. Output is returned even when the process fails.
func (e ExecPredictor) Predict(ctx context.Context, input string) (string, error) {
	if e.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.Timeout)
		defer cancel()
	}
	cmd := exec.CommandContext(ctx, e.Binary, e.Args...)
	cmd.Stdin = strings.NewReader(input)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

// Run evaluates every selected row and prints running and final accuracy to w.
func Run(ctx context.Context, cfg *Config, p Predictor, w io.Writer) (Stats, error) {
	stats := Stats{RunID: uuid.NewString(), StartTime: time.Now()}
	log := logger.Get().Named("evalharness")

	log.Info(ctx, "starting evaluation",
		logger.String("run_id", stats.RunID),
		logger.String("test_file", cfg.TestFile),
		logger.String("label_file", cfg.LabelFile),
		logger.String("binary", cfg.Binary),
		logger.Int("first_season", cfg.FirstSeason),
		logger.Int("last_season", cfg.LastSeason))

	cases, err := LoadCases(cfg.TestFile)
	if err != nil {
		return stats, fmt.Errorf("load test file: %w", err)
	}
	labels, err := LoadLabels(cfg.LabelFile)
	if err != nil {
		return stats, fmt.Errorf("load label file: %w", err)
	}
	if len(labels) < len(cases) {
		return stats, fmt.Errorf("%w: %d labels for %d rows", ErrLabelMismatch, len(labels), len(cases))
	}

	selected, err := selectRows(cfg, len(cases))
	if err != nil {
		return stats, err
	}

	for _, i := range selected {
		if err := ctx.Err(); err != nil {
			return stats, err
		}
		c := cases[i]
		if c.Season < cfg.FirstSeason || c.Season > cfg.LastSeason {
			stats.Skipped++
			if !cfg.ResultOnly {
				fmt.Fprintf(w, "Skipping Row %d: Season %d out of range.\n", i, c.Season)
			}
			continue
		}

		output, runErr := p.Predict(ctx, c.Input())
		if ctxErr := ctx.Err(); ctxErr != nil {
			return stats, ctxErr
		}
		if cfg.Detailed {
			fmt.Fprintf(w, "--- Row %d output ---\n%s\n", i, output)
		}

		actual := labels[i]
		predicted, ok := ParsePrediction(output)
		if !ok {
			stats.Failed++
			log.Warn(ctx, "no prediction in output",
				logger.Int("row", i),
				logger.Error(runErr))
			if !cfg.ResultOnly {
				fmt.Fprintf(w, "Row %d: Could not extract prediction (Actual = %s)\n", i, actual)
			}
			continue
		}

		stats.Valid++
		if strings.EqualFold(strings.TrimSpace(predicted), strings.TrimSpace(actual)) {
			stats.Correct++
		}
		if !cfg.ResultOnly {
			fmt.Fprintf(w, "Row %d: Actual = %s | Predicted = %s\n", i, actual, predicted)
		}
		fmt.Fprintf(w, "Current Accuracy: %.2f%% (%d/%d correct)\n", stats.Accuracy(), stats.Correct, stats.Valid)
	}

	stats.Duration = time.Since(stats.StartTime)
	displayFinalStats(ctx, w, stats)
	return stats, nil
}

func selectRows(cfg *Config, n int) ([]int, error) {
	switch {
	case cfg.Row >= 0:
		if cfg.Row >= n {
			return nil, fmt.Errorf("%w: row %d of %d", ErrRowOutOfBounds, cfg.Row, n)
		}
		return []int{cfg.Row}, nil
	case cfg.Range != "":
		start, end, err := ParseRange(cfg.Range)
		if err != nil {
			return nil, err
		}
		if start >= n {
			return nil, fmt.Errorf("%w: range start %d of %d", ErrRowOutOfBounds, start, n)
		}
		if end >= n {
			end = n - 1
		}
		return indexRange(start, end), nil
	default:
		return indexRange(0, n-1), nil
	}
}

func indexRange(start, end int) []int {
	out := make([]int, 0, end-start+1)
	for i := start; i <= end; i++ {
		out = append(out, i)
	}
	return out
}

// displayFinalStats prints the final accuracy and logs the run totals.
func displayFinalStats(ctx context.Context, w io.Writer, stats Stats) {
	fmt.Fprintf(w, "\nModel Accuracy: %.2f%% (%d/%d correct)\n", stats.Accuracy(), stats.Correct, stats.Valid)
	if stats.Skipped > 0 {
		fmt.Fprintf(w, "Skipped %d rows due to out-of-range seasons.\n", stats.Skipped)
	}
	if stats.Failed > 0 {
		fmt.Fprintf(w, "No prediction for %d rows; they are not counted.\n", stats.Failed)
	}

	logger.Get().Info(ctx, "final statistics",
		logger.String("run_id", stats.RunID),
		logger.Int("correct", stats.Correct),
		logger.Int("valid", stats.Valid),
		logger.Int("skipped", stats.Skipped),
		logger.Int("failed", stats.Failed),
		logger.Duration("duration", stats.Duration),
		logger.Float64("accuracy", stats.Accuracy()))
}
