package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/okian/lineup/internal/evalharness"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("lineup-eval", flag.ContinueOnError)
	fs.SetOutput(stderr)
	var (
		dataFile    = fs.String("data", filepath.Join("data", "test", "NBA_test.csv"), "test rows with one '?' in the home slots")
		labelFile   = fs.String("labels", filepath.Join("data", "test", "NBA_test_labels.csv"), "labels with the removed_value column")
		binary      = fs.String("binary", "lineup", "predictor executable")
		modelPath   = fs.String("model-path", "", "model bundle passed to the predictor")
		row         = fs.Int("row", -1, "test a single row")
		rowRange    = fs.String("range", "", "test an inclusive row range, e.g. 1-10")
		firstSeason = fs.Int("first-season", evalharness.DefaultFirstSeason, "first season evaluated")
		lastSeason  = fs.Int("last-season", evalharness.DefaultLastSeason, "last season evaluated")
		timeout     = fs.Duration("timeout", evalharness.DefaultTimeout, "per-row predictor timeout")
		resultOnly  = fs.Bool("result", false, "print only accuracy lines")
		detailed    = fs.Bool("detailed", false, "echo full predictor output")
		logFile     = fs.String("log", "", "also write harness logs to this file")
		help        = fs.Bool("help", false, "show help")
	)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *help {
		evalharness.ShowHelp(stdout)
		return 0
	}

	closeLog, err := evalharness.SetupLogging(*logFile, stderr)
	if err != nil {
		fmt.Fprintf(stderr, "Failed to setup logging: %v\n", err)
		return 1
	}
	defer func() { _ = closeLog() }()

	predictorArgs := []string{"-predict"}
	if *modelPath != "" {
		predictorArgs = append(predictorArgs, "-model-path", *modelPath)
	}

	cfg := &evalharness.Config{
		TestFile:    *dataFile,
		LabelFile:   *labelFile,
		Binary:      *binary,
		Args:        predictorArgs,
		Row:         *row,
		Range:       *rowRange,
		ResultOnly:  *resultOnly,
		Detailed:    *detailed,
		FirstSeason: *firstSeason,
		LastSeason:  *lastSeason,
		Timeout:     *timeout,
		LogFile:     *logFile,
	}
	p := evalharness.ExecPredictor{Binary: cfg.Binary, Args: cfg.Args, Timeout: cfg.Timeout}

	if _, err := evalharness.Run(ctx, cfg, p, stdout); err != nil {
		fmt.Fprintf(stderr, "Evaluation failed: %v\n", err)
		return 1
	}
	return 0
}
