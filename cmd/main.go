package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/lineup/internal/adapters/console"
	app "github.com/okian/lineup/internal/app"
	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

type cliFlags struct {
	train      bool
	predict    bool
	prepare    bool
	dataDir    string
	modelDir   string
	modelPath  string
	configPath string
}

func parseFlags(args []string, stderr io.Writer) (cliFlags, map[string]bool, error) {
	var f cliFlags
	fs := flag.NewFlagSet("lineup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.BoolVar(&f.train, "train", false, "train the model")
	fs.BoolVar(&f.predict, "predict", false, "run the interactive predictor")
	fs.BoolVar(&f.prepare, "prepare", false, "filter raw season files to the allowed columns")
	fs.StringVar(&f.dataDir, "data-dir", "", "directory with processed matchup files")
	fs.StringVar(&f.modelDir, "model-dir", "", "directory for saved models")
	fs.StringVar(&f.modelPath, "model-path", "", "path to the saved model bundle")
	fs.StringVar(&f.configPath, "config", "", "optional YAML config file")
	if err := fs.Parse(args); err != nil {
		return f, nil, err
	}
	set := map[string]bool{}
	fs.Visit(func(fl *flag.Flag) { set[fl.Name] = true })
	return f, set, nil
}

// applyFlags layers explicitly set CLI flags over the loaded config.
func applyFlags(cfg *config.Config, f cliFlags, set map[string]bool) {
	if set["data-dir"] {
		cfg.DataDir = f.dataDir
	}
	if set["model-dir"] {
		cfg.ModelDir = f.modelDir
		if !set["model-path"] {
			cfg.ModelPath = ""
		}
	}
	if set["model-path"] {
		cfg.ModelPath = f.modelPath
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	f, set, err := parseFlags(args, stderr)
	if err != nil {
		return exitUsage
	}

	// Logs go to stderr; stdout carries the dialogue.
	if err := logger.InitWithWriter(stderr); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitFailure
	}
	defer func() {
		_ = logger.Sync()
	}()
	log := logger.Get()

	// Load configuration (defaults -> optional file -> env -> flags)
	cfg, err := config.Load(ctx, f.configPath)
	if err != nil {
		fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitFailure
	}
	applyFlags(cfg, f, set)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(stderr, "invalid configuration: "+err.Error())
		return exitUsage
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	defer dumpMetrics(ctx, log, cfg.MetricsFile)

	if !f.train && !f.predict && !f.prepare {
		f.predict = true
	}

	svc := app.New(app.OptionsFromConfig(cfg, log)...)

	if f.prepare {
		rep, err := svc.Prepare(ctx)
		if err != nil {
			log.Error(ctx, "prepare failed", logger.Error(err))
			return exitFailure
		}
		fmt.Fprintf(stdout, "Prepared %d season files (%d rows)\n", rep.Files, rep.Rows)
	}

	if f.train {
		sum, err := svc.Train(ctx)
		if err != nil {
			log.Error(ctx, "training failed", logger.Error(err))
			return exitFailure
		}
		printTrainSummary(stdout, sum)
	}

	if f.predict {
		if err := predictInteractive(ctx, svc, cfg, stdin, stdout); err != nil {
			log.Error(ctx, "prediction failed", logger.Error(err))
			return exitFailure
		}
	}
	return exitOK
}

func predictInteractive(ctx context.Context, svc *app.Service, cfg *config.Config, stdin io.Reader, stdout io.Writer) error {
	predictor, _, err := svc.LoadPredictor(ctx)
	if err != nil {
		fmt.Fprintln(stdout, "Model file not found or unreadable. Please train the model first with -train")
		return err
	}
	catalog, err := svc.Catalog(ctx)
	if err != nil {
		return err
	}
	c := console.New(stdin, stdout,
		console.WithTopN(cfg.TopN),
		console.WithLogger(logger.Named("console")),
	)
	_, err = c.Run(ctx, catalog, predictor)
	return err
}

func printTrainSummary(w io.Writer, sum *app.TrainSummary) {
	fmt.Fprintf(w, "Created %d training examples from %d rows (%d skipped)\n", sum.Examples, sum.Rows, sum.SkippedRows)
	fmt.Fprintf(w, "Effectiveness: min %.4f max %.4f mean %.4f std %.4f\n",
		sum.Labels.Min, sum.Labels.Max, sum.Labels.Mean, sum.Labels.StdDev)
	fmt.Fprintf(w, "Train R^2: %.4f  RMSE: %.4f\n", sum.Report.TrainR2, sum.Report.TrainRMSE)
	fmt.Fprintf(w, "Test R^2: %.4f  RMSE: %.4f\n", sum.Report.TestR2, sum.Report.TestRMSE)
	fmt.Fprintln(w, "Feature importance:")
	for _, imp := range sum.Report.Importances {
		fmt.Fprintf(w, "  %-18s %.4f\n", imp.Feature, imp.Importance)
	}
	fmt.Fprintf(w, "Saved model run %s\n", sum.RunID)
}

func dumpMetrics(ctx context.Context, log logger.Logger, path string) {
	if path == "" {
		return
	}
	if err := metrics.WriteTextfile(path); err != nil {
		log.Warn(ctx, "failed to write metrics", logger.String("path", path), logger.Error(err))
	}
}
