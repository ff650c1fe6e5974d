// Package config defines pipeline configuration and its loading hooks.
//
// Conventions:
// - Defaults live in New; Load layers file and environment on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"path/filepath"
)

// DefaultModelFile is the bundle file name inside ModelDir.
const DefaultModelFile = "fifth_player_predictor.gob"

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// DataDir holds the processed per-season matchup CSVs.
	DataDir string `koanf:"data_dir"`

	// RawDir holds the raw per-season matchup CSVs used by the prepare stage.
	RawDir string `koanf:"raw_dir"`

	// MetadataPath points at the spreadsheet that allow-lists model columns.
	MetadataPath string `koanf:"metadata_path"`

	// ModelDir is where trained bundles are written.
	ModelDir string `koanf:"model_dir"`

	// ModelPath is the bundle read by the predictor. Empty means ModelDir/DefaultModelFile.
	ModelPath string `koanf:"model_path"`

	// FirstSeason and LastSeason bound the season files that are read (inclusive).
	FirstSeason int `koanf:"first_season"`
	LastSeason  int `koanf:"last_season"`

	// Seed drives alternate sampling, the train/test split and the booster.
	Seed int64 `koanf:"seed"`

	// Alternates is the number of counterfactual candidates sampled per held-out slot.
	Alternates int `koanf:"alternates"`

	// NoiseStdDev is the standard deviation of the label noise. Zero disables it.
	NoiseStdDev float64 `koanf:"noise_stddev"`

	// TestFraction is the share of examples held out for evaluation.
	TestFraction float64 `koanf:"test_fraction"`

	// Gradient boosting parameters.
	BoostEstimators      int     `koanf:"boost_estimators"`
	BoostLearningRate    float64 `koanf:"boost_learning_rate"`
	BoostMaxDepth        int     `koanf:"boost_max_depth"`
	BoostMinSamplesSplit int     `koanf:"boost_min_samples_split"`

	// TopN caps the recommendations shown by the interactive predictor.
	TopN int `koanf:"top_n"`

	// MetricsFile, when set, receives a Prometheus text dump after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:             "info",
		DataDir:              filepath.Join("data", "processed"),
		RawDir:               filepath.Join("data", "raw"),
		MetadataPath:         filepath.Join("data", "raw", "Matchup-metadata.xlsx"),
		ModelDir:             "models",
		FirstSeason:          2007,
		LastSeason:           2015,
		Seed:                 42,
		Alternates:           2,
		NoiseStdDev:          0.05,
		TestFraction:         0.2,
		BoostEstimators:      100,
		BoostLearningRate:    0.1,
		BoostMaxDepth:        5,
		BoostMinSamplesSplit: 15,
		TopN:                 5,
	}
}

// ResolvedModelPath returns ModelPath, or the default bundle inside ModelDir.
func (c *Config) ResolvedModelPath() string {
	if c.ModelPath != "" {
		return c.ModelPath
	}
	return filepath.Join(c.ModelDir, DefaultModelFile)
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	switch {
	case c.DataDir == "":
		return fmt.Errorf("%w: data_dir must not be empty", ErrInvalidConfig)
	case c.ModelDir == "" && c.ModelPath == "":
		return fmt.Errorf("%w: model_dir or model_path must be set", ErrInvalidConfig)
	case c.LastSeason < c.FirstSeason:
		return fmt.Errorf("%w: last_season %d before first_season %d", ErrInvalidConfig, c.LastSeason, c.FirstSeason)
	case c.Alternates < 0:
		return fmt.Errorf("%w: alternates must not be negative", ErrInvalidConfig)
	case c.NoiseStdDev < 0:
		return fmt.Errorf("%w: noise_stddev must not be negative", ErrInvalidConfig)
	case c.TestFraction <= 0 || c.TestFraction >= 1:
		return fmt.Errorf("%w: test_fraction must be in (0, 1)", ErrInvalidConfig)
	case c.BoostEstimators <= 0:
		return fmt.Errorf("%w: boost_estimators must be positive", ErrInvalidConfig)
	case c.BoostLearningRate <= 0:
		return fmt.Errorf("%w: boost_learning_rate must be positive", ErrInvalidConfig)
	case c.BoostMaxDepth <= 0:
		return fmt.Errorf("%w: boost_max_depth must be positive", ErrInvalidConfig)
	case c.BoostMinSamplesSplit < 2:
		return fmt.Errorf("%w: boost_min_samples_split must be at least 2", ErrInvalidConfig)
	case c.TopN <= 0:
		return fmt.Errorf("%w: top_n must be positive", ErrInvalidConfig)
	}
	return nil
}
