// Package service wires the lineup pipeline: loading, labelling, training,
// persisting and serving predictions.
package service

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/okian/lineup/internal/adapters/matchups"
	"github.com/okian/lineup/internal/adapters/repository"
	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/internal/domain/boosting"
	"github.com/okian/lineup/internal/domain/examples"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/predict"
	"github.com/okian/lineup/internal/domain/rating"
	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/internal/domain/training"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// TrainSummary reports what one training run produced.
type TrainSummary struct {
	RunID        string
	Rows         int
	RatedPlayers int
	Examples     int
	SkippedRows  int
	Labels       examples.Stats
	Report       training.Report
}

// Service runs the pipeline stages.
type Service struct {
	mu sync.Mutex

	// Adapters
	matchups *matchups.Store
	bundles  repository.Store

	// Locations
	dataDir      string
	rawDir       string
	metadataPath string

	// Labelling
	seed        int64
	alternates  int
	noiseStdDev float64
	noise       scoring.NoiseSource

	// Training
	testFraction float64
	params       boosting.Params

	// State
	rows []model.Matchup

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithMatchupStore sets the season file reader.
func WithMatchupStore(store *matchups.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.matchups = store
		}
	}
}

// WithBundleStore sets where the model bundle is persisted.
func WithBundleStore(store repository.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.bundles = store
		}
	}
}

// WithDataDir sets the processed matchup directory.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.dataDir = dir
		}
	}
}

// WithRawDir sets the raw matchup directory read by Prepare.
func WithRawDir(dir string) Option {
	return func(s *Service) {
		if dir != "" {
			s.rawDir = dir
		}
	}
}

// WithMetadataPath sets the metadata workbook read by Prepare.
func WithMetadataPath(path string) Option {
	return func(s *Service) {
		if path != "" {
			s.metadataPath = path
		}
	}
}

// WithSeed seeds alternate sampling.
func WithSeed(seed int64) Option {
	return func(s *Service) {
		s.seed = seed
	}
}

// WithAlternates sets the alternates sampled per held-out slot.
func WithAlternates(n int) Option {
	return func(s *Service) {
		if n >= 0 {
			s.alternates = n
		}
	}
}

// WithNoiseStdDev sets the label noise. Zero disables it.
func WithNoiseStdDev(stddev float64) Option {
	return func(s *Service) {
		if stddev >= 0 {
			s.noiseStdDev = stddev
		}
	}
}

// WithNoiseSource pins the label noise generator.
func WithNoiseSource(src scoring.NoiseSource) Option {
	return func(s *Service) {
		s.noise = src
	}
}

// WithTestFraction sets the held-out share for evaluation.
func WithTestFraction(f float64) Option {
	return func(s *Service) {
		if f > 0 && f < 1 {
			s.testFraction = f
		}
	}
}

// WithBoostingParams sets the booster configuration.
func WithBoostingParams(p boosting.Params) Option {
	return func(s *Service) {
		s.params = p
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a Service with defaults matching config.New.
func New(opts ...Option) *Service {
	s := &Service{
		dataDir:      filepath.Join("data", "processed"),
		rawDir:       filepath.Join("data", "raw"),
		metadataPath: filepath.Join("data", "raw", "Matchup-metadata.xlsx"),
		seed:         examples.DefaultSeed,
		alternates:   examples.DefaultAlternates,
		noiseStdDev:  scoring.DefaultNoiseStdDev,
		testFraction: 0.2,
		params:       boosting.DefaultParams(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}
	if s.matchups == nil {
		s.matchups = matchups.NewStore(matchups.WithLogger(s.logger.Named("matchups")))
	}
	if s.bundles == nil {
		s.bundles = repository.NewFileStore(config.New().ResolvedModelPath(),
			repository.WithLogger(s.logger.Named("repository")))
	}
	return s
}

// Prepare filters the raw season files down to the metadata-approved columns.
func (s *Service) Prepare(ctx context.Context) (matchups.PrepareReport, error) {
	allowed, err := matchups.ReadAllowedColumns(s.metadataPath)
	if err != nil {
		return matchups.PrepareReport{}, fmt.Errorf("prepare: %w", err)
	}
	s.logger.Info(ctx, "allowed model columns", logger.Strings("columns", allowed))

	rep, err := s.matchups.Prepare(ctx, s.rawDir, s.dataDir, allowed)
	if err != nil {
		return rep, fmt.Errorf("prepare: %w", err)
	}
	s.mu.Lock()
	s.rows = nil
	s.mu.Unlock()
	return rep, nil
}

// Matchups returns the processed matchup table, reading it on first use.
func (s *Service) Matchups(ctx context.Context) ([]model.Matchup, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.rows != nil {
		return s.rows, nil
	}
	rows, err := s.matchups.Load(ctx, s.dataDir)
	if err != nil {
		return nil, err
	}
	s.rows = rows
	return rows, nil
}

// Catalog returns the team and season roster index.
func (s *Service) Catalog(ctx context.Context) (*matchups.Roster, error) {
	rows, err := s.Matchups(ctx)
	if err != nil {
		return nil, err
	}
	return matchups.NewRoster(rows), nil
}

// Train runs load, rating, example building and fitting, then saves the
// bundle.
func (s *Service) Train(ctx context.Context) (*TrainSummary, error) {
	rows, err := s.Matchups(ctx)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	ratings := rating.Compute(rows)
	metrics.UpdateRatedPlayers(ratings.PlayerCount())
	s.logger.Info(ctx, "ratings computed", logger.Int("players", ratings.PlayerCount()))

	scorerOpts := []scoring.Option{scoring.WithNoiseStdDev(s.noiseStdDev)}
	if s.noise != nil {
		scorerOpts = append(scorerOpts, scoring.WithNoise(s.noise))
	}
	builder, err := examples.NewBuilder(scoring.New(ratings, scorerOpts...),
		examples.WithSeed(s.seed),
		examples.WithAlternates(s.alternates),
		examples.WithLogger(s.logger.Named("examples")),
	)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}
	built, err := builder.Build(ctx, rows)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	trainer := training.NewTrainer(
		training.WithParams(s.params),
		training.WithTestFraction(s.testFraction),
		training.WithSplitSeed(s.params.Seed),
		training.WithLogger(s.logger.Named("training")),
	)
	res, err := trainer.Train(ctx, built.Examples)
	if err != nil {
		return nil, fmt.Errorf("train: %w", err)
	}

	runID, err := s.bundles.Save(ctx, &repository.Bundle{
		Model:    res.Model,
		Encoders: res.Encoders,
		Meta:     repository.Metadata{Report: res.Report},
	})
	if err != nil {
		return nil, fmt.Errorf("train: save bundle: %w", err)
	}

	return &TrainSummary{
		RunID:        runID,
		Rows:         len(rows),
		RatedPlayers: ratings.PlayerCount(),
		Examples:     len(built.Examples),
		SkippedRows:  built.SkippedRows,
		Labels:       built.Stats,
		Report:       res.Report,
	}, nil
}

// LoadPredictor reads the persisted bundle and builds a predictor from it.
func (s *Service) LoadPredictor(ctx context.Context) (*predict.Predictor, *repository.Bundle, error) {
	b, err := s.bundles.Load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load predictor: %w", err)
	}
	p, err := predict.New(b.Model, b.Encoders, predict.WithLogger(s.logger.Named("predict")))
	if err != nil {
		return nil, nil, fmt.Errorf("load predictor: %w", err)
	}
	return p, b, nil
}
