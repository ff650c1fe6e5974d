package service

import (
	"github.com/okian/lineup/internal/adapters/matchups"
	"github.com/okian/lineup/internal/adapters/repository"
	"github.com/okian/lineup/internal/config"
	"github.com/okian/lineup/internal/domain/boosting"
	"github.com/okian/lineup/pkg/logger"
)

// OptionsFromConfig translates a loaded Config into service options.
func OptionsFromConfig(cfg *config.Config, log logger.Logger) []Option {
	if log == nil {
		log = logger.Get()
	}
	return []Option{
		WithLogger(log),
		WithMatchupStore(matchups.NewStore(
			matchups.WithSeasons(cfg.FirstSeason, cfg.LastSeason),
			matchups.WithLogger(log.Named("matchups")),
		)),
		WithBundleStore(repository.NewFileStore(cfg.ResolvedModelPath(),
			repository.WithLogger(log.Named("repository")),
		)),
		WithDataDir(cfg.DataDir),
		WithRawDir(cfg.RawDir),
		WithMetadataPath(cfg.MetadataPath),
		WithSeed(cfg.Seed),
		WithAlternates(cfg.Alternates),
		WithNoiseStdDev(cfg.NoiseStdDev),
		WithTestFraction(cfg.TestFraction),
		WithBoostingParams(boosting.Params{
			Estimators:      cfg.BoostEstimators,
			LearningRate:    cfg.BoostLearningRate,
			MaxDepth:        cfg.BoostMaxDepth,
			MinSamplesSplit: cfg.BoostMinSamplesSplit,
			Seed:            cfg.Seed,
		}),
	}
}
