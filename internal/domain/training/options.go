package training

import (
	"github.com/okian/lineup/internal/domain/boosting"
	"github.com/okian/lineup/pkg/logger"
)

// Option applies a configuration option to the Trainer.
type Option func(*Trainer)

// WithParams sets the boosting parameters.
func WithParams(p boosting.Params) Option {
	return func(t *Trainer) {
		t.params = p
	}
}

// WithTestFraction sets the held-out share of examples.
func WithTestFraction(f float64) Option {
	return func(t *Trainer) {
		t.testFraction = f
	}
}

// WithSplitSeed fixes the shuffle used for the train/test split.
func WithSplitSeed(seed int64) Option {
	return func(t *Trainer) {
		t.seed = seed
	}
}

// WithLogger sets the trainer logger.
func WithLogger(l logger.Logger) Option {
	return func(t *Trainer) {
		if l != nil {
			t.log = l
		}
	}
}
