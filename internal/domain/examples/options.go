package examples

import "github.com/okian/lineup/pkg/logger"

// Option applies a configuration option to the Builder.
type Option func(*Builder)

// WithSeed fixes the seed of the alternate sampler.
func WithSeed(seed int64) Option {
	return func(b *Builder) {
		b.seed = seed
	}
}

// WithAlternates sets how many counterfactual candidates are sampled per
// held-out slot.
func WithAlternates(n int) Option {
	return func(b *Builder) {
		if n >= 0 {
			b.alternates = n
		}
	}
}

// WithLogger sets the logger used for progress and skip reports.
func WithLogger(l logger.Logger) Option {
	return func(b *Builder) {
		if l != nil {
			b.log = l
		}
	}
}
