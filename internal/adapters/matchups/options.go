package matchups

import "github.com/okian/lineup/pkg/logger"

// Option applies a configuration option to the Store.
type Option func(*Store)

// WithSeasons limits the season files that are read. Seasons are inclusive.
func WithSeasons(first, last int) Option {
	return func(s *Store) {
		if last >= first {
			s.first, s.last = first, last
		}
	}
}

// WithLogger sets the logger used for per-file progress.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}
