package repository

import (
	"time"

	"github.com/google/uuid"

	"github.com/okian/lineup/pkg/logger"
)

// Option applies a configuration option to the FileStore.
type Option func(*FileStore)

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *FileStore) {
		if l != nil {
			s.log = l
		}
	}
}

// WithClock overrides the time source used for CreatedAt.
func WithClock(now func() time.Time) Option {
	return func(s *FileStore) {
		if now != nil {
			s.now = now
		}
	}
}

// WithRunIDs overrides the run id generator.
func WithRunIDs(next func() string) Option {
	return func(s *FileStore) {
		if next != nil {
			s.newID = next
		}
	}
}

func defaultRunID() string { return uuid.NewString() }
