// Package repository persists the trained model bundle.
package repository

import (
	"context"
	"time"

	"github.com/okian/lineup/internal/domain/boosting"
	"github.com/okian/lineup/internal/domain/encoding"
	"github.com/okian/lineup/internal/domain/training"
)

// FormatVersion is bumped whenever the bundle layout changes.
const FormatVersion = 1

// Metadata describes the run that produced a bundle.
type Metadata struct {
	RunID        string
	CreatedAt    time.Time
	FeatureNames []string
	Report       training.Report
}

// Bundle is the unit written after training and read by the predictor.
type Bundle struct {
	Version  int
	Model    *boosting.Model
	Encoders encoding.Encoders
	Meta     Metadata
}

// Store provides write-once, read-many access to the model bundle.
type Store interface {
	// Save replaces the stored bundle and returns its run id.
	Save(ctx context.Context, b *Bundle) (string, error)

	// Load returns the stored bundle. Returns ErrNotFound when none exists.
	Load(ctx context.Context) (*Bundle, error)
}
