package repository

import (
	"context"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/okian/lineup/internal/domain/encoding"
	"github.com/okian/lineup/pkg/logger"
)

// FileStore keeps one gob-encoded bundle at a fixed path.
type FileStore struct {
	path  string
	log   logger.Logger
	now   func() time.Time
	newID func() string
}

// NewFileStore creates a store for path.
func NewFileStore(path string, opts ...Option) *FileStore {
	s := &FileStore{
		path:  path,
		now:   time.Now,
		newID: defaultRunID,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("repository")
	}
	return s
}

// Path returns the bundle location.
func (s *FileStore) Path() string { return s.path }

// Save stamps b with a run id, creation time and format version, then writes
// it to a temp file in the same directory and renames it over the old bundle.
func (s *FileStore) Save(ctx context.Context, b *Bundle) (string, error) {
	if b == nil || b.Model == nil {
		return "", ErrIncomplete
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	b.Version = FormatVersion
	if b.Meta.RunID == "" {
		b.Meta.RunID = s.newID()
	}
	if b.Meta.CreatedAt.IsZero() {
		b.Meta.CreatedAt = s.now().UTC()
	}
	if len(b.Meta.FeatureNames) == 0 {
		b.Meta.FeatureNames = encoding.FeatureNames()
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create model dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp bundle: %w", err)
	}
	defer os.Remove(tmp.Name()) //nolint:errcheck // already renamed on success

	if err := gob.NewEncoder(tmp).Encode(b); err != nil {
		tmp.Close()
		return "", fmt.Errorf("encode bundle: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("sync bundle: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close bundle: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return "", fmt.Errorf("replace bundle: %w", err)
	}

	s.log.Info(ctx, "model bundle saved",
		logger.String("path", s.path),
		logger.String("run_id", b.Meta.RunID),
	)
	return b.Meta.RunID, nil
}

// Load decodes the bundle at the store path.
func (s *FileStore) Load(ctx context.Context) (*Bundle, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w at %s", ErrNotFound, s.path)
	}
	if err != nil {
		return nil, fmt.Errorf("open bundle: %w", err)
	}
	defer f.Close()

	var b Bundle
	if err := gob.NewDecoder(f).Decode(&b); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCorrupt, err)
	}
	if b.Version != FormatVersion {
		return nil, fmt.Errorf("%w: got %d, want %d", ErrVersionMismatch, b.Version, FormatVersion)
	}
	if b.Model == nil {
		return nil, ErrIncomplete
	}
	s.log.Debug(ctx, "model bundle loaded",
		logger.String("path", s.path),
		logger.String("run_id", b.Meta.RunID),
	)
	return &b, nil
}
