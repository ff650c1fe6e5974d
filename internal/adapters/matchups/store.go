// Package matchups reads and prepares the per-season lineup files.
package matchups

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Default season range.
const (
	DefaultFirstSeason = 2007
	DefaultLastSeason  = 2015
)

// Column names in the processed files.
const (
	ColGame        = "game"
	ColSeason      = "season"
	ColStartingMin = "starting_min"
	ColHomeTeam    = "home_team"
	ColAwayTeam    = "away_team"
	ColHomeWin     = "home_win"
)

// ProcessedFile returns the processed file name for season.
func ProcessedFile(season int) string {
	return fmt.Sprintf("matchups-%d-processed.csv", season)
}

// RawFile returns the raw file name for season.
func RawFile(season int) string {
	return fmt.Sprintf("matchups-%d.csv", season)
}

// HomeColumn names the i-th home player slot.
func HomeColumn(i int) string { return fmt.Sprintf("home_%d", i) }

// AwayColumn names the i-th away player slot.
func AwayColumn(i int) string { return fmt.Sprintf("away_%d", i) }

// Store reads season files from disk.
type Store struct {
	first int
	last  int
	log   logger.Logger
}

// NewStore creates a store over the default season range.
func NewStore(opts ...Option) *Store {
	s := &Store{
		first: DefaultFirstSeason,
		last:  DefaultLastSeason,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		s.log = logger.Get().Named("matchups")
	}
	return s
}

// Seasons returns the configured seasons in order.
func (s *Store) Seasons() []int {
	out := make([]int, 0, s.last-s.first+1)
	for y := s.first; y <= s.last; y++ {
		out = append(out, y)
	}
	return out
}

// Load reads every processed season file in dir and concatenates the rows in
// season then file order. Missing files are skipped with a warning; it fails
// with ErrNoData when none could be read.
func (s *Store) Load(ctx context.Context, dir string) ([]model.Matchup, error) {
	var (
		all    []model.Matchup
		loaded int
	)
	for _, season := range s.Seasons() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("load matchups: %w", err)
		}
		path := filepath.Join(dir, ProcessedFile(season))
		rows, err := s.loadFile(ctx, path)
		if errors.Is(err, fs.ErrNotExist) {
			s.log.Warn(ctx, "matchup file not found, skipping", logger.String("path", path))
			metrics.RecordFileMissing()
			continue
		}
		if err != nil {
			return nil, err
		}
		loaded++
		all = append(all, rows...)
		metrics.RecordRowsLoaded(len(rows))
		s.log.Info(ctx, "loaded matchup file", logger.String("path", path), logger.Int("rows", len(rows)))
	}
	if loaded == 0 {
		return nil, fmt.Errorf("%w from %s", ErrNoData, dir)
	}
	s.log.Info(ctx, "combined matchup table", logger.Int("rows", len(all)), logger.Int("files", loaded))
	return all, nil
}

func (s *Store) loadFile(ctx context.Context, path string) ([]model.Matchup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := Decode(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rows, nil
}

// Decode parses a processed matchup CSV. Extra columns are ignored; absent
// player slots stay empty and a missing home_win column reads as true.
func Decode(ctx context.Context, r io.Reader) ([]model.Matchup, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	for _, name := range []string{ColGame, ColSeason, ColHomeTeam, ColAwayTeam} {
		if _, ok := cols[name]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var out []model.Matchup
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		if line%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		m, err := parseRow(cols, rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		out = append(out, m)
	}
	return out, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		if _, dup := cols[h]; !dup {
			cols[h] = i
		}
	}
	return cols
}

func field(cols map[string]int, rec []string, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(rec) {
		return ""
	}
	return strings.TrimSpace(rec[i])
}

func parseRow(cols map[string]int, rec []string) (model.Matchup, error) {
	m := model.Matchup{
		Game:     field(cols, rec, ColGame),
		HomeTeam: field(cols, rec, ColHomeTeam),
		AwayTeam: field(cols, rec, ColAwayTeam),
		HomeWin:  parseHomeWin(field(cols, rec, ColHomeWin)),
	}
	var err error
	if m.Season, err = parseInt(field(cols, rec, ColSeason)); err != nil {
		return m, fmt.Errorf("season: %w", err)
	}
	if m.StartingMin, err = parseInt(field(cols, rec, ColStartingMin)); err != nil {
		return m, fmt.Errorf("starting_min: %w", err)
	}
	for i := 0; i < model.LineupSize; i++ {
		m.Home[i] = field(cols, rec, HomeColumn(i))
		m.Away[i] = field(cols, rec, AwayColumn(i))
	}
	return m, nil
}

// parseInt accepts integers written as floats ("12.0") and treats blanks as 0.
func parseInt(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	return int(f), nil
}

func parseHomeWin(s string) bool {
	switch strings.ToLower(s) {
	case "0", "0.0", "false", "f", "no", "n":
		return false
	default:
		return true
	}
}
