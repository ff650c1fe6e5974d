// Package scoring computes the synthetic effectiveness of a lineup against an
// opponent. Scores land roughly in [-1, 1].
package scoring

import (
	"math/rand"
	"sort"
	"strings"
	"time"

	"github.com/okian/lineup/internal/domain/rating"
)

// Component weights of the raw score.
const (
	playerWeight   = 0.4
	teamWeight     = 0.2
	opponentWeight = 0.1
	synergyWeight  = 0.3

	synergyFloor  = 0.8
	synergySpan   = 0.4
	matchupWeight = 0.2

	// DefaultNoiseStdDev is the label noise used when no option overrides it.
	DefaultNoiseStdDev = 0.05
)

// NoiseSource yields standard normal samples. *rand.Rand satisfies it.
type NoiseSource interface {
	NormFloat64() float64
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithNoise replaces the time-seeded default noise source.
func WithNoise(src NoiseSource) Option {
	return func(s *Scorer) {
		if src != nil {
			s.noise = src
		}
	}
}

// WithNoiseStdDev sets the noise standard deviation. Zero disables noise.
func WithNoiseStdDev(stddev float64) Option {
	return func(s *Scorer) {
		if stddev >= 0 {
			s.stddev = stddev
		}
	}
}

// Input describes one lineup to score.
type Input struct {
	Lineup    []string
	Team      string
	Opponent  string
	Opponents []string // optional opposing lineup
}

// Components is the noise-free breakdown of a score.
type Components struct {
	MeanRating     float64
	TeamRating     float64
	OpponentRating float64
	Synergy        float64
	Matchup        float64
	Raw            float64 // weighted sum before the matchup multiplier
}

// Value returns the deterministic score: raw × matchup mapped by 2x − 1.
func (c Components) Value() float64 {
	return 2*(c.Raw*c.Matchup) - 1
}

// Scorer computes lineup effectiveness from a fixed set of ratings.
type Scorer struct {
	ratings *rating.Ratings
	noise   NoiseSource
	stddev  float64
}

// New creates a scorer over ratings. A nil ratings value answers with defaults.
func New(ratings *rating.Ratings, opts ...Option) *Scorer {
	if ratings == nil {
		ratings = rating.New(nil, nil)
	}
	s := &Scorer{
		ratings: ratings,
		noise:   rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // label noise, not security
		stddev:  DefaultNoiseStdDev,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ratings exposes the ratings the scorer reads from.
func (s *Scorer) Ratings() *rating.Ratings { return s.ratings }

// Components returns the deterministic parts of the score for in.
func (s *Scorer) Components(in Input) Components {
	c := Components{
		MeanRating:     s.ratings.Mean(in.Lineup),
		TeamRating:     s.ratings.Team(in.Team),
		OpponentRating: s.ratings.Team(in.Opponent),
		Synergy:        Synergy(in.Lineup),
		Matchup:        1,
	}
	c.Raw = playerWeight*c.MeanRating +
		teamWeight*c.TeamRating +
		opponentWeight*(1-c.OpponentRating) +
		synergyWeight*c.Synergy
	if len(in.Opponents) > 0 {
		c.Matchup = 1 + matchupWeight*(c.MeanRating-s.ratings.Mean(in.Opponents))
	}
	return c
}

// Deterministic returns the score of in without noise.
func (s *Scorer) Deterministic(in Input) float64 {
	return s.Components(in).Value()
}

// Score returns the noisy effectiveness of in. Repeated calls differ unless
// noise is disabled or pinned.
func (s *Scorer) Score(in Input) float64 {
	c := s.Components(in)
	x := c.Raw * c.Matchup
	if s.stddev > 0 {
		x += s.noise.NormFloat64() * s.stddev
	}
	return 2*x - 1
}

// Synergy returns the hash-seeded pairing bonus of a lineup in [0.8, 1.2).
// Slot order does not matter.
func Synergy(lineup []string) float64 {
	names := append([]string(nil), lineup...)
	sort.Strings(names)
	return synergyFloor + synergySpan*rating.RandFor(strings.Join(names, "")).Float64()
}
