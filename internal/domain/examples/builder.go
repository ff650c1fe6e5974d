// Package examples turns complete matchup rows into leave-one-out training
// examples labelled with synthetic marginal effectiveness.
package examples

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Defaults for the builder.
const (
	DefaultAlternates = 2
	DefaultSeed       = 42

	// baseDiscount scales the four-player score before it is subtracted.
	baseDiscount = 0.8
)

// Stats summarises the label distribution.
type Stats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Result is the output of one Build call.
type Result struct {
	Examples    []model.Example
	SkippedRows int
	Stats       Stats
}

// Builder produces training examples from matchup rows.
type Builder struct {
	scorer     *scoring.Scorer
	alternates int
	seed       int64
	log        logger.Logger
}

// NewBuilder creates a builder that labels examples with scorer.
func NewBuilder(scorer *scoring.Scorer, opts ...Option) (*Builder, error) {
	if scorer == nil {
		return nil, ErrNoScorer
	}
	b := &Builder{
		scorer:     scorer,
		alternates: DefaultAlternates,
		seed:       DefaultSeed,
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.log == nil {
		b.log = logger.Get().Named("examples")
	}
	return b, nil
}

// Build emits, for every complete row and every held-out home slot, the real
// example plus up to the configured number of alternates. Rows are visited per
// game in ascending game id order. Build returns ErrNoExamples when nothing
// could be produced.
func (b *Builder) Build(ctx context.Context, rows []model.Matchup) (Result, error) {
	rng := rand.New(rand.NewSource(b.seed)) //nolint:gosec // reproducible sampling
	roster := b.scorer.Ratings().Players()

	var res Result
	for _, group := range groupByGame(rows) {
		homeTeam, awayTeam := group[0].HomeTeam, group[0].AwayTeam
		for _, row := range group {
			if err := ctx.Err(); err != nil {
				return Result{}, fmt.Errorf("build examples: %w", err)
			}
			if !row.CompleteHome() {
				res.SkippedRows++
				metrics.RecordRowSkipped()
				continue
			}
			res.Examples = append(res.Examples, b.rowExamples(rng, roster, row, homeTeam, awayTeam)...)
		}
	}

	if len(res.Examples) == 0 {
		return Result{}, fmt.Errorf("%w: %d rows, %d skipped", ErrNoExamples, len(rows), res.SkippedRows)
	}
	res.Stats = LabelStats(res.Examples)

	b.log.Info(ctx, "training examples built",
		logger.Int("examples", len(res.Examples)),
		logger.Int("skipped_rows", res.SkippedRows),
		logger.Float64("label_mean", res.Stats.Mean),
		logger.Float64("label_std", res.Stats.StdDev),
	)
	return res, nil
}

func (b *Builder) rowExamples(rng *rand.Rand, roster []string, row model.Matchup, homeTeam, awayTeam string) []model.Example {
	home := row.HomePlayers()
	opponents := row.AwayPlayers()
	pool := exclude(roster, home)

	score := func(lineup []string) float64 {
		return b.scorer.Score(scoring.Input{
			Lineup:    lineup,
			Team:      homeTeam,
			Opponent:  awayTeam,
			Opponents: opponents,
		})
	}

	out := make([]model.Example, 0, model.LineupSize*(1+b.alternates))
	for held := range home {
		known := make([]string, 0, model.KnownPlayers)
		for i, p := range home {
			if i != held {
				known = append(known, p)
			}
		}

		actual := score(home)
		base := score(known) * baseDiscount

		ex := model.Example{
			Game:        row.Game,
			HomeTeam:    homeTeam,
			AwayTeam:    awayTeam,
			Season:      row.Season,
			StartingMin: row.StartingMin,
			Candidate:   home[held],
			Opponents:   opponents,
		}
		copy(ex.Players[:], known)

		observed := ex
		observed.Effectiveness = actual - base
		out = append(out, observed)
		metrics.RecordExample(metrics.KindReal)

		for _, alt := range sample(rng, pool, b.alternates) {
			ax := ex
			ax.Candidate = alt
			ax.Alternate = true
			ax.Effectiveness = score(append(append([]string(nil), known...), alt)) - base
			out = append(out, ax)
			metrics.RecordExample(metrics.KindAlternate)
		}
	}
	return out
}

// LabelStats reports the distribution of effectiveness labels.
func LabelStats(exs []model.Example) Stats {
	if len(exs) == 0 {
		return Stats{}
	}
	labels := make([]float64, len(exs))
	for i, ex := range exs {
		labels[i] = ex.Effectiveness
	}
	mean, std := stat.MeanStdDev(labels, nil)
	if len(labels) < 2 {
		std = 0
	}
	return Stats{
		Count:  len(labels),
		Min:    floats.Min(labels),
		Max:    floats.Max(labels),
		Mean:   mean,
		StdDev: std,
	}
}

func groupByGame(rows []model.Matchup) [][]model.Matchup {
	idx := make(map[string]int)
	var groups [][]model.Matchup
	for _, r := range rows {
		i, ok := idx[r.Game]
		if !ok {
			i = len(groups)
			idx[r.Game] = i
			groups = append(groups, nil)
		}
		groups[i] = append(groups[i], r)
	}
	sort.SliceStable(groups, func(i, j int) bool { return groups[i][0].Game < groups[j][0].Game })
	return groups
}

// exclude returns sorted roster without the names in drop.
func exclude(roster, drop []string) []string {
	skip := make(map[string]struct{}, len(drop))
	for _, d := range drop {
		skip[d] = struct{}{}
	}
	out := make([]string, 0, len(roster))
	for _, p := range roster {
		if _, ok := skip[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// sample draws up to k names without replacement. It runs a partial
// Fisher-Yates shuffle over pool indices and records only the swapped
// positions, so the cost is O(k) whatever the pool size.
func sample(rng *rand.Rand, pool []string, k int) []string {
	k = min(k, len(pool))
	if k <= 0 {
		return nil
	}
	swapped := make(map[int]int, 2*k)
	at := func(i int) int {
		if v, ok := swapped[i]; ok {
			return v
		}
		return i
	}
	out := make([]string, k)
	for i := range out {
		j := i + rng.Intn(len(pool)-i)
		vi, vj := at(i), at(j)
		swapped[i], swapped[j] = vj, vi
		out[i] = pool[vj]
	}
	return out
}
