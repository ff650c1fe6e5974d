// Package predict ranks candidate fifth players with a fitted model.
package predict

import (
	"context"
	"fmt"
	"sort"

	"github.com/okian/lineup/internal/domain/encoding"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/types"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

// Regressor predicts effectiveness from an encoded feature vector.
type Regressor interface {
	Predict(features []float64) float64
}

// Request describes the fixed context and the candidates to rank.
type Request struct {
	Season      int
	StartingMin int
	HomeTeam    string
	AwayTeam    string
	Players     [model.KnownPlayers]string
	Opponents   []string
	Candidates  []string
}

// Ranking is the outcome of one request.
type Ranking struct {
	Recommendations []types.Recommendation
	Skipped         []string // candidates the encoders have never seen
}

// Best returns the top recommendation.
func (r Ranking) Best() (types.Recommendation, bool) {
	if len(r.Recommendations) == 0 {
		return types.Recommendation{}, false
	}
	return r.Recommendations[0], true
}

// Option applies a configuration option to the Predictor.
type Option func(*Predictor)

// WithLogger sets the predictor logger.
func WithLogger(l logger.Logger) Option {
	return func(p *Predictor) {
		if l != nil {
			p.log = l
		}
	}
}

// Predictor scores candidates with a model and the encoders it was fitted with.
type Predictor struct {
	model    Regressor
	encoders encoding.Encoders
	log      logger.Logger
}

// New creates a predictor.
func New(m Regressor, enc encoding.Encoders, opts ...Option) (*Predictor, error) {
	if m == nil {
		return nil, ErrNoModel
	}
	p := &Predictor{
		model:    m,
		encoders: enc,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.log == nil {
		p.log = logger.Get().Named("predict")
	}
	return p, nil
}

// Encoders returns the codebooks used for inference.
func (p *Predictor) Encoders() encoding.Encoders { return p.encoders }

// Rank scores every known candidate and sorts them by predicted
// effectiveness, highest first, keeping input order on ties. Unknown
// candidates are skipped; an unknown team, fixed player or opponent fails the
// whole request with encoding.ErrUnknownCategory.
func (p *Predictor) Rank(ctx context.Context, req Request) (Ranking, error) {
	if len(req.Candidates) == 0 {
		return Ranking{}, ErrNoCandidates
	}
	for _, name := range req.Players {
		if name == "" {
			return Ranking{}, ErrIncompleteFix
		}
	}

	ex := model.Example{
		Season:      req.Season,
		StartingMin: req.StartingMin,
		HomeTeam:    req.HomeTeam,
		AwayTeam:    req.AwayTeam,
		Players:     req.Players,
		Opponents:   req.Opponents,
	}
	if err := p.checkFixed(ex); err != nil {
		return Ranking{}, err
	}

	var out Ranking
	vec := make([]float64, encoding.NumFeatures)
	for _, c := range req.Candidates {
		if err := ctx.Err(); err != nil {
			return Ranking{}, fmt.Errorf("rank candidates: %w", err)
		}
		if !p.encoders.Player.Contains(c) {
			p.log.Warn(ctx, "skipping unknown candidate", logger.String("candidate", c))
			metrics.RecordCandidateSkipped()
			out.Skipped = append(out.Skipped, c)
			continue
		}
		ex.Candidate = c
		if _, err := p.encoders.Vector(ex, vec); err != nil {
			return Ranking{}, err
		}
		out.Recommendations = append(out.Recommendations, types.Recommendation{
			Player: c,
			Score:  p.model.Predict(vec),
		})
	}

	sort.SliceStable(out.Recommendations, func(i, j int) bool {
		return out.Recommendations[i].Score > out.Recommendations[j].Score
	})
	for i := range out.Recommendations {
		out.Recommendations[i].Rank = i + 1
	}
	metrics.RecordPrediction()
	return out, nil
}

// checkFixed encodes ex with a known placeholder candidate so only the fixed
// inputs can fail.
func (p *Predictor) checkFixed(ex model.Example) error {
	ex.Candidate = ex.Players[0]
	_, err := p.encoders.Vector(ex, nil)
	return err
}
