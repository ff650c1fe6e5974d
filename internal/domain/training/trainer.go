// Package training splits examples, fits the booster and reports fit quality.
package training

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"sort"
	"time"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"

	"github.com/okian/lineup/internal/domain/boosting"
	"github.com/okian/lineup/internal/domain/encoding"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/types"
	"github.com/okian/lineup/pkg/logger"
	"github.com/okian/lineup/pkg/metrics"
)

const (
	defaultTestFraction = 0.2
	defaultSplitSeed    = 42
)

// Report summarises one training run.
type Report struct {
	TrainRows   int
	TestRows    int
	TrainR2     float64
	TestR2      float64
	TrainRMSE   float64
	TestRMSE    float64
	Importances []types.Importance
	Duration    time.Duration
}

// Result is the fitted model with the encoders it was trained against.
type Result struct {
	Model    *boosting.Model
	Encoders encoding.Encoders
	Report   Report
}

// Trainer fits models from training examples.
type Trainer struct {
	params       boosting.Params
	testFraction float64
	seed         int64
	log          logger.Logger
}

// NewTrainer creates a trainer with default boosting parameters.
func NewTrainer(opts ...Option) *Trainer {
	t := &Trainer{
		params:       boosting.DefaultParams(),
		testFraction: defaultTestFraction,
		seed:         defaultSplitSeed,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.log == nil {
		t.log = logger.Get().Named("training")
	}
	return t
}

// Train fits encoders on every example, splits the rows, fits the booster on
// the training part and evaluates both parts.
func (t *Trainer) Train(ctx context.Context, exs []model.Example) (*Result, error) {
	start := time.Now()

	trainIdx, testIdx, err := Split(len(exs), t.testFraction, t.seed)
	if err != nil {
		return nil, err
	}

	enc := encoding.Fit(exs)
	x, y, err := enc.Matrix(exs)
	if err != nil {
		return nil, fmt.Errorf("encode examples: %w", err)
	}
	xTrain, yTrain := rows(x, y, trainIdx)
	xTest, yTest := rows(x, y, testIdx)

	t.log.Info(ctx, "fitting booster",
		logger.Int("train_rows", len(trainIdx)),
		logger.Int("test_rows", len(testIdx)),
		logger.Int("estimators", t.params.Estimators),
	)
	m, err := boosting.Fit(ctx, xTrain, yTrain, t.params)
	if err != nil {
		return nil, fmt.Errorf("fit booster: %w", err)
	}

	rep := Report{
		TrainRows:   len(trainIdx),
		TestRows:    len(testIdx),
		Importances: RankImportances(encoding.FeatureNames(), m.Importances()),
	}
	trainPred := m.PredictMatrix(xTrain)
	testPred := m.PredictMatrix(xTest)
	rep.TrainR2, rep.TrainRMSE = stat.RSquaredFrom(trainPred, yTrain, nil), RMSE(trainPred, yTrain)
	rep.TestR2, rep.TestRMSE = stat.RSquaredFrom(testPred, yTest, nil), RMSE(testPred, yTest)
	rep.Duration = time.Since(start)

	metrics.UpdateFitQuality(metrics.SplitTrain, rep.TrainR2, rep.TrainRMSE)
	metrics.UpdateFitQuality(metrics.SplitTest, rep.TestR2, rep.TestRMSE)
	metrics.UpdateBoostingStages(len(m.Trees))
	metrics.RecordTrainingDuration(rep.Duration.Seconds())

	t.log.Info(ctx, "training finished",
		logger.Float64("train_r2", rep.TrainR2),
		logger.Float64("test_r2", rep.TestR2),
		logger.Float64("test_rmse", rep.TestRMSE),
		logger.Duration("took", rep.Duration),
	)
	return &Result{Model: m, Encoders: enc, Report: rep}, nil
}

// Split shuffles 0..n-1 with seed and holds out ceil(fraction·n) indices.
func Split(n int, fraction float64, seed int64) (train, test []int, err error) {
	if fraction <= 0 || fraction >= 1 {
		return nil, nil, fmt.Errorf("%w: %g", ErrBadFraction, fraction)
	}
	nTest := int(math.Ceil(fraction * float64(n)))
	if n < 2 || nTest >= n {
		return nil, nil, fmt.Errorf("%w: %d", ErrTooFewExamples, n)
	}
	perm := rand.New(rand.NewSource(seed)).Perm(n) //nolint:gosec // reproducible split
	return perm[nTest:], perm[:nTest], nil
}

// RMSE returns the root mean squared error of pred against y.
func RMSE(pred, y []float64) float64 {
	if len(y) == 0 {
		return 0
	}
	var sum float64
	for i := range y {
		d := pred[i] - y[i]
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(y)))
}

// RankImportances pairs names with scores, highest first.
func RankImportances(names []string, scores []float64) []types.Importance {
	out := make([]types.Importance, 0, len(scores))
	for i, s := range scores {
		name := fmt.Sprintf("feature %d", i)
		if i < len(names) {
			name = names[i]
		}
		out = append(out, types.Importance{Feature: name, Importance: s})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Importance > out[j].Importance })
	return out
}

func rows(x *mat.Dense, y []float64, idx []int) (*mat.Dense, []float64) {
	_, cols := x.Dims()
	out := mat.NewDense(len(idx), cols, nil)
	labels := make([]float64, len(idx))
	for i, r := range idx {
		out.SetRow(i, x.RawRowView(r))
		labels[i] = y[r]
	}
	return out, labels
}
