// Package boosting fits gradient-boosted regression trees with squared-error
// loss on gonum matrices.
package boosting

import (
	"context"
	"fmt"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Model is a fitted ensemble. Fields are exported for gob.
type Model struct {
	Params      Params
	NumFeatures int
	Init        float64
	Trees       []Tree
	Gains       []float64
}

// Fit trains an ensemble on X (rows are samples) and y. Cancellation is
// checked between stages.
func Fit(ctx context.Context, x mat.Matrix, y []float64, p Params) (*Model, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	rows, cols := x.Dims()
	if rows == 0 || cols == 0 {
		return nil, ErrEmpty
	}
	if rows != len(y) {
		return nil, fmt.Errorf("%w: %d rows, %d labels", ErrShape, rows, len(y))
	}

	columns := make([][]float64, cols)
	for j := range columns {
		columns[j] = mat.Col(nil, j, x)
	}
	data := newDataset(columns)

	m := &Model{
		Params:      p,
		NumFeatures: cols,
		Init:        stat.Mean(y, nil),
		Trees:       make([]Tree, 0, p.Estimators),
		Gains:       make([]float64, cols),
	}

	rng := rand.New(rand.NewSource(p.Seed)) //nolint:gosec // reproducible feature order
	pred := make([]float64, rows)
	for i := range pred {
		pred[i] = m.Init
	}
	residual := make([]float64, rows)

	for stage := 0; stage < p.Estimators; stage++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("boosting stage %d: %w", stage, err)
		}
		floats.SubTo(residual, y, pred)
		t := growTree(data, residual, p, rng, m.Gains)
		m.Trees = append(m.Trees, t)

		row := make([]float64, cols)
		for i := range pred {
			for j := range row {
				row[j] = columns[j][i]
			}
			pred[i] += p.LearningRate * t.Predict(row)
		}
	}
	return m, nil
}

// Predict returns the ensemble output for one feature vector.
func (m *Model) Predict(features []float64) float64 {
	out := m.Init
	for _, t := range m.Trees {
		out += m.Params.LearningRate * t.Predict(features)
	}
	return out
}

// PredictMatrix predicts every row of x.
func (m *Model) PredictMatrix(x mat.Matrix) []float64 {
	rows, cols := x.Dims()
	out := make([]float64, rows)
	row := make([]float64, cols)
	for i := range out {
		mat.Row(row, i, x)
		out[i] = m.Predict(row)
	}
	return out
}

// Importances returns the accumulated split gain per feature, normalized to
// sum to one. All zeros when no split was ever made.
func (m *Model) Importances() []float64 {
	out := append([]float64(nil), m.Gains...)
	if total := floats.Sum(out); total > 0 {
		floats.Scale(1/total, out)
	}
	return out
}
