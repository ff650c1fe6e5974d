package boosting

import "fmt"

// Params configures gradient boosting with least-squares loss.
type Params struct {
	Estimators      int
	LearningRate    float64
	MaxDepth        int
	MinSamplesSplit int
	Seed            int64
}

// DefaultParams returns 100 stages, rate 0.1, depth 5, min split 15, seed 42.
func DefaultParams() Params {
	return Params{
		Estimators:      100,
		LearningRate:    0.1,
		MaxDepth:        5,
		MinSamplesSplit: 15,
		Seed:            42,
	}
}

// Validate reports the first out-of-range field.
func (p Params) Validate() error {
	switch {
	case p.Estimators <= 0:
		return fmt.Errorf("%w: estimators %d", ErrInvalidParams, p.Estimators)
	case p.LearningRate <= 0:
		return fmt.Errorf("%w: learning rate %g", ErrInvalidParams, p.LearningRate)
	case p.MaxDepth <= 0:
		return fmt.Errorf("%w: max depth %d", ErrInvalidParams, p.MaxDepth)
	case p.MinSamplesSplit < 2:
		return fmt.Errorf("%w: min samples split %d", ErrInvalidParams, p.MinSamplesSplit)
	}
	return nil
}
