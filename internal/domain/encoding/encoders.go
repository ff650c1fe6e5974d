package encoding

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/okian/lineup/internal/domain/model"
)

// MissingCode marks an absent opponent slot.
const MissingCode = -1

// Feature columns in matrix order.
const (
	ColSeason = iota
	ColStartingMin
	ColHomeTeam
	ColAwayTeam
	ColPlayer1
	ColPlayer2
	ColPlayer3
	ColPlayer4
	ColFifthPlayer
	ColOpponent0
	NumFeatures = ColOpponent0 + model.LineupSize
)

var featureNames = [NumFeatures]string{
	"Season",
	"Starting Minute",
	"Home Team",
	"Away Team",
	"Player 1",
	"Player 2",
	"Player 3",
	"Player 4",
	"Fifth Player",
	"Opposing Player 0",
	"Opposing Player 1",
	"Opposing Player 2",
	"Opposing Player 3",
	"Opposing Player 4",
}

// FeatureNames returns the human readable column names in matrix order.
func FeatureNames() []string {
	return append([]string(nil), featureNames[:]...)
}

// Encoders holds the three codebooks fitted on the training examples.
type Encoders struct {
	HomeTeam Codebook
	AwayTeam Codebook
	Player   Codebook
}

// Fit builds encoders from every value seen in exs. One player codebook is
// shared by all player-valued columns.
func Fit(exs []model.Example) Encoders {
	var home, away, players []string
	for _, ex := range exs {
		home = append(home, ex.HomeTeam)
		away = append(away, ex.AwayTeam)
		players = append(players, ex.Players[:]...)
		players = append(players, ex.Candidate)
		players = append(players, ex.Opponents...)
	}
	return Encoders{
		HomeTeam: NewCodebook(home),
		AwayTeam: NewCodebook(away),
		Player:   NewCodebook(players),
	}
}

// Vector encodes one example into dst, which must have NumFeatures entries.
// A nil dst allocates.
func (e Encoders) Vector(ex model.Example, dst []float64) ([]float64, error) {
	if dst == nil {
		dst = make([]float64, NumFeatures)
	}
	dst[ColSeason] = float64(ex.Season)
	dst[ColStartingMin] = float64(ex.StartingMin)

	var err error
	if dst[ColHomeTeam], err = code(e.HomeTeam, "Home Team", ex.HomeTeam); err != nil {
		return nil, err
	}
	if dst[ColAwayTeam], err = code(e.AwayTeam, "Away Team", ex.AwayTeam); err != nil {
		return nil, err
	}
	for i, p := range ex.Players {
		if dst[ColPlayer1+i], err = code(e.Player, featureNames[ColPlayer1+i], p); err != nil {
			return nil, err
		}
	}
	if dst[ColFifthPlayer], err = code(e.Player, "Fifth Player", ex.Candidate); err != nil {
		return nil, err
	}
	for i := 0; i < model.LineupSize; i++ {
		col := ColOpponent0 + i
		if i >= len(ex.Opponents) || ex.Opponents[i] == "" {
			dst[col] = MissingCode
			continue
		}
		if dst[col], err = code(e.Player, featureNames[col], ex.Opponents[i]); err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// Matrix encodes exs into a row-major feature matrix and label vector.
func (e Encoders) Matrix(exs []model.Example) (*mat.Dense, []float64, error) {
	if len(exs) == 0 {
		return nil, nil, ErrNoRows
	}
	data := make([]float64, len(exs)*NumFeatures)
	labels := make([]float64, len(exs))
	for i, ex := range exs {
		if _, err := e.Vector(ex, data[i*NumFeatures:(i+1)*NumFeatures]); err != nil {
			return nil, nil, fmt.Errorf("row %d: %w", i, err)
		}
		labels[i] = ex.Effectiveness
	}
	return mat.NewDense(len(exs), NumFeatures, data), labels, nil
}

func code(c Codebook, column, value string) (float64, error) {
	v, ok := c.Encode(value)
	if !ok {
		return 0, fmt.Errorf("%w: %s %q", ErrUnknownCategory, column, value)
	}
	return float64(v), nil
}
