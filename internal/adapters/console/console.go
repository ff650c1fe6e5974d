// Package console drives the interactive prediction session over plain text
// streams.
package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/okian/lineup/internal/domain/encoding"
	"github.com/okian/lineup/internal/domain/predict"
	"github.com/okian/lineup/internal/domain/session"
	"github.com/okian/lineup/pkg/logger"
)

// ResultPrefix starts the line that names the chosen player. Scripts parse it.
const ResultPrefix = "Predicted 5th Player:"

const defaultTopN = 5

// Ranker scores the candidates of a completed session.
type Ranker interface {
	Rank(ctx context.Context, req predict.Request) (predict.Ranking, error)
}

// Option applies a configuration option to the Console.
type Option func(*Console)

// WithTopN caps the number of recommendations printed.
func WithTopN(n int) Option {
	return func(c *Console) {
		if n > 0 {
			c.topN = n
		}
	}
}

// WithLogger sets the console logger.
func WithLogger(l logger.Logger) Option {
	return func(c *Console) {
		if l != nil {
			c.log = l
		}
	}
}

// Console reads answers line by line and writes prompts and results.
type Console struct {
	in   *bufio.Scanner
	out  io.Writer
	topN int
	log  logger.Logger
}

// New creates a console over in and out.
func New(in io.Reader, out io.Writer, opts ...Option) *Console {
	c := &Console{
		in:   bufio.NewScanner(in),
		out:  out,
		topN: defaultTopN,
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.log == nil {
		c.log = logger.Get().Named("console")
	}
	return c
}

// Run holds one dialogue against catalog and ranks the result with ranker.
// A session that ends early returns its reason after printing it. A request
// naming unseen teams or players prints no recommendations and is not an error.
func (c *Console) Run(ctx context.Context, catalog session.Catalog, ranker Ranker) (predict.Ranking, error) {
	if ranker == nil {
		return predict.Ranking{}, ErrNoRanker
	}
	s := session.New(catalog)

	c.println("=== NBA 5th Player Predictor ===")
	c.println()
	for _, line := range s.Intro() {
		c.println(line)
	}

	for s.State() != session.Ready {
		if err := ctx.Err(); err != nil {
			return predict.Ranking{}, err
		}
		if s.State() == session.Failed {
			c.log.Warn(ctx, "session ended early", logger.Error(s.Err()))
			return predict.Ranking{}, s.Err()
		}

		fmt.Fprint(c.out, s.Prompt())
		if !c.in.Scan() {
			if err := c.in.Err(); err != nil {
				return predict.Ranking{}, fmt.Errorf("read input: %w", err)
			}
			c.println()
			return predict.Ranking{}, fmt.Errorf("%w at %s", ErrInputClosed, s.State())
		}
		notes, err := s.Submit(c.in.Text())
		if err != nil {
			return predict.Ranking{}, err
		}
		for _, n := range notes {
			c.println(n)
		}
	}

	req, _ := s.Request()
	c.println(fmt.Sprintf("Predicting optimal player for %s at position %d at minute %d in %d...",
		req.HomeTeam, s.Slot().Position+1, req.StartingMin, req.Season))

	ranking, err := ranker.Rank(ctx, req)
	if err != nil {
		c.println("Error making prediction: " + err.Error())
		c.println("This could be due to players or teams not seen in the training data")
		if !errors.Is(err, encoding.ErrUnknownCategory) {
			return predict.Ranking{}, err
		}
		// Nothing to rank.
		c.log.Warn(ctx, "request references unseen categories", logger.Error(err))
		ranking = predict.Ranking{}
	}
	c.Print(ranking)
	return ranking, nil
}

// Print writes the top recommendations and the result line.
func (c *Console) Print(r predict.Ranking) {
	best, ok := r.Best()
	if !ok {
		c.println("No valid recommendations found.")
		return
	}
	top := r.Recommendations[:min(c.topN, len(r.Recommendations))]
	c.println(fmt.Sprintf("Top %d recommended players:", c.topN))
	for _, rec := range top {
		c.println(fmt.Sprintf("%d. %s (effectiveness score: %.4f)", rec.Rank, rec.Player, rec.Score))
	}
	c.println(fmt.Sprintf("%s %s (effectiveness score: %.4f)", ResultPrefix, best.Player, best.Score))
}

func (c *Console) println(a ...any) {
	fmt.Fprintln(c.out, a...)
}
