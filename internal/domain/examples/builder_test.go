package examples_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/okian/lineup/internal/domain/examples"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/rating"
	"github.com/okian/lineup/internal/domain/scoring"
	"github.com/okian/lineup/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func row(game string, home []string, away ...string) model.Matchup {
	m := model.Matchup{Game: game, Season: 2010, StartingMin: 12, HomeTeam: "LAL", AwayTeam: "PHO", HomeWin: true}
	copy(m.Home[:], home)
	copy(m.Away[:], away)
	return m
}

func newBuilder(rows []model.Matchup, opts ...examples.Option) *examples.Builder {
	scorer := scoring.New(rating.Compute(rows), scoring.WithNoiseStdDev(0))
	b, err := examples.NewBuilder(scorer, append([]examples.Option{examples.WithLogger(logger.Nop())}, opts...)...)
	So(err, ShouldBeNil)
	return b
}

func TestBuilder_Counts(t *testing.T) {
	Convey("Given a two-team single-game dataset with a roster of six", t, func() {
		rows := []model.Matchup{
			row("g1", []string{"A", "B", "C", "D", "E"}, "F"),
			row("g1", []string{"A", "B", "C", "D", "F"}, "E"),
		}
		b := newBuilder(rows, examples.WithSeed(7))

		res, err := b.Build(context.Background(), rows)

		Convey("Then each row should yield five real and five alternate examples", func() {
			So(err, ShouldBeNil)
			// rows × 5 × (1 + min(2, 6 − 5))
			So(len(res.Examples), ShouldEqual, 2*5*2)
			observed := 0
			for _, ex := range res.Examples {
				if !ex.Alternate {
					observed++
				}
			}
			So(observed, ShouldEqual, 10)
		})

		Convey("Then alternates should never be a home player of their row", func() {
			for _, ex := range res.Examples[:10] {
				if ex.Alternate {
					So(ex.Candidate, ShouldEqual, "F")
				}
			}
			for _, ex := range res.Examples[10:] {
				if ex.Alternate {
					So(ex.Candidate, ShouldEqual, "E")
				}
			}
		})

		Convey("Then the held-out player should not appear among the known four", func() {
			for _, ex := range res.Examples {
				So(ex.Players[:], ShouldNotContain, ex.Candidate)
			}
		})

		Convey("Then label statistics should describe every example", func() {
			So(res.Stats.Count, ShouldEqual, 20)
			So(res.Stats.Min, ShouldBeLessThanOrEqualTo, res.Stats.Mean)
			So(res.Stats.Max, ShouldBeGreaterThanOrEqualTo, res.Stats.Mean)
		})
	})

	Convey("Given a roster much larger than one lineup", t, func() {
		rows := []model.Matchup{
			row("g1", []string{"A", "B", "C", "D", "E"}, "V", "W", "X", "Y", "Z"),
		}
		b := newBuilder(rows)

		res, err := b.Build(context.Background(), rows)

		Convey("Then at most two alternates should be drawn per held-out slot", func() {
			So(err, ShouldBeNil)
			So(len(res.Examples), ShouldEqual, 15)
			So(res.Examples[0].Opponents, ShouldResemble, []string{"V", "W", "X", "Y", "Z"})
		})
	})
}

func TestBuilder_Labels(t *testing.T) {
	Convey("Given noise-free scoring", t, func() {
		rows := []model.Matchup{row("g1", []string{"A", "B", "C", "D", "E"}, "V")}
		ratings := rating.Compute(rows)
		scorer := scoring.New(ratings, scoring.WithNoiseStdDev(0))
		b, err := examples.NewBuilder(scorer, examples.WithAlternates(0), examples.WithLogger(logger.Nop()))
		So(err, ShouldBeNil)

		res, err := b.Build(context.Background(), rows)
		So(err, ShouldBeNil)

		Convey("Then the label should be actual minus the discounted four-player score", func() {
			ex := res.Examples[0]
			So(ex.Candidate, ShouldEqual, "A")
			in := scoring.Input{Team: "LAL", Opponent: "PHO", Opponents: []string{"V"}}
			in.Lineup = []string{"A", "B", "C", "D", "E"}
			actual := scorer.Deterministic(in)
			in.Lineup = []string{"B", "C", "D", "E"}
			base := scorer.Deterministic(in) * 0.8
			So(ex.Effectiveness, ShouldAlmostEqual, actual-base, 1e-9)
		})
	})
}

func TestBuilder_Reproducible(t *testing.T) {
	Convey("Given two builders with the same seed", t, func() {
		rows := []model.Matchup{
			row("g2", []string{"A", "B", "C", "D", "E"}, "P", "Q", "R", "S", "T"),
			row("g1", []string{"F", "G", "H", "I", "J"}, "P", "Q", "R", "S", "T"),
		}
		first, err := newBuilder(rows, examples.WithSeed(3)).Build(context.Background(), rows)
		So(err, ShouldBeNil)
		second, err := newBuilder(rows, examples.WithSeed(3)).Build(context.Background(), rows)
		So(err, ShouldBeNil)

		Convey("Then the examples should match exactly", func() {
			So(second.Examples, ShouldResemble, first.Examples)
		})

		Convey("Then games should be visited in ascending id order", func() {
			So(first.Examples[0].Game, ShouldEqual, "g1")
			So(first.Examples[len(first.Examples)-1].Game, ShouldEqual, "g2")
		})
	})
}

func TestBuilder_Failures(t *testing.T) {
	Convey("Given only incomplete rows", t, func() {
		rows := []model.Matchup{row("g1", []string{"A", "B", "C", "D"}, "V")}
		b := newBuilder(rows)

		_, err := b.Build(context.Background(), rows)

		Convey("Then Build should fail with ErrNoExamples", func() {
			So(errors.Is(err, examples.ErrNoExamples), ShouldBeTrue)
		})
	})

	Convey("Given a mix of complete and incomplete rows", t, func() {
		rows := []model.Matchup{
			row("g1", []string{"A", "B", "C", "D", "E"}, "V"),
			row("g1", []string{"A", "B", "C"}, "V"),
		}
		res, err := newBuilder(rows, examples.WithAlternates(0)).Build(context.Background(), rows)

		Convey("Then the incomplete row should be counted and skipped", func() {
			So(err, ShouldBeNil)
			So(res.SkippedRows, ShouldEqual, 1)
			So(len(res.Examples), ShouldEqual, 5)
		})
	})

	Convey("Given a cancelled context", t, func() {
		rows := []model.Matchup{row("g1", []string{"A", "B", "C", "D", "E"})}
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := newBuilder(rows).Build(ctx, rows)

		Convey("Then Build should return the context error", func() {
			So(errors.Is(err, context.Canceled), ShouldBeTrue)
		})
	})

	Convey("Given no scorer", t, func() {
		_, err := examples.NewBuilder(nil)
		So(errors.Is(err, examples.ErrNoScorer), ShouldBeTrue)
	})
}

func TestLabelStats(t *testing.T) {
	Convey("Given known labels", t, func() {
		exs := []model.Example{{Effectiveness: 1}, {Effectiveness: 2}, {Effectiveness: 3}}
		s := examples.LabelStats(exs)

		Convey("Then the summary should use the sample deviation", func() {
			So(s.Count, ShouldEqual, 3)
			So(s.Min, ShouldEqual, 1.0)
			So(s.Max, ShouldEqual, 3.0)
			So(s.Mean, ShouldAlmostEqual, 2, 1e-12)
			So(s.StdDev, ShouldAlmostEqual, 1, 1e-12)
		})
	})

	Convey("Given no labels", t, func() {
		So(examples.LabelStats(nil), ShouldResemble, examples.Stats{})
	})
}

func TestBuilder_InjectedLogger(t *testing.T) {
	Convey("Given a builder with its own logger", t, func() {
		var logs bytes.Buffer
		rows := []model.Matchup{row("g1", []string{"A", "B", "C", "D", "E"}, "F")}
		scorer := scoring.New(rating.Compute(rows), scoring.WithNoiseStdDev(0))
		b, err := examples.NewBuilder(scorer, examples.WithLogger(logger.New(&logs)))
		So(err, ShouldBeNil)

		_, err = b.Build(context.Background(), rows)

		Convey("Then the build summary should be written to that logger", func() {
			So(err, ShouldBeNil)
			So(logs.String(), ShouldContainSubstring, "training examples built")
			So(logs.String(), ShouldContainSubstring, "examples=10")
		})
	})
}
