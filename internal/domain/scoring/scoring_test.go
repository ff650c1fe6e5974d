package scoring_test

import (
	"testing"

	"github.com/okian/lineup/internal/domain/rating"
	"github.com/okian/lineup/internal/domain/scoring"
	. "github.com/smartystreets/goconvey/convey"
)

const tolerance = 1e-9

// fixedNoise returns the same standard normal sample on every call.
type fixedNoise float64

func (f fixedNoise) NormFloat64() float64 { return float64(f) }

func fixture() *rating.Ratings {
	return rating.New(
		map[string]float64{"A": 1.0, "B": 0.8, "C": 0.6, "D": 1.2, "E": 0.9, "X": 0.5, "Y": 0.7},
		map[string]float64{"LAL": 0.7, "PHO": 0.5},
	)
}

func TestScorer_Deterministic(t *testing.T) {
	Convey("Given a scorer over fixed ratings", t, func() {
		scorer := scoring.New(fixture(), scoring.WithNoiseStdDev(0))
		lineup := []string{"A", "B", "C", "D", "E"}

		Convey("When no opponent lineup is supplied", func() {
			in := scoring.Input{Lineup: lineup, Team: "LAL", Opponent: "PHO"}

			Convey("Then the score should equal the weighted arithmetic", func() {
				syn := scoring.Synergy(lineup)
				raw := 0.4*0.9 + 0.2*0.7 + 0.1*(1-0.5) + 0.3*syn
				So(scorer.Deterministic(in), ShouldAlmostEqual, 2*raw-1, tolerance)
				So(scorer.Score(in), ShouldAlmostEqual, 2*raw-1, tolerance)
			})

			Convey("Then the matchup multiplier should be neutral", func() {
				So(scorer.Components(in).Matchup, ShouldEqual, 1.0)
			})
		})

		Convey("When an opponent lineup is supplied", func() {
			in := scoring.Input{Lineup: lineup, Team: "LAL", Opponent: "PHO", Opponents: []string{"X", "Y"}}

			Convey("Then the raw score should be scaled by the rating gap", func() {
				c := scorer.Components(in)
				So(c.Matchup, ShouldAlmostEqual, 1+0.2*(0.9-0.6), tolerance)
				So(scorer.Deterministic(in), ShouldAlmostEqual, 2*c.Raw*c.Matchup-1, tolerance)
			})
		})

		Convey("When teams are unknown", func() {
			in := scoring.Input{Lineup: lineup, Team: "XXX", Opponent: "YYY"}

			Convey("Then team defaults should be used", func() {
				c := scorer.Components(in)
				So(c.TeamRating, ShouldEqual, rating.DefaultTeamRating)
				So(c.OpponentRating, ShouldEqual, rating.DefaultTeamRating)
			})
		})
	})
}

func TestScorer_Noise(t *testing.T) {
	Convey("Given a scorer with a pinned noise source", t, func() {
		scorer := scoring.New(fixture(), scoring.WithNoise(fixedNoise(1)), scoring.WithNoiseStdDev(0.05))
		in := scoring.Input{Lineup: []string{"A", "B", "C", "D"}, Team: "LAL", Opponent: "PHO"}

		Convey("Then noise should shift the pre-mapping value by one stddev", func() {
			So(scorer.Score(in), ShouldAlmostEqual, scorer.Deterministic(in)+2*0.05, tolerance)
		})
	})

	Convey("Given a scorer with the default noise source", t, func() {
		scorer := scoring.New(fixture())
		in := scoring.Input{Lineup: []string{"A", "B", "C", "D", "E"}, Team: "LAL", Opponent: "PHO"}

		Convey("Then repeated calls should vary around the deterministic score", func() {
			seen := map[float64]bool{}
			for i := 0; i < 10; i++ {
				v := scorer.Score(in)
				So(v, ShouldAlmostEqual, scorer.Deterministic(in), 1.0)
				seen[v] = true
			}
			So(len(seen), ShouldBeGreaterThan, 1)
		})
	})

	Convey("Given invalid options", t, func() {
		scorer := scoring.New(nil, scoring.WithNoise(nil), scoring.WithNoiseStdDev(-1))

		Convey("Then the scorer should still work with defaults", func() {
			So(scorer.Ratings(), ShouldNotBeNil)
			So(func() { scorer.Score(scoring.Input{Lineup: []string{"Q"}}) }, ShouldNotPanic)
		})
	})
}

func TestSynergy(t *testing.T) {
	Convey("Given a lineup in two orders", t, func() {
		a := scoring.Synergy([]string{"E", "D", "C", "B", "A"})
		b := scoring.Synergy([]string{"A", "B", "C", "D", "E"})

		Convey("Then synergy should ignore slot order", func() {
			So(a, ShouldEqual, b)
		})

		Convey("Then synergy should match the hash-seeded draw", func() {
			So(a, ShouldEqual, 0.8+0.4*rating.RandFor("ABCDE").Float64())
			So(a, ShouldBeGreaterThanOrEqualTo, 0.8)
			So(a, ShouldBeLessThan, 1.2)
		})
	})
}
