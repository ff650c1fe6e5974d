package predict_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/okian/lineup/internal/domain/encoding"
	"github.com/okian/lineup/internal/domain/model"
	"github.com/okian/lineup/internal/domain/predict"
	"github.com/okian/lineup/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

// byCandidate scores a vector by the encoded fifth player.
type byCandidate map[float64]float64

func (b byCandidate) Predict(x []float64) float64 { return b[x[encoding.ColFifthPlayer]] }

func fitted() encoding.Encoders {
	return encoding.Fit([]model.Example{{
		HomeTeam:  "HOU",
		AwayTeam:  "LAC",
		Players:   [4]string{"Ariza", "Beverley", "Capela", "Gordon"},
		Candidate: "Harden",
		Opponents: []string{"Griffin", "Jordan", "Paul", "Redick", "Rivers"},
	}, {
		HomeTeam:  "HOU",
		AwayTeam:  "LAC",
		Players:   [4]string{"Ariza", "Beverley", "Capela", "Gordon"},
		Candidate: "Howard",
		Opponents: []string{"Griffin", "Jordan", "Paul", "Redick", "Rivers"},
	}})
}

func request(candidates ...string) predict.Request {
	return predict.Request{
		Season:     2015,
		HomeTeam:   "HOU",
		AwayTeam:   "LAC",
		Players:    [4]string{"Ariza", "Beverley", "Capela", "Gordon"},
		Opponents:  []string{"Griffin", "Jordan", "Paul", "Redick", "Rivers"},
		Candidates: candidates,
	}
}

func TestPredictor_Rank(t *testing.T) {
	Convey("Given a predictor with a stub model", t, func() {
		enc := fitted()
		code := func(name string) float64 {
			c, ok := enc.Player.Encode(name)
			So(ok, ShouldBeTrue)
			return float64(c)
		}
		scores := byCandidate{code("Harden"): 0.2, code("Howard"): 0.7, code("Redick"): 0.7}
		p, err := predict.New(scores, enc, predict.WithLogger(logger.Nop()))
		So(err, ShouldBeNil)

		Convey("When one candidate is unknown", func() {
			got, err := p.Rank(context.Background(), request("Harden", "Nobody", "Howard"))

			Convey("Then it should be skipped and the rest sorted descending", func() {
				So(err, ShouldBeNil)
				So(got.Skipped, ShouldResemble, []string{"Nobody"})
				So(len(got.Recommendations), ShouldEqual, 2)
				So(got.Recommendations[0].Player, ShouldEqual, "Howard")
				So(got.Recommendations[0].Rank, ShouldEqual, 1)
				So(got.Recommendations[1].Player, ShouldEqual, "Harden")
				best, ok := got.Best()
				So(ok, ShouldBeTrue)
				So(best.Score, ShouldEqual, 0.7)
			})
		})

		Convey("When two candidates tie", func() {
			got, err := p.Rank(context.Background(), request("Redick", "Howard"))

			Convey("Then input order should be kept", func() {
				So(err, ShouldBeNil)
				So(got.Recommendations[0].Player, ShouldEqual, "Redick")
				So(got.Recommendations[1].Player, ShouldEqual, "Howard")
			})
		})

		Convey("When a fixed input is unknown", func() {
			req := request("Harden")
			req.HomeTeam = "XXX"
			_, err := p.Rank(context.Background(), req)

			Convey("Then the whole request should fail", func() {
				So(errors.Is(err, encoding.ErrUnknownCategory), ShouldBeTrue)
			})
		})

		Convey("When an opponent is unknown", func() {
			req := request("Harden")
			req.Opponents = []string{"Nobody"}
			_, err := p.Rank(context.Background(), req)
			So(errors.Is(err, encoding.ErrUnknownCategory), ShouldBeTrue)
		})

		Convey("When every candidate is unknown", func() {
			got, err := p.Rank(context.Background(), request("X", "Y"))

			Convey("Then the ranking should be empty", func() {
				So(err, ShouldBeNil)
				_, ok := got.Best()
				So(ok, ShouldBeFalse)
				So(len(got.Skipped), ShouldEqual, 2)
			})
		})

		Convey("When there are no candidates or fixed players", func() {
			_, err := p.Rank(context.Background(), request())
			So(errors.Is(err, predict.ErrNoCandidates), ShouldBeTrue)

			req := request("Harden")
			req.Players[2] = ""
			_, err = p.Rank(context.Background(), req)
			So(errors.Is(err, predict.ErrIncompleteFix), ShouldBeTrue)
		})
	})

	Convey("Given no model", t, func() {
		_, err := predict.New(nil, encoding.Encoders{})
		So(errors.Is(err, predict.ErrNoModel), ShouldBeTrue)
	})
}

func TestBounds(t *testing.T) {
	Convey("Given bounds Harden and Paul", t, func() {
		b := predict.Bounds{Lower: "Harden", Upper: "Paul"}
		roster := []string{"Ariza", "Harden", "Howard", "Jordan", "Paul", "Terry"}

		Convey("Then only names strictly between them should remain", func() {
			So(predict.FilterCandidates(roster, nil, b), ShouldResemble, []string{"Howard", "Jordan"})
		})

		Convey("Then known players should be excluded", func() {
			So(predict.FilterCandidates(roster, []string{"Jordan"}, b), ShouldResemble, []string{"Howard"})
		})
	})

	Convey("Given open-ended bounds", t, func() {
		So(predict.Bounds{}.Allows("anything"), ShouldBeTrue)
		So(predict.Bounds{Upper: "B"}.Allows("A"), ShouldBeTrue)
		So(predict.Bounds{Lower: "B"}.Allows("A"), ShouldBeFalse)
	})
}

func TestParseSlot(t *testing.T) {
	Convey("Given a lineup with the unknown in the middle", t, func() {
		s, err := predict.ParseSlot([]string{"Ariza", "Harden", "?", "Paul", "Terry"})

		Convey("Then both neighbours should bound the slot", func() {
			So(err, ShouldBeNil)
			So(s.Position, ShouldEqual, 2)
			So(s.Bounds, ShouldResemble, predict.Bounds{Lower: "Harden", Upper: "Paul"})
			So(s.Known, ShouldResemble, [4]string{"Ariza", "Harden", "Paul", "Terry"})
		})
	})

	Convey("Given the unknown in the first slot", t, func() {
		s, err := predict.ParseSlot([]string{"?", "B", "C", "D", "E"})
		So(err, ShouldBeNil)
		So(s.Bounds, ShouldResemble, predict.Bounds{Upper: "B"})
	})

	Convey("Given the unknown in the last slot", t, func() {
		s, err := predict.ParseSlot([]string{"A", "B", "C", "D", "?"})
		So(err, ShouldBeNil)
		So(s.Bounds, ShouldResemble, predict.Bounds{Lower: "D"})
	})

	Convey("Given malformed lineups", t, func() {
		for _, lineup := range [][]string{
			{"A", "B", "C", "D", "E"},
			{"A", "?", "C", "?", "E"},
			{"A", "?"},
		} {
			_, err := predict.ParseSlot(lineup)
			So(errors.Is(err, predict.ErrUnknownSlot), ShouldBeTrue)
		}
	})
}

func TestPredictor_InjectedLogger(t *testing.T) {
	Convey("Given a predictor built with its own logger", t, func() {
		var logs bytes.Buffer
		enc := fitted()
		p, err := predict.New(byCandidate{}, enc, predict.WithLogger(logger.New(&logs)))
		So(err, ShouldBeNil)

		Convey("When a candidate is unknown", func() {
			_, err := p.Rank(context.Background(), request("Harden", "Nobody"))

			Convey("Then the skip should be written to that logger", func() {
				So(err, ShouldBeNil)
				So(logs.String(), ShouldContainSubstring, "skipping unknown candidate")
				So(logs.String(), ShouldContainSubstring, "candidate=Nobody")
			})
		})
	})
}
