package prediction_test

import (
	"sync"
	"testing"

	"github.com/okian/matchpredictor/internal/domain/model"
	"github.com/okian/matchpredictor/internal/domain/prediction"
	"github.com/okian/matchpredictor/internal/domain/training"
	. "github.com/smartystreets/goconvey/convey"
)

// stubTables is a hand-built model for isolating single signals.
type stubTables struct {
	pair     map[[2]string]model.Outcome
	home     map[string]model.Outcome
	away     map[string]model.Outcome
	winRate  map[string]float64
	goalDiff map[string]float64
}

func (s stubTables) PairMajority(home, away string) (model.Outcome, bool) {
	o, ok := s.pair[[2]string{home, away}]
	return o, ok
}

func (s stubTables) HomeMajority(team string) (model.Outcome, bool) {
	o, ok := s.home[team]
	return o, ok
}

func (s stubTables) AwayMajority(team string) (model.Outcome, bool) {
	o, ok := s.away[team]
	return o, ok
}

func (s stubTables) WinRate(team string) (float64, bool) {
	v, ok := s.winRate[team]
	return v, ok
}

func (s stubTables) GoalDiff(team string) (float64, bool) {
	v, ok := s.goalDiff[team]
	return v, ok
}

func TestAlphabet(t *testing.T) {
	Convey("Given the alphabet predictor", t, func() {
		p := prediction.Alphabet{}

		Convey("Then the alphabetically earlier home team should win", func() {
			So(p.Predict(model.NewFixture("Arsenal", "Burnley")).Outcome, ShouldEqual, model.Home)
		})

		Convey("And the alphabetically earlier away team should win", func() {
			So(p.Predict(model.NewFixture("Wolves", "Brighton")).Outcome, ShouldEqual, model.Away)
		})

		Convey("And swapping sides should flip the outcome", func() {
			pairs := [][2]string{{"Chelsea", "Fulham"}, {"leeds", "Everton"}, {"a", "b"}}
			for _, p2 := range pairs {
				ab := p.Predict(model.NewFixture(p2[0], p2[1])).Outcome
				ba := p.Predict(model.NewFixture(p2[1], p2[0])).Outcome
				So(ab, ShouldNotEqual, model.Draw)
				So(ba, ShouldNotEqual, model.Draw)
				So(ab, ShouldNotEqual, ba)
			}
		})

		Convey("And identical names in any case should draw", func() {
			So(p.Predict(model.NewFixture("Everton", "EVERTON")).Outcome, ShouldEqual, model.Draw)
			So(p.Predict(model.NewFixture("", "")).Outcome, ShouldEqual, model.Draw)
		})

		Convey("And a trailing space sorts after the bare name", func() {
			f := model.Fixture{Home: model.Team{Name: "a "}, Away: model.Team{Name: "a"}}
			So(p.Predict(f).Outcome, ShouldEqual, model.Away)
		})

		Convey("And comparison should use lowercase names", func() {
			// "Z" < "a" by code point, but "z" > "a".
			So(p.Predict(model.NewFixture("Zeta", "alpha")).Outcome, ShouldEqual, model.Away)
		})
	})
}

func TestEnhanced_EndToEnd(t *testing.T) {
	Convey("Given a model trained on a single 2-0 home win", t, func() {
		m := training.Train([]model.Result{
			model.NewResult(model.NewFixture("A", "B"), 2, 0, 2021),
		})
		p := prediction.NewEnhanced(m)

		Convey("When predicting the same fixture", func() {
			b := p.Score(model.NewFixture("A", "B"))

			Convey("Then every signal should vote home for a total of 7", func() {
				So(b.Scores, ShouldResemble, prediction.Scores{Home: 7, Away: 0, Draw: 0})
				So(b.Fallback, ShouldBeFalse)
				So(b.Prediction.Outcome, ShouldEqual, model.Home)
				So(len(b.Votes), ShouldEqual, 5)
				for i, v := range b.Votes {
					So(v.Signal, ShouldEqual, prediction.Signals[i])
					So(v.Outcome, ShouldEqual, model.Home)
				}
			})
		})

		Convey("When predicting the reversed fixture", func() {
			b := p.Score(model.NewFixture("B", "A"))

			Convey("Then only the form comparisons should vote, both for the away side", func() {
				So(b.Scores, ShouldResemble, prediction.Scores{Away: 2})
				So(b.Prediction.Outcome, ShouldEqual, model.Away)
			})
		})
	})
}

func TestEnhanced_EmptyModel(t *testing.T) {
	Convey("Given a model trained on nothing", t, func() {
		p := prediction.NewEnhanced(training.Train(nil))
		fallback := prediction.Alphabet{}

		Convey("Then every prediction should equal the fallback's", func() {
			fixtures := []model.Fixture{
				model.NewFixture("Arsenal", "Burnley"),
				model.NewFixture("Burnley", "Arsenal"),
				model.NewFixture("Spurs", "spurs"),
			}
			for _, f := range fixtures {
				b := p.Score(f)
				So(b.Fallback, ShouldBeTrue)
				So(b.Scores, ShouldResemble, prediction.Scores{})
				So(b.Prediction, ShouldResemble, fallback.Predict(f))
			}
		})
	})
}

func TestEnhanced_WeightDominance(t *testing.T) {
	Convey("Given a pair majority for home and a home majority for away", t, func() {
		tables := stubTables{
			pair: map[[2]string]model.Outcome{{"x", "y"}: model.Home},
			home: map[string]model.Outcome{"x": model.Away},
		}
		b := prediction.NewEnhanced(tables).Score(model.NewFixture("X", "Y"))

		Convey("Then the pair signal should win 3 to 2", func() {
			So(b.Scores, ShouldResemble, prediction.Scores{Home: 3, Away: 2})
			So(b.Prediction.Outcome, ShouldEqual, model.Home)
			So(b.Fallback, ShouldBeFalse)
		})
	})

	Convey("Given a pair majority for draw against an away majority for away", t, func() {
		tables := stubTables{
			pair: map[[2]string]model.Outcome{{"x", "y"}: model.Draw},
			away: map[string]model.Outcome{"y": model.Away},
		}
		b := prediction.NewEnhanced(tables).Score(model.NewFixture("X", "Y"))

		Convey("Then draw should win", func() {
			So(b.Prediction.Outcome, ShouldEqual, model.Draw)
		})
	})
}

func TestEnhanced_Ties(t *testing.T) {
	Convey("Given home and away majorities that cancel out", t, func() {
		tables := stubTables{
			home: map[string]model.Outcome{"zeta": model.Home},
			away: map[string]model.Outcome{"alpha": model.Away},
		}
		b := prediction.NewEnhanced(tables).Score(model.NewFixture("Zeta", "Alpha"))

		Convey("Then the tie should go to the fallback", func() {
			So(b.Scores, ShouldResemble, prediction.Scores{Home: 2, Away: 2})
			So(b.Fallback, ShouldBeTrue)
			So(b.Prediction.Outcome, ShouldEqual, model.Away)
		})
	})

	Convey("Given equal form values for both teams", t, func() {
		tables := stubTables{
			winRate:  map[string]float64{"a": 0.5, "b": 0.5},
			goalDiff: map[string]float64{"a": 1, "b": 1},
		}
		b := prediction.NewEnhanced(tables).Score(model.NewFixture("B", "A"))

		Convey("Then no vote should be cast and the fallback should decide", func() {
			So(b.Votes, ShouldBeEmpty)
			So(b.Fallback, ShouldBeTrue)
			So(b.Prediction.Outcome, ShouldEqual, model.Away)
		})
	})

	Convey("Given form data for only one team", t, func() {
		tables := stubTables{
			winRate:  map[string]float64{"a": 1},
			goalDiff: map[string]float64{"a": 3},
		}
		b := prediction.NewEnhanced(tables).Score(model.NewFixture("A", "B"))

		Convey("Then the comparisons should be skipped", func() {
			So(b.Votes, ShouldBeEmpty)
			So(b.Fallback, ShouldBeTrue)
		})
	})

	Convey("Given a three-way tie at a non-zero score", t, func() {
		tables := stubTables{
			pair:     map[[2]string]model.Outcome{{"a", "b"}: model.Draw},
			home:     map[string]model.Outcome{"a": model.Home},
			away:     map[string]model.Outcome{"b": model.Away},
			winRate:  map[string]float64{"a": 1, "b": 0},
			goalDiff: map[string]float64{"a": -1, "b": 1},
		}
		b := prediction.NewEnhanced(tables).Score(model.NewFixture("A", "B"))

		Convey("Then the fallback should decide", func() {
			So(b.Scores, ShouldResemble, prediction.Scores{Home: 3, Away: 3, Draw: 3})
			So(b.Fallback, ShouldBeTrue)
			So(b.Prediction.Outcome, ShouldEqual, model.Home)
		})
	})
}

func TestEnhanced_Options(t *testing.T) {
	tables := stubTables{
		pair: map[[2]string]model.Outcome{{"x", "y"}: model.Home},
		home: map[string]model.Outcome{"x": model.Away},
	}

	Convey("Given weights from configuration that favour the home record", t, func() {
		p := prediction.NewEnhanced(tables, prediction.WithWeightsFromConfig(map[string]int{
			"home":    5,
			"unknown": 9,
			"pair":    0,
		}))

		Convey("Then the home signal should outvote the pair", func() {
			So(p.Weights(), ShouldResemble, prediction.Weights{Pair: 3, Home: 5, Away: 2, WinRate: 1, GoalDiff: 1})
			So(p.Predict(model.NewFixture("x", "y")).Outcome, ShouldEqual, model.Away)
		})
	})

	Convey("Given a partial weights struct", t, func() {
		p := prediction.NewEnhanced(tables, prediction.WithWeights(prediction.Weights{Pair: 1}))

		Convey("Then unset weights should keep their defaults", func() {
			So(p.Weights(), ShouldResemble, prediction.Weights{Pair: 1, Home: 2, Away: 2, WinRate: 1, GoalDiff: 1})
			So(p.Predict(model.NewFixture("x", "y")).Outcome, ShouldEqual, model.Away)
		})
	})

	Convey("Given a custom fallback", t, func() {
		p := prediction.NewEnhanced(stubTables{}, prediction.WithFallback(constant(model.Draw)))

		Convey("Then ties should use it", func() {
			So(p.Predict(model.NewFixture("a", "b")).Outcome, ShouldEqual, model.Draw)
		})
	})
}

type constant model.Outcome

func (c constant) Predict(model.Fixture) model.Prediction {
	return model.Prediction{Outcome: model.Outcome(c)}
}

func TestEnhanced_Deterministic(t *testing.T) {
	Convey("Given a model trained on a small league", t, func() {
		results := []model.Result{
			model.NewResult(model.NewFixture("A", "B"), 1, 1, 2019),
			model.NewResult(model.NewFixture("B", "C"), 0, 2, 2020),
			model.NewResult(model.NewFixture("C", "A"), 3, 1, 2021),
			model.NewResult(model.NewFixture("A", "C"), 0, 0, 2021),
		}
		p := prediction.NewEnhanced(training.Train(results))
		fixtures := []model.Fixture{
			model.NewFixture("A", "B"), model.NewFixture("B", "A"),
			model.NewFixture("C", "B"), model.NewFixture("D", "A"),
		}

		Convey("Then concurrent repeated predictions should agree", func() {
			want := make([]model.Prediction, len(fixtures))
			for i, f := range fixtures {
				want[i] = p.Predict(f)
				So(want[i].Outcome.Valid(), ShouldBeTrue)
			}

			var wg sync.WaitGroup
			got := make([][]model.Prediction, 8)
			for g := range got {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for _, f := range fixtures {
						got[g] = append(got[g], p.Predict(f))
					}
				}(g)
			}
			wg.Wait()

			for _, preds := range got {
				So(preds, ShouldResemble, want)
			}
		})
	})
}
