package prediction

import (
	"github.com/okian/matchpredictor/internal/domain/model"
)

// Tables is the read-only view of a trained model the vote needs.
// *training.Model implements it.
type Tables interface {
	PairMajority(home, away string) (model.Outcome, bool)
	HomeMajority(team string) (model.Outcome, bool)
	AwayMajority(team string) (model.Outcome, bool)
	WinRate(team string) (float64, bool)
	GoalDiff(team string) (float64, bool)
}

// Scores holds the vote total of each outcome.
type Scores struct {
	Home int `json:"home"`
	Away int `json:"away"`
	Draw int `json:"draw"`
}

// Of returns the score of o.
func (s Scores) Of(o model.Outcome) int {
	switch o {
	case model.Home:
		return s.Home
	case model.Away:
		return s.Away
	case model.Draw:
		return s.Draw
	default:
		return 0
	}
}

func (s *Scores) add(o model.Outcome, weight int) {
	switch o {
	case model.Home:
		s.Home += weight
	case model.Away:
		s.Away += weight
	case model.Draw:
		s.Draw += weight
	}
}

// leader returns the outcome with the strictly highest score. ok is false
// when two or more outcomes share the maximum.
func (s Scores) leader() (model.Outcome, bool) {
	var best model.Outcome
	bestScore, ties := -1, 0
	for _, o := range model.Outcomes {
		switch v := s.Of(o); {
		case v > bestScore:
			best, bestScore, ties = o, v, 1
		case v == bestScore:
			ties++
		}
	}
	return best, ties == 1
}

// Vote is one signal's contribution to a ballot.
type Vote struct {
	Signal  Signal        `json:"signal"`
	Outcome model.Outcome `json:"outcome"`
	Weight  int           `json:"weight"`
}

// Ballot explains how a prediction was reached.
type Ballot struct {
	Prediction model.Prediction `json:"-"`
	Scores     Scores           `json:"scores"`
	Votes      []Vote           `json:"votes"`
	Fallback   bool             `json:"fallback"`
}

// Enhanced predicts by weighted voting over five heuristics read from a
// trained model, deferring to a fallback predictor on ties.
type Enhanced struct {
	tables   Tables
	weights  Weights
	fallback Predictor
}

// NewEnhanced builds a voting predictor over t.
func NewEnhanced(t Tables, opts ...Option) *Enhanced {
	e := &Enhanced{
		tables:   t,
		weights:  DefaultWeights(),
		fallback: Alphabet{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Weights returns the weights in use.
func (e *Enhanced) Weights() Weights { return e.weights }

// Predict implements Predictor.
func (e *Enhanced) Predict(f model.Fixture) model.Prediction {
	return e.Score(f).Prediction
}

// Score runs the vote for f and reports every contribution.
func (e *Enhanced) Score(f model.Fixture) Ballot {
	home, away := f.Home.Key(), f.Away.Key()
	var b Ballot

	cast := func(s Signal, o model.Outcome) {
		w := e.weights.Of(s)
		b.Scores.add(o, w)
		b.Votes = append(b.Votes, Vote{Signal: s, Outcome: o, Weight: w})
	}

	if o, ok := e.tables.PairMajority(home, away); ok {
		cast(SignalPair, o)
	}
	if o, ok := e.tables.HomeMajority(home); ok {
		cast(SignalHome, o)
	}
	if o, ok := e.tables.AwayMajority(away); ok {
		cast(SignalAway, o)
	}
	if o, ok := compare(e.tables.WinRate, home, away); ok {
		cast(SignalWinRate, o)
	}
	if o, ok := compare(e.tables.GoalDiff, home, away); ok {
		cast(SignalGoalDiff, o)
	}

	if o, ok := b.Scores.leader(); ok {
		b.Prediction = model.Prediction{Outcome: o}
		return b
	}
	b.Fallback = true
	b.Prediction = e.fallback.Predict(f)
	return b
}

// compare looks both teams up in a numeric table and votes for the side with
// the higher value. Missing teams and exact equality cast no vote.
func compare(lookup func(string) (float64, bool), home, away string) (model.Outcome, bool) {
	h, ok := lookup(home)
	if !ok {
		return 0, false
	}
	a, ok := lookup(away)
	if !ok {
		return 0, false
	}
	switch {
	case h > a:
		return model.Home, true
	case h < a:
		return model.Away, true
	default:
		return 0, false
	}
}
