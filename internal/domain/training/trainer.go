package training

import (
	"context"
	"slices"
	"time"

	"github.com/google/uuid"

	"github.com/okian/matchpredictor/internal/domain/model"
	"github.com/okian/matchpredictor/pkg/logger"
	"github.com/okian/matchpredictor/pkg/metrics"
)

// Win-rate contributions per outcome, seen from the home side.
const (
	winScore  = 1.0
	drawScore = 0.5
	lossScore = 0.0
)

type trainer struct {
	window int
	logger logger.Logger
}

// Train builds a Model from historical results. Majority tables use every
// result; win-rate and goal-difference tables use only the most recent
// seasons. Results with an invalid outcome are ignored.
func Train(results []model.Result, opts ...Option) *Model {
	t := &trainer{
		window: DefaultRecentWindow,
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t.train(results)
}

func (t *trainer) train(results []model.Result) *Model {
	start := time.Now()

	pairs := make(map[pairKey]*tally)
	homes := make(map[string]*tally)
	aways := make(map[string]*tally)
	winRates := make(map[string]*mean)
	goalDiffs := make(map[string]*mean)

	recent := t.recentSeasons(results)
	inWindow := make(map[int]struct{}, len(recent))
	for _, s := range recent {
		inWindow[s] = struct{}{}
	}

	used := 0
	for i := range results {
		r := &results[i]
		if !r.Outcome.Valid() {
			continue
		}
		used++
		home := r.Fixture.Home.Key()
		away := r.Fixture.Away.Key()

		tallyFor(pairs, pairKey{home: home, away: away}).add(r.Outcome)
		tallyFor(homes, home).add(r.Outcome)
		tallyFor(aways, away).add(r.Outcome)

		if _, ok := inWindow[r.Season]; !ok {
			continue
		}
		homeScore := homeWinScore(r.Outcome)
		meanFor(winRates, home).add(homeScore)
		meanFor(winRates, away).add(winScore - homeScore)

		diff := float64(r.HomeGoals - r.AwayGoals)
		meanFor(goalDiffs, home).add(diff)
		meanFor(goalDiffs, away).add(-diff)
	}

	m := &Model{
		id:            uuid.New(),
		trainedAt:     time.Now(),
		results:       used,
		pairMajority:  majorities(pairs),
		homeMajority:  majorities(homes),
		awayMajority:  majorities(aways),
		winRate:       means(winRates),
		goalDiff:      means(goalDiffs),
		recentSeasons: recent,
	}

	took := time.Since(start)
	metrics.RecordTraining(float64(took.Microseconds())/1000, used, m.trainedAt.Unix())
	stats := m.Stats()
	for table, n := range stats.Tables {
		metrics.UpdateModelTableSize(table, n)
	}
	t.logger.Debug(context.Background(), "model trained",
		logger.String("model_id", stats.ID),
		logger.Int("results", used),
		logger.Int("ignored", len(results)-used),
		logger.Any("recent_seasons", recent),
		logger.Duration("took", took),
	)
	return m
}

// recentSeasons returns {max, max-1, ...} for the configured window, newest
// first, where max is the largest season among results with a valid
// outcome. The window counts season numbers back from max, so a gap in the
// data shrinks it.
func (t *trainer) recentSeasons(results []model.Result) []int {
	latest, found := 0, false
	for i := range results {
		if !results[i].Outcome.Valid() {
			continue
		}
		if !found || results[i].Season > latest {
			latest, found = results[i].Season, true
		}
	}
	if !found {
		return nil
	}
	seasons := make([]int, 0, t.window)
	for s := latest; s > latest-t.window; s-- {
		seasons = append(seasons, s)
	}
	return slices.Clip(seasons)
}

func homeWinScore(o model.Outcome) float64 {
	switch o {
	case model.Home:
		return winScore
	case model.Away:
		return lossScore
	default:
		return drawScore
	}
}

func tallyFor[K comparable](m map[K]*tally, k K) *tally {
	t, ok := m[k]
	if !ok {
		t = &tally{}
		m[k] = t
	}
	return t
}

func meanFor(m map[string]*mean, k string) *mean {
	v, ok := m[k]
	if !ok {
		v = &mean{}
		m[k] = v
	}
	return v
}

func majorities[K comparable](in map[K]*tally) map[K]model.Outcome {
	out := make(map[K]model.Outcome, len(in))
	for k, t := range in {
		out[k] = t.majority()
	}
	return out
}

func means(in map[string]*mean) map[string]float64 {
	out := make(map[string]float64, len(in))
	for k, v := range in {
		out[k] = v.value()
	}
	return out
}
