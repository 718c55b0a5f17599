// Package training aggregates historical results into the immutable lookup
// tables the predictor votes with.
package training

import (
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/matchpredictor/internal/domain/model"
)

// Table names, as reported by Stats and exported as metric labels.
const (
	TablePairMajority = "pair_majority"
	TableHomeMajority = "home_majority"
	TableAwayMajority = "away_majority"
	TableWinRate      = "team_win_rate"
	TableGoalDiff     = "team_goal_diff"
)

// pairKey identifies an exact (home, away) pairing by normalised names.
type pairKey struct {
	home string
	away string
}

// Model is the frozen output of Train. It is never mutated after Train
// returns, so it may be shared by concurrent readers without locking.
type Model struct {
	id        uuid.UUID
	trainedAt time.Time
	results   int

	pairMajority map[pairKey]model.Outcome
	homeMajority map[string]model.Outcome
	awayMajority map[string]model.Outcome
	winRate      map[string]float64
	goalDiff     map[string]float64

	recentSeasons []int
}

// Stats summarises a model for logs, metrics and the stats endpoint.
type Stats struct {
	ID            string         `json:"id"`
	TrainedAt     time.Time      `json:"trained_at"`
	Results       int            `json:"results"`
	RecentSeasons []int          `json:"recent_seasons"`
	Tables        map[string]int `json:"tables"`
}

func key(name string) string {
	return strings.ToLower(name)
}

// ID returns the identifier assigned when the model was trained.
func (m *Model) ID() string { return m.id.String() }

// TrainedAt returns the time the model was built.
func (m *Model) TrainedAt() time.Time { return m.trainedAt }

// PairMajority returns the most frequent outcome for the exact pairing.
func (m *Model) PairMajority(home, away string) (model.Outcome, bool) {
	o, ok := m.pairMajority[pairKey{home: key(home), away: key(away)}]
	return o, ok
}

// HomeMajority returns the most frequent outcome of team's home games.
func (m *Model) HomeMajority(team string) (model.Outcome, bool) {
	o, ok := m.homeMajority[key(team)]
	return o, ok
}

// AwayMajority returns the most frequent outcome of team's away games.
func (m *Model) AwayMajority(team string) (model.Outcome, bool) {
	o, ok := m.awayMajority[key(team)]
	return o, ok
}

// WinRate returns team's mean win score over the recent seasons.
func (m *Model) WinRate(team string) (float64, bool) {
	v, ok := m.winRate[key(team)]
	return v, ok
}

// GoalDiff returns team's mean goal differential over the recent seasons.
func (m *Model) GoalDiff(team string) (float64, bool) {
	v, ok := m.goalDiff[key(team)]
	return v, ok
}

// RecentSeasons returns the seasons that fed the form tables, newest first.
func (m *Model) RecentSeasons() []int {
	return slices.Clone(m.recentSeasons)
}

// FormTeams returns the normalised names of every team with recent form data,
// sorted.
func (m *Model) FormTeams() []string {
	teams := make([]string, 0, len(m.winRate))
	for t := range m.winRate {
		teams = append(teams, t)
	}
	slices.Sort(teams)
	return teams
}

// Stats returns the size of every table.
func (m *Model) Stats() Stats {
	return Stats{
		ID:            m.ID(),
		TrainedAt:     m.trainedAt,
		Results:       m.results,
		RecentSeasons: m.RecentSeasons(),
		Tables: map[string]int{
			TablePairMajority: len(m.pairMajority),
			TableHomeMajority: len(m.homeMajority),
			TableAwayMajority: len(m.awayMajority),
			TableWinRate:      len(m.winRate),
			TableGoalDiff:     len(m.goalDiff),
		},
	}
}
