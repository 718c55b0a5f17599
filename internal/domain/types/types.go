// Package types contains common types used across the application
package types

import (
	"cmp"
	"slices"
)

// TeamForm is one row of the recent form table.
type TeamForm struct {
	Rank     int     `json:"rank"`
	Team     string  `json:"team"`
	WinRate  float64 `json:"win_rate"`
	GoalDiff float64 `json:"goal_diff"`
}

// RankForms orders rows by win rate, then goal differential (both
// descending), then team name, and numbers them from 1.
func RankForms(rows []TeamForm) {
	slices.SortFunc(rows, func(a, b TeamForm) int {
		if c := cmp.Compare(b.WinRate, a.WinRate); c != 0 {
			return c
		}
		if c := cmp.Compare(b.GoalDiff, a.GoalDiff); c != 0 {
			return c
		}
		return cmp.Compare(a.Team, b.Team)
	})
	for i := range rows {
		rows[i].Rank = i + 1
	}
}
