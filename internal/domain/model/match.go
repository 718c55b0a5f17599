// Package model contains domain models passed between layers.
package model

import "strings"

// Team identifies a club by name. Identity is case-insensitive.
type Team struct {
	Name string
}

// NewTeam builds a Team from a raw name as it appears in the source data.
func NewTeam(name string) Team {
	return Team{Name: strings.TrimSpace(name)}
}

// Key returns the lowercase lookup key for the team. Surrounding spaces are
// significant here; NewTeam strips them from raw input.
func (t Team) Key() string {
	return strings.ToLower(t.Name)
}

// Fixture is a pairing of a home and an away team.
type Fixture struct {
	Home   Team
	Away   Team
	League string // used for filtering only
}

// NewFixture builds a Fixture from raw team names.
func NewFixture(home, away string) Fixture {
	return Fixture{Home: NewTeam(home), Away: NewTeam(away)}
}

// Result is a played fixture.
type Result struct {
	Fixture   Fixture
	Outcome   Outcome
	HomeGoals int
	AwayGoals int
	Season    int
}

// NewResult builds a Result whose outcome is derived from the score line.
func NewResult(f Fixture, homeGoals, awayGoals, season int) Result {
	return Result{
		Fixture:   f,
		Outcome:   OutcomeFromGoals(homeGoals, awayGoals),
		HomeGoals: homeGoals,
		AwayGoals: awayGoals,
		Season:    season,
	}
}

// Prediction is the single discrete outcome predicted for a fixture.
type Prediction struct {
	Outcome Outcome
}
