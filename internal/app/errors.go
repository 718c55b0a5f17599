package service

import "errors"

var (
	// ErrNotStarted is returned by queries made before Start completes.
	ErrNotStarted = errors.New("service not started")
	// ErrInvalidFixture is returned when a team name is missing.
	ErrInvalidFixture = errors.New("home and away teams are required")
	// ErrLoadResults wraps failures reading historical results.
	ErrLoadResults = errors.New("load results failed")
)
