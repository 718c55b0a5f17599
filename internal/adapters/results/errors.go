package results

import "errors"

var (
	// ErrLoadResults is returned when a results file cannot be read.
	ErrLoadResults = errors.New("failed to load results")
	// ErrMissingColumn is returned when a required CSV column is absent.
	ErrMissingColumn = errors.New("missing required column")
	// ErrNoPaths is returned when Load is called without any file.
	ErrNoPaths = errors.New("no results paths configured")
)
