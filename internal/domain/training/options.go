package training

import "github.com/okian/matchpredictor/pkg/logger"

// DefaultRecentWindow is the number of most recent seasons that feed the
// win-rate and goal-difference tables.
const DefaultRecentWindow = 3

// Option applies a configuration option to a training run.
type Option func(*trainer)

// WithRecentWindow sets how many of the most recent seasons feed the form
// tables. Values below one are ignored.
func WithRecentWindow(seasons int) Option {
	return func(t *trainer) {
		if seasons > 0 {
			t.window = seasons
		}
	}
}

// WithLogger sets the logger a training run reports to.
func WithLogger(l logger.Logger) Option {
	return func(t *trainer) {
		if l != nil {
			t.logger = l
		}
	}
}
