package results

import (
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/okian/matchpredictor/pkg/logger"
)

// Option configures a Load call.
type Option func(*loader)

// WithLeague keeps only results from the named league. Matching ignores case.
func WithLeague(name string) Option {
	return func(l *loader) {
		l.league = strings.ToLower(strings.TrimSpace(name))
	}
}

// WithDedupeSize bounds the number of row identities remembered while
// dropping duplicates. Non-positive means unbounded.
func WithDedupeSize(n int) Option {
	return func(l *loader) {
		l.dedupeSize = n
	}
}

// WithLogger sets the logger used for load progress.
func WithLogger(lg logger.Logger) Option {
	return func(l *loader) {
		if lg != nil {
			l.logger = lg
		}
	}
}

// WithFetchTimeout sets the timeout for downloading remote results files.
func WithFetchTimeout(d time.Duration) Option {
	return func(l *loader) {
		if d > 0 {
			l.client = newHTTPClient(d)
		}
	}
}

// WithHTTPClient sets the client used for remote results files.
func WithHTTPClient(c *resty.Client) Option {
	return func(l *loader) {
		if c != nil {
			l.client = c
		}
	}
}
