// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config holding every default.
// - Load(ctx) layers an optional YAML file and MATCHPREDICTOR_ env vars on top.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"fmt"
	"runtime"
	"slices"
	"strings"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log encoding: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// ResultsPaths lists the CSV files holding historical results.
	ResultsPaths []string `koanf:"results_paths"`

	// League restricts training to one competition. Empty keeps all leagues.
	League string `koanf:"league"`

	// ValidationSeason is held out of training and used to measure accuracy.
	ValidationSeason int `koanf:"validation_season"`

	// RecentWindow is the number of latest seasons feeding the form tables.
	RecentWindow int `koanf:"recent_window"`

	// WorkerCount sets the number of evaluation workers.
	WorkerCount int `koanf:"worker_count"`

	// QueueSize bounds the evaluation job queue.
	QueueSize int `koanf:"queue_size"`

	// DedupeSize bounds the duplicate-row cache used while loading results.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxTeamsLimit caps GET /teams?limit.
	MaxTeamsLimit int `koanf:"max_teams_limit"`

	// SignalWeights overrides the vote weight of individual signals
	// (pair, home, away, win_rate, goal_diff).
	SignalWeights map[string]int `koanf:"signal_weights"`

	// MetricsNamespace prefixes every exported metric name.
	MetricsNamespace string `koanf:"metrics_namespace"`

	// MetricsLatencyBucketsMs overrides the latency histogram buckets.
	// Empty keeps the built-in buckets.
	MetricsLatencyBucketsMs []float64 `koanf:"metrics_latency_buckets_ms"`
}

var knownSignals = map[string]bool{
	"pair":      true,
	"home":      true,
	"away":      true,
	"win_rate":  true,
	"goal_diff": true,
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		LogFormat:        "text",
		Addr:             ":9080",
		ResultsPaths:     []string{"data/spi_matches.csv"},
		League:           "Barclays Premier League",
		ValidationSeason: 2021,
		RecentWindow:     3,
		WorkerCount:      runtime.NumCPU(),
		QueueSize:        10_000,
		DedupeSize:       500_000,
		MaxTeamsLimit:    100,
		SignalWeights: map[string]int{
			"pair":      3,
			"home":      2,
			"away":      2,
			"win_rate":  1,
			"goal_diff": 1,
		},
		MetricsNamespace: "matchpredictor",
	}
}

// Validate reports the first invalid field.
func (c *Config) Validate() error {
	switch {
	case c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case len(c.ResultsPaths) == 0:
		return fmt.Errorf("%w: results_paths must not be empty", ErrInvalidConfig)
	case c.RecentWindow < 1:
		return fmt.Errorf("%w: recent_window must be at least 1, got %d", ErrInvalidConfig, c.RecentWindow)
	case c.MaxTeamsLimit < 1:
		return fmt.Errorf("%w: max_teams_limit must be positive, got %d", ErrInvalidConfig, c.MaxTeamsLimit)
	case c.QueueSize < 0:
		return fmt.Errorf("%w: queue_size must not be negative", ErrInvalidConfig)
	case !slices.IsSorted(c.MetricsLatencyBucketsMs):
		return fmt.Errorf("%w: metrics_latency_buckets_ms must be ascending", ErrInvalidConfig)
	}
	for name, w := range c.SignalWeights {
		if !knownSignals[name] {
			return fmt.Errorf("%w: %w %q in signal_weights", ErrInvalidConfig, ErrUnknownSignal, name)
		}
		if w < 1 {
			return fmt.Errorf("%w: signal weight %s must be positive, got %d", ErrInvalidConfig, name, w)
		}
	}
	return nil
}
