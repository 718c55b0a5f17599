package service

import (
	"maps"

	"github.com/okian/matchpredictor/internal/domain/model"
	"github.com/okian/matchpredictor/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithResultsPaths sets the CSV files read on Start.
func WithResultsPaths(paths ...string) Option {
	return func(s *Service) {
		s.resultsPaths = append([]string(nil), paths...)
	}
}

// WithResults trains on the given results instead of reading files. The
// results are used as given, without league filtering or deduplication.
func WithResults(results []model.Result) Option {
	return func(s *Service) {
		s.results = append([]model.Result(nil), results...)
		s.resultsSet = true
	}
}

// WithLeague restricts loaded results to one league. Empty keeps all.
func WithLeague(league string) Option {
	return func(s *Service) {
		s.league = league
	}
}

// WithValidationSeason holds one season out of training for evaluation.
// Non-positive values train on everything and skip evaluation.
func WithValidationSeason(season int) Option {
	return func(s *Service) {
		s.validationSeason = season
	}
}

// WithRecentWindow sets how many recent seasons feed the form tables.
func WithRecentWindow(seasons int) Option {
	return func(s *Service) {
		if seasons > 0 {
			s.recentWindow = seasons
		}
	}
}

// WithSignalWeights overrides signal weights by name.
func WithSignalWeights(weights map[string]int) Option {
	return func(s *Service) {
		s.signalWeights = maps.Clone(weights)
	}
}

// WithWorkerCount sets the number of evaluation workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize bounds the evaluation job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets the size of the duplicate-row cache used while loading.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}
