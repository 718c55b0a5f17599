package evaluation

import "github.com/okian/matchpredictor/pkg/logger"

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithWorkerCount sets the number of concurrent prediction workers.
// Non-positive values use one worker per CPU.
func WithWorkerCount(n int) Option {
	return func(e *Evaluator) {
		e.workers = n
	}
}

// WithLogger sets the evaluation logger.
func WithLogger(l logger.Logger) Option {
	return func(e *Evaluator) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithQueueSize bounds the number of validation jobs buffered ahead of the
// workers. Non-positive values buffer the whole validation set.
func WithQueueSize(n int) Option {
	return func(e *Evaluator) {
		e.queueSize = n
	}
}
