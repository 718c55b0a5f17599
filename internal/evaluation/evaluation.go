// Package evaluation measures how often a predictor matches real results.
package evaluation

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/okian/matchpredictor/internal/adapters/mq/queue"
	"github.com/okian/matchpredictor/internal/adapters/mq/worker"
	"github.com/okian/matchpredictor/internal/domain/model"
	"github.com/okian/matchpredictor/internal/domain/prediction"
	"github.com/okian/matchpredictor/pkg/logger"
	"github.com/okian/matchpredictor/pkg/metrics"
)

const (
	backpressureDelay = time.Millisecond
	shutdownTimeout   = 5 * time.Second
)

// ErrQueueRejected is returned when the job queue refuses a result.
var ErrQueueRejected = errors.New("queue rejected job")

// OutcomeStats breaks accuracy down for one actual outcome.
type OutcomeStats struct {
	Actual    int `json:"actual"`
	Predicted int `json:"predicted"`
	Correct   int `json:"correct"`
}

// Report summarizes an accuracy run.
type Report struct {
	Accuracy  float64                        `json:"accuracy"`
	Correct   int                            `json:"correct"`
	Total     int                            `json:"total"`
	ByOutcome map[model.Outcome]OutcomeStats `json:"by_outcome"`
	Duration  time.Duration                  `json:"duration_ns"`
}

// Evaluator replays validation results through a predictor.
type Evaluator struct {
	predictor prediction.Predictor
	workers   int
	queueSize int
	logger    logger.Logger
}

// New creates an Evaluator for p.
func New(p prediction.Predictor, opts ...Option) *Evaluator {
	e := &Evaluator{
		predictor: p,
		logger:    logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MeasureAccuracy predicts every result's fixture and compares it with the
// recorded outcome. An empty input yields a zero report.
func (e *Evaluator) MeasureAccuracy(ctx context.Context, results []model.Result) (Report, error) {
	start := time.Now()
	rep := Report{ByOutcome: make(map[model.Outcome]OutcomeStats, len(model.Outcomes))}
	if len(results) == 0 {
		metrics.UpdateEvaluationAccuracy(0)
		return rep, nil
	}

	capacity := len(results)
	if e.queueSize > 0 && e.queueSize < capacity {
		capacity = e.queueSize
	}
	q := queue.NewInMemoryQueue(queue.WithCapacity(capacity))

	s := &sink{report: &rep}
	pool := worker.NewPool(e.workers, q, e.predictor, s, worker.WithLogger(e.logger))
	pool.Start(ctx)

	if err := e.produce(ctx, q, capacity, results); err != nil {
		e.stop(ctx, pool)
		return Report{}, err
	}
	pool.Wait()
	if err := ctx.Err(); err != nil {
		return Report{}, err
	}

	rep.Total = len(results)
	for _, r := range results {
		st := rep.ByOutcome[r.Outcome]
		st.Actual++
		rep.ByOutcome[r.Outcome] = st
	}
	rep.Accuracy = float64(rep.Correct) / float64(rep.Total)
	rep.Duration = time.Since(start)

	metrics.UpdateEvaluationAccuracy(rep.Accuracy)
	e.logger.Info(ctx, "evaluation complete",
		logger.Int("total", rep.Total),
		logger.Int("correct", rep.Correct),
		logger.Float64("accuracy", rep.Accuracy),
		logger.Int("workers", pool.Size()),
		logger.Duration("duration", rep.Duration),
	)
	return rep, nil
}

// stop abandons a run: workers finish their current job and exit without
// draining the rest of the queue.
func (e *Evaluator) stop(ctx context.Context, pool *worker.Pool) {
	stopCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := pool.Shutdown(stopCtx); err != nil {
		e.logger.Warn(ctx, "evaluation workers did not stop", logger.Error(err))
	}
	pool.Wait()
}

// produce feeds results to q and closes it. It is the only producer, so a
// queue below capacity always accepts the next job.
func (e *Evaluator) produce(ctx context.Context, q *queue.InMemoryQueue, capacity int, results []model.Result) error {
	defer func() { _ = q.Close() }()

	for i, r := range results {
		for q.Len(ctx) >= capacity {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backpressureDelay):
			}
		}
		if !q.Enqueue(ctx, queue.Job{Seq: i, Result: r}) {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fmt.Errorf("enqueue result %d: %w", i, ErrQueueRejected)
		}
	}
	return nil
}

type sink struct {
	mu     sync.Mutex
	report *Report
}

func (s *sink) Record(_ context.Context, _ int, r model.Result, p model.Prediction) {
	correct := p.Outcome == r.Outcome
	metrics.RecordEvaluation(correct)

	s.mu.Lock()
	defer s.mu.Unlock()

	st := s.report.ByOutcome[p.Outcome]
	st.Predicted++
	s.report.ByOutcome[p.Outcome] = st
	if correct {
		s.report.Correct++
		st = s.report.ByOutcome[r.Outcome]
		st.Correct++
		s.report.ByOutcome[r.Outcome] = st
	}
}
