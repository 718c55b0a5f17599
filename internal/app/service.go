// Package service wires loading, training, evaluation and prediction
// together and implements the dependencies required by the HTTP API.
package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"github.com/okian/matchpredictor/internal/adapters/results"
	"github.com/okian/matchpredictor/internal/domain/model"
	"github.com/okian/matchpredictor/internal/domain/prediction"
	"github.com/okian/matchpredictor/internal/domain/training"
	"github.com/okian/matchpredictor/internal/domain/types"
	"github.com/okian/matchpredictor/internal/evaluation"
	"github.com/okian/matchpredictor/pkg/logger"
	"github.com/okian/matchpredictor/pkg/metrics"
)

// Service owns the trained model and answers prediction queries.
type Service struct {
	mu sync.RWMutex

	// Configuration
	resultsPaths     []string
	results          []model.Result
	resultsSet       bool
	league           string
	validationSeason int
	recentWindow     int
	signalWeights    map[string]int
	workerCount      int
	queueSize        int
	dedupeSize       int

	// State, replaced as a whole by Start
	model     *training.Model
	predictor *prediction.Enhanced
	report    *evaluation.Report
	names     map[string]string // team key -> display name
	started   bool
	startedAt time.Time

	logger logger.Logger
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		recentWindow: training.DefaultRecentWindow,
		workerCount:  runtime.NumCPU(),
		dedupeSize:   500_000,
		logger:       logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start loads results, trains the model and, when the validation season has
// data, measures the predictor's accuracy on it.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting match predictor service...")

	all, err := s.load(ctx)
	if err != nil {
		metrics.RecordErrorByComponent("service", "load_results")
		return err
	}

	train, validation := all, []model.Result(nil)
	if s.validationSeason > 0 {
		train, validation = results.Split(all, s.validationSeason)
	}

	m := training.Train(train,
		training.WithRecentWindow(s.recentWindow),
		training.WithLogger(s.logger.Named("trainer")),
	)
	p := prediction.NewEnhanced(m, prediction.WithWeightsFromConfig(s.signalWeights))

	var report *evaluation.Report
	if len(validation) > 0 {
		ev := evaluation.New(p,
			evaluation.WithWorkerCount(s.workerCount),
			evaluation.WithQueueSize(s.queueSize),
			evaluation.WithLogger(s.logger.Named("evaluation")),
		)
		rep, err := ev.MeasureAccuracy(ctx, validation)
		if err != nil {
			return fmt.Errorf("evaluate season %d: %w", s.validationSeason, err)
		}
		report = &rep
	}

	s.model = m
	s.predictor = p
	s.report = report
	s.names = displayNames(train)
	s.started = true
	s.startedAt = time.Now()

	fields := []logger.Field{
		logger.String("model_id", m.ID()),
		logger.Int("training_results", len(train)),
		logger.Int("validation_results", len(validation)),
		logger.Any("recent_seasons", m.RecentSeasons()),
	}
	if report != nil {
		fields = append(fields, logger.Float64("accuracy", report.Accuracy))
	}
	s.logger.Info(ctx, "match predictor service started", fields...)

	return nil
}

func (s *Service) load(ctx context.Context) ([]model.Result, error) {
	if s.resultsSet {
		return s.results, nil
	}
	all, err := results.Load(ctx, s.resultsPaths,
		results.WithLeague(s.league),
		results.WithDedupeSize(s.dedupeSize),
		results.WithLogger(s.logger.Named("results")),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadResults, err)
	}
	return all, nil
}

// displayNames maps every team key to the first spelling seen for it.
func displayNames(rs []model.Result) map[string]string {
	names := make(map[string]string)
	add := func(t model.Team) {
		if _, ok := names[t.Key()]; !ok {
			names[t.Key()] = t.Name
		}
	}
	for _, r := range rs {
		add(r.Fixture.Home)
		add(r.Fixture.Away)
	}
	return names
}

// Stop marks the service as stopped. Queries fail with ErrNotStarted until
// Start is called again.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}
	s.started = false
	s.logger.Info(context.Background(), "match predictor service stopped")
}

// Predict scores the fixture home vs away. League is carried on the fixture
// for reporting; the model itself is trained on the configured league.
func (s *Service) Predict(ctx context.Context, home, away, league string) (prediction.Ballot, error) {
	s.mu.RLock()
	p, started := s.predictor, s.started
	s.mu.RUnlock()

	if !started {
		return prediction.Ballot{}, ErrNotStarted
	}
	home, away = strings.TrimSpace(home), strings.TrimSpace(away)
	if home == "" || away == "" {
		return prediction.Ballot{}, ErrInvalidFixture
	}

	start := time.Now()
	f := model.NewFixture(home, away)
	f.League = strings.TrimSpace(league)
	b := p.Score(f)

	decision := "vote"
	if b.Fallback {
		decision = "fallback"
	}
	metrics.RecordPrediction(b.Prediction.Outcome.String(), decision)
	for _, v := range b.Votes {
		metrics.RecordSignalHit(string(v.Signal))
	}
	metrics.RecordPredictionLatency(float64(time.Since(start).Microseconds()) / 1000)

	s.logger.Debug(ctx, "prediction",
		logger.String("home", home),
		logger.String("away", away),
		logger.String("outcome", b.Prediction.Outcome.String()),
		logger.Bool("fallback", b.Fallback),
	)
	return b, nil
}

// Teams returns the recent form table, best first. n <= 0 returns every team.
func (s *Service) Teams(_ context.Context, n int) ([]types.TeamForm, error) {
	s.mu.RLock()
	m, names, started := s.model, s.names, s.started
	s.mu.RUnlock()

	if !started {
		return nil, ErrNotStarted
	}

	keys := m.FormTeams()
	rows := make([]types.TeamForm, 0, len(keys))
	for _, k := range keys {
		wr, _ := m.WinRate(k)
		gd, _ := m.GoalDiff(k)
		name := names[k]
		if name == "" {
			name = k
		}
		rows = append(rows, types.TeamForm{Team: name, WinRate: wr, GoalDiff: gd})
	}
	types.RankForms(rows)

	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows, nil
}

// Report returns the accuracy measured on Start, if a validation season had data.
func (s *Service) Report() (evaluation.Report, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.report == nil {
		return evaluation.Report{}, false
	}
	return *s.report, true
}

// ModelID returns the id of the trained model, or "" before Start.
func (s *Service) ModelID() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.model == nil {
		return ""
	}
	return s.model.ID()
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]any{
		"started":           s.started,
		"league":            s.league,
		"validation_season": s.validationSeason,
		"recent_window":     s.recentWindow,
		"worker_count":      s.workerCount,
	}

	if s.started {
		stats["uptime_seconds"] = time.Since(s.startedAt).Seconds()
		stats["model"] = s.model.Stats()
		stats["weights"] = s.predictor.Weights()
		if s.report != nil {
			stats["evaluation"] = *s.report
		}
	}

	return stats
}
