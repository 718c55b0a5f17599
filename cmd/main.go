package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/matchpredictor/internal/adapters/http/api"
	"github.com/okian/matchpredictor/internal/adapters/http/swagger"
	app "github.com/okian/matchpredictor/internal/app"
	"github.com/okian/matchpredictor/internal/config"
	"github.com/okian/matchpredictor/pkg/logger"
	"github.com/okian/matchpredictor/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
	dotEnvFile                = ".env"
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	log := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Optional .env file feeds the environment layer
	if err := config.LoadDotEnv(dotEnvFile); err != nil {
		log.Warn(ctx, "ignoring .env file", logger.Error(err))
	}

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		log.Error(ctx, "failed to load config", logger.Error(err))
		return
	}

	// Rebuild logging and metrics from configuration before anything records.
	if err := logger.Init(loggerOptions(cfg)...); err != nil {
		log.Error(ctx, "failed to configure logging", logger.Error(err))
		return
	}
	log = logger.Get()
	metrics.Configure(metricsOptions(cfg)...)

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := newService(cfg, log)
	if err := svc.Start(ctx); err != nil {
		log.Error(ctx, "failed to start service", logger.Error(err))
		return
	}
	defer svc.Stop()

	go every(ctx, systemMetricsInterval, updateSystemMetrics)
	go every(ctx, serviceMetricsInterval, func() { updateServiceMetrics(svc) })

	mux, err := newMux(svc, cfg)
	if err != nil {
		log.Error(ctx, "failed to register routes", logger.Error(err))
		return
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		log.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	log.Info(ctx, "server stopped")
}

func loggerOptions(cfg *config.Config) []logger.Option {
	return []logger.Option{logger.WithJSON(cfg.LogFormat == "json")}
}

// metricsOptions labels every metric with the league the model predicts.
func metricsOptions(cfg *config.Config) []metrics.Option {
	opts := []metrics.Option{
		metrics.WithNames(cfg.MetricsNamespace, ""),
		metrics.WithLatencyBuckets(cfg.MetricsLatencyBucketsMs...),
	}
	if cfg.League != "" {
		opts = append(opts, metrics.WithConstLabel("league", cfg.League))
	}
	return opts
}

// newService maps configuration onto service options.
func newService(cfg *config.Config, log logger.Logger) *app.Service {
	return app.New(
		app.WithLogger(log),
		app.WithResultsPaths(cfg.ResultsPaths...),
		app.WithLeague(cfg.League),
		app.WithValidationSeason(cfg.ValidationSeason),
		app.WithRecentWindow(cfg.RecentWindow),
		app.WithSignalWeights(cfg.SignalWeights),
		app.WithWorkerCount(cfg.WorkerCount),
		app.WithQueueSize(cfg.QueueSize),
		app.WithDedupeSize(cfg.DedupeSize),
	)
}

// newMux registers the documentation and business routes.
func newMux(svc *app.Service, cfg *config.Config) (*http.ServeMux, error) {
	mux := http.NewServeMux()
	if err := swagger.Register(mux); err != nil {
		return nil, fmt.Errorf("api docs: %w", err)
	}
	api.NewServer(svc, svc, api.WithMaxTeamsLimit(cfg.MaxTeamsLimit)).Register(mux)
	return mux, nil
}

// every calls fn on each tick of interval until ctx is done.
func every(ctx context.Context, interval time.Duration, fn func()) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			fn()
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics republishes the last evaluation so the gauge survives
// registry resets between scrapes.
func updateServiceMetrics(svc *app.Service) {
	if rep, ok := svc.Report(); ok {
		metrics.UpdateEvaluationAccuracy(rep.Accuracy)
	}
}
