// Package metrics provides Prometheus metrics for the match predictor.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the predictor service.
type Manager struct {
	namespace      string
	subsystem      string
	latencyBuckets []float64
	constLabels    prometheus.Labels
	registry       prometheus.Registerer

	// Prediction metrics
	predictions       *prometheus.CounterVec
	signalHits        *prometheus.CounterVec
	predictionLatency prometheus.Histogram

	// Training metrics
	trainingDuration prometheus.Histogram
	trainingResults  prometheus.Gauge
	modelTableSize   *prometheus.GaugeVec
	modelTrainedAt   prometheus.Gauge

	// Evaluation metrics
	evaluationAccuracy prometheus.Gauge
	evaluations        *prometheus.CounterVec

	// Data loading metrics
	resultsLoaded    prometheus.Counter
	resultsSkipped   *prometheus.CounterVec
	resultsDuplicate prometheus.Counter

	// Queue metrics
	queueSize          prometheus.Gauge
	queueCapacity      prometheus.Gauge
	queueUtilization   prometheus.Gauge
	queueEnqueueRate   prometheus.Counter
	queueDequeueRate   prometheus.Counter
	queueEnqueueErrors prometheus.Counter

	// Worker metrics
	workerActiveCount       prometheus.Gauge
	workerProcessingLatency prometheus.Histogram
	workerErrors            prometheus.Counter

	// HTTP metrics
	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Error metrics
	errorRateByComponent *prometheus.CounterVec
	errorRateByType      *prometheus.CounterVec
	errorRateByEndpoint  *prometheus.CounterVec

	// System metrics
	systemMemoryUsage    prometheus.Gauge
	systemGoroutineCount prometheus.Gauge
	systemGCPauseTime    prometheus.Histogram
}

// defaultLatencyBuckets spans a cached lookup up to a full training run, in
// milliseconds.
var defaultLatencyBuckets = []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000} //nolint:gochecknoglobals // read-only

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithRegisterer(customRegistry))
}

// Configure rebuilds the global metrics on a fresh registry with opts.
// Call it once at startup, before anything records or serves metrics.
func Configure(opts ...Option) {
	customRegistry = prometheus.NewRegistry()
	globalManager = NewManager(append(opts, WithRegisterer(customRegistry))...)
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:      "matchpredictor",
		subsystem:      "predictor",
		latencyBuckets: defaultLatencyBuckets,
		registry:       prometheus.DefaultRegisterer,
	}

	for _, opt := range opts {
		opt(m)
	}

	m.initializeMetrics()

	return m
}

func (m *Manager) counterOpts(name, help string) prometheus.CounterOpts {
	return prometheus.CounterOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) gaugeOpts(name, help string) prometheus.GaugeOpts {
	return prometheus.GaugeOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: m.constLabels,
	}
}

func (m *Manager) histogramOpts(name, help string, buckets []float64) prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Namespace:   m.namespace,
		Subsystem:   m.subsystem,
		Name:        name,
		Help:        help,
		Buckets:     buckets,
		ConstLabels: m.constLabels,
	}
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() { //nolint:funlen // long function required for comprehensive metrics initialization
	auto := promauto.With(m.registry)
	fastBuckets := []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}

	m.predictions = auto.NewCounterVec(
		m.counterOpts("predictions_total", "Total number of predictions by outcome and deciding stage"),
		[]string{"outcome", "decision"},
	)
	m.signalHits = auto.NewCounterVec(
		m.counterOpts("signal_hits_total", "Number of times each voting signal contributed to a prediction"),
		[]string{"signal"},
	)
	m.predictionLatency = auto.NewHistogram(
		m.histogramOpts("prediction_latency_milliseconds", "Latency of a single prediction in milliseconds", fastBuckets),
	)

	m.trainingDuration = auto.NewHistogram(
		m.histogramOpts("training_duration_milliseconds", "Time spent building a model in milliseconds", m.latencyBuckets),
	)
	m.trainingResults = auto.NewGauge(
		m.gaugeOpts("training_results", "Number of results the current model was trained on"),
	)
	m.modelTableSize = auto.NewGaugeVec(
		m.gaugeOpts("model_table_entries", "Number of entries per lookup table of the current model"),
		[]string{"table"},
	)
	m.modelTrainedAt = auto.NewGauge(
		m.gaugeOpts("model_trained_timestamp_seconds", "Unix time the current model was trained"),
	)

	m.evaluationAccuracy = auto.NewGauge(
		m.gaugeOpts("evaluation_accuracy_ratio", "Accuracy of the last evaluation run"),
	)
	m.evaluations = auto.NewCounterVec(
		m.counterOpts("evaluations_total", "Validation fixtures evaluated, by correctness"),
		[]string{"correct"},
	)

	m.resultsLoaded = auto.NewCounter(
		m.counterOpts("results_loaded_total", "Historical results accepted by the loader"),
	)
	m.resultsSkipped = auto.NewCounterVec(
		m.counterOpts("results_skipped_total", "Rows skipped by the loader, by reason"),
		[]string{"reason"},
	)
	m.resultsDuplicate = auto.NewCounter(
		m.counterOpts("results_duplicate_total", "Duplicate result rows dropped by the loader"),
	)

	m.queueSize = auto.NewGauge(m.gaugeOpts("queue_size", "Current size of the evaluation queue"))
	m.queueCapacity = auto.NewGauge(m.gaugeOpts("queue_capacity", "Capacity of the evaluation queue"))
	m.queueUtilization = auto.NewGauge(m.gaugeOpts("queue_utilization_ratio", "Evaluation queue utilization"))
	m.queueEnqueueRate = auto.NewCounter(m.counterOpts("queue_enqueue_total", "Jobs enqueued"))
	m.queueDequeueRate = auto.NewCounter(m.counterOpts("queue_dequeue_total", "Jobs dequeued"))
	m.queueEnqueueErrors = auto.NewCounter(m.counterOpts("queue_enqueue_errors_total", "Rejected enqueue attempts"))

	m.workerActiveCount = auto.NewGauge(m.gaugeOpts("worker_active_count", "Number of running evaluation workers"))
	m.workerProcessingLatency = auto.NewHistogram(
		m.histogramOpts("worker_processing_latency_milliseconds", "Time a worker spends on one job", fastBuckets),
	)
	m.workerErrors = auto.NewCounter(m.counterOpts("worker_errors_total", "Jobs that failed inside a worker"))

	m.httpRequests = auto.NewCounterVec(
		m.counterOpts("http_requests_total", "Total number of HTTP requests by endpoint and method"),
		[]string{"endpoint", "method", "status_code"},
	)
	m.httpRequestDuration = auto.NewHistogramVec(
		m.histogramOpts("http_request_duration_milliseconds", "HTTP request duration in milliseconds", m.latencyBuckets),
		[]string{"endpoint", "method", "status_code"},
	)

	m.errorRateByComponent = auto.NewCounterVec(
		m.counterOpts("errors_by_component_total", "Total number of errors by component"),
		[]string{"component", "error_type"},
	)
	m.errorRateByType = auto.NewCounterVec(
		m.counterOpts("errors_by_type_total", "Total number of errors by type"),
		[]string{"error_type", "severity"},
	)
	m.errorRateByEndpoint = auto.NewCounterVec(
		m.counterOpts("errors_by_endpoint_total", "Total number of errors by endpoint"),
		[]string{"endpoint", "method", "error_type"},
	)

	m.systemMemoryUsage = auto.NewGauge(m.gaugeOpts("system_memory_usage_bytes", "System memory usage in bytes"))
	m.systemGoroutineCount = auto.NewGauge(m.gaugeOpts("system_goroutine_count", "Number of goroutines"))
	m.systemGCPauseTime = auto.NewHistogram(m.histogramOpts(
		"system_gc_pause_time_milliseconds", "GC pause time in milliseconds",
		[]float64{0.1, 0.5, 1, 2, 5, 10, 25, 50, 100, 250, 500, 1000},
	))
}

// Prediction metrics.

// RecordPrediction counts a prediction. decision is "vote" or "fallback".
func RecordPrediction(outcome, decision string) {
	globalManager.predictions.WithLabelValues(outcome, decision).Inc()
}

// RecordSignalHit counts a voting signal that contributed to a prediction.
func RecordSignalHit(signal string) {
	globalManager.signalHits.WithLabelValues(signal).Inc()
}

// RecordPredictionLatency records prediction latency in milliseconds.
func RecordPredictionLatency(latencyMs float64) {
	globalManager.predictionLatency.Observe(latencyMs)
}

// Training metrics.

// RecordTraining records a finished training run.
func RecordTraining(durationMs float64, results int, trainedAtUnix int64) {
	globalManager.trainingDuration.Observe(durationMs)
	globalManager.trainingResults.Set(float64(results))
	globalManager.modelTrainedAt.Set(float64(trainedAtUnix))
}

// UpdateModelTableSize sets the number of entries of one model table.
func UpdateModelTableSize(table string, entries int) {
	globalManager.modelTableSize.WithLabelValues(table).Set(float64(entries))
}

// Evaluation metrics.

// UpdateEvaluationAccuracy sets the accuracy of the last evaluation run.
func UpdateEvaluationAccuracy(accuracy float64) {
	globalManager.evaluationAccuracy.Set(accuracy)
}

// RecordEvaluation counts one evaluated fixture.
func RecordEvaluation(correct bool) {
	label := "false"
	if correct {
		label = "true"
	}
	globalManager.evaluations.WithLabelValues(label).Inc()
}

// Loader metrics.

// RecordResultLoaded counts an accepted result row.
func RecordResultLoaded() {
	globalManager.resultsLoaded.Inc()
}

// RecordResultSkipped counts a skipped row.
func RecordResultSkipped(reason string) {
	globalManager.resultsSkipped.WithLabelValues(reason).Inc()
}

// RecordResultDuplicate counts a dropped duplicate row.
func RecordResultDuplicate() {
	globalManager.resultsDuplicate.Inc()
}

// Queue metrics.

// UpdateQueueSize sets the current queue size.
func UpdateQueueSize(size int) {
	globalManager.queueSize.Set(float64(size))
}

// UpdateQueueCapacity sets the maximum queue capacity.
func UpdateQueueCapacity(capacity int) {
	globalManager.queueCapacity.Set(float64(capacity))
}

// UpdateQueueUtilization sets the queue utilization ratio.
func UpdateQueueUtilization(utilization float64) {
	globalManager.queueUtilization.Set(utilization)
}

// RecordQueueEnqueue increments the enqueue counter.
func RecordQueueEnqueue() {
	globalManager.queueEnqueueRate.Inc()
}

// RecordQueueDequeue increments the dequeue counter.
func RecordQueueDequeue() {
	globalManager.queueDequeueRate.Inc()
}

// RecordQueueEnqueueError increments the enqueue error counter.
func RecordQueueEnqueueError() {
	globalManager.queueEnqueueErrors.Inc()
}

// Worker metrics.

// UpdateWorkerActiveCount sets the number of active workers.
func UpdateWorkerActiveCount(count int) {
	globalManager.workerActiveCount.Set(float64(count))
}

// RecordWorkerProcessingLatency records worker processing latency.
func RecordWorkerProcessingLatency(latencyMs float64) {
	globalManager.workerProcessingLatency.Observe(latencyMs)
}

// RecordWorkerError increments the worker error counter.
func RecordWorkerError() {
	globalManager.workerErrors.Inc()
}

// HTTP metrics.

// RecordHTTPRequest records an HTTP request.
func RecordHTTPRequest(endpoint, method, statusCode string) {
	globalManager.httpRequests.WithLabelValues(endpoint, method, statusCode).Inc()
}

// RecordHTTPRequestDuration records HTTP request duration.
func RecordHTTPRequestDuration(endpoint, method, statusCode string, duration float64) {
	globalManager.httpRequestDuration.WithLabelValues(endpoint, method, statusCode).Observe(duration)
}

// Error metrics.

// RecordErrorByComponent records an error with component and type labels.
func RecordErrorByComponent(component, errorType string) {
	globalManager.errorRateByComponent.WithLabelValues(component, errorType).Inc()
}

// RecordErrorByType records an error with type and severity labels.
func RecordErrorByType(errorType, severity string) {
	globalManager.errorRateByType.WithLabelValues(errorType, severity).Inc()
}

// RecordErrorByEndpoint records an error with endpoint, method, and error type labels.
func RecordErrorByEndpoint(endpoint, method, errorType string) {
	globalManager.errorRateByEndpoint.WithLabelValues(endpoint, method, errorType).Inc()
}

// System metrics.

// UpdateSystemMemoryUsage sets the system memory usage in bytes.
func UpdateSystemMemoryUsage(bytes uint64) {
	globalManager.systemMemoryUsage.Set(float64(bytes))
}

// UpdateSystemGoroutineCount sets the number of goroutines.
func UpdateSystemGoroutineCount(count int) {
	globalManager.systemGoroutineCount.Set(float64(count))
}

// RecordSystemGCPauseTime records GC pause time in milliseconds.
func RecordSystemGCPauseTime(pauseMs float64) {
	globalManager.systemGCPauseTime.Observe(pauseMs)
}

// GetRegistry returns the custom Prometheus registry used by our metrics.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
