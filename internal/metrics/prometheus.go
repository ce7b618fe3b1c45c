package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Analysis metrics
	AnalysisRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockai_analysis_requests_total",
			Help: "Total number of analysis requests",
		},
		[]string{"intent", "status"}, // status: success|error
	)

	AnalysisDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockai_analysis_duration_seconds",
			Help:    "End-to-end analysis duration in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10, 20},
		},
		[]string{"intent"},
	)

	// Source fetch metrics
	SourceFetches = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockai_source_fetches_total",
			Help: "Total number of data source fetches",
		},
		[]string{"source", "provenance", "status"}, // provenance: REAL_DATA|MOCK_DATA
	)

	SourceFetchLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockai_source_fetch_latency_seconds",
			Help:    "Data source fetch latency in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		},
		[]string{"source"},
	)

	// Recommendation delegate metrics
	RecommenderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockai_recommender_calls_total",
			Help: "Total number of recommendation delegate calls",
		},
		[]string{"provider", "status"}, // status: success|error|fallback
	)

	// Worker metrics
	WorkerExecutions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockai_worker_executions_total",
			Help: "Total number of worker executions",
		},
		[]string{"worker", "status"},
	)

	WorkerDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockai_worker_duration_seconds",
			Help:    "Worker execution duration in seconds",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		},
		[]string{"worker"},
	)

	// Transport metrics
	WebSocketConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "stockai_websocket_connections",
			Help: "Current number of active WebSocket chat connections",
		},
	)

	WebSocketMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockai_websocket_messages_total",
			Help: "Total WebSocket messages by direction and type",
		},
		[]string{"direction", "type"}, // direction: in|out
	)

	KafkaMessages = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockai_kafka_messages_total",
			Help: "Total Kafka messages produced",
		},
		[]string{"topic", "status"},
	)

	CacheOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockai_cache_operations_total",
			Help: "Quote cache operations",
		},
		[]string{"type", "result"}, // result: hit|miss|error
	)
)

// Init registers all metrics with Prometheus
func Init() {
	prometheus.MustRegister(AnalysisRequests)
	prometheus.MustRegister(AnalysisDuration)
	prometheus.MustRegister(SourceFetches)
	prometheus.MustRegister(SourceFetchLatency)
	prometheus.MustRegister(RecommenderCalls)
	prometheus.MustRegister(WorkerExecutions)
	prometheus.MustRegister(WorkerDuration)
	prometheus.MustRegister(WebSocketConnections)
	prometheus.MustRegister(WebSocketMessages)
	prometheus.MustRegister(KafkaMessages)
	prometheus.MustRegister(CacheOperations)
}

// Handler returns Prometheus HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordWorkerExecution records a worker execution
func RecordWorkerExecution(worker string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	WorkerExecutions.WithLabelValues(worker, status).Inc()
	WorkerDuration.WithLabelValues(worker).Observe(duration.Seconds())
}

// RecordSourceFetch records a data source fetch outcome
func RecordSourceFetch(source, provenance string, latency time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	SourceFetches.WithLabelValues(source, provenance, status).Inc()
	SourceFetchLatency.WithLabelValues(source).Observe(latency.Seconds())
}

// RecordAnalysis records an analysis request outcome
func RecordAnalysis(intent string, duration time.Duration, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	AnalysisRequests.WithLabelValues(intent, status).Inc()
	AnalysisDuration.WithLabelValues(intent).Observe(duration.Seconds())
}
