package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	generations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckystat",
			Subsystem: "generation",
			Name:      "runs_total",
			Help:      "Total number of generation pipeline runs.",
		},
		[]string{"trigger"},
	)

	generationDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "luckystat",
			Subsystem: "generation",
			Name:      "duration_seconds",
			Help:      "Duration of generation pipeline runs.",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12),
		},
	)

	generationDraws = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "luckystat",
			Subsystem: "generation",
			Name:      "random_draws",
			Help:      "Random values consumed per generation run.",
			Buckets:   prometheus.LinearBuckets(100, 50, 10),
		},
	)

	corrections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "luckystat",
			Subsystem: "generation",
			Name:      "corrections_total",
			Help:      "Selected sets replaced by the consecutive-pair correction.",
		},
	)

	constraintFallbacks = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "luckystat",
			Subsystem: "generation",
			Name:      "constraint_fallbacks_total",
			Help:      "Consecutive-pair draws that gave up after exhausting their attempts.",
		},
	)

	cacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckystat",
			Subsystem: "cache",
			Name:      "lookups_total",
			Help:      "Result cache lookups by outcome.",
		},
		[]string{"result"},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckystat",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "luckystat",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"method", "route"},
	)

	scheduledRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "luckystat",
			Subsystem: "schedule",
			Name:      "runs_total",
			Help:      "Weekly rotation jobs by outcome.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		generations,
		generationDuration,
		generationDraws,
		corrections,
		constraintFallbacks,
		cacheLookups,
		httpRequests,
		httpDuration,
		scheduledRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler exposes the registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RecordGeneration records one pipeline run
func RecordGeneration(trigger string, duration time.Duration, draws, correctionCount, fallbacks int) {
	generations.WithLabelValues(trigger).Inc()
	generationDuration.Observe(duration.Seconds())
	generationDraws.Observe(float64(draws))
	corrections.Add(float64(correctionCount))
	constraintFallbacks.Add(float64(fallbacks))
}

// RecordCacheLookup counts a cache hit or miss
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	cacheLookups.WithLabelValues(result).Inc()
}

// RecordHTTPRequest records one handled request. route is the matched pattern, not the raw path.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// RecordScheduledRun counts a rotation job
func RecordScheduledRun(success bool) {
	scheduledRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
}
