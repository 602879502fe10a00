package providers

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"time"
	"vivafit/internal/structures"
)

type MetricsProviderInterface interface {
	IncRequestsTotal(endpoint string, status int)
	ObserveRequestDuration(endpoint string, duration time.Duration)
	IncCacheHits()
	IncCacheMisses()
	IncExerciseCacheLookups(result string)
	IncImageDownloads(outcome string)
	ObservePersistenceDuration(duration time.Duration)
	IncWorkoutsStarted()
	IncWorkoutFinalizations(outcome string)
	IncExerciseCacheEvictions(count int)
	IncWorkoutTicks()
	IncRemoteMirror(outcome string)
	SetActiveSessions(count int)
}

type MetricsProvider struct {
	requestsTotal        *prometheus.CounterVec
	requestDuration      *prometheus.HistogramVec
	cacheHits            prometheus.Counter
	cacheMisses          prometheus.Counter
	exerciseCacheLookups *prometheus.CounterVec
	imageDownloads       *prometheus.CounterVec
	persistenceDuration  prometheus.Histogram
	workoutsStarted      prometheus.Counter
	workoutFinalizations *prometheus.CounterVec
	exerciseCacheEvicted prometheus.Counter
	workoutTicks         prometheus.Counter
	remoteMirror         *prometheus.CounterVec
	activeSessions       prometheus.Gauge
}

func (m *MetricsProvider) IncRequestsTotal(endpoint string, status int) {
	m.requestsTotal.WithLabelValues(endpoint, httpStatusBucket(status)).Inc()
}

func (m *MetricsProvider) ObserveRequestDuration(endpoint string, duration time.Duration) {
	m.requestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

func (m *MetricsProvider) IncCacheHits() {
	m.cacheHits.Inc()
}

func (m *MetricsProvider) IncCacheMisses() {
	m.cacheMisses.Inc()
}

func (m *MetricsProvider) IncExerciseCacheLookups(result string) {
	m.exerciseCacheLookups.WithLabelValues(result).Inc()
}

func (m *MetricsProvider) IncImageDownloads(outcome string) {
	m.imageDownloads.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) ObservePersistenceDuration(duration time.Duration) {
	m.persistenceDuration.Observe(duration.Seconds())
}

func (m *MetricsProvider) IncWorkoutsStarted() {
	m.workoutsStarted.Inc()
}

func (m *MetricsProvider) IncWorkoutFinalizations(outcome string) {
	m.workoutFinalizations.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) IncExerciseCacheEvictions(count int) {
	m.exerciseCacheEvicted.Add(float64(count))
}

func (m *MetricsProvider) IncWorkoutTicks() {
	m.workoutTicks.Inc()
}

func (m *MetricsProvider) IncRemoteMirror(outcome string) {
	m.remoteMirror.WithLabelValues(outcome).Inc()
}

func (m *MetricsProvider) SetActiveSessions(count int) {
	m.activeSessions.Set(float64(count))
}

func httpStatusBucket(code int) string {
	switch {
	case code < 200:
		return "1xx"
	case code < 300:
		return "2xx"
	case code < 400:
		return "3xx"
	case code < 500:
		return "4xx"
	default:
		return "5xx"
	}
}

func NewMetricsProvider(conf *structures.Config) MetricsProviderInterface {
	if !conf.Metrics.Enabled {
		return &noopMetrics{}
	}

	return &MetricsProvider{
		requestsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vivafit_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"endpoint", "status"}),

		requestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vivafit_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"endpoint"}),

		cacheHits: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vivafit_response_cache_hits_total",
			Help: "Total number of remote response cache hits",
		}),

		cacheMisses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vivafit_response_cache_misses_total",
			Help: "Total number of remote response cache misses",
		}),

		exerciseCacheLookups: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vivafit_exercise_cache_lookups_total",
			Help: "Exercise cache lookups by result (hit, miss, expired)",
		}, []string{"result"}),

		imageDownloads: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vivafit_image_downloads_total",
			Help: "Exercise image download attempts by outcome",
		}, []string{"outcome"}),

		persistenceDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "vivafit_persistence_duration_seconds",
			Help:    "Duration of key-value snapshot flushes in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		workoutsStarted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vivafit_workouts_started_total",
			Help: "Total number of workout sessions started",
		}),

		workoutFinalizations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vivafit_workout_finalizations_total",
			Help: "Workout finalization attempts by outcome",
		}, []string{"outcome"}),

		exerciseCacheEvicted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vivafit_exercise_cache_evictions_total",
			Help: "Expired exercise cache entries removed together with their images",
		}),

		workoutTicks: promauto.NewCounter(prometheus.CounterOpts{
			Name: "vivafit_workout_ticks_total",
			Help: "Timer ticks applied to workout sessions",
		}),

		remoteMirror: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "vivafit_remote_mirror_total",
			Help: "Remote mirroring of completed workouts by outcome (mirrored, skipped, failed)",
		}, []string{"outcome"}),

		activeSessions: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "vivafit_active_sessions",
			Help: "Number of workout sessions currently held in memory",
		}),
	}
}

// noopMetrics is a no-op implementation for when metrics are disabled.
type noopMetrics struct{}

func (n *noopMetrics) IncRequestsTotal(_ string, _ int)                 {}
func (n *noopMetrics) ObserveRequestDuration(_ string, _ time.Duration) {}
func (n *noopMetrics) IncCacheHits()                                    {}
func (n *noopMetrics) IncCacheMisses()                                  {}
func (n *noopMetrics) IncExerciseCacheLookups(_ string)                 {}
func (n *noopMetrics) IncImageDownloads(_ string)                       {}
func (n *noopMetrics) ObservePersistenceDuration(_ time.Duration)       {}
func (n *noopMetrics) IncWorkoutsStarted()                              {}
func (n *noopMetrics) IncWorkoutFinalizations(_ string)                 {}
func (n *noopMetrics) IncExerciseCacheEvictions(_ int)                  {}
func (n *noopMetrics) IncWorkoutTicks()                                 {}
func (n *noopMetrics) IncRemoteMirror(_ string)                         {}
func (n *noopMetrics) SetActiveSessions(_ int)                          {}
