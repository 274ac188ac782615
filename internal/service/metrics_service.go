package service

import (
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsService encapsulates Prometheus instrumentation for the HTTP
// surface and the intake pipeline.
type MetricsService struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestDuration *prometheus.HistogramVec
	requestTotal    *prometheus.CounterVec
	submissions     *prometheus.CounterVec
	rejections      *prometheus.CounterVec
	uploadBytes     *prometheus.CounterVec
	cacheHits       prometheus.Counter
	cacheMisses     prometheus.Counter
}

// NewMetricsService registers the core collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	submissions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_submissions_total",
		Help: "Candidate submissions by outcome",
	}, []string{"outcome"})

	rejections := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_rejections_total",
		Help: "Rejected submissions by taxonomy code",
	}, []string{"reason"})

	uploadBytes := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "intake_upload_bytes_total",
		Help: "Bytes uploaded to the blob store by category",
	}, []string{"category"})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, submissions, rejections, uploadBytes, cacheHits, cacheMisses, goroutines)

	return &MetricsService{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration: requestDuration,
		requestTotal:    requestTotal,
		submissions:     submissions,
		rejections:      rejections,
		uploadBytes:     uploadBytes,
		cacheHits:       cacheHits,
		cacheMisses:     cacheMisses,
	}
}

// Handler exposes the /metrics scrape endpoint.
func (s *MetricsService) Handler() http.Handler {
	return s.handler
}

// ObserveHTTPRequest records one served request.
func (s *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	labels := prometheus.Labels{"method": method, "path": path, "status": strconv.Itoa(status)}
	s.requestDuration.With(labels).Observe(duration.Seconds())
	s.requestTotal.With(labels).Inc()
}

// ObserveSubmission records a completed pipeline run.
func (s *MetricsService) ObserveSubmission(outcome string) {
	s.submissions.WithLabelValues(outcome).Inc()
}

// ObserveRejection records a rejected submission by taxonomy code.
func (s *MetricsService) ObserveRejection(reason string) {
	s.rejections.WithLabelValues(reason).Inc()
}

// ObserveUpload records bytes shipped to the blob store.
func (s *MetricsService) ObserveUpload(category string, bytes int64) {
	s.uploadBytes.WithLabelValues(category).Add(float64(bytes))
}

// ObserveCacheHit and ObserveCacheMiss track file summary cache behaviour.
func (s *MetricsService) ObserveCacheHit()  { s.cacheHits.Inc() }
func (s *MetricsService) ObserveCacheMiss() { s.cacheMisses.Inc() }
