package middleware

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	activeConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_connections",
			Help: "Number of active HTTP connections",
		},
	)

	leadsAssignedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "leads_assigned_total",
			Help: "Total number of lead ownership transitions by action",
		},
		[]string{"action"},
	)

	sweepOutcomesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "reassignment_sweep_outcomes_total",
			Help: "Total number of per-lead sweep outcomes by category",
		},
		[]string{"outcome"},
	)

	notificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "notification_publish_failures_total",
			Help: "Total number of failed notification publishes",
		},
	)
)

type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func Metrics(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		activeConnections.Inc()
		defer activeConnections.Dec()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		duration := time.Since(start).Seconds()
		status := strconv.Itoa(rw.statusCode)

		httpRequestsTotal.WithLabelValues(r.Method, r.URL.Path, status).Inc()
		httpRequestDuration.WithLabelValues(r.Method, r.URL.Path).Observe(duration)
	})
}

func RecordAssignments(action string, count int) {
	leadsAssignedTotal.WithLabelValues(action).Add(float64(count))
}

func RecordSweepOutcome(outcome string, count int) {
	sweepOutcomesTotal.WithLabelValues(outcome).Add(float64(count))
}

func RecordNotificationFailure() {
	notificationFailures.Inc()
}
