package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitebook_http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "route", "status"})

	httpRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sitebook_http_request_duration_seconds",
		Help:    "Duration of HTTP requests",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "route", "status"})

	recordsWritten = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitebook_records_written_total",
		Help: "Records created or replaced, by kind and operation",
	}, []string{"kind", "op"})

	reportDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sitebook_report_duration_seconds",
		Help:    "Time spent computing reports",
		Buckets: prometheus.DefBuckets,
	}, []string{"report", "result"})

	authAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "sitebook_auth_attempts_total",
		Help: "Registration and login attempts by result",
	}, []string{"op", "result"})

	rateLimited = promauto.NewCounter(prometheus.CounterOpts{
		Name: "sitebook_rate_limited_total",
		Help: "Requests rejected by the per-user rate limiter",
	})
)

// ObserveHTTPRequest records an HTTP request metric. route is the matched
// route pattern, not the raw path, to keep label cardinality bounded.
func ObserveHTTPRequest(method, route, status string, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, status).Inc()
	httpRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}

// ObserveWrite counts a create or update of a record kind
func ObserveWrite(kind, op string) {
	recordsWritten.WithLabelValues(kind, op).Inc()
}

// ObserveReport records how long a report took and whether it succeeded
func ObserveReport(report string, err error, duration time.Duration) {
	reportDuration.WithLabelValues(report, result(err)).Observe(duration.Seconds())
}

// ObserveAuth counts an authentication attempt
func ObserveAuth(op string, err error) {
	authAttempts.WithLabelValues(op, result(err)).Inc()
}

// IncRateLimited counts a rejected request
func IncRateLimited() {
	rateLimited.Inc()
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
