// Package metrics exposes Prometheus instrumentation for the dashboard
// backend: HTTP traffic, live workspace count, and counters for the
// expensive operations (chart builds, report exports).
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequests counts finished requests by route pattern and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epivigil_http_requests_total",
		Help: "Finished HTTP requests by route pattern, method and status code.",
	}, []string{"route", "method", "status"})

	// HTTPDuration observes request latency by route pattern.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "epivigil_http_request_duration_seconds",
		Help:    "HTTP request latency by route pattern.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route", "method"})

	// ChartBuilds counts chart payload builds by chart kind and outcome.
	ChartBuilds = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epivigil_chart_builds_total",
		Help: "Chart payload builds by kind and outcome.",
	}, []string{"kind", "outcome"})

	// ReportsGenerated counts report exports by outcome.
	ReportsGenerated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "epivigil_reports_generated_total",
		Help: "Report exports by outcome.",
	}, []string{"outcome"})

	// WorkspacesEvicted counts workspaces dropped by the idle sweep.
	WorkspacesEvicted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "epivigil_workspaces_evicted_total",
		Help: "Comparison workspaces evicted after their idle TTL.",
	})
)

// RegisterWorkspaceGauge publishes the live workspace count from the given
// counter func. Call once at startup.
func RegisterWorkspaceGauge(count func() int) {
	promauto.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "epivigil_workspaces_active",
		Help: "Comparison workspaces currently held in memory.",
	}, func() float64 { return float64(count()) })
}

// Handler returns the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (w *statusRecorder) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

// Middleware instruments each request with count and latency, labeled by the
// chi route pattern so path parameters do not explode cardinality.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		next.ServeHTTP(rec, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		HTTPRequests.With(prometheus.Labels{
			"route":  route,
			"method": r.Method,
			"status": strconv.Itoa(rec.status),
		}).Inc()
		HTTPDuration.With(prometheus.Labels{
			"route":  route,
			"method": r.Method,
		}).Observe(time.Since(start).Seconds())
	})
}
