// Package metrics holds the Prometheus collectors for the app.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTPRequestDuration records request latency by method, path group and status.
	HTTPRequestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campusshare_http_request_duration_seconds",
		Help:    "HTTP request latency in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	// Uploads counts resource uploads by outcome.
	Uploads = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusshare_uploads_total",
		Help: "Total resource uploads by outcome",
	}, []string{"outcome"})

	// Reviews counts review submissions by outcome.
	Reviews = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusshare_reviews_total",
		Help: "Total review submissions by outcome",
	}, []string{"outcome"})

	// Reports counts moderation reports by reason.
	Reports = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusshare_reports_total",
		Help: "Total moderation reports by reason",
	}, []string{"reason"})

	// PointAwards counts points awards by reason and outcome.
	PointAwards = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusshare_point_awards_total",
		Help: "Total points awards by reason and outcome",
	}, []string{"reason", "outcome"})

	// CatalogTruncations counts catalog source queries that hit the row cap.
	CatalogTruncations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusshare_catalog_truncations_total",
		Help: "Catalog source queries that returned the full row cap",
	}, []string{"tier"})

	// CacheErrors counts Redis errors by command.
	CacheErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campusshare_cache_errors_total",
		Help: "Total Redis errors by command",
	}, []string{"command"})
)

const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
)

// Outcome maps an error to a label value.
func Outcome(err error) string {
	if err != nil {
		return OutcomeFailure
	}
	return OutcomeSuccess
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Unwrap() http.ResponseWriter {
	return r.ResponseWriter
}

// Middleware observes HTTPRequestDuration for every request except the
// scrape endpoint itself. 404s share one path label.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		path := PathGroup(r.URL.Path)
		if rec.status == http.StatusNotFound {
			path = "unmatched"
		}
		HTTPRequestDuration.
			WithLabelValues(r.Method, path, strconv.Itoa(rec.status)).
			Observe(time.Since(start).Seconds())
	})
}

// PathGroup reduces a path to its first two segments so ids never become
// label values: "/app/resources/123" -> "/app/resources".
func PathGroup(path string) string {
	parts := strings.Split(strings.Trim(path, "/"), "/")
	if len(parts) == 0 || parts[0] == "" {
		return "/"
	}
	switch parts[0] {
	case "app", "api", "auth", "admin":
		if len(parts) > 1 {
			return "/" + parts[0] + "/" + parts[1]
		}
	}
	return "/" + parts[0]
}
