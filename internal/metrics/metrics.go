package metrics

import (
	"encoding/json"
	"net/http"

	"github.com/jeswinthayil/Lostandfound/internal/health"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Item lifecycle metrics

	ItemsPostedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lostandfound",
		Name:      "items_posted_total",
		Help:      "Total items posted, by circumstance.",
	}, []string{"status"})

	ContactRequestsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "lostandfound",
		Name:      "contact_requests_total",
		Help:      "Total contact messages recorded against items.",
	})

	ClaimsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lostandfound",
		Name:      "claims_total",
		Help:      "Total claim attempts, by outcome.",
	}, []string{"outcome"})

	// Retention sweep metrics

	RetentionDeletedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lostandfound",
		Name:      "retention_deleted_total",
		Help:      "Total rows removed by the retention sweep, by kind.",
	}, []string{"kind"})

	SweepCycleDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "lostandfound",
		Name:      "sweep_cycle_duration_seconds",
		Help:      "Time taken for one retention sweep.",
		Buckets:   prometheus.DefBuckets,
	})

	// HTTP metrics

	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "lostandfound",
		Name:      "http_request_duration_seconds",
		Help:      "HTTP request latency.",
		Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5},
	}, []string{"method", "path", "status"})

	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "lostandfound",
		Name:      "http_requests_total",
		Help:      "Total HTTP requests.",
	}, []string{"method", "path", "status"})
)

func Register() {
	prometheus.MustRegister(
		ItemsPostedTotal,
		ContactRequestsTotal,
		ClaimsTotal,
		RetentionDeletedTotal,
		SweepCycleDuration,
		HTTPRequestDuration,
		HTTPRequestsTotal,
	)
}

// NewServer serves /metrics plus the liveness and readiness probes on
// a port separate from the API.
func NewServer(addr string, checker *health.Checker) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, checker.Liveness(r.Context()))
	})
	mux.HandleFunc("/readyz", func(w http.ResponseWriter, r *http.Request) {
		result := checker.Readiness(r.Context())
		status := http.StatusOK
		if result.Status != "up" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, result)
	})
	return &http.Server{Addr: addr, Handler: mux}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
