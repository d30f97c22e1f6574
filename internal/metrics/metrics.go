// Package metrics provides Prometheus instrumentation for the inference service.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// PredictionsTotal counts verdicts by transport and outcome.
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraud",
			Name:      "predictions_total",
			Help:      "Total verdicts returned, by transport and verdict.",
		},
		[]string{"transport", "verdict"},
	)

	// RejectionsTotal counts requests refused before or during inference.
	RejectionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraud",
			Name:      "rejections_total",
			Help:      "Total requests rejected, by transport and reason.",
		},
		[]string{"transport", "reason"},
	)

	// InferenceDuration observes encode+infer latency.
	InferenceDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fraud",
			Name:      "inference_duration_seconds",
			Help:      "Time spent encoding and scoring one transaction.",
			Buckets:   []float64{.00005, .0001, .00025, .0005, .001, .0025, .005, .01, .025},
		},
		[]string{"transport"},
	)

	// HTTPRequestsTotal counts HTTP requests by method, path, and status.
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "fraud",
			Name:      "http_requests_total",
			Help:      "Total HTTP requests by method, path pattern, and status code.",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration observes request latency by method and path.
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "fraud",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds.",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	// RPCInFlight tracks RPC calls holding a worker slot.
	RPCInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fraud", Name: "rpc_in_flight",
		Help: "RPC calls currently holding a worker slot.",
	})

	// ModelInfo is 1 for the loaded artifact.
	ModelInfo = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "fraud", Name: "model_info",
		Help: "Loaded model artifact; the value is always 1.",
	}, []string{"kind", "features", "trees"})

	// LifecycleState exposes the server state machine as a number
	// (0 unstarted, 1 loading, 2 serving, 3 shutting down, 4 stopped).
	LifecycleState = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "fraud", Name: "lifecycle_state",
		Help: "Current server lifecycle state.",
	})

	// AuditEventsTotal counts audit events by delivery result.
	AuditEventsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "fraud", Name: "audit_events_total",
		Help: "Audit events by result (queued, delivered, failed, dropped).",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(
		PredictionsTotal,
		RejectionsTotal,
		InferenceDuration,
		HTTPRequestsTotal,
		HTTPRequestDuration,
		RPCInFlight,
		ModelInfo,
		LifecycleState,
		AuditEventsTotal,
	)
}

// ObserveVerdict records one verdict.
func ObserveVerdict(transport string, fraud bool) {
	verdict := "legit"
	if fraud {
		verdict = "fraud"
	}
	PredictionsTotal.WithLabelValues(transport, verdict).Inc()
}

// SetModel publishes the loaded artifact's description.
func SetModel(kind string, features, trees int) {
	ModelInfo.Reset()
	ModelInfo.WithLabelValues(kind, strconv.Itoa(features), strconv.Itoa(trees)).Set(1)
}

// Middleware records HTTP request counts and latency by chi route pattern.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		timer := prometheus.NewTimer(nil)

		next.ServeHTTP(ww, r)

		path := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			path = rctx.RoutePattern() // pattern, not raw path, to bound cardinality
		}
		HTTPRequestDuration.WithLabelValues(r.Method, path).Observe(timer.ObserveDuration().Seconds())
		HTTPRequestsTotal.WithLabelValues(r.Method, path, statusBucket(ww.Status())).Inc()
	})
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

func statusBucket(code int) string {
	switch {
	case code == 0:
		return "2xx" // nothing written means an implicit 200
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
