package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusBucket(t *testing.T) {
	tests := []struct {
		code int
		want string
	}{
		{0, "2xx"},
		{100, "1xx"},
		{200, "2xx"},
		{301, "3xx"},
		{400, "4xx"},
		{422, "4xx"},
		{500, "5xx"},
		{503, "5xx"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, statusBucket(tt.code), "code %d", tt.code)
	}
}

func TestObserveVerdict(t *testing.T) {
	before := testutil.ToFloat64(PredictionsTotal.WithLabelValues("grpc", "fraud"))
	ObserveVerdict("grpc", true)
	ObserveVerdict("grpc", false)
	assert.Equal(t, before+1, testutil.ToFloat64(PredictionsTotal.WithLabelValues("grpc", "fraud")))
}

func TestMiddleware_UsesRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(Middleware)
	r.Get("/models/{id}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	before := testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/models/{id}", "4xx"))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/models/42", nil))
	assert.Equal(t, before+1, testutil.ToFloat64(HTTPRequestsTotal.WithLabelValues("GET", "/models/{id}", "4xx")))
}

func TestMetricsEndpoint(t *testing.T) {
	SetModel("xgboost", 11, 100)

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)

	body := w.Body.String()
	for _, name := range []string{
		"fraud_rpc_in_flight",
		"fraud_lifecycle_state",
		`fraud_model_info{features="11",kind="xgboost",trees="100"} 1`,
	} {
		assert.True(t, strings.Contains(body, name), "missing %s", name)
	}
}
