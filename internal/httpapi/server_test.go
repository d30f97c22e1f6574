package httpapi

import (
	"context"
	"encoding/json"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fraud-inference/internal/audit"
	"fraud-inference/internal/features"
	"fraud-inference/internal/model"
	"fraud-inference/internal/scoring"
)

const transferBody = `{"step":1,"amount":181.0,"oldbalanceOrg":181.0,"newbalanceOrig":0.0,"oldbalanceDest":0.0,"newbalanceDest":181.0,"type":"TRANSFER"}`

type readiness struct{ ready bool }

func (r readiness) Ready() bool { return r.ready }
func (r readiness) StateName() string {
	if r.ready {
		return "SERVING"
	}
	return "LOADING"
}

// countingScorer wraps a scorer and counts calls that reach it.
type countingScorer struct {
	next  scoring.Scorer
	calls atomic.Int32
}

func (c *countingScorer) Score(tx features.Transaction) (scoring.Verdict, error) {
	c.calls.Add(1)
	return c.next.Score(tx)
}

type capture struct{ records []audit.Record }

func (c *capture) Publish(rec audit.Record) { c.records = append(c.records, rec) }
func (c *capture) Close()                   {}

func newTestServer(t *testing.T, ready bool) (*Server, *countingScorer, *capture) {
	t.Helper()
	h, err := model.Load(context.Background(), "../model/testdata/logistic.json")
	require.NoError(t, err)
	scorer := &countingScorer{next: scoring.NewPipeline(features.DefaultEncoder, h)}
	pub := &capture{}
	s := New(Config{
		Log:       zerolog.Nop(),
		Scorer:    scorer,
		Audit:     pub,
		Readiness: readiness{ready: ready},
		Model:     h.Info(),
	})
	return s, scorer, pub
}

func post(s *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func TestPredict_Transfer(t *testing.T) {
	s, scorer, pub := newTestServer(t, true)

	rec := post(s, transferBody)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var resp map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)

	confidence, ok := resp["confidence"].(float64)
	require.True(t, ok)
	assert.GreaterOrEqual(t, confidence, 0.0)
	assert.LessOrEqual(t, confidence, 1.0)
	assert.InDelta(t, 1/(1+math.Exp(1-181.0/1024)), confidence, 1e-12)
	assert.Equal(t, confidence >= 0.5, resp["is_fraud"])

	assert.EqualValues(t, 1, scorer.calls.Load())
	require.Len(t, pub.records, 1)
	assert.Equal(t, audit.SourceHTTP, pub.records[0].Source)
	assert.Equal(t, 181.0, pub.records[0].Amount)
}

func TestPredict_UnknownTypeNeverReachesModel(t *testing.T) {
	s, scorer, pub := newTestServer(t, true)

	rec := post(s, strings.Replace(transferBody, "TRANSFER", "UNKNOWN", 1))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "type", resp.Field)
	assert.Contains(t, resp.Error, "UNKNOWN")

	assert.Zero(t, scorer.calls.Load())
	assert.Empty(t, pub.records)
}

func TestPredict_ClientErrors(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
		field  string
	}{
		{"malformed json", `{"step":1,`, http.StatusBadRequest, ""},
		{"empty body", ``, http.StatusBadRequest, ""},
		{"missing amount", `{"step":1,"oldbalanceOrg":1,"newbalanceOrig":0,"oldbalanceDest":0,"newbalanceDest":1,"type":"TRANSFER"}`, http.StatusUnprocessableEntity, "amount"},
		{"missing type", `{"step":1,"amount":1,"oldbalanceOrg":1,"newbalanceOrig":0,"oldbalanceDest":0,"newbalanceDest":1}`, http.StatusUnprocessableEntity, "type"},
		{"fractional step", strings.Replace(transferBody, `"step":1`, `"step":1.5`, 1), http.StatusUnprocessableEntity, "step"},
		{"amount as string", strings.Replace(transferBody, `"amount":181.0`, `"amount":"181"`, 1), http.StatusUnprocessableEntity, "amount"},
		{"unknown field", strings.Replace(transferBody, `"step":1`, `"step":1,"nameOrig":"C1"`, 1), http.StatusUnprocessableEntity, "nameOrig"},
		{"trailing brace", transferBody + "}", http.StatusBadRequest, ""},
		{"trailing bracket", transferBody + "]", http.StatusBadRequest, ""},
		{"second object", transferBody + transferBody, http.StatusBadRequest, ""},
		{"lowercase type", strings.Replace(transferBody, "TRANSFER", "transfer", 1), http.StatusUnprocessableEntity, "type"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, scorer, _ := newTestServer(t, true)

			rec := post(s, tc.body)
			assert.Equal(t, tc.status, rec.Code)

			var resp errorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.NotEmpty(t, resp.Error)
			assert.Equal(t, tc.field, resp.Field)
			assert.Zero(t, scorer.calls.Load())
		})
	}
}

func TestPredict_TrailingWhitespaceAccepted(t *testing.T) {
	s, _, _ := newTestServer(t, true)

	rec := post(s, transferBody+"\n \t\n")
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestPredict_ZeroValuesArePresent(t *testing.T) {
	s, scorer, _ := newTestServer(t, true)

	rec := post(s, `{"step":0,"amount":0,"oldbalanceOrg":0,"newbalanceOrig":0,"oldbalanceDest":0,"newbalanceDest":0,"type":"PAYMENT"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.EqualValues(t, 1, scorer.calls.Load())
}

func TestPredict_InferenceErrorIs500(t *testing.T) {
	s := New(Config{
		Log: zerolog.Nop(),
		Scorer: scorerFunc(func(features.Transaction) (scoring.Verdict, error) {
			return scoring.Verdict{}, &model.InferenceError{Reason: "probability out of range"}
		}),
	})

	rec := post(s, transferBody)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestPredict_NotReady(t *testing.T) {
	s, scorer, _ := newTestServer(t, false)

	rec := post(s, transferBody)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Zero(t, scorer.calls.Load())
}

func TestReadyz(t *testing.T) {
	for _, ready := range []bool{true, false} {
		s, _, _ := newTestServer(t, ready)

		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

		var resp struct {
			State string     `json:"state"`
			Model model.Info `json:"model"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		if ready {
			assert.Equal(t, http.StatusOK, rec.Code)
			assert.Equal(t, "SERVING", resp.State)
		} else {
			assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
			assert.Equal(t, "LOADING", resp.State)
		}
		assert.Equal(t, model.KindLogistic, resp.Model.Kind)
		assert.Equal(t, 11, resp.Model.Features)
	}
}

func TestHealthzAndMetrics(t *testing.T) {
	s, _, _ := newTestServer(t, false)

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	post(s, transferBody)
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "fraud_http_requests_total")
}

func TestCORS_AllowsAnyOrigin(t *testing.T) {
	s, _, _ := newTestServer(t, true)

	req := httptest.NewRequest(http.MethodOptions, "/predict", nil)
	req.Header.Set("Origin", "https://dashboard.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

type scorerFunc func(features.Transaction) (scoring.Verdict, error)

func (f scorerFunc) Score(tx features.Transaction) (scoring.Verdict, error) { return f(tx) }
