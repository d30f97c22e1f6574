package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"fraud-inference/internal/audit"
	"fraud-inference/internal/features"
	"fraud-inference/internal/metrics"
	"fraud-inference/internal/model"
)

const maxBodyBytes = 1 << 20

// predictRequest is the full transaction form. Pointers distinguish an
// absent field from a zero value.
type predictRequest struct {
	Step           *int     `json:"step" validate:"required"`
	Amount         *float64 `json:"amount" validate:"required"`
	OldBalanceOrg  *float64 `json:"oldbalanceOrg" validate:"required"`
	NewBalanceOrig *float64 `json:"newbalanceOrig" validate:"required"`
	OldBalanceDest *float64 `json:"oldbalanceDest" validate:"required"`
	NewBalanceDest *float64 `json:"newbalanceDest" validate:"required"`
	Type           *string  `json:"type" validate:"required"`
}

type predictResponse struct {
	IsFraud    bool    `json:"is_fraud"`
	Confidence float64 `json:"confidence"`
}

type errorResponse struct {
	Error string `json:"error"`
	Field string `json:"field,omitempty"`
}

// requestError is a client mistake, answered with its own status.
type requestError struct {
	status int
	field  string
	msg    string
}

func (e *requestError) Error() string { return e.msg }

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		return name
	})
	return v
}

// handleHealth reports liveness only.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	state := "SERVING"
	ready := true
	if s.readiness != nil {
		state, ready = s.readiness.StateName(), s.readiness.Ready()
	}
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, map[string]interface{}{
		"state": state,
		"model": s.model,
	})
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	tx, err := s.decodeTransaction(w, r)
	if err != nil {
		var reqErr *requestError
		if errors.As(err, &reqErr) {
			metrics.RejectionsTotal.WithLabelValues(audit.SourceHTTP, "invalid_request").Inc()
			s.writeJSON(w, reqErr.status, errorResponse{Error: reqErr.msg, Field: reqErr.field})
			return
		}
		s.writeError(w, err)
		return
	}

	start := time.Now()
	verdict, err := s.scorer.Score(tx)
	metrics.InferenceDuration.WithLabelValues(audit.SourceHTTP).Observe(time.Since(start).Seconds())
	if err != nil {
		s.writeError(w, err)
		return
	}
	metrics.ObserveVerdict(audit.SourceHTTP, verdict.IsFraud)

	s.audit.Publish(audit.Record{
		Source:   audit.SourceHTTP,
		Amount:   tx.Amount,
		Verdict:  verdict,
		ScoredAt: start,
	})

	s.writeJSON(w, http.StatusOK, predictResponse{IsFraud: verdict.IsFraud, Confidence: verdict.Confidence})
}

// decodeTransaction parses the body strictly. The transaction type is
// resolved here so an unknown category never reaches the scorer.
func (s *Server) decodeTransaction(w http.ResponseWriter, r *http.Request) (features.Transaction, error) {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()

	var req predictRequest
	if err := dec.Decode(&req); err != nil {
		return features.Transaction{}, decodeError(err)
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return features.Transaction{}, &requestError{status: http.StatusBadRequest, msg: "body must hold a single JSON object"}
	}

	if err := s.validate.Struct(&req); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			field := verrs[0].Field()
			return features.Transaction{}, &requestError{status: http.StatusUnprocessableEntity, field: field, msg: field + " is required"}
		}
		return features.Transaction{}, err
	}

	typ, err := features.ParseType(*req.Type)
	if err != nil {
		return features.Transaction{}, &requestError{status: http.StatusUnprocessableEntity, field: "type", msg: err.Error()}
	}

	return features.Transaction{
		Step:           *req.Step,
		Amount:         *req.Amount,
		OldBalanceOrig: *req.OldBalanceOrg,
		NewBalanceOrig: *req.NewBalanceOrig,
		OldBalanceDest: *req.OldBalanceDest,
		NewBalanceDest: *req.NewBalanceDest,
		Type:           typ,
	}, nil
}

func decodeError(err error) error {
	var typeErr *json.UnmarshalTypeError
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &typeErr):
		return &requestError{
			status: http.StatusUnprocessableEntity,
			field:  typeErr.Field,
			msg:    typeErr.Field + " must be " + typeErr.Type.String(),
		}
	case strings.HasPrefix(err.Error(), "json: unknown field "):
		field := strings.Trim(strings.TrimPrefix(err.Error(), "json: unknown field "), `"`)
		return &requestError{status: http.StatusUnprocessableEntity, field: field, msg: "unknown field " + field}
	case errors.As(err, &maxErr):
		return &requestError{status: http.StatusRequestEntityTooLarge, msg: "request body too large"}
	case errors.Is(err, io.EOF):
		return &requestError{status: http.StatusBadRequest, msg: "request body is empty"}
	default:
		return &requestError{status: http.StatusBadRequest, msg: "malformed JSON: " + err.Error()}
	}
}

// writeError maps scoring failures to a status. Anything not attributable to
// the client is logged and answered with 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var schemaErr *features.SchemaError
	var inferErr *model.InferenceError
	switch {
	case errors.As(err, &schemaErr):
		metrics.RejectionsTotal.WithLabelValues(audit.SourceHTTP, "schema").Inc()
		s.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: err.Error(), Field: schemaErr.Field})
	case errors.As(err, &inferErr):
		metrics.RejectionsTotal.WithLabelValues(audit.SourceHTTP, "inference").Inc()
		s.log.Error().Err(err).Msg("Inference invariant violated")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "inference failed"})
	default:
		metrics.RejectionsTotal.WithLabelValues(audit.SourceHTTP, "internal").Inc()
		s.log.Error().Err(err).Msg("Scoring failed")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// writeJSON writes a JSON response
func (s *Server) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
