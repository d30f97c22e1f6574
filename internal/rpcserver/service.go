// Package rpcserver serves FraudDetectionService over gRPC. Payment-level
// requests are reconstructed into full transactions and scored through the
// shared pipeline.
package rpcserver

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	pb "fraud-inference/pb"

	"fraud-inference/internal/audit"
	"fraud-inference/internal/features"
	"fraud-inference/internal/metrics"
	"fraud-inference/internal/model"
	"fraud-inference/internal/scoring"
)

// Service implements pb.FraudDetectionServiceServer.
type Service struct {
	pb.UnimplementedFraudDetectionServiceServer

	scorer scoring.Scorer
	audit  audit.Publisher
	log    zerolog.Logger
}

// NewService returns a Service scoring with scorer. pub may be nil.
func NewService(scorer scoring.Scorer, pub audit.Publisher, log zerolog.Logger) *Service {
	if pub == nil {
		pub = audit.Nop{}
	}
	return &Service{
		scorer: scorer,
		audit:  pub,
		log:    log.With().Str("component", "rpc").Logger(),
	}
}

// PredictFraud scores one payment.
func (s *Service) PredictFraud(ctx context.Context, req *pb.FraudRequest) (*pb.FraudResponse, error) {
	verdict, err := s.Predict(req, audit.SourceGRPC)
	if err != nil {
		return nil, s.status(req, err)
	}
	return &pb.FraudResponse{
		TransactionId:   req.GetTransactionId(),
		Fraudulent:      verdict.IsFraud,
		ConfidenceScore: verdict.Confidence,
	}, nil
}

// Predict validates, reconstructs and scores req, then hands the verdict to
// the audit publisher. source labels metrics and audit events.
func (s *Service) Predict(req *pb.FraudRequest, source string) (scoring.Verdict, error) {
	if err := validateAmount(req.GetAmount()); err != nil {
		metrics.RejectionsTotal.WithLabelValues(source, "invalid_request").Inc()
		return scoring.Verdict{}, err
	}

	start := time.Now()
	verdict, err := s.scorer.Score(Reconstruct(req.GetAmount()))
	metrics.InferenceDuration.WithLabelValues(source).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RejectionsTotal.WithLabelValues(source, reason(err)).Inc()
		return scoring.Verdict{}, err
	}
	metrics.ObserveVerdict(source, verdict.IsFraud)

	s.audit.Publish(audit.Record{
		TransactionID: req.GetTransactionId(),
		Source:        source,
		Amount:        req.GetAmount(),
		CardNumber:    req.GetCardNumber(),
		Merchant:      req.GetMerchant(),
		Location:      req.GetLocation(),
		Verdict:       verdict,
		ScoredAt:      start,
	})

	s.log.Debug().
		Str("transaction_id", req.GetTransactionId()).
		Float64("amount", req.GetAmount()).
		Bool("fraudulent", verdict.IsFraud).
		Float64("confidence", verdict.Confidence).
		Str("source", source).
		Msg("Scored transaction")
	return verdict, nil
}

func (s *Service) status(req *pb.FraudRequest, err error) error {
	var invalid *scoring.InvalidRequest
	var schemaErr *features.SchemaError
	var inferErr *model.InferenceError
	switch {
	case errors.As(err, &invalid), errors.As(err, &schemaErr):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.As(err, &inferErr):
		s.log.Error().Err(err).Str("transaction_id", req.GetTransactionId()).Msg("Inference invariant violated")
		return status.Error(codes.Internal, "inference failed")
	default:
		s.log.Error().Err(err).Str("transaction_id", req.GetTransactionId()).Msg("Scoring failed")
		return status.Error(codes.Internal, "scoring failed")
	}
}

func reason(err error) string {
	var schemaErr *features.SchemaError
	var inferErr *model.InferenceError
	switch {
	case errors.As(err, &schemaErr):
		return "schema"
	case errors.As(err, &inferErr):
		return "inference"
	default:
		return "internal"
	}
}
