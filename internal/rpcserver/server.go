package rpcserver

import (
	"context"
	"net"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"

	pb "fraud-inference/pb"

	"fraud-inference/internal/metrics"
)

// DefaultWorkers is the number of RPC calls scored at once.
const DefaultWorkers = 10

// Server is the gRPC listener for Service plus the standard health service.
type Server struct {
	grpc   *grpc.Server
	health *health.Server
	log    zerolog.Logger
}

// NewServer registers svc on a gRPC server that scores at most workers calls
// concurrently. Further calls wait for a free worker; none are rejected.
func NewServer(svc *Service, workers int, log zerolog.Logger) *Server {
	if workers < 1 {
		workers = DefaultWorkers
	}
	log = log.With().Str("component", "rpc").Logger()

	s := grpc.NewServer(
		grpc.NumStreamWorkers(uint32(workers)),
		grpc.WaitForHandlers(true),
		grpc.ChainUnaryInterceptor(
			loggingInterceptor(log),
			workerPool(int64(workers)),
		),
	)
	pb.RegisterFraudDetectionServiceServer(s, svc)

	hs := health.NewServer()
	hs.SetServingStatus(pb.FraudDetectionService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_NOT_SERVING)
	healthpb.RegisterHealthServer(s, hs)

	return &Server{grpc: s, health: hs, log: log}
}

// Serve marks the service healthy and accepts connections on lis until Stop.
func (s *Server) Serve(lis net.Listener) error {
	s.health.SetServingStatus(pb.FraudDetectionService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	s.log.Info().Str("addr", lis.Addr().String()).Msg("gRPC server listening")
	err := s.grpc.Serve(lis)
	if err == grpc.ErrServerStopped {
		return nil
	}
	return err
}

// Stop closes the listener and every connection at once, without a grace
// period. It returns only after handlers that were already running have
// exited, so none of them outlives the server.
func (s *Server) Stop() {
	s.health.Shutdown()
	s.grpc.Stop()
}

// workerPool bounds concurrently running handlers with a weighted semaphore.
// Waiting callers queue in FIFO order until a slot frees or their own
// context ends.
func workerPool(n int64) grpc.UnaryServerInterceptor {
	sem := semaphore.NewWeighted(n)
	return func(ctx context.Context, req any, _ *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if err := sem.Acquire(ctx, 1); err != nil {
			return nil, status.FromContextError(err).Err()
		}
		defer sem.Release(1)

		metrics.RPCInFlight.Inc()
		defer metrics.RPCInFlight.Dec()
		return handler(ctx, req)
	}
}

func loggingInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		resp, err := handler(ctx, req)

		ev := log.Info()
		if err != nil {
			ev = log.Warn().Err(err)
		}
		ev.Str("method", info.FullMethod).
			Str("code", status.Code(err).String()).
			Dur("duration_ms", time.Since(start)).
			Msg("gRPC request")
		return resp, err
	}
}
