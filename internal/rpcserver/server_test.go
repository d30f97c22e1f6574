package rpcserver

import (
	"context"
	"fmt"
	"math"
	"net"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"

	pb "fraud-inference/pb"

	"fraud-inference/internal/audit"
	"fraud-inference/internal/features"
	"fraud-inference/internal/model"
	"fraud-inference/internal/scoring"
)

type recorder struct {
	mu      sync.Mutex
	records []audit.Record
}

func (r *recorder) Publish(rec audit.Record) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, rec)
}

func (r *recorder) Close() {}

func (r *recorder) all() []audit.Record {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]audit.Record(nil), r.records...)
}

type scorerFunc func(features.Transaction) (scoring.Verdict, error)

func (f scorerFunc) Score(tx features.Transaction) (scoring.Verdict, error) { return f(tx) }

func pipeline(t *testing.T) *scoring.Pipeline {
	t.Helper()
	h, err := model.Load(context.Background(), "../model/testdata/logistic.json")
	require.NoError(t, err)
	return scoring.NewPipeline(features.DefaultEncoder, h)
}

func startServer(t *testing.T, svc *Service, workers int) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := NewServer(svc, workers, zerolog.Nop())
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestReconstruct(t *testing.T) {
	tx := Reconstruct(250.5)
	assert.Equal(t, features.Transaction{
		Step:           1,
		Amount:         250.5,
		OldBalanceOrig: 250.5,
		NewBalanceOrig: 0,
		OldBalanceDest: 0,
		NewBalanceDest: 250.5,
		Type:           features.Transfer,
	}, tx)
	assert.Equal(t, tx, Reconstruct(250.5))
}

func TestPredictFraud(t *testing.T) {
	rec := &recorder{}
	client := pb.NewFraudDetectionServiceClient(startServer(t, NewService(pipeline(t), rec, zerolog.Nop()), 4))

	resp, err := client.PredictFraud(context.Background(), &pb.FraudRequest{
		TransactionId: "tx-1",
		CardNumber:    "4111 1111 1111 1111",
		Amount:        1024,
		Merchant:      "acme",
		Location:      "81.2.69.142",
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", resp.GetTransactionId())
	assert.Equal(t, 0.5, resp.GetConfidenceScore())
	assert.True(t, resp.GetFraudulent())

	resp, err = client.PredictFraud(context.Background(), &pb.FraudRequest{TransactionId: "tx-2", Amount: 181})
	require.NoError(t, err)
	assert.Equal(t, "tx-2", resp.GetTransactionId())
	assert.Less(t, resp.GetConfidenceScore(), 0.5)
	assert.False(t, resp.GetFraudulent())

	records := rec.all()
	require.Len(t, records, 2)
	assert.Equal(t, "tx-1", records[0].TransactionID)
	assert.Equal(t, audit.SourceGRPC, records[0].Source)
	assert.Equal(t, "acme", records[0].Merchant)
	assert.True(t, records[0].Verdict.IsFraud)
}

func TestPredictFraud_ReconstructsTransaction(t *testing.T) {
	var seen features.Transaction
	scorer := scorerFunc(func(tx features.Transaction) (scoring.Verdict, error) {
		seen = tx
		return scoring.NewVerdict(0.9), nil
	})
	client := pb.NewFraudDetectionServiceClient(startServer(t, NewService(scorer, nil, zerolog.Nop()), 1))

	resp, err := client.PredictFraud(context.Background(), &pb.FraudRequest{
		TransactionId: "tx-1",
		Amount:        5000,
		CardNumber:    "5500 0000 0000 0004",
		Merchant:      "coffee",
		Location:      "Berlin",
	})
	require.NoError(t, err)
	assert.Equal(t, "tx-1", resp.GetTransactionId())
	assert.True(t, resp.GetFraudulent())
	assert.Equal(t, 0.9, resp.GetConfidenceScore())
	assert.Equal(t, features.Transaction{
		Step:           1,
		Amount:         5000,
		OldBalanceOrig: 5000,
		NewBalanceOrig: 0,
		OldBalanceDest: 0,
		NewBalanceDest: 5000,
		Type:           features.Transfer,
	}, seen)
}

func TestPredictFraud_Deterministic(t *testing.T) {
	client := pb.NewFraudDetectionServiceClient(startServer(t, NewService(pipeline(t), nil, zerolog.Nop()), 4))

	first, err := client.PredictFraud(context.Background(), &pb.FraudRequest{TransactionId: "a", Amount: 777.77})
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		again, err := client.PredictFraud(context.Background(), &pb.FraudRequest{TransactionId: "a", Amount: 777.77})
		require.NoError(t, err)
		assert.Equal(t, first.GetConfidenceScore(), again.GetConfidenceScore())
		assert.Equal(t, first.GetFraudulent(), again.GetFraudulent())
	}
}

func TestPredictFraud_InvalidAmount(t *testing.T) {
	called := false
	scorer := scorerFunc(func(features.Transaction) (scoring.Verdict, error) {
		called = true
		return scoring.Verdict{}, nil
	})
	client := pb.NewFraudDetectionServiceClient(startServer(t, NewService(scorer, nil, zerolog.Nop()), 2))

	for _, amount := range []float64{0, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := client.PredictFraud(context.Background(), &pb.FraudRequest{TransactionId: "bad", Amount: amount})
		assert.Equal(t, codes.InvalidArgument, status.Code(err), "amount %v", amount)
	}
	assert.False(t, called)
}

func TestPredictFraud_NegativeAmountIsScored(t *testing.T) {
	var seen features.Transaction
	scorer := scorerFunc(func(tx features.Transaction) (scoring.Verdict, error) {
		seen = tx
		return scoring.NewVerdict(0.1), nil
	})
	client := pb.NewFraudDetectionServiceClient(startServer(t, NewService(scorer, nil, zerolog.Nop()), 1))

	resp, err := client.PredictFraud(context.Background(), &pb.FraudRequest{TransactionId: "refund", Amount: -42.5})
	require.NoError(t, err)
	assert.Equal(t, "refund", resp.GetTransactionId())
	assert.Equal(t, Reconstruct(-42.5), seen)
}

func TestPredictFraud_InferenceErrorIsInternal(t *testing.T) {
	scorer := scorerFunc(func(features.Transaction) (scoring.Verdict, error) {
		return scoring.Verdict{}, &model.InferenceError{Reason: "probability out of range"}
	})
	client := pb.NewFraudDetectionServiceClient(startServer(t, NewService(scorer, nil, zerolog.Nop()), 2))

	_, err := client.PredictFraud(context.Background(), &pb.FraudRequest{TransactionId: "x", Amount: 10})
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestPredictFraud_ConcurrentCallsKeepTheirIDs(t *testing.T) {
	client := pb.NewFraudDetectionServiceClient(startServer(t, NewService(pipeline(t), nil, zerolog.Nop()), 10))

	const n = 50
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := fmt.Sprintf("tx-%d", i)
			amount := float64(100 + i*40)
			resp, err := client.PredictFraud(context.Background(), &pb.FraudRequest{TransactionId: id, Amount: amount})
			if err != nil {
				errs <- err
				return
			}
			if resp.GetTransactionId() != id {
				errs <- fmt.Errorf("%s answered as %s", id, resp.GetTransactionId())
				return
			}
			want := 1 / (1 + math.Exp(-(amount/1024 - 1)))
			if math.Abs(resp.GetConfidenceScore()-want) > 1e-9 {
				errs <- fmt.Errorf("%s: confidence %v, want %v", id, resp.GetConfidenceScore(), want)
			}
		}(i)
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}

func TestWorkerPool_QueuesBeyondLimit(t *testing.T) {
	const workers = 2
	var (
		mu       sync.Mutex
		cur, peak int
	)
	release := make(chan struct{})
	scorer := scorerFunc(func(features.Transaction) (scoring.Verdict, error) {
		mu.Lock()
		cur++
		if cur > peak {
			peak = cur
		}
		mu.Unlock()
		<-release
		mu.Lock()
		cur--
		mu.Unlock()
		return scoring.NewVerdict(0.1), nil
	})
	client := pb.NewFraudDetectionServiceClient(startServer(t, NewService(scorer, nil, zerolog.Nop()), workers))

	const calls = 6
	var wg sync.WaitGroup
	codesSeen := make(chan codes.Code, calls)
	for i := 0; i < calls; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := client.PredictFraud(context.Background(), &pb.FraudRequest{TransactionId: fmt.Sprint(i), Amount: 1})
			codesSeen <- status.Code(err)
		}(i)
	}

	running := func() int {
		mu.Lock()
		defer mu.Unlock()
		return cur
	}
	require.Eventually(t, func() bool { return running() == workers }, 2*time.Second, 5*time.Millisecond)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, workers, running())

	close(release)
	wg.Wait()
	close(codesSeen)
	for c := range codesSeen {
		assert.Equal(t, codes.OK, c)
	}
	assert.Equal(t, workers, peak)
}

func TestHealth_Serving(t *testing.T) {
	conn := startServer(t, NewService(pipeline(t), nil, zerolog.Nop()), 1)

	hc := healthpb.NewHealthClient(conn)
	require.Eventually(t, func() bool {
		resp, err := hc.Check(context.Background(), &healthpb.HealthCheckRequest{
			Service: pb.FraudDetectionService_ServiceDesc.ServiceName,
		})
		return err == nil && resp.GetStatus() == healthpb.HealthCheckResponse_SERVING
	}, 2*time.Second, 10*time.Millisecond)
}

// closeTracker records publishes that arrive after Close.
type closeTracker struct {
	mu        sync.Mutex
	closed    bool
	published int
	late      int
}

func (c *closeTracker) Publish(audit.Record) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.published++
	if c.closed {
		c.late++
	}
}

func (c *closeTracker) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func TestStop_WaitsForRunningHandlers(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	scorer := scorerFunc(func(features.Transaction) (scoring.Verdict, error) {
		once.Do(func() { close(entered) })
		<-release
		return scoring.NewVerdict(0.2), nil
	})
	pub := &closeTracker{}

	lis := bufconn.Listen(1 << 20)
	srv := NewServer(NewService(scorer, pub, zerolog.Nop()), 2, zerolog.Nop())
	go func() { _ = srv.Serve(lis) }()

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	defer conn.Close()

	go func() {
		_, _ = pb.NewFraudDetectionServiceClient(conn).PredictFraud(context.Background(),
			&pb.FraudRequest{TransactionId: "in-flight", Amount: 50})
	}()
	select {
	case <-entered:
	case <-time.After(2 * time.Second):
		t.Fatal("handler never started")
	}

	stopped := make(chan struct{})
	go func() {
		srv.Stop()
		pub.Close()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while a handler was still running")
	case <-time.After(100 * time.Millisecond):
	}

	close(release)
	select {
	case <-stopped:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return after the handler finished")
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	assert.Equal(t, 1, pub.published)
	assert.Zero(t, pub.late, "handler published after the audit sink was closed")
}
