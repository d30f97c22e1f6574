package lifecycle

import (
	"context"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"fraud-inference/internal/audit"
	"fraud-inference/internal/features"
	"fraud-inference/internal/httpapi"
	"fraud-inference/internal/metrics"
	"fraud-inference/internal/model"
	"fraud-inference/internal/rpcserver"
	"fraud-inference/internal/scoring"
)

// ListenFunc opens a listener when the manager is ready to serve.
type ListenFunc func() (net.Listener, error)

// LoadFunc produces the model handle.
type LoadFunc func(ctx context.Context, path string) (*model.Handle, error)

// Listen returns a ListenFunc for a TCP address.
func Listen(addr string) ListenFunc {
	return func() (net.Listener, error) {
		return net.Listen("tcp", addr)
	}
}

// Component is an optional part started once the service is SERVING and
// stopped while shutting down. Stop releases whatever the component holds
// and must also work when Start was never called.
type Component interface {
	Name() string
	Start(svc *rpcserver.Service) error
	Stop()
}

// Config holds what the manager needs to bring the service up.
type Config struct {
	Log             zerolog.Logger
	ModelPath       string
	Load            LoadFunc
	RPCListen       ListenFunc
	HTTPListen      ListenFunc
	RPCWorkers      int
	ShutdownTimeout time.Duration
	Audit           audit.Publisher
	Components      []Component
}

// Manager owns the service lifecycle. Run may be called once.
type Manager struct {
	cfg   Config
	log   zerolog.Logger
	state atomic.Int32
}

// New creates a Manager in the UNSTARTED state.
func New(cfg Config) *Manager {
	if cfg.Load == nil {
		cfg.Load = model.Load
	}
	if cfg.Audit == nil {
		cfg.Audit = audit.Nop{}
	}
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = 10 * time.Second
	}
	return &Manager{
		cfg: cfg,
		log: cfg.Log.With().Str("component", "lifecycle").Logger(),
	}
}

// State returns the current phase.
func (m *Manager) State() State {
	return State(m.state.Load())
}

// Ready reports whether the manager is SERVING.
func (m *Manager) Ready() bool {
	return m.State() == Serving
}

// StateName returns the current phase as text.
func (m *Manager) StateName() string {
	return m.State().String()
}

// transition moves to the next state. An illegal move is a programming
// error and panics.
func (m *Manager) transition(to State) {
	for {
		from := m.State()
		if !canMove(from, to) {
			panic(fmt.Sprintf("lifecycle: illegal transition %s -> %s", from, to))
		}
		if m.state.CompareAndSwap(int32(from), int32(to)) {
			metrics.LifecycleState.Set(float64(to))
			m.log.Info().Str("from", from.String()).Str("to", to.String()).Msg("Lifecycle transition")
			return
		}
	}
}

// Run loads the model, starts both listeners and blocks until ctx is done or
// a listener fails, then shuts everything down. If the model cannot be
// loaded no listener is opened and the manager never reaches SERVING.
func (m *Manager) Run(ctx context.Context) error {
	m.transition(Loading)

	h, err := m.cfg.Load(ctx, m.cfg.ModelPath)
	if err != nil {
		m.abort()
		return fmt.Errorf("load model: %w", err)
	}
	info := h.Info()
	metrics.SetModel(info.Kind, info.Features, info.Trees)
	m.logModel(info)

	pipeline := scoring.NewPipeline(features.DefaultEncoder, h)
	svc := rpcserver.NewService(pipeline, m.cfg.Audit, m.cfg.Log)
	rpcSrv := rpcserver.NewServer(svc, m.cfg.RPCWorkers, m.cfg.Log)
	httpSrv := httpapi.New(httpapi.Config{
		Log:       m.cfg.Log,
		Scorer:    pipeline,
		Audit:     m.cfg.Audit,
		Readiness: m,
		Model:     info,
	})

	rpcLis, err := m.cfg.RPCListen()
	if err != nil {
		m.abort()
		return fmt.Errorf("rpc listener: %w", err)
	}
	httpLis, err := m.cfg.HTTPListen()
	if err != nil {
		rpcLis.Close()
		m.abort()
		return fmt.Errorf("http listener: %w", err)
	}

	errCh := make(chan error, 2)
	go func() {
		if err := rpcSrv.Serve(rpcLis); err != nil {
			errCh <- fmt.Errorf("rpc server: %w", err)
		}
	}()
	go func() {
		if err := httpSrv.Serve(httpLis); err != nil {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	m.transition(Serving)

	var runErr error
	for _, c := range m.cfg.Components {
		if err := c.Start(svc); err != nil {
			runErr = fmt.Errorf("start %s: %w", c.Name(), err)
			break
		}
		m.log.Info().Str("name", c.Name()).Msg("Component started")
	}

	if runErr == nil {
		select {
		case <-ctx.Done():
		case runErr = <-errCh:
			m.log.Error().Err(runErr).Msg("Listener failed")
		}
	}

	m.transition(ShuttingDown)

	m.stopComponents()

	// Connections are dropped at once; Stop returns after running handlers
	// finish, so nothing publishes once the audit sink is closed.
	rpcSrv.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), m.cfg.ShutdownTimeout)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		m.log.Warn().Err(err).Msg("HTTP shutdown did not finish cleanly")
	}

	m.cfg.Audit.Close()
	m.transition(Stopped)
	return runErr
}

// abort releases the optional parts when startup fails before SERVING.
func (m *Manager) abort() {
	m.stopComponents()
	m.cfg.Audit.Close()
	m.transition(Stopped)
}

func (m *Manager) stopComponents() {
	for i := len(m.cfg.Components) - 1; i >= 0; i-- {
		m.cfg.Components[i].Stop()
	}
}

// minTrees is the smallest ensemble not flagged as a likely placeholder.
const minTrees = 10

func (m *Manager) logModel(info model.Info) {
	m.log.Info().
		Str("kind", info.Kind).
		Int("features", info.Features).
		Int("trees", info.Trees).
		Str("source", info.Source).
		Msg("Model loaded")
	if info.Kind == model.KindXGBoost && info.Trees < minTrees {
		m.log.Warn().
			Int("trees", info.Trees).
			Str("source", info.Source).
			Msg("Model has very few trees; MODEL_PATH may point at a placeholder artifact")
	}
}
