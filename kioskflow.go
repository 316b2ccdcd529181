package kioskflow

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/kioskflow/kioskflow/internal/logging"
	"github.com/kioskflow/kioskflow/pkg/adapters/file"
	"github.com/kioskflow/kioskflow/pkg/adapters/memory"
	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/ports"
	"github.com/kioskflow/kioskflow/pkg/runner"
	"github.com/kioskflow/kioskflow/pkg/session"
)

// Version is the build version, overridable at link time.
var Version = "dev"

// Engine is the high-level entry point for the kioskflow library. It wires a
// flow source, a session store and per-flow runners behind one API.
type Engine struct {
	flows        ports.FlowSource
	store        ports.StateStore
	locker       ports.DistributedLocker
	sink         ports.CompletionSink
	logger       *slog.Logger
	historyLimit int

	sessions *session.Manager

	mu      sync.RWMutex
	runners map[string]*runner.Runner
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithSource injects a custom FlowSource, bypassing the default directory
// loader.
func WithSource(source ports.FlowSource) Option {
	return func(e *Engine) {
		e.flows = source
	}
}

// WithStore sets the session state store. Defaults to in-memory.
func WithStore(store ports.StateStore) Option {
	return func(e *Engine) {
		e.store = store
	}
}

// WithLocker enables distributed session locking for multi-instance setups.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(e *Engine) {
		e.locker = locker
	}
}

// WithCompletionSink registers the sink invoked once per completed session.
func WithCompletionSink(sink ports.CompletionSink) Option {
	return func(e *Engine) {
		e.sink = sink
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithHistoryLimit caps the per-session back-stack.
func WithHistoryLimit(limit int) Option {
	return func(e *Engine) {
		e.historyLimit = limit
	}
}

// New initializes an Engine. By default it loads flow definitions from
// flowsDir; WithSource skips the directory loader and flowsDir may be empty.
func New(flowsDir string, opts ...Option) (*Engine, error) {
	eng := &Engine{
		historyLimit: runner.DefaultHistoryLimit,
		runners:      make(map[string]*runner.Runner),
	}
	for _, opt := range opts {
		opt(eng)
	}

	if eng.logger == nil {
		eng.logger = logging.NewNop()
	}

	if eng.flows == nil {
		if flowsDir == "" {
			return nil, fmt.Errorf("flowsDir is required when no custom source is provided")
		}
		source, err := file.New(flowsDir, file.WithLogger(eng.logger))
		if err != nil {
			return nil, fmt.Errorf("failed to load flows: %w", err)
		}
		eng.flows = source
	}

	if eng.store == nil {
		eng.store = memory.NewStore()
	}

	sessionOpts := []session.Option{session.WithLogger(eng.logger)}
	if eng.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(eng.locker))
	}
	eng.sessions = session.NewManager(eng.store, sessionOpts...)

	return eng, nil
}

// Flows lists the ids of all loaded flow definitions.
func (e *Engine) Flows(ctx context.Context) ([]string, error) {
	return e.flows.List(ctx)
}

// Flow returns one flow definition.
func (e *Engine) Flow(ctx context.Context, id string) (*domain.FlowDefinition, error) {
	return e.flows.Flow(ctx, id)
}

// Sessions exposes the session manager for callers that need direct store
// access.
func (e *Engine) Sessions() *session.Manager {
	return e.sessions
}

// Runner returns the cached runner for a flow, building it on first use.
func (e *Engine) Runner(ctx context.Context, flowID string) (*runner.Runner, error) {
	e.mu.RLock()
	rn, ok := e.runners[flowID]
	e.mu.RUnlock()
	if ok {
		return rn, nil
	}

	flow, err := e.flows.Flow(ctx, flowID)
	if err != nil {
		return nil, err
	}

	opts := []runner.Option{
		runner.WithLogger(e.logger),
		runner.WithHistoryLimit(e.historyLimit),
	}
	if e.sink != nil {
		opts = append(opts, runner.WithCompletionSink(e.sink))
	}
	rn, err = runner.New(flow, opts...)
	if err != nil {
		return nil, err
	}

	e.mu.Lock()
	e.runners[flowID] = rn
	e.mu.Unlock()
	return rn, nil
}

// StartSession creates and persists a new session for the given flow,
// returning its initial state. The session id is generated.
func (e *Engine) StartSession(ctx context.Context, flowID, locale string) (*domain.State, error) {
	rn, err := e.Runner(ctx, flowID)
	if err != nil {
		return nil, err
	}

	state, err := rn.Start(locale)
	if err != nil {
		return nil, err
	}
	state.SessionID = uuid.NewString()

	if err := e.sessions.Save(ctx, state.SessionID, state); err != nil {
		return nil, err
	}
	return state, nil
}

// Answer records the chosen option for the session's current question and
// advances.
func (e *Engine) Answer(ctx context.Context, sessionID, value string) (*domain.State, error) {
	return e.step(ctx, sessionID, func(rn *runner.Runner, state *domain.State) (*domain.State, error) {
		return rn.SelectOption(ctx, state, value)
	})
}

// Continue advances past the session's current info page.
func (e *Engine) Continue(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.step(ctx, sessionID, func(rn *runner.Runner, state *domain.State) (*domain.State, error) {
		return rn.Continue(ctx, state)
	})
}

// Back returns the session to the previously visited page.
func (e *Engine) Back(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.step(ctx, sessionID, func(rn *runner.Runner, state *domain.State) (*domain.State, error) {
		return rn.Back(state)
	})
}

// Restart resets the session to the flow's start, dropping answers and
// history.
func (e *Engine) Restart(ctx context.Context, sessionID string) (*domain.State, error) {
	return e.step(ctx, sessionID, func(rn *runner.Runner, state *domain.State) (*domain.State, error) {
		return rn.Restart(state)
	})
}

// step runs one traversal operation under the session lock.
func (e *Engine) step(ctx context.Context, sessionID string, op func(*runner.Runner, *domain.State) (*domain.State, error)) (*domain.State, error) {
	return e.sessions.Update(ctx, sessionID, func(state *domain.State) (*domain.State, error) {
		rn, err := e.Runner(ctx, state.FlowID)
		if err != nil {
			return nil, err
		}
		return op(rn, state)
	})
}
