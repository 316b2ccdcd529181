package runner

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/kioskflow/kioskflow/internal/logging"
	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/ports"
	"github.com/kioskflow/kioskflow/pkg/rules"
)

// Runner walks one flow definition. Safe for concurrent use: all session
// state lives in the State values passed through it.
type Runner struct {
	flow         *domain.FlowDefinition
	engine       *rules.Engine
	sink         ports.CompletionSink
	logger       *slog.Logger
	historyLimit int
}

// New builds a runner for a validated flow definition. The rule table is
// compiled here, so a bad expression surfaces at load rather than mid-flow.
func New(flow *domain.FlowDefinition, opts ...Option) (*Runner, error) {
	engine, err := rules.New(flow.Triggers)
	if err != nil {
		return nil, fmt.Errorf("flow %s: %w", flow.ID, err)
	}

	r := &Runner{
		flow:         flow,
		engine:       engine,
		logger:       logging.NewNop(),
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Flow returns the definition this runner walks.
func (r *Runner) Flow() *domain.FlowDefinition {
	return r.flow
}

// Start creates a fresh state at the flow's start node.
func (r *Runner) Start(locale string) (*domain.State, error) {
	if _, ok := r.flow.Node(r.flow.Start); !ok {
		return nil, &domain.UnknownNodeError{FlowID: r.flow.ID, NodeID: r.flow.Start}
	}
	return domain.NewState(r.flow.ID, r.flow.Start, locale), nil
}

// Current resolves the node the state points at. An unresolvable id returns
// UnknownNodeError so callers can render a fallback page instead of crashing.
func (r *Runner) Current(state *domain.State) (*domain.Node, error) {
	node, ok := r.flow.Node(state.CurrentNodeID)
	if !ok {
		return nil, &domain.UnknownNodeError{FlowID: r.flow.ID, NodeID: state.CurrentNodeID}
	}
	return node, nil
}

// SelectOption records the answer for the current question node and follows
// the chosen edge. Selecting a value the node does not offer is a content or
// programming error and fails loudly.
func (r *Runner) SelectOption(ctx context.Context, state *domain.State, value string) (*domain.State, error) {
	if state.Completed {
		return nil, domain.ErrCompleted
	}
	node, err := r.Current(state)
	if err != nil {
		return nil, err
	}
	if node.Type != domain.NodeTypeQuestion {
		return nil, fmt.Errorf("node %s is type %q, not a question", node.ID, node.Type)
	}
	option, ok := node.Option(value)
	if !ok {
		return nil, fmt.Errorf("node %s has no option %q", node.ID, value)
	}

	next := state.Clone()
	next.Answers[node.ID] = option.Value
	r.push(next, node.ID)
	return r.advance(ctx, next, option.Next)
}

// Continue follows the single edge of the current info node.
func (r *Runner) Continue(ctx context.Context, state *domain.State) (*domain.State, error) {
	if state.Completed {
		return nil, domain.ErrCompleted
	}
	node, err := r.Current(state)
	if err != nil {
		return nil, err
	}
	if node.Type != domain.NodeTypeInfo {
		return nil, fmt.Errorf("node %s is type %q, not an info page", node.ID, node.Type)
	}

	next := state.Clone()
	r.push(next, node.ID)
	return r.advance(ctx, next, node.Next)
}

// Back pops the most recent node off the history and returns there. Answers
// recorded on the node being left are kept; moving forward again overwrites
// them. Going back out of a completed state reopens the traversal.
func (r *Runner) Back(state *domain.State) (*domain.State, error) {
	if len(state.History) == 0 {
		return nil, domain.ErrHistoryEmpty
	}

	next := state.Clone()
	last := len(next.History) - 1
	next.CurrentNodeID = next.History[last]
	next.History = next.History[:last]
	next.Completed = false
	next.Forms = nil
	return next, nil
}

// Restart resets to the initial state, dropping answers and history.
func (r *Runner) Restart(state *domain.State) (*domain.State, error) {
	fresh, err := r.Start(state.Locale)
	if err != nil {
		return nil, err
	}
	fresh.SessionID = state.SessionID
	return fresh, nil
}

// Recommend computes the form list for the accumulated answers without
// touching traversal state. Deterministic and safe to call repeatedly.
func (r *Runner) Recommend(state *domain.State) []string {
	return r.engine.Recommend(state.Answers)
}

// advance moves to the target node, or completes the traversal when the edge
// has no target. Arriving on an explicit end node also completes: no
// operation remains that could.
func (r *Runner) advance(ctx context.Context, state *domain.State, target string) (*domain.State, error) {
	if target == "" {
		r.complete(ctx, state)
		return state, nil
	}

	state.CurrentNodeID = target
	node, ok := r.flow.Node(target)
	if !ok {
		// Validation makes this unreachable for loaded flows; guard anyway so
		// a hand-built definition cannot corrupt the session.
		return nil, &domain.UnknownNodeError{FlowID: r.flow.ID, NodeID: target}
	}
	if node.Type == domain.NodeTypeEnd {
		r.complete(ctx, state)
	}
	return state, nil
}

// complete marks the traversal finished, derives the recommendation and
// delivers the result. Runs at most once per completed traversal; a sink
// failure is logged and never rolls back traversal state.
func (r *Runner) complete(ctx context.Context, state *domain.State) {
	if state.Completed {
		return
	}
	state.Completed = true
	state.Forms = r.engine.Recommend(state.Answers)

	r.logger.Info("flow completed",
		"flow", r.flow.ID,
		"node", state.CurrentNodeID,
		"answers", len(state.Answers),
		"forms", len(state.Forms),
	)

	if r.sink == nil {
		return
	}
	result := domain.Result{
		FlowID:      state.FlowID,
		SessionID:   state.SessionID,
		Locale:      state.Locale,
		Answers:     copyAnswers(state.Answers),
		Forms:       append([]string(nil), state.Forms...),
		CompletedAt: time.Now().UTC(),
	}
	if err := r.sink.Deliver(ctx, result); err != nil {
		r.logger.Warn("completion delivery failed", "flow", r.flow.ID, "err", err)
	}
}

// push appends to the history stack, dropping the oldest entry beyond the
// cap so a cyclic flow cannot grow memory without bound.
func (r *Runner) push(state *domain.State, nodeID string) {
	state.History = append(state.History, nodeID)
	if len(state.History) > r.historyLimit {
		state.History = state.History[len(state.History)-r.historyLimit:]
	}
}

func copyAnswers(answers map[string]string) map[string]string {
	out := make(map[string]string, len(answers))
	for k, v := range answers {
		out[k] = v
	}
	return out
}
