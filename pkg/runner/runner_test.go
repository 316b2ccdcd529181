package runner_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/ports"
	"github.com/kioskflow/kioskflow/pkg/runner"
)

// testFlow builds a small restraining-order flow:
// welcome -> relationship -> children -> support -> review -> done(end).
func testFlow() *domain.FlowDefinition {
	return &domain.FlowDefinition{
		ID:      "dvro",
		Start:   "welcome",
		Locales: []string{"en"},
		Nodes: map[string]*domain.Node{
			"welcome": {ID: "welcome", Type: domain.NodeTypeInfo, Next: "relationship"},
			"relationship": {ID: "relationship", Type: domain.NodeTypeQuestion, Options: []domain.Option{
				{Value: "domestic", Next: "children"},
				{Value: "non_domestic", Next: "children"},
			}},
			"children": {ID: "children", Type: domain.NodeTypeQuestion, Options: []domain.Option{
				{Value: "yes", Next: "support"},
				{Value: "no", Next: "support"},
			}},
			"support": {ID: "support", Type: domain.NodeTypeQuestion, Options: []domain.Option{
				{Value: "none", Next: "review"},
				{Value: "requested", Next: "review"},
			}},
			"review": {ID: "review", Type: domain.NodeTypeInfo, Next: "done"},
			"done":   {ID: "done", Type: domain.NodeTypeEnd},
		},
		Triggers: []domain.Trigger{
			{Name: "non_domestic_packet", When: domain.Predicate{Kind: domain.PredicateEquals, Field: "relationship", Value: "non_domestic"}, Forms: []string{"CH-100", "CH-110"}},
			{Name: "domestic_packet", When: domain.Predicate{Kind: domain.PredicateNotEquals, Field: "relationship", Value: "non_domestic"}, Forms: []string{"DV-100", "CLETS-001", "DV-109", "DV-110"}},
			{Name: "add_if_children", When: domain.Predicate{Kind: domain.PredicateEquals, Field: "children", Value: "yes"}, Forms: []string{"FL-341"}},
			{Name: "add_if_support_requested", When: domain.Predicate{Kind: domain.PredicateAnsweredNot, Field: "support", Value: "none"}, Forms: []string{"FL-150"}},
			{Name: "always_add_proof", When: domain.Predicate{Kind: domain.PredicateAlways}, Forms: []string{"DV-200"}},
		},
	}
}

// recordingSink captures delivered results.
type recordingSink struct {
	mu      sync.Mutex
	results []domain.Result
	fail    bool
}

func (s *recordingSink) Deliver(ctx context.Context, result domain.Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, result)
	if s.fail {
		return errors.New("smtp unreachable")
	}
	return nil
}

func newRunner(t *testing.T, opts ...runner.Option) *runner.Runner {
	t.Helper()
	r, err := runner.New(testFlow(), opts...)
	require.NoError(t, err)
	return r
}

// walk answers the three questions and continues through both info pages.
func walk(t *testing.T, r *runner.Runner, relationship, children, support string) *domain.State {
	t.Helper()
	ctx := context.Background()

	state, err := r.Start("en")
	require.NoError(t, err)

	state, err = r.Continue(ctx, state)
	require.NoError(t, err)
	state, err = r.SelectOption(ctx, state, relationship)
	require.NoError(t, err)
	state, err = r.SelectOption(ctx, state, children)
	require.NoError(t, err)
	state, err = r.SelectOption(ctx, state, support)
	require.NoError(t, err)
	state, err = r.Continue(ctx, state)
	require.NoError(t, err)
	return state
}

func TestStart(t *testing.T) {
	r := newRunner(t)

	state, err := r.Start("es")
	require.NoError(t, err)
	assert.Equal(t, "welcome", state.CurrentNodeID)
	assert.Equal(t, "es", state.Locale)
	assert.Empty(t, state.Answers)
	assert.Empty(t, state.History)
}

func TestStart_UnresolvableStartNode(t *testing.T) {
	flow := testFlow()
	flow.Start = "missing"
	r, err := runner.New(flow)
	require.NoError(t, err)

	_, err = r.Start("en")
	var unknown *domain.UnknownNodeError
	assert.ErrorAs(t, err, &unknown)
}

func TestFullTraversal_DomesticWithChildrenAndSupport(t *testing.T) {
	sink := &recordingSink{}
	r := newRunner(t, runner.WithCompletionSink(sink))

	state := walk(t, r, "domestic", "yes", "requested")

	assert.True(t, state.Completed)
	assert.Equal(t, "done", state.CurrentNodeID)
	assert.Subset(t, state.Forms, []string{"DV-100", "CLETS-001", "DV-109", "DV-110", "FL-341", "FL-150", "DV-200"})
	assert.NotContains(t, state.Forms, "CH-100")

	require.Len(t, sink.results, 1, "completion delivered exactly once")
	assert.Equal(t, "domestic", sink.results[0].Answers["relationship"])
	assert.Equal(t, state.Forms, sink.results[0].Forms)
}

func TestFullTraversal_NonDomesticNoExtras(t *testing.T) {
	r := newRunner(t)

	state := walk(t, r, "non_domestic", "no", "none")

	assert.Contains(t, state.Forms, "CH-100")
	assert.Contains(t, state.Forms, "CH-110")
	assert.Contains(t, state.Forms, "DV-200")
	assert.NotContains(t, state.Forms, "DV-100")
	assert.NotContains(t, state.Forms, "FL-341")
	assert.NotContains(t, state.Forms, "FL-150")
}

func TestSelectOption_RecordsAnswerAndPushesHistory(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	state, _ := r.Start("en")
	state, err := r.Continue(ctx, state)
	require.NoError(t, err)

	state, err = r.SelectOption(ctx, state, "domestic")
	require.NoError(t, err)

	assert.Equal(t, "domestic", state.Answers["relationship"])
	assert.Equal(t, []string{"welcome", "relationship"}, state.History)
	assert.Equal(t, "children", state.CurrentNodeID)
}

func TestSelectOption_UnknownValueFailsLoudly(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	state, _ := r.Start("en")
	state, err := r.Continue(ctx, state)
	require.NoError(t, err)

	_, err = r.SelectOption(ctx, state, "it_is_complicated")
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no option "it_is_complicated"`)
}

func TestSelectOption_OnInfoNodeFails(t *testing.T) {
	r := newRunner(t)
	state, _ := r.Start("en")

	_, err := r.SelectOption(context.Background(), state, "domestic")
	assert.Error(t, err)
}

func TestContinue_OnQuestionNodeFails(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	state, _ := r.Start("en")
	state, err := r.Continue(ctx, state)
	require.NoError(t, err)

	_, err = r.Continue(ctx, state)
	assert.Error(t, err)
}

func TestBack_RestoresPreviousNodeAndKeepsAnswer(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	state, _ := r.Start("en")
	state, _ = r.Continue(ctx, state)
	state, err := r.SelectOption(ctx, state, "domestic")
	require.NoError(t, err)

	state, err = r.Back(state)
	require.NoError(t, err)

	assert.Equal(t, "relationship", state.CurrentNodeID)
	assert.Equal(t, "domestic", state.Answers["relationship"], "answers survive going back")
}

func TestBack_ThenForwardOverwritesAnswer(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	state, _ := r.Start("en")
	state, _ = r.Continue(ctx, state)
	state, _ = r.SelectOption(ctx, state, "domestic")
	state, _ = r.Back(state)

	state, err := r.SelectOption(ctx, state, "non_domestic")
	require.NoError(t, err)

	assert.Equal(t, "non_domestic", state.Answers["relationship"])
}

func TestBack_NStepsReturnToStart(t *testing.T) {
	r := newRunner(t)
	ctx := context.Background()

	state, _ := r.Start("en")
	state, _ = r.Continue(ctx, state)
	state, _ = r.SelectOption(ctx, state, "domestic")
	state, _ = r.SelectOption(ctx, state, "yes")

	var err error
	for i := 0; i < 3; i++ {
		state, err = r.Back(state)
		require.NoError(t, err)
	}

	assert.Equal(t, "welcome", state.CurrentNodeID)
	assert.Empty(t, state.History)

	_, err = r.Back(state)
	assert.ErrorIs(t, err, domain.ErrHistoryEmpty)
}

func TestBack_OutOfCompletedStateReopens(t *testing.T) {
	r := newRunner(t)
	state := walk(t, r, "domestic", "yes", "none")
	require.True(t, state.Completed)

	state, err := r.Back(state)
	require.NoError(t, err)

	assert.False(t, state.Completed)
	assert.Empty(t, state.Forms)
	assert.Equal(t, "review", state.CurrentNodeID)
}

func TestRestart_ClearsEverything(t *testing.T) {
	r := newRunner(t)
	state := walk(t, r, "domestic", "yes", "none")
	state.SessionID = "kiosk-3"

	fresh, err := r.Restart(state)
	require.NoError(t, err)

	assert.Equal(t, "welcome", fresh.CurrentNodeID)
	assert.Empty(t, fresh.Answers)
	assert.Empty(t, fresh.History)
	assert.False(t, fresh.Completed)
	assert.Equal(t, "kiosk-3", fresh.SessionID)
}

func TestForwardAfterCompletionFails(t *testing.T) {
	r := newRunner(t)
	state := walk(t, r, "domestic", "no", "none")

	_, err := r.Continue(context.Background(), state)
	assert.ErrorIs(t, err, domain.ErrCompleted)
}

func TestSinkFailureDoesNotAffectTraversal(t *testing.T) {
	sink := &recordingSink{fail: true}
	r := newRunner(t, runner.WithCompletionSink(sink))

	state := walk(t, r, "domestic", "no", "none")

	assert.True(t, state.Completed)
	assert.NotEmpty(t, state.Forms)
}

func TestHistoryCap(t *testing.T) {
	// a <-> b cycle lets a session outgrow any fixed history bound.
	flow := &domain.FlowDefinition{
		ID:    "loop",
		Start: "a",
		Nodes: map[string]*domain.Node{
			"a": {ID: "a", Type: domain.NodeTypeInfo, Next: "b"},
			"b": {ID: "b", Type: domain.NodeTypeInfo, Next: "a"},
		},
	}
	r, err := runner.New(flow, runner.WithHistoryLimit(5))
	require.NoError(t, err)

	ctx := context.Background()
	state, _ := r.Start("en")
	for i := 0; i < 20; i++ {
		state, err = r.Continue(ctx, state)
		require.NoError(t, err)
	}

	assert.Len(t, state.History, 5, "oldest entries dropped beyond the cap")
}

func TestCurrent_UnknownNodeFallback(t *testing.T) {
	r := newRunner(t)
	state, _ := r.Start("en")
	state.CurrentNodeID = "page-deleted-by-author"

	_, err := r.Current(state)
	var unknown *domain.UnknownNodeError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "page-deleted-by-author", unknown.NodeID)
}

func TestRecommendIsIdempotent(t *testing.T) {
	r := newRunner(t)
	state := walk(t, r, "domestic", "yes", "requested")

	assert.Equal(t, r.Recommend(state), r.Recommend(state))
}

var _ ports.CompletionSink = (*recordingSink)(nil)
