package ports

import (
	"context"

	"github.com/kioskflow/kioskflow/pkg/domain"
)

// CompletionSink receives the result of a finished traversal. The runner
// calls Deliver exactly once per completed flow and never retries; sinks own
// their timeouts and failure handling. A failed delivery must not affect
// traversal state, which is already terminal by the time Deliver runs.
type CompletionSink interface {
	Deliver(ctx context.Context, result domain.Result) error
}

// SinkFunc adapts a plain function to the CompletionSink interface.
type SinkFunc func(ctx context.Context, result domain.Result) error

// Deliver implements CompletionSink.
func (f SinkFunc) Deliver(ctx context.Context, result domain.Result) error {
	return f(ctx, result)
}
