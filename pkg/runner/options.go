package runner

import (
	"log/slog"

	"github.com/kioskflow/kioskflow/pkg/ports"
)

// DefaultHistoryLimit caps the back-stack. Authored flows are short; the cap
// only matters when a user loops through a cyclic flow indefinitely.
const DefaultHistoryLimit = 10000

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets a structured logger for traversal events.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithCompletionSink registers the sink receiving completed-traversal results.
func WithCompletionSink(sink ports.CompletionSink) Option {
	return func(r *Runner) {
		r.sink = sink
	}
}

// WithHistoryLimit overrides the back-stack cap. Values below 1 are ignored.
func WithHistoryLimit(limit int) Option {
	return func(r *Runner) {
		if limit > 0 {
			r.historyLimit = limit
		}
	}
}
