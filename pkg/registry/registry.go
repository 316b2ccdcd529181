// Package registry manages named completion sinks. Deployments compose the
// delivery side-effects of a finished session (logging, mail, audit) by
// registering sinks and fanning results out to all of them.
package registry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/kioskflow/kioskflow/internal/clients"
	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/ports"
)

// Registry manages the available completion sinks.
type Registry struct {
	mu    sync.RWMutex
	order []string
	sinks map[string]ports.CompletionSink
}

// NewRegistry creates a new empty registry.
func NewRegistry() *Registry {
	return &Registry{
		sinks: make(map[string]ports.CompletionSink),
	}
}

// Register adds a sink to the registry.
// If a sink with the same name exists, it is overwritten in place.
func (r *Registry) Register(name string, sink ports.CompletionSink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.sinks[name]; !ok {
		r.order = append(r.order, name)
	}
	r.sinks[name] = sink
}

// Deliver looks up a sink by name and hands it the result.
// Returns an error if the sink is not found.
func (r *Registry) Deliver(ctx context.Context, name string, result domain.Result) error {
	r.mu.RLock()
	sink, ok := r.sinks[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("sink not found: %s", name)
	}

	return sink.Deliver(ctx, result)
}

// All returns a composite sink that delivers to every registered sink in
// registration order. Failures are collected; one failing sink does not
// stop the others.
func (r *Registry) All() ports.CompletionSink {
	return ports.SinkFunc(func(ctx context.Context, result domain.Result) error {
		r.mu.RLock()
		names := append([]string(nil), r.order...)
		r.mu.RUnlock()

		var errs []error
		for _, name := range names {
			if err := r.Deliver(ctx, name, result); err != nil {
				errs = append(errs, fmt.Errorf("sink %s: %w", name, err))
			}
		}
		return errors.Join(errs...)
	})
}

// NewLogSink returns a sink that records each completed session.
func NewLogSink(logger *slog.Logger) ports.CompletionSink {
	return ports.SinkFunc(func(ctx context.Context, result domain.Result) error {
		logger.Info("session result",
			"flow", result.FlowID,
			"session_id", result.SessionID,
			"forms", result.Forms,
		)
		return nil
	})
}

// NewEmailSink returns a sink that mails the result to the address the
// visitor gave on the answer field. Sessions without that answer are
// skipped; a flow opts in by collecting the address.
func NewEmailSink(client *clients.EmailClient, field string, logger *slog.Logger) ports.CompletionSink {
	return ports.SinkFunc(func(ctx context.Context, result domain.Result) error {
		to := result.Answers[field]
		if to == "" {
			return nil
		}

		forms := make([]domain.RecommendedForm, 0, len(result.Forms))
		for _, code := range result.Forms {
			forms = append(forms, domain.RecommendedForm{Number: code, Name: code})
		}

		err := client.Send(ctx, to, clients.CasePayload{
			Email:   to,
			FlowID:  result.FlowID,
			Locale:  result.Locale,
			Forms:   forms,
			Answers: result.Answers,
		})
		if err != nil {
			logger.Error("email sink delivery failed", "flow", result.FlowID, "error", err)
		}
		return err
	})
}
