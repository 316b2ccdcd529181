package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrSessionNotFound is returned when a session ID cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrFlowNotFound is returned when a flow source has no flow for the given id.
var ErrFlowNotFound = errors.New("flow not found")

// ErrHistoryEmpty is returned by Back when there is nothing to go back to.
var ErrHistoryEmpty = errors.New("history is empty")

// ErrCompleted is returned when a forward operation is attempted on a session
// whose traversal already completed.
var ErrCompleted = errors.New("flow already completed")

// UnknownNodeError signals that the current node id does not resolve in the
// flow definition. Callers should render a fallback page rather than crash:
// this can arrive in production via a content-authoring mistake.
type UnknownNodeError struct {
	FlowID string
	NodeID string
}

func (e *UnknownNodeError) Error() string {
	return fmt.Sprintf("flow %s: unknown node %q", e.FlowID, e.NodeID)
}

// ContentError describes a single defect in an authored flow definition.
// Content errors are fatal at load: a flow that fails validation is never
// handed to the runner.
type ContentError struct {
	FlowID string
	NodeID string
	Field  string
	Reason string
}

func (e *ContentError) Error() string {
	var b strings.Builder
	b.WriteString("flow ")
	b.WriteString(e.FlowID)
	if e.NodeID != "" {
		b.WriteString(", node ")
		b.WriteString(e.NodeID)
	}
	if e.Field != "" {
		b.WriteString(", field ")
		b.WriteString(e.Field)
	}
	b.WriteString(": ")
	b.WriteString(e.Reason)
	return b.String()
}

// ValidationError aggregates every content error found in one definition, so
// authors see all defects in a single pass.
type ValidationError struct {
	Errors []error
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	msgs := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("%d content errors: %s", len(e.Errors), strings.Join(msgs, "; "))
}

func (e *ValidationError) Unwrap() []error {
	return e.Errors
}
