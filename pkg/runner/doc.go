// Package runner implements the flow traversal state machine.
//
// A Runner is built once per flow definition and is stateless across calls:
// every operation takes a State, clones it, applies one transition and
// returns the new State. Reaching a terminal edge computes the form
// recommendation and delivers the result to the configured completion sink
// exactly once per completed traversal.
package runner
