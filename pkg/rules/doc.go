// Package rules implements the form-recommendation engine: an ordered table
// of trigger predicates evaluated against the accumulated answer map. The
// engine is a pure function of its inputs; expression predicates are compiled
// once at construction.
package rules
