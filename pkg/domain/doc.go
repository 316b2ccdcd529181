// Package domain holds the core types of the flow engine: flow definitions,
// nodes, traversal state, rule descriptors and the completion result.
// It has no dependencies outside the standard library; parsing, evaluation
// and persistence live in the surrounding packages.
package domain
