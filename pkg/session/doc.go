// Package session coordinates concurrent access to per-session traversal
// state. A Manager serializes operations per session id with reference-counted
// in-process locks, optionally backed by a distributed locker when several
// kiosk backends share one store.
package session
