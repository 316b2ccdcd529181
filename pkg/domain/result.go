package domain

import "time"

// Result is the outcome of one completed traversal, handed to a
// CompletionSink exactly once. Answers is a copy; sinks may keep it.
type Result struct {
	FlowID      string            `json:"flow_id"`
	SessionID   string            `json:"session_id,omitempty"`
	Locale      string            `json:"locale,omitempty"`
	Answers     map[string]string `json:"answers"`
	Forms       []string          `json:"forms"`
	CompletedAt time.Time         `json:"completed_at"`
}

// RecommendedForm pairs a form code with its catalog display name.
type RecommendedForm struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}
