package domain

// State is the per-session snapshot of a traversal. It is ephemeral: created
// when a flow session starts, reset on restart, never shared between sessions.
type State struct {
	// FlowID names the flow this session walks.
	FlowID string `json:"flow_id"`

	// SessionID identifies the session owning this state, when one exists.
	// Library callers embedding the runner directly may leave it empty.
	SessionID string `json:"session_id,omitempty"`

	// Locale selects the display language for this session.
	Locale string `json:"locale,omitempty"`

	// CurrentNodeID is the active node.
	CurrentNodeID string `json:"current_node_id"`

	// Answers maps node id to the option value chosen there. Revisiting a
	// node overwrites its entry; entries survive Back.
	Answers map[string]string `json:"answers"`

	// History is the back-stack of previously visited node ids.
	History []string `json:"history"`

	// Completed is set once a terminal edge has been followed.
	Completed bool `json:"completed,omitempty"`

	// Forms holds the recommendation computed at completion, kept on the
	// state so a summary can be served after the fact.
	Forms []string `json:"forms,omitempty"`
}

// NewState creates a clean state positioned at the flow's start node.
func NewState(flowID, startNodeID, locale string) *State {
	return &State{
		FlowID:        flowID,
		Locale:        locale,
		CurrentNodeID: startNodeID,
		Answers:       make(map[string]string),
		History:       []string{},
	}
}

// Clone returns a copy with its own answer map and history slice, so stores
// and callers can mutate independently.
func (s *State) Clone() *State {
	if s == nil {
		return nil
	}
	next := *s
	next.Answers = make(map[string]string, len(s.Answers))
	for k, v := range s.Answers {
		next.Answers[k] = v
	}
	next.History = append([]string(nil), s.History...)
	next.Forms = append([]string(nil), s.Forms...)
	return &next
}
