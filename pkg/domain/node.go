package domain

// Node type constants define the control flow behavior.
const (
	// NodeTypeInfo displays content and moves on through a single edge (soft step).
	NodeTypeInfo = "info"
	// NodeTypeQuestion displays a prompt and halts until an option is chosen (hard step).
	NodeTypeQuestion = "question"
	// NodeTypeEnd is an explicit sink state.
	NodeTypeEnd = "end"
)

// Text is localized content keyed by locale code (e.g. "en", "es").
type Text map[string]string

// Resolve returns the text for locale, falling back to fallback and then to
// any available entry. Missing locales are a display concern, not an error.
func (t Text) Resolve(locale, fallback string) string {
	if s, ok := t[locale]; ok {
		return s
	}
	if s, ok := t[fallback]; ok {
		return s
	}
	for _, s := range t {
		return s
	}
	return ""
}

// Option is a labeled edge out of a question node. Value doubles as the
// recorded answer and as the key rule predicates match against.
type Option struct {
	Value string `json:"value"`
	Label Text   `json:"label"`
	// Next is the target node id. Empty means the flow completes here.
	Next string `json:"next,omitempty"`
}

// Node is a single page in the flow graph.
type Node struct {
	ID   string `json:"id"`
	Type string `json:"type"`

	// Body holds the informational text shown on the page.
	Body Text `json:"body,omitempty"`

	// Question holds the prompt text (question nodes only).
	Question Text `json:"question,omitempty"`

	// Options are the outgoing edges of a question node, in authored order.
	Options []Option `json:"options,omitempty"`

	// Next is the single outgoing edge of an info node. Empty means terminal.
	Next string `json:"next,omitempty"`

	// FormsMentioned lists form codes referenced on this page. Informational
	// only; it never feeds the recommendation engine.
	FormsMentioned []string `json:"forms_mentioned,omitempty"`
}

// Option returns the option with the given value, if it belongs to this node.
func (n *Node) Option(value string) (*Option, bool) {
	for i := range n.Options {
		if n.Options[i].Value == value {
			return &n.Options[i], true
		}
	}
	return nil, false
}

// IsTerminal reports whether no forward edge leaves this node at all.
// A question node is only terminal per-option (an option with empty Next),
// so it is never terminal as a whole unless it has no options.
func (n *Node) IsTerminal() bool {
	switch n.Type {
	case NodeTypeEnd:
		return true
	case NodeTypeInfo:
		return n.Next == ""
	case NodeTypeQuestion:
		return len(n.Options) == 0
	}
	return false
}
