package server

import (
	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/runner"
)

// pageOption is one selectable answer on a question page.
type pageOption struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// pagePayload is the localized rendering of the session's current node.
type pagePayload struct {
	SessionID      string       `json:"session_id"`
	FlowID         string       `json:"flow_id"`
	NodeID         string       `json:"node_id"`
	Type           string       `json:"type"`
	Body           string       `json:"body,omitempty"`
	Question       string       `json:"question,omitempty"`
	Options        []pageOption `json:"options,omitempty"`
	FormsMentioned []string     `json:"forms_mentioned,omitempty"`
	Completed      bool         `json:"completed"`
	CanGoBack      bool         `json:"can_go_back"`
}

// unknownPageBody is shown when a session points at a node the flow no
// longer defines, typically after a content edit under live sessions.
const unknownPageBody = "This page is no longer available. Please go back or restart."

// renderPage maps the session's current node into its localized payload.
// An unresolvable node yields a fallback page instead of an error so the
// kiosk never strands a visitor on a blank screen.
func renderPage(rn *runner.Runner, state *domain.State) pagePayload {
	page := pagePayload{
		SessionID: state.SessionID,
		FlowID:    state.FlowID,
		NodeID:    state.CurrentNodeID,
		Completed: state.Completed,
		CanGoBack: len(state.History) > 0,
	}

	node, err := rn.Current(state)
	if err != nil {
		page.Type = "unknown"
		page.Body = unknownPageBody
		return page
	}

	locale := state.Locale
	fallback := rn.Flow().DefaultLocale()

	page.Type = node.Type
	page.Body = node.Body.Resolve(locale, fallback)
	page.FormsMentioned = node.FormsMentioned

	if node.Type == domain.NodeTypeQuestion {
		page.Question = node.Question.Resolve(locale, fallback)
		page.Options = make([]pageOption, 0, len(node.Options))
		for _, opt := range node.Options {
			label := opt.Label.Resolve(locale, fallback)
			if label == "" {
				label = opt.Value
			}
			page.Options = append(page.Options, pageOption{Value: opt.Value, Label: label})
		}
	}

	return page
}
