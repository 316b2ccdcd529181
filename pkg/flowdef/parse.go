package flowdef

import (
	"encoding/json"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/rules"
)

// wireFlow is the loose top-level document shape, accepting variant aliases.
type wireFlow struct {
	ID           string                    `json:"id" yaml:"id"`
	Start        string                    `json:"start" yaml:"start"`
	Locales      []string                  `json:"locales" yaml:"locales"`
	Nodes        map[string]map[string]any `json:"nodes" yaml:"nodes"`
	Pages        map[string]map[string]any `json:"pages" yaml:"pages"`
	FormsCatalog []domain.CatalogEntry     `json:"forms_catalog" yaml:"forms_catalog"`
	Rules        json.RawMessage           `json:"rules" yaml:"-"`
	RulesYAML    any                       `json:"-" yaml:"rules"`
	Triggers     []domain.Trigger          `json:"triggers" yaml:"triggers"`
}

// wireNode accepts the node-level aliases. mapstructure handles the loose
// map decoding; text fields stay untyped until normalization.
type wireNode struct {
	ID       string       `mapstructure:"id"`
	Type     string       `mapstructure:"type"`
	Info     any          `mapstructure:"info"`
	Text     any          `mapstructure:"text"`
	Body     any          `mapstructure:"body"`
	Question any          `mapstructure:"question"`
	Options  []wireOption `mapstructure:"options"`
	Next     string       `mapstructure:"next"`
	To       string       `mapstructure:"to"`
	FormsAdd []string     `mapstructure:"forms_add"`
}

type wireOption struct {
	Value string `mapstructure:"value"`
	Label any    `mapstructure:"label"`
	Next  string `mapstructure:"next"`
	To    string `mapstructure:"to"`
}

// Parse decodes a JSON flow document, normalizes variant shapes, and
// validates the result. The returned definition is safe to hand to a runner.
func Parse(id string, data []byte) (*domain.FlowDefinition, error) {
	var wire wireFlow
	if err := json.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("flow %s: invalid JSON: %w", id, err)
	}
	return build(id, &wire)
}

// ParseYAML decodes a YAML flow document through the same normalization.
func ParseYAML(id string, data []byte) (*domain.FlowDefinition, error) {
	var wire wireFlow
	if err := yaml.Unmarshal(data, &wire); err != nil {
		return nil, fmt.Errorf("flow %s: invalid YAML: %w", id, err)
	}
	if wire.RulesYAML != nil {
		// Round-trip through JSON so rule decoding has a single code path.
		raw, err := json.Marshal(wire.RulesYAML)
		if err != nil {
			return nil, fmt.Errorf("flow %s: invalid rules: %w", id, err)
		}
		wire.Rules = raw
	}
	return build(id, &wire)
}

func build(id string, wire *wireFlow) (*domain.FlowDefinition, error) {
	if wire.ID != "" {
		id = wire.ID
	}

	def := &domain.FlowDefinition{
		ID:      id,
		Start:   wire.Start,
		Locales: wire.Locales,
		Nodes:   make(map[string]*domain.Node),
	}
	fallback := def.DefaultLocale()

	rawNodes := wire.Nodes
	if rawNodes == nil {
		rawNodes = wire.Pages
	}
	for nodeID, raw := range rawNodes {
		node, err := decodeNode(id, nodeID, raw, fallback)
		if err != nil {
			return nil, err
		}
		def.Nodes[nodeID] = node
	}

	if len(wire.FormsCatalog) > 0 {
		def.FormsCatalog = make(map[string]string, len(wire.FormsCatalog))
		for _, entry := range wire.FormsCatalog {
			def.FormsCatalog[entry.Number] = entry.Name
		}
	}

	triggers, err := decodeRules(id, wire)
	if err != nil {
		return nil, err
	}
	def.Triggers = triggers

	if err := Validate(def); err != nil {
		return nil, err
	}
	return def, nil
}

func decodeNode(flowID, nodeID string, raw map[string]any, fallback string) (*domain.Node, error) {
	var wn wireNode
	if err := mapstructure.Decode(raw, &wn); err != nil {
		return nil, &domain.ContentError{FlowID: flowID, NodeID: nodeID, Reason: fmt.Sprintf("malformed node: %v", err)}
	}

	node := &domain.Node{
		ID:             nodeID,
		Type:           wn.Type,
		Question:       normalizeText(wn.Question, fallback),
		Next:           firstNonEmpty(wn.Next, wn.To),
		FormsMentioned: wn.FormsAdd,
	}
	if wn.ID != "" && wn.ID != nodeID {
		return nil, &domain.ContentError{FlowID: flowID, NodeID: nodeID, Field: "id", Reason: fmt.Sprintf("id %q does not match its key", wn.ID)}
	}

	// Body accepts three aliases; first one present wins.
	for _, candidate := range []any{wn.Body, wn.Info, wn.Text} {
		if candidate != nil {
			node.Body = normalizeText(candidate, fallback)
			break
		}
	}

	for _, wo := range wn.Options {
		node.Options = append(node.Options, domain.Option{
			Value: wo.Value,
			Label: normalizeText(wo.Label, fallback),
			Next:  firstNonEmpty(wo.Next, wo.To),
		})
	}
	return node, nil
}

// decodeRules accepts either the rich trigger list or the compact legacy
// named-map shape (expanded into descriptors here, never in the engine).
func decodeRules(flowID string, wire *wireFlow) ([]domain.Trigger, error) {
	if len(wire.Triggers) > 0 {
		return wire.Triggers, nil
	}
	if len(wire.Rules) == 0 {
		return nil, nil
	}

	var legacy map[string][]string
	if err := json.Unmarshal(wire.Rules, &legacy); err == nil {
		triggers, err := rules.ExpandLegacy(legacy)
		if err != nil {
			return nil, fmt.Errorf("flow %s: %w", flowID, err)
		}
		return triggers, nil
	}

	var triggers []domain.Trigger
	if err := json.Unmarshal(wire.Rules, &triggers); err != nil {
		return nil, &domain.ContentError{FlowID: flowID, Field: "rules", Reason: "rules must be a named map of form lists or a trigger array"}
	}
	return triggers, nil
}

// normalizeText converts either a flat string or a locale-keyed map into
// domain.Text. A flat string lands under the fallback locale.
func normalizeText(raw any, fallback string) domain.Text {
	switch v := raw.(type) {
	case nil:
		return nil
	case string:
		return domain.Text{fallback: v}
	case map[string]any:
		text := make(domain.Text, len(v))
		for locale, s := range v {
			if str, ok := s.(string); ok {
				text[locale] = str
			}
		}
		return text
	case map[string]string:
		return domain.Text(v)
	}
	return nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
