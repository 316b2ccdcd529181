package memory

import (
	"context"
	"sort"

	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/flowdef"
)

// Source implements ports.FlowSource over an in-memory map of definitions.
type Source struct {
	flows map[string]*domain.FlowDefinition
}

// NewSource creates a source from already-validated definitions.
func NewSource(flows ...*domain.FlowDefinition) *Source {
	m := make(map[string]*domain.FlowDefinition, len(flows))
	for _, f := range flows {
		m[f.ID] = f
	}
	return &Source{flows: m}
}

// NewSourceFromJSON parses and validates raw JSON documents keyed by flow id.
// This keeps test setup to a single call.
func NewSourceFromJSON(docs map[string]string) (*Source, error) {
	m := make(map[string]*domain.FlowDefinition, len(docs))
	for id, doc := range docs {
		def, err := flowdef.Parse(id, []byte(doc))
		if err != nil {
			return nil, err
		}
		m[def.ID] = def
	}
	return &Source{flows: m}, nil
}

// Flow returns the definition for the given id.
func (s *Source) Flow(ctx context.Context, id string) (*domain.FlowDefinition, error) {
	def, ok := s.flows[id]
	if !ok {
		return nil, domain.ErrFlowNotFound
	}
	return def, nil
}

// List returns all flow ids in deterministic order.
func (s *Source) List(ctx context.Context) ([]string, error) {
	ids := make([]string, 0, len(s.flows))
	for id := range s.flows {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}
