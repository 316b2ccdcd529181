package dsl

import (
	"github.com/kioskflow/kioskflow/pkg/domain"
	"github.com/kioskflow/kioskflow/pkg/flowdef"
)

// Builder manages the flow construction. The first node added becomes the
// start unless Start overrides it.
type Builder struct {
	def *domain.FlowDefinition
}

// New creates a new flow builder. The default locale is "en" until Locales
// is called.
func New(id string) *Builder {
	return &Builder{
		def: &domain.FlowDefinition{
			ID:    id,
			Nodes: make(map[string]*domain.Node),
		},
	}
}

// Start sets the entry node id.
func (b *Builder) Start(id string) *Builder {
	b.def.Start = id
	return b
}

// Locales declares the content languages. The first is the fallback.
func (b *Builder) Locales(locales ...string) *Builder {
	b.def.Locales = locales
	return b
}

// Catalog registers a form code with its display name.
func (b *Builder) Catalog(number, name string) *Builder {
	if b.def.FormsCatalog == nil {
		b.def.FormsCatalog = make(map[string]string)
	}
	b.def.FormsCatalog[number] = name
	return b
}

// Trigger appends a recommendation rule. Order matters: forms are collected
// in trigger order.
func (b *Builder) Trigger(name string, when domain.Predicate, forms ...string) *Builder {
	b.def.Triggers = append(b.def.Triggers, domain.Trigger{
		Name:  name,
		When:  when,
		Forms: forms,
	})
	return b
}

// Info adds an informational page.
func (b *Builder) Info(id string) *NodeBuilder {
	return b.node(id, domain.NodeTypeInfo)
}

// Question adds a question page.
func (b *Builder) Question(id string) *NodeBuilder {
	return b.node(id, domain.NodeTypeQuestion)
}

// End adds an explicit terminal page.
func (b *Builder) End(id string) *NodeBuilder {
	return b.node(id, domain.NodeTypeEnd)
}

func (b *Builder) node(id, nodeType string) *NodeBuilder {
	if node, ok := b.def.Nodes[id]; ok {
		node.Type = nodeType
		return &NodeBuilder{node: node, builder: b}
	}
	node := &domain.Node{ID: id, Type: nodeType}
	b.def.Nodes[id] = node
	if b.def.Start == "" {
		b.def.Start = id
	}
	return &NodeBuilder{node: node, builder: b}
}

func (b *Builder) fallbackLocale() string {
	return b.def.DefaultLocale()
}

// Build validates the assembled definition and returns it.
func (b *Builder) Build() (*domain.FlowDefinition, error) {
	if err := flowdef.Validate(b.def); err != nil {
		return nil, err
	}
	return b.def, nil
}
