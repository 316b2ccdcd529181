package dsl

import "github.com/kioskflow/kioskflow/pkg/domain"

// NodeBuilder provides a fluent API for configuring one page.
type NodeBuilder struct {
	node    *domain.Node
	builder *Builder
}

// Body sets the page text in the flow's fallback locale.
func (n *NodeBuilder) Body(text string) *NodeBuilder {
	return n.BodyLocale(n.builder.fallbackLocale(), text)
}

// BodyLocale sets the page text for one locale.
func (n *NodeBuilder) BodyLocale(locale, text string) *NodeBuilder {
	if n.node.Body == nil {
		n.node.Body = make(domain.Text)
	}
	n.node.Body[locale] = text
	return n
}

// Prompt sets the question text in the flow's fallback locale.
func (n *NodeBuilder) Prompt(text string) *NodeBuilder {
	return n.PromptLocale(n.builder.fallbackLocale(), text)
}

// PromptLocale sets the question text for one locale.
func (n *NodeBuilder) PromptLocale(locale, text string) *NodeBuilder {
	if n.node.Question == nil {
		n.node.Question = make(domain.Text)
	}
	n.node.Question[locale] = text
	return n
}

// Option appends an answer edge. An empty next completes the flow on
// selection.
func (n *NodeBuilder) Option(value, label, next string) *NodeBuilder {
	opt := domain.Option{Value: value, Next: next}
	if label != "" {
		opt.Label = domain.Text{n.builder.fallbackLocale(): label}
	}
	n.node.Options = append(n.node.Options, opt)
	return n
}

// OptionLabel localizes the label of the most recently added option.
func (n *NodeBuilder) OptionLabel(locale, label string) *NodeBuilder {
	if len(n.node.Options) == 0 {
		return n
	}
	opt := &n.node.Options[len(n.node.Options)-1]
	if opt.Label == nil {
		opt.Label = make(domain.Text)
	}
	opt.Label[locale] = label
	return n
}

// To sets the single outgoing edge of an info page.
func (n *NodeBuilder) To(next string) *NodeBuilder {
	n.node.Next = next
	return n
}

// Mention lists form codes referenced on this page. Informational only.
func (n *NodeBuilder) Mention(forms ...string) *NodeBuilder {
	n.node.FormsMentioned = append(n.node.FormsMentioned, forms...)
	return n
}
