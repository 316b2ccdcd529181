package domain

// CatalogEntry is a display name for a form code, used only for enrichment.
type CatalogEntry struct {
	Number string `json:"number"`
	Name   string `json:"name"`
}

// FlowDefinition is the immutable, validated description of one guided
// questionnaire. Produced by flowdef.Parse; consumed read-only by the runner.
type FlowDefinition struct {
	// ID identifies the flow (file stem or authored id).
	ID string `json:"id"`

	// Start is the unique entry node.
	Start string `json:"start"`

	// Locales lists the language codes the content is authored in. The first
	// entry is the default used for fallback.
	Locales []string `json:"locales"`

	// Nodes maps node id to its definition. Lookup is by id only.
	Nodes map[string]*Node `json:"nodes"`

	// FormsCatalog maps form code to a human-readable name.
	FormsCatalog map[string]string `json:"forms_catalog,omitempty"`

	// Triggers is the ordered rule table evaluated at completion.
	Triggers []Trigger `json:"triggers,omitempty"`
}

// DefaultLocale returns the fallback locale for localized text.
func (f *FlowDefinition) DefaultLocale() string {
	if len(f.Locales) > 0 {
		return f.Locales[0]
	}
	return "en"
}

// Node looks up a node by id.
func (f *FlowDefinition) Node(id string) (*Node, bool) {
	n, ok := f.Nodes[id]
	return n, ok
}

// FormName returns the catalog display name for a form code, or the code
// itself when the catalog has no entry.
func (f *FlowDefinition) FormName(code string) string {
	if name, ok := f.FormsCatalog[code]; ok {
		return name
	}
	return code
}
