package graph_test

import (
	"strings"
	"testing"

	"github.com/kioskflow/kioskflow/internal/presentation/graph"
	"github.com/kioskflow/kioskflow/pkg/domain"
)

func TestGenerateMermaid(t *testing.T) {
	tests := []struct {
		name     string
		def      *domain.FlowDefinition
		overlay  *graph.GraphOverlay
		contains []string
	}{
		{
			name: "Start Node Shape",
			def: &domain.FlowDefinition{
				Start: "welcome",
				Nodes: map[string]*domain.Node{
					"welcome": {ID: "welcome", Type: domain.NodeTypeInfo},
				},
			},
			contains: []string{
				"welcome((\"welcome\"))",
			},
		},
		{
			name: "Question and End Shapes",
			def: &domain.FlowDefinition{
				Start: "q1",
				Nodes: map[string]*domain.Node{
					"q1": {ID: "q1", Type: domain.NodeTypeQuestion, Options: []domain.Option{
						{Value: "yes", Next: "done"},
					}},
					"done": {ID: "done", Type: domain.NodeTypeEnd},
				},
			},
			contains: []string{
				"done([\"done\"])",
				`q1 -- "yes" --> done`,
			},
		},
		{
			name: "Terminal Option Edge",
			def: &domain.FlowDefinition{
				Start: "other",
				Nodes: map[string]*domain.Node{
					"q1": {ID: "q1", Type: domain.NodeTypeQuestion, Options: []domain.Option{
						{Value: "stop"},
					}},
					"other": {ID: "other", Type: domain.NodeTypeInfo, Next: "q1"},
				},
			},
			contains: []string{
				`q1 -- "stop" --> __finish`,
				"__finish((\"done\"))",
			},
		},
		{
			name: "ID Sanitization",
			def: &domain.FlowDefinition{
				Start: "hyphen-ated",
				Nodes: map[string]*domain.Node{
					"hyphen-ated": {ID: "hyphen-ated", Type: domain.NodeTypeInfo, Next: "a.b"},
					"a.b":         {ID: "a.b", Type: domain.NodeTypeEnd},
				},
			},
			contains: []string{
				"hyphen_ated((\"hyphen-ated\"))",
				"a_b([\"a.b\"])",
				"hyphen_ated --> a_b",
			},
		},
		{
			name: "Overlay Styles",
			def: &domain.FlowDefinition{
				Start: "a",
				Nodes: map[string]*domain.Node{
					"a": {ID: "a", Type: domain.NodeTypeInfo, Next: "b"},
					"b": {ID: "b", Type: domain.NodeTypeEnd},
				},
			},
			overlay: &graph.GraphOverlay{VisitedNodes: []string{"a", "a"}, CurrentNode: "b"},
			contains: []string{
				"class a visited;",
				"class b current;",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := graph.GenerateMermaid(tt.def, tt.overlay)
			for _, want := range tt.contains {
				if !strings.Contains(got, want) {
					t.Errorf("GenerateMermaid() = \n%v\nWant substring: %v", got, want)
				}
			}
		})
	}
}

func TestGenerateMermaid_DeduplicatesVisited(t *testing.T) {
	def := &domain.FlowDefinition{
		Start: "a",
		Nodes: map[string]*domain.Node{
			"a": {ID: "a", Type: domain.NodeTypeEnd},
		},
	}
	got := graph.GenerateMermaid(def, &graph.GraphOverlay{VisitedNodes: []string{"a", "a", "a"}})
	if strings.Count(got, "class a visited;") != 1 {
		t.Errorf("expected exactly one visited class entry, got:\n%v", got)
	}
}
