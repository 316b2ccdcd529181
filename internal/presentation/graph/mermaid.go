package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/kioskflow/kioskflow/pkg/domain"
)

// GraphOverlay contains session state to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []string
	CurrentNode  string
}

// GenerateMermaid produces a Mermaid flowchart from a flow definition.
// It applies semantic styling:
// - Start: ((Circle))
// - Question: [/Parallelogram/]
// - End: ([Stadium])
// - Info: [Rectangle]
// Option edges carry their answer value as the label. Edges with no target
// point at a synthetic finish marker. Overlay styles (Visited/Current) are
// applied if provided.
func GenerateMermaid(def *domain.FlowDefinition, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	ids := make([]string, 0, len(def.Nodes))
	for id := range def.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	hasFinish := false
	for _, id := range ids {
		node := def.Nodes[id]
		safeID := sanitizeMermaidID(node.ID)

		// Node shape based on type
		opener, closer := "[", "]"
		switch {
		case node.ID == def.Start:
			opener, closer = "((", "))"
		case node.Type == domain.NodeTypeQuestion:
			opener, closer = "[/", "/]"
		case node.Type == domain.NodeTypeEnd:
			opener, closer = "([", "])"
		}

		sb.WriteString(fmt.Sprintf("    %s%s\"%s\"%s\n", safeID, opener, node.ID, closer))

		// Edges
		switch node.Type {
		case domain.NodeTypeQuestion:
			for _, opt := range node.Options {
				safeLabel := strings.ReplaceAll(opt.Value, "\"", "'")
				arrow := fmt.Sprintf("-- \"%s\" -->", safeLabel)
				target := sanitizeMermaidID(opt.Next)
				if opt.Next == "" {
					target = "__finish"
					hasFinish = true
				}
				sb.WriteString(fmt.Sprintf("    %s %s %s\n", safeID, arrow, target))
			}
		case domain.NodeTypeInfo:
			if node.Next != "" {
				sb.WriteString(fmt.Sprintf("    %s --> %s\n", safeID, sanitizeMermaidID(node.Next)))
			}
		}
	}

	if hasFinish {
		sb.WriteString("    __finish((\"done\"))\n")
	}

	// Apply overlay styles
	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Force black text (color:#000) for high contrast regardless of theme
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visitedSet := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			// Only style valid ids (history might reference edited-away nodes)
			safeID := sanitizeMermaidID(id)
			if !visitedSet[safeID] && safeID != "" {
				visitedSet[safeID] = true
				sb.WriteString(fmt.Sprintf("    class %s visited;\n", safeID))
			}
		}

		if overlay.CurrentNode != "" {
			safeCurrent := sanitizeMermaidID(overlay.CurrentNode)
			sb.WriteString(fmt.Sprintf("    class %s current;\n", safeCurrent))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id string) string {
	s := strings.ReplaceAll(id, ".", "_")
	s = strings.ReplaceAll(s, "-", "_")
	s = strings.ReplaceAll(s, "/", "_")
	s = strings.ReplaceAll(s, "\\", "_")
	return s
}
