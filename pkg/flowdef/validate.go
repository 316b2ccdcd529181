package flowdef

import (
	"fmt"
	"sort"

	"github.com/kioskflow/kioskflow/pkg/domain"
)

// Validate checks the structural invariants of a definition and returns a
// ValidationError aggregating every defect found. A failing definition must
// not be handed to a runner.
func Validate(def *domain.FlowDefinition) error {
	var errs []error

	fail := func(nodeID, field, reason string) {
		errs = append(errs, &domain.ContentError{FlowID: def.ID, NodeID: nodeID, Field: field, Reason: reason})
	}

	if def.Start == "" {
		fail("", "start", "start node is required")
	} else if _, ok := def.Nodes[def.Start]; !ok {
		fail("", "start", fmt.Sprintf("start node %q does not exist", def.Start))
	}

	for _, id := range sortedNodeIDs(def) {
		node := def.Nodes[id]

		switch node.Type {
		case domain.NodeTypeInfo:
			if len(node.Options) > 0 {
				fail(id, "options", "info node cannot carry options")
			}
			if node.Next != "" {
				if _, ok := def.Nodes[node.Next]; !ok {
					fail(id, "next", fmt.Sprintf("next %q does not resolve", node.Next))
				}
			}
		case domain.NodeTypeQuestion:
			if len(node.Options) == 0 {
				fail(id, "options", "question node requires at least one option")
			}
			seen := make(map[string]struct{}, len(node.Options))
			for i, opt := range node.Options {
				field := fmt.Sprintf("options[%d]", i)
				if opt.Value == "" {
					fail(id, field, "option value must not be empty")
				} else if _, dup := seen[opt.Value]; dup {
					fail(id, field, fmt.Sprintf("duplicate option value %q", opt.Value))
				}
				seen[opt.Value] = struct{}{}
				if opt.Next != "" {
					if _, ok := def.Nodes[opt.Next]; !ok {
						fail(id, field, fmt.Sprintf("next %q does not resolve", opt.Next))
					}
				}
			}
		case domain.NodeTypeEnd:
			if node.Next != "" || len(node.Options) > 0 {
				fail(id, "next", "end node cannot have outgoing edges")
			}
		default:
			fail(id, "type", fmt.Sprintf("unknown node type %q", node.Type))
		}
	}

	if len(errs) > 0 {
		return &domain.ValidationError{Errors: errs}
	}
	return nil
}

// Lint reports non-fatal content findings: unreachable nodes, form codes
// missing from the catalog, base-packet triggers that can match together.
// A flow with warnings still loads; the validate command surfaces them.
func Lint(def *domain.FlowDefinition) []string {
	var warnings []string

	reachable := reachableFrom(def, def.Start)
	for _, id := range sortedNodeIDs(def) {
		if _, ok := reachable[id]; !ok {
			warnings = append(warnings, fmt.Sprintf("node %q is unreachable from start", id))
		}
	}

	known := func(code string) bool {
		_, ok := def.FormsCatalog[code]
		return ok
	}
	if len(def.FormsCatalog) > 0 {
		for _, t := range def.Triggers {
			for _, code := range t.Forms {
				if !known(code) {
					warnings = append(warnings, fmt.Sprintf("trigger %q references form %q missing from catalog", t.Name, code))
				}
			}
		}
		for _, id := range sortedNodeIDs(def) {
			for _, code := range def.Nodes[id].FormsMentioned {
				if !known(code) {
					warnings = append(warnings, fmt.Sprintf("node %q mentions form %q missing from catalog", id, code))
				}
			}
		}
	}

	warnings = append(warnings, lintOverlappingEquals(def)...)
	return warnings
}

// lintOverlappingEquals flags equals-triggers on the same field with the same
// value: their packets union silently, which is rarely what the author meant.
func lintOverlappingEquals(def *domain.FlowDefinition) []string {
	var warnings []string
	seen := make(map[string]string) // field=value -> trigger name
	for _, t := range def.Triggers {
		if t.When.Kind != domain.PredicateEquals {
			continue
		}
		key := t.When.Field + "=" + t.When.Value
		if prev, dup := seen[key]; dup {
			warnings = append(warnings, fmt.Sprintf("triggers %q and %q match the same answer (%s); their forms will union", prev, t.Name, key))
		} else {
			seen[key] = t.Name
		}
	}
	return warnings
}

// reachableFrom walks the graph from start following info edges and question
// options. Cycles are fine; each node is visited once.
func reachableFrom(def *domain.FlowDefinition, start string) map[string]struct{} {
	reachable := make(map[string]struct{})
	stack := []string{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if _, visited := reachable[id]; visited {
			continue
		}
		node, ok := def.Nodes[id]
		if !ok {
			continue
		}
		reachable[id] = struct{}{}
		if node.Next != "" {
			stack = append(stack, node.Next)
		}
		for _, opt := range node.Options {
			if opt.Next != "" {
				stack = append(stack, opt.Next)
			}
		}
	}
	return reachable
}

func sortedNodeIDs(def *domain.FlowDefinition) []string {
	ids := make([]string, 0, len(def.Nodes))
	for id := range def.Nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
