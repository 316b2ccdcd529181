package rules

import (
	"fmt"
	"slices"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/kioskflow/kioskflow/pkg/domain"
)

// Engine evaluates an ordered trigger table against an answer map.
// It is immutable after construction and safe for concurrent use.
type Engine struct {
	triggers []compiledTrigger
}

type compiledTrigger struct {
	def     domain.Trigger
	program *vm.Program // set for expr predicates only
}

// New builds an engine from trigger descriptors. Expression predicates are
// compiled here; a compile failure is a content error surfaced at load time,
// never at evaluation time.
func New(triggers []domain.Trigger) (*Engine, error) {
	compiled := make([]compiledTrigger, 0, len(triggers))
	for _, t := range triggers {
		ct := compiledTrigger{def: t}
		switch t.When.Kind {
		case domain.PredicateEquals, domain.PredicateNotEquals, domain.PredicateAnsweredNot:
			if t.When.Field == "" {
				return nil, &domain.ContentError{Field: "rules." + t.Name, Reason: "predicate requires a field"}
			}
		case domain.PredicateOneOf:
			if t.When.Field == "" || len(t.When.Values) == 0 {
				return nil, &domain.ContentError{Field: "rules." + t.Name, Reason: "one_of predicate requires a field and values"}
			}
		case domain.PredicateAlways:
			// No configuration.
		case domain.PredicateExpr:
			program, err := expr.Compile(t.When.Expr, expr.AllowUndefinedVariables(), expr.AsBool())
			if err != nil {
				return nil, &domain.ContentError{Field: "rules." + t.Name, Reason: fmt.Sprintf("invalid expression: %v", err)}
			}
			ct.program = program
		default:
			return nil, &domain.ContentError{Field: "rules." + t.Name, Reason: fmt.Sprintf("unknown predicate kind %q", t.When.Kind)}
		}
		compiled = append(compiled, ct)
	}
	return &Engine{triggers: compiled}, nil
}

// Recommend derives the form codes for the given answers. Every trigger is
// evaluated independently; matching triggers contribute their forms in table
// order, deduplicated by first insertion. Callers must not rely on the list
// being sorted.
func (e *Engine) Recommend(answers map[string]string) []string {
	forms := []string{}
	seen := make(map[string]struct{})
	for _, ct := range e.triggers {
		if !e.matches(ct, answers) {
			continue
		}
		for _, code := range ct.def.Forms {
			if _, dup := seen[code]; dup {
				continue
			}
			seen[code] = struct{}{}
			forms = append(forms, code)
		}
	}
	return forms
}

func (e *Engine) matches(ct compiledTrigger, answers map[string]string) bool {
	p := ct.def.When
	value, answered := answers[p.Field]

	switch p.Kind {
	case domain.PredicateAlways:
		return true
	case domain.PredicateEquals:
		return answered && value == p.Value
	case domain.PredicateNotEquals:
		// Absent counts as "not equal": this is the default-branch shape.
		return !answered || value != p.Value
	case domain.PredicateOneOf:
		return answered && slices.Contains(p.Values, value)
	case domain.PredicateAnsweredNot:
		return answered && value != p.Value
	case domain.PredicateExpr:
		return e.evalExpr(ct.program, answers)
	}
	return false
}

// evalExpr runs a compiled expression with each answer exposed as a variable
// (for ids that are valid identifiers) plus the whole map under "answers".
// Evaluation errors mean "no match"; the expression was already vetted at
// compile time.
func (e *Engine) evalExpr(program *vm.Program, answers map[string]string) bool {
	env := make(map[string]any, len(answers)+1)
	for k, v := range answers {
		env[k] = v
	}
	env["answers"] = answers

	out, err := expr.Run(program, env)
	if err != nil {
		return false
	}
	matched, ok := out.(bool)
	return ok && matched
}
