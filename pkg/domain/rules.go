package domain

// Predicate kinds supported by the rule engine. The engine interprets these
// uniformly; trigger names carry no meaning at evaluation time.
const (
	// PredicateEquals matches when the answer for Field equals Value.
	PredicateEquals = "equals"
	// PredicateNotEquals matches when the answer for Field differs from Value.
	// An absent answer matches too, making this the default-branch shape.
	PredicateNotEquals = "not_equals"
	// PredicateOneOf matches when the answer for Field is any of Values.
	PredicateOneOf = "one_of"
	// PredicateAnsweredNot matches when Field was answered with anything other
	// than Value (presence with exclusion; absent does not match).
	PredicateAnsweredNot = "answered_not"
	// PredicateAlways matches unconditionally.
	PredicateAlways = "always"
	// PredicateExpr matches when the compiled expression evaluates to true
	// against the answer map.
	PredicateExpr = "expr"
)

// Predicate describes one trigger condition over the answer map.
// Fields refer to node ids, since answers are keyed by node id.
type Predicate struct {
	Kind   string   `json:"kind"`
	Field  string   `json:"field,omitempty"`
	Value  string   `json:"value,omitempty"`
	Values []string `json:"values,omitempty"`
	Expr   string   `json:"expr,omitempty"`
}

// Trigger couples a predicate with the form codes it contributes when it
// matches. Triggers are evaluated independently and in order; form codes are
// deduplicated by first insertion.
type Trigger struct {
	Name  string    `json:"name"`
	When  Predicate `json:"when"`
	Forms []string  `json:"forms"`
}
