package models

// DecisionKind is the outcome of classifying one link command fragment.
type DecisionKind string

const (
	DecisionDirect      DecisionKind = "direct"
	DecisionTransitive  DecisionKind = "transitive"
	DecisionExternal    DecisionKind = "external"
	DecisionSelf        DecisionKind = "self"
	DecisionDuplicate   DecisionKind = "duplicate"
	DecisionNotDeclared DecisionKind = "not-declared"
	DecisionNoBacktrace DecisionKind = "no-backtrace"
	DecisionNonLibrary  DecisionKind = "non-library"
)

// Decision records how a single fragment of a target was classified
type Decision struct {
	Fragment  string       `json:"fragment" msgpack:"fragment"`
	Role      FragmentRole `json:"role" msgpack:"role"`
	Kind      DecisionKind `json:"kind" msgpack:"kind"`
	Signature string       `json:"signature,omitempty" msgpack:"signature,omitempty"`
	TargetID  string       `json:"targetId,omitempty" msgpack:"targetId,omitempty"`
}

// Explanation groups the decisions made for one target.
type Explanation struct {
	TargetID  string     `json:"targetId" msgpack:"targetId"`
	Name      string     `json:"name" msgpack:"name"`
	Decisions []Decision `json:"decisions" msgpack:"decisions"`
}
