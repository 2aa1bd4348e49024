package arbalest

// combinator joins a condition to its previous sibling inside a group.
type combinator string

const (
	combAnd combinator = "AND"
	combOr  combinator = "OR"
)

// Predicate is one node of a condition tree: a comparison, a raw
// fragment, a subquery membership test, an existence test, or a nested
// group.
type Predicate interface {
	isPredicate()
}

// Comparison is a column/operator/value condition. The value is always
// bound as a parameter unless it is Raw.
type Comparison struct {
	Column string
	Op     Operator
	Value  Value
}

// C builds a comparison condition.
func C(column string, op Operator, value any) Comparison {
	return Comparison{Column: column, Op: op, Value: V(value)}
}

// Eq is shorthand for an equality comparison.
func Eq(column string, value any) Comparison {
	return Comparison{Column: column, Op: OpEq, Value: V(value)}
}

// Like builds a LIKE comparison.
func Like(column, pattern string) Comparison {
	return Comparison{Column: column, Op: OpLike, Value: Text(pattern)}
}

// In builds an IN comparison against a literal value list. Each element
// binds as its own parameter; an empty list matches nothing.
func In(column string, values ...any) Comparison {
	vals := make([]Value, len(values))
	for i, v := range values {
		vals[i] = V(v)
	}
	return Comparison{Column: column, Op: OpIn, Value: Tuple(vals...)}
}

// NotIn builds a NOT IN comparison against a literal value list.
func NotIn(column string, values ...any) Comparison {
	vals := make([]Value, len(values))
	for i, v := range values {
		vals[i] = V(v)
	}
	return Comparison{Column: column, Op: OpNotIn, Value: Tuple(vals...)}
}

// IsNull builds an IS NULL condition.
func IsNull(column string) Comparison {
	return Comparison{Column: column, Op: OpIsNull, Value: Null()}
}

// NotNull builds an IS NOT NULL condition.
func NotNull(column string) Comparison {
	return Comparison{Column: column, Op: OpIsNotNull, Value: Null()}
}

// RawPredicate is an opaque SQL fragment with optional bound arguments.
// Each ? in the fragment binds the next argument as a parameter in the
// active dialect's placeholder style. The fragment must carry exactly
// one ? per argument; a count mismatch fails at render time.
type RawPredicate struct {
	Fragment string
	Args     []Value
}

// Expr builds a raw predicate from a trusted fragment.
func Expr(fragment string, args ...any) RawPredicate {
	vals := make([]Value, len(args))
	for i, a := range args {
		vals[i] = V(a)
	}
	return RawPredicate{Fragment: fragment, Args: vals}
}

// SubqueryIn tests column membership in the result of a nested SELECT.
// The inner statement is fully independent and rendered recursively; it
// may reference the outer statement's columns since names are opaque.
type SubqueryIn struct {
	Column string
	Negate bool
	Query  SelectStatement
}

// InQuery builds a column IN (SELECT ...) condition.
func InQuery(column string, query SelectStatement) SubqueryIn {
	return SubqueryIn{Column: column, Query: query}
}

// NotInQuery builds a column NOT IN (SELECT ...) condition.
func NotInQuery(column string, query SelectStatement) SubqueryIn {
	return SubqueryIn{Column: column, Negate: true, Query: query}
}

// ExistsPredicate tests whether a nested SELECT returns any row.
type ExistsPredicate struct {
	Negate bool
	Query  SelectStatement
}

// Exists builds an EXISTS (SELECT ...) condition.
func Exists(query SelectStatement) ExistsPredicate {
	return ExistsPredicate{Query: query}
}

// NotExists builds a NOT EXISTS (SELECT ...) condition.
func NotExists(query SelectStatement) ExistsPredicate {
	return ExistsPredicate{Negate: true, Query: query}
}

// groupNode pairs a child predicate with the combinator used to append
// it. The first child's combinator is ignored at render.
type groupNode struct {
	comb combinator
	pred Predicate
}

// Group is an ordered list of predicates, each joined to its previous
// sibling by the combinator recorded when it was appended. Groups render
// fully parenthesized, so mixed AND/OR chains evaluate strictly in
// append order rather than by native operator precedence.
//
// Group values are immutable: And and Or return extended copies.
type Group struct {
	nodes []groupNode
}

// And builds a group whose children are all joined with AND.
func And(preds ...Predicate) Group {
	g := Group{}
	for _, p := range preds {
		g = g.And(p)
	}
	return g
}

// Or builds a group whose children are all joined with OR.
func Or(preds ...Predicate) Group {
	g := Group{}
	for _, p := range preds {
		g = g.Or(p)
	}
	return g
}

// And returns a copy of the group with p appended using AND.
func (g Group) And(p Predicate) Group {
	return Group{nodes: appendNode(g.nodes, groupNode{comb: combAnd, pred: p})}
}

// Or returns a copy of the group with p appended using OR.
func (g Group) Or(p Predicate) Group {
	return Group{nodes: appendNode(g.nodes, groupNode{comb: combOr, pred: p})}
}

// Empty reports whether the group holds no conditions.
func (g Group) Empty() bool { return len(g.nodes) == 0 }

// Len returns the number of direct children.
func (g Group) Len() int { return len(g.nodes) }

func (Comparison) isPredicate()      {}
func (RawPredicate) isPredicate()    {}
func (SubqueryIn) isPredicate()      {}
func (ExistsPredicate) isPredicate() {}
func (Group) isPredicate()           {}

// appendNode copies before appending so extended groups never alias a
// shared ancestor's backing array.
func appendNode(nodes []groupNode, n groupNode) []groupNode {
	out := make([]groupNode, len(nodes), len(nodes)+1)
	copy(out, nodes)
	return append(out, n)
}
