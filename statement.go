package arbalest

// StatementKind tags what a statement produces when executed.
type StatementKind int

const (
	// KindRows marks statements that return result rows.
	KindRows StatementKind = iota
	// KindAffected marks statements that return an affected-row count.
	KindAffected
)

func (k StatementKind) String() string {
	if k == KindRows {
		return "rows"
	}
	return "affected"
}

// Statement is the contract every builder compiles to. ToSQL is pure and
// repeatable: two calls on the same statement return byte-identical SQL
// and identical parameter lists.
type Statement interface {
	ToSQL(d Dialect) (string, []Value, error)
	Kind() StatementKind
}

// appended copies a clause slice before extending it, so statements
// derived from a shared ancestor never alias each other's backing
// arrays.
func appended[T any](s []T, vs ...T) []T {
	out := make([]T, len(s), len(s)+len(vs))
	copy(out, s)
	return append(out, vs...)
}
