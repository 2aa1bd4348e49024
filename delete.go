package arbalest

// DeleteStatement is an immutable DELETE under construction. Rendering
// fails with MissingPredicateError unless a condition or the explicit
// AllRows marker is present.
type DeleteStatement struct {
	table   string
	where   Group
	allRows bool
}

// Delete starts a DELETE against the named table.
func Delete(table string) DeleteStatement {
	return DeleteStatement{table: table}
}

// Where appends a condition with AND.
func (s DeleteStatement) Where(p Predicate) DeleteStatement {
	s.where = s.where.And(p)
	return s
}

// AndWhere appends a condition with AND.
func (s DeleteStatement) AndWhere(p Predicate) DeleteStatement {
	s.where = s.where.And(p)
	return s
}

// OrWhere appends a condition with OR.
func (s DeleteStatement) OrWhere(p Predicate) DeleteStatement {
	s.where = s.where.Or(p)
	return s
}

// AllRows declares the intent to delete every row; renders WHERE 1 = 1.
func (s DeleteStatement) AllRows() DeleteStatement {
	s.allRows = true
	return s
}

// ToSQL renders the statement for the dialect.
func (s DeleteStatement) ToSQL(d Dialect) (string, []Value, error) {
	r := newRenderer(d)
	if err := r.renderDelete(s); err != nil {
		return "", nil, err
	}
	return r.result()
}

// Kind reports that a DELETE produces an affected-row count.
func (s DeleteStatement) Kind() StatementKind { return KindAffected }
