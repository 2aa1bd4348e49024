package arbalest

import "sort"

// setClause is one column assignment in an UPDATE, in insertion order.
type setClause struct {
	Column string
	Value  Value
}

// UpdateStatement is an immutable UPDATE under construction. Rendering
// fails with MissingPredicateError unless a condition or the explicit
// AllRows marker is present.
type UpdateStatement struct {
	table   string
	sets    []setClause
	where   Group
	allRows bool
}

// Update starts an UPDATE against the named table.
func Update(table string) UpdateStatement {
	return UpdateStatement{table: table}
}

// Set assigns a value to a column. Assignments keep insertion order; a
// later Set on the same column replaces the earlier value in place.
func (s UpdateStatement) Set(column string, value any) UpdateStatement {
	sets := appended([]setClause(nil), s.sets...)
	for i := range sets {
		if sets[i].Column == column {
			sets[i].Value = V(value)
			s.sets = sets
			return s
		}
	}
	s.sets = append(sets, setClause{Column: column, Value: V(value)})
	return s
}

// SetMap assigns every entry of the map, in sorted key order so the
// rendered SQL is deterministic.
func (s UpdateStatement) SetMap(values map[string]any) UpdateStatement {
	cols := make([]string, 0, len(values))
	for col := range values {
		cols = append(cols, col)
	}
	sort.Strings(cols)
	out := s
	for _, col := range cols {
		out = out.Set(col, values[col])
	}
	return out
}

// Where appends a condition with AND.
func (s UpdateStatement) Where(p Predicate) UpdateStatement {
	s.where = s.where.And(p)
	return s
}

// AndWhere appends a condition with AND.
func (s UpdateStatement) AndWhere(p Predicate) UpdateStatement {
	s.where = s.where.And(p)
	return s
}

// OrWhere appends a condition with OR.
func (s UpdateStatement) OrWhere(p Predicate) UpdateStatement {
	s.where = s.where.Or(p)
	return s
}

// AllRows declares the intent to update every row. The statement
// renders with the tautology WHERE 1 = 1 so the breadth of the write is
// visible in logs and audits.
func (s UpdateStatement) AllRows() UpdateStatement {
	s.allRows = true
	return s
}

// ToSQL renders the statement for the dialect.
func (s UpdateStatement) ToSQL(d Dialect) (string, []Value, error) {
	r := newRenderer(d)
	if err := r.renderUpdate(s); err != nil {
		return "", nil, err
	}
	return r.result()
}

// Kind reports that an UPDATE produces an affected-row count.
func (s UpdateStatement) Kind() StatementKind { return KindAffected }
