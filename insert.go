package arbalest

// InsertStatement is an immutable INSERT under construction. Rows are
// maps from column name to value; the batch's column set comes from the
// first row's keys, sorted for deterministic output.
type InsertStatement struct {
	table string
	rows  []map[string]Value
}

// Insert starts an INSERT into the named table.
func Insert(table string) InsertStatement {
	return InsertStatement{table: table}
}

// Row appends one row. Later rows must carry exactly the same column
// set as the first; a mismatch is reported at render time with the
// offending row's position.
func (s InsertStatement) Row(values map[string]any) InsertStatement {
	row := make(map[string]Value, len(values))
	for col, v := range values {
		row[col] = V(v)
	}
	s.rows = appended(s.rows, row)
	return s
}

// Rows appends a batch of rows in order.
func (s InsertStatement) Rows(rows ...map[string]any) InsertStatement {
	out := s
	for _, row := range rows {
		out = out.Row(row)
	}
	return out
}

// ToSQL renders the statement for the dialect. Parameters are collected
// row-major: all of row one, then all of row two.
func (s InsertStatement) ToSQL(d Dialect) (string, []Value, error) {
	r := newRenderer(d)
	if err := r.renderInsert(s); err != nil {
		return "", nil, err
	}
	return r.result()
}

// Kind reports that an INSERT produces an affected-row count.
func (s InsertStatement) Kind() StatementKind { return KindAffected }
