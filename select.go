package arbalest

// SelectStatement is an immutable SELECT under construction. Every
// method copies the statement and returns the extended copy, so
// statements derived from a shared base never observe each other's
// clauses.
type SelectStatement struct {
	table     string
	columns   []ColumnSelector
	distinct  bool
	joins     []JoinClause
	where     Group
	groupBy   []string
	having    Group
	orderBy   []OrderClause
	limit     int64
	hasLimit  bool
	offset    int64
	hasOffset bool
}

// Table starts a SELECT against the named table. With no column
// selection the statement renders SELECT *.
func Table(name string) SelectStatement {
	return SelectStatement{table: name}
}

// Select sets the column list from plain column names.
func (s SelectStatement) Select(columns ...string) SelectStatement {
	sels := make([]ColumnSelector, len(columns))
	for i, c := range columns {
		sels[i] = Col(c)
	}
	s.columns = sels
	return s
}

// SelectExpr sets the column list from selectors, allowing aggregates,
// COUNT(*), raw expressions and aliases.
func (s SelectStatement) SelectExpr(selectors ...ColumnSelector) SelectStatement {
	s.columns = appended([]ColumnSelector(nil), selectors...)
	return s
}

// Distinct marks the statement SELECT DISTINCT.
func (s SelectStatement) Distinct() SelectStatement {
	s.distinct = true
	return s
}

func (s SelectStatement) join(kind JoinKind, table string, on []JoinCondition) SelectStatement {
	s.joins = appended(s.joins, JoinClause{Kind: kind, Table: table, On: on})
	return s
}

// InnerJoin appends an INNER JOIN with its ON conditions.
func (s SelectStatement) InnerJoin(table string, on ...JoinCondition) SelectStatement {
	return s.join(InnerJoinKind, table, on)
}

// LeftJoin appends a LEFT JOIN with its ON conditions.
func (s SelectStatement) LeftJoin(table string, on ...JoinCondition) SelectStatement {
	return s.join(LeftJoinKind, table, on)
}

// RightJoin appends a RIGHT JOIN with its ON conditions.
func (s SelectStatement) RightJoin(table string, on ...JoinCondition) SelectStatement {
	return s.join(RightJoinKind, table, on)
}

// FullJoin appends a FULL OUTER JOIN with its ON conditions.
func (s SelectStatement) FullJoin(table string, on ...JoinCondition) SelectStatement {
	return s.join(FullJoinKind, table, on)
}

// CrossJoin appends a CROSS JOIN. Cross joins carry no ON conditions.
func (s SelectStatement) CrossJoin(table string) SelectStatement {
	return s.join(CrossJoinKind, table, nil)
}

// Where appends a condition with AND. The first condition's combinator
// is ignored, so Where and AndWhere are interchangeable.
func (s SelectStatement) Where(p Predicate) SelectStatement {
	s.where = s.where.And(p)
	return s
}

// AndWhere appends a condition with AND.
func (s SelectStatement) AndWhere(p Predicate) SelectStatement {
	s.where = s.where.And(p)
	return s
}

// OrWhere appends a condition with OR.
func (s SelectStatement) OrWhere(p Predicate) SelectStatement {
	s.where = s.where.Or(p)
	return s
}

// WhereIn appends a column IN (subquery) condition with AND.
func (s SelectStatement) WhereIn(column string, query SelectStatement) SelectStatement {
	return s.Where(InQuery(column, query))
}

// WhereNotIn appends a column NOT IN (subquery) condition with AND.
func (s SelectStatement) WhereNotIn(column string, query SelectStatement) SelectStatement {
	return s.Where(NotInQuery(column, query))
}

// WhereExists appends an EXISTS (subquery) condition with AND.
func (s SelectStatement) WhereExists(query SelectStatement) SelectStatement {
	return s.Where(Exists(query))
}

// WhereNotExists appends a NOT EXISTS (subquery) condition with AND.
func (s SelectStatement) WhereNotExists(query SelectStatement) SelectStatement {
	return s.Where(NotExists(query))
}

// GroupBy appends GROUP BY columns.
func (s SelectStatement) GroupBy(columns ...string) SelectStatement {
	s.groupBy = appended(s.groupBy, columns...)
	return s
}

// Having appends a HAVING condition with AND.
func (s SelectStatement) Having(p Predicate) SelectStatement {
	s.having = s.having.And(p)
	return s
}

// OrHaving appends a HAVING condition with OR.
func (s SelectStatement) OrHaving(p Predicate) SelectStatement {
	s.having = s.having.Or(p)
	return s
}

// OrderBy appends an ascending ORDER BY entry.
func (s SelectStatement) OrderBy(column string) SelectStatement {
	s.orderBy = appended(s.orderBy, OrderClause{Column: column})
	return s
}

// OrderByDesc appends a descending ORDER BY entry.
func (s SelectStatement) OrderByDesc(column string) SelectStatement {
	s.orderBy = appended(s.orderBy, OrderClause{Column: column, Desc: true})
	return s
}

// Limit sets the row limit.
func (s SelectStatement) Limit(n int64) SelectStatement {
	s.limit, s.hasLimit = n, true
	return s
}

// Offset sets the row offset.
func (s SelectStatement) Offset(n int64) SelectStatement {
	s.offset, s.hasOffset = n, true
	return s
}

// ToSQL renders the statement for the dialect. Operators are validated
// across the whole condition tree, nested subqueries included, before
// any SQL is produced.
func (s SelectStatement) ToSQL(d Dialect) (string, []Value, error) {
	r := newRenderer(d)
	if err := r.validateSelect(s); err != nil {
		return "", nil, err
	}
	if err := r.renderSelect(s); err != nil {
		return "", nil, err
	}
	return r.result()
}

// Kind reports that a SELECT produces result rows.
func (s SelectStatement) Kind() StatementKind { return KindRows }
