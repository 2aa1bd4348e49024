package arbalest

// JoinKind is the SQL join keyword for a JoinClause.
type JoinKind string

const (
	InnerJoinKind JoinKind = "INNER JOIN"
	LeftJoinKind  JoinKind = "LEFT JOIN"
	RightJoinKind JoinKind = "RIGHT JOIN"
	FullJoinKind  JoinKind = "FULL OUTER JOIN"
	CrossJoinKind JoinKind = "CROSS JOIN"
)

// JoinCondition is one column-to-column comparison in a join's ON list.
type JoinCondition struct {
	comb  combinator
	Left  string
	Op    Operator
	Right string
}

// On builds a join condition joined to its previous sibling with AND.
func On(left string, op Operator, right string) JoinCondition {
	return JoinCondition{comb: combAnd, Left: left, Op: op, Right: right}
}

// OnEq builds an equality join condition.
func OnEq(left, right string) JoinCondition {
	return On(left, OpEq, right)
}

// OrOn builds a join condition joined to its previous sibling with OR.
func OrOn(left string, op Operator, right string) JoinCondition {
	return JoinCondition{comb: combOr, Left: left, Op: op, Right: right}
}

// JoinClause is one JOIN with its ordered ON conditions. A CROSS JOIN
// carries no conditions.
type JoinClause struct {
	Kind  JoinKind
	Table string
	On    []JoinCondition
}

// OrderClause is one ORDER BY entry.
type OrderClause struct {
	Column string
	Desc   bool
}

// aggregateFunc names an aggregate in a column selector.
type aggregateFunc string

const (
	aggCount         aggregateFunc = "COUNT"
	aggCountDistinct aggregateFunc = "COUNT DISTINCT"
	aggSum           aggregateFunc = "SUM"
	aggAvg           aggregateFunc = "AVG"
	aggMin           aggregateFunc = "MIN"
	aggMax           aggregateFunc = "MAX"
)

// ColumnSelector is one entry of a select list: a plain column, an
// aggregate over a column, COUNT(*), or a raw expression.
type ColumnSelector struct {
	column   string
	agg      aggregateFunc
	countAll bool
	raw      string
	alias    string
}

// Col selects a plain column.
func Col(name string) ColumnSelector { return ColumnSelector{column: name} }

// Count selects COUNT(*).
func Count() ColumnSelector { return ColumnSelector{countAll: true} }

// CountOf selects COUNT(column).
func CountOf(column string) ColumnSelector {
	return ColumnSelector{agg: aggCount, column: column}
}

// CountDistinct selects COUNT(DISTINCT column).
func CountDistinct(column string) ColumnSelector {
	return ColumnSelector{agg: aggCountDistinct, column: column}
}

// Sum selects SUM(column).
func Sum(column string) ColumnSelector { return ColumnSelector{agg: aggSum, column: column} }

// Avg selects AVG(column).
func Avg(column string) ColumnSelector { return ColumnSelector{agg: aggAvg, column: column} }

// Min selects MIN(column).
func Min(column string) ColumnSelector { return ColumnSelector{agg: aggMin, column: column} }

// Max selects MAX(column).
func Max(column string) ColumnSelector { return ColumnSelector{agg: aggMax, column: column} }

// RawColumn selects an opaque expression emitted verbatim.
func RawColumn(expr string) ColumnSelector { return ColumnSelector{raw: expr} }

// As returns a copy of the selector with an alias.
func (c ColumnSelector) As(alias string) ColumnSelector {
	c.alias = alias
	return c
}
