package arbalest

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// MaxSubqueryDepth caps subquery nesting. Statements deeper than this
// fail to render with a MalformedSubqueryError.
const MaxSubqueryDepth = 16

// renderer holds the per-call state of one ToSQL invocation: the output
// buffer, the collected parameters, and the nesting depth. The parameter
// counter is shared across subqueries so ordinals stay globally correct.
type renderer struct {
	dialect Dialect
	sb      strings.Builder
	params  []Value
	depth   int
}

func newRenderer(d Dialect) *renderer {
	return &renderer{dialect: d}
}

func (r *renderer) result() (string, []Value, error) {
	return r.sb.String(), r.params, nil
}

// addParam binds a value and writes its placeholder.
func (r *renderer) addParam(v Value) {
	r.params = append(r.params, v)
	r.sb.WriteString(r.dialect.Placeholder(len(r.params)))
}

func (r *renderer) ident(name string) {
	r.sb.WriteString(r.dialect.QuoteIdent(name))
}

// --- validation -------------------------------------------------------

// validateSelect walks every operator the statement will render, nested
// subqueries included, and returns the first failure. Nothing is written
// to the buffer, so a failed validation never leaks partial SQL.
func (r *renderer) validateSelect(s SelectStatement) error {
	return validateSelect(s, 0)
}

func validateSelect(s SelectStatement, depth int) error {
	if depth > MaxSubqueryDepth {
		return &MalformedSubqueryError{Err: fmt.Errorf("nesting exceeds %d levels", MaxSubqueryDepth)}
	}
	for _, j := range s.joins {
		for _, on := range j.On {
			if err := on.Op.Validate(); err != nil {
				return err
			}
		}
	}
	if err := validateGroup(s.where, depth); err != nil {
		return err
	}
	return validateGroup(s.having, depth)
}

func validateGroup(g Group, depth int) error {
	for _, n := range g.nodes {
		if err := validatePredicate(n.pred, depth); err != nil {
			return err
		}
	}
	return nil
}

func validatePredicate(p Predicate, depth int) error {
	switch t := p.(type) {
	case Comparison:
		return t.Op.Validate()
	case RawPredicate:
		if got := placeholderCount(t.Fragment); got != len(t.Args) {
			return fmt.Errorf("raw fragment %q has %d placeholders but %d arguments", t.Fragment, got, len(t.Args))
		}
		return nil
	case SubqueryIn:
		if err := validateSelect(t.Query, depth+1); err != nil {
			return wrapSubqueryErr(err)
		}
		return nil
	case ExistsPredicate:
		if err := validateSelect(t.Query, depth+1); err != nil {
			return wrapSubqueryErr(err)
		}
		return nil
	case Group:
		return validateGroup(t, depth)
	default:
		return fmt.Errorf("unsupported predicate %T", p)
	}
}

// wrapSubqueryErr marks an error as coming from a nested statement.
// Already-wrapped errors pass through so deep nesting reports one layer.
func wrapSubqueryErr(err error) error {
	if _, ok := err.(*MalformedSubqueryError); ok {
		return err
	}
	return &MalformedSubqueryError{Err: err}
}

// --- SELECT -----------------------------------------------------------

func (r *renderer) renderSelect(s SelectStatement) error {
	r.sb.WriteString("SELECT ")
	if s.distinct {
		r.sb.WriteString("DISTINCT ")
	}
	if len(s.columns) == 0 {
		r.sb.WriteString("*")
	} else {
		for i, c := range s.columns {
			if i > 0 {
				r.sb.WriteString(", ")
			}
			r.renderSelector(c)
		}
	}
	r.sb.WriteString(" FROM ")
	r.ident(s.table)
	for _, j := range s.joins {
		r.sb.WriteString(" ")
		r.sb.WriteString(string(j.Kind))
		r.sb.WriteString(" ")
		r.ident(j.Table)
		for i, on := range j.On {
			if i == 0 {
				r.sb.WriteString(" ON ")
			} else {
				r.sb.WriteString(" ")
				r.sb.WriteString(string(on.comb))
				r.sb.WriteString(" ")
			}
			r.ident(on.Left)
			r.sb.WriteString(" ")
			r.sb.WriteString(on.Op.Token())
			r.sb.WriteString(" ")
			r.ident(on.Right)
		}
	}
	if !s.where.Empty() {
		r.sb.WriteString(" WHERE ")
		if err := r.renderGroup(s.where, false); err != nil {
			return err
		}
	}
	if len(s.groupBy) > 0 {
		r.sb.WriteString(" GROUP BY ")
		for i, c := range s.groupBy {
			if i > 0 {
				r.sb.WriteString(", ")
			}
			r.ident(c)
		}
	}
	if !s.having.Empty() {
		r.sb.WriteString(" HAVING ")
		if err := r.renderGroup(s.having, false); err != nil {
			return err
		}
	}
	if len(s.orderBy) > 0 {
		r.sb.WriteString(" ORDER BY ")
		for i, o := range s.orderBy {
			if i > 0 {
				r.sb.WriteString(", ")
			}
			r.ident(o.Column)
			if o.Desc {
				r.sb.WriteString(" DESC")
			}
		}
	}
	if s.hasLimit {
		r.sb.WriteString(" LIMIT ")
		r.sb.WriteString(strconv.FormatInt(s.limit, 10))
	}
	if s.hasOffset {
		r.sb.WriteString(" OFFSET ")
		r.sb.WriteString(strconv.FormatInt(s.offset, 10))
	}
	return nil
}

func (r *renderer) renderSelector(c ColumnSelector) {
	switch {
	case c.raw != "":
		r.sb.WriteString(c.raw)
	case c.countAll:
		r.sb.WriteString("COUNT(*)")
	case c.agg == aggCountDistinct:
		r.sb.WriteString("COUNT(DISTINCT ")
		r.ident(c.column)
		r.sb.WriteString(")")
	case c.agg != "":
		r.sb.WriteString(string(c.agg))
		r.sb.WriteString("(")
		r.ident(c.column)
		r.sb.WriteString(")")
	default:
		r.ident(c.column)
	}
	if c.alias != "" {
		r.sb.WriteString(" AS ")
		r.ident(c.alias)
	}
}

// --- conditions -------------------------------------------------------

// renderGroup writes a group's children joined by their stored
// combinators. The top-level WHERE/HAVING group renders bare; nested
// groups always take parentheses.
//
// Chains using a single combinator render flat. A chain that mixes AND
// and OR is left-folded with explicit parentheses so it evaluates in
// append order instead of by native operator precedence: a OR b AND c
// becomes (a OR b) AND c.
func (r *renderer) renderGroup(g Group, paren bool) error {
	if paren {
		r.sb.WriteString("(")
	}
	n := len(g.nodes)
	folded := mixedCombinators(g.nodes)
	if folded {
		for i := 0; i < n-2; i++ {
			r.sb.WriteString("(")
		}
	}
	for i, node := range g.nodes {
		if i > 0 {
			r.sb.WriteString(" ")
			r.sb.WriteString(string(node.comb))
			r.sb.WriteString(" ")
		}
		if err := r.renderPredicate(node.pred); err != nil {
			return err
		}
		if folded && i > 0 && i < n-1 {
			r.sb.WriteString(")")
		}
	}
	if paren {
		r.sb.WriteString(")")
	}
	return nil
}

// mixedCombinators reports whether a group chains both AND and OR. The
// first child's combinator is ignored, as at render.
func mixedCombinators(nodes []groupNode) bool {
	for i := 2; i < len(nodes); i++ {
		if nodes[i].comb != nodes[1].comb {
			return true
		}
	}
	return false
}

func (r *renderer) renderPredicate(p Predicate) error {
	switch t := p.(type) {
	case Comparison:
		return r.renderComparison(t)
	case RawPredicate:
		r.renderRaw(t)
		return nil
	case SubqueryIn:
		r.ident(t.Column)
		if t.Negate {
			r.sb.WriteString(" NOT IN (")
		} else {
			r.sb.WriteString(" IN (")
		}
		if err := r.renderSubquery(t.Query); err != nil {
			return err
		}
		r.sb.WriteString(")")
		return nil
	case ExistsPredicate:
		if t.Negate {
			r.sb.WriteString("NOT EXISTS (")
		} else {
			r.sb.WriteString("EXISTS (")
		}
		if err := r.renderSubquery(t.Query); err != nil {
			return err
		}
		r.sb.WriteString(")")
		return nil
	case Group:
		return r.renderGroup(t, true)
	default:
		return fmt.Errorf("unsupported predicate %T", p)
	}
}

func (r *renderer) renderComparison(c Comparison) error {
	switch c.Op {
	case OpIsNull, OpIsNotNull:
		r.ident(c.Column)
		r.sb.WriteString(" ")
		r.sb.WriteString(c.Op.Token())
		return nil
	case OpIn, OpNotIn:
		// Empty lists collapse to a constant: IN () is not valid SQL,
		// and an empty membership test can never match.
		if len(c.Value.tuple) == 0 {
			if c.Op == OpIn {
				r.sb.WriteString("1 = 0")
			} else {
				r.sb.WriteString("1 = 1")
			}
			return nil
		}
		r.ident(c.Column)
		r.sb.WriteString(" ")
		r.sb.WriteString(c.Op.Token())
		r.sb.WriteString(" (")
		for i, v := range c.Value.tuple {
			if i > 0 {
				r.sb.WriteString(", ")
			}
			if v.IsRaw() {
				r.sb.WriteString(v.s)
			} else {
				r.addParam(v)
			}
		}
		r.sb.WriteString(")")
		return nil
	}
	r.ident(c.Column)
	r.sb.WriteString(" ")
	r.sb.WriteString(c.Op.Token())
	r.sb.WriteString(" ")
	if c.Value.IsRaw() {
		r.sb.WriteString(c.Value.s)
	} else {
		r.addParam(c.Value)
	}
	return nil
}

// renderRaw substitutes each ? in the fragment with the next bound
// argument's placeholder. Counts were matched during validation.
func (r *renderer) renderRaw(p RawPredicate) {
	next := 0
	for i := 0; i < len(p.Fragment); i++ {
		if p.Fragment[i] == '?' && next < len(p.Args) {
			r.addParam(p.Args[next])
			next++
			continue
		}
		r.sb.WriteByte(p.Fragment[i])
	}
}

func placeholderCount(fragment string) int {
	n := 0
	for i := 0; i < len(fragment); i++ {
		if fragment[i] == '?' {
			n++
		}
	}
	return n
}

// renderSubquery renders a nested SELECT into the same buffer, sharing
// the parameter counter so placeholders stay ordinal-correct across the
// whole statement.
func (r *renderer) renderSubquery(s SelectStatement) error {
	r.depth++
	defer func() { r.depth-- }()
	if r.depth > MaxSubqueryDepth {
		return &MalformedSubqueryError{Err: fmt.Errorf("nesting exceeds %d levels", MaxSubqueryDepth)}
	}
	if err := r.renderSelect(s); err != nil {
		return wrapSubqueryErr(err)
	}
	return nil
}

// --- INSERT -----------------------------------------------------------

func (r *renderer) renderInsert(s InsertStatement) error {
	if len(s.rows) == 0 {
		return fmt.Errorf("insert into %s has no rows", s.table)
	}
	columns := sortedColumns(s.rows[0])
	for i, row := range s.rows {
		if !sameColumns(columns, row) {
			return &MismatchedColumnsError{
				Table: s.table,
				Row:   i + 1,
				Want:  columns,
				Got:   sortedColumns(row),
			}
		}
	}
	r.sb.WriteString("INSERT INTO ")
	r.ident(s.table)
	r.sb.WriteString(" (")
	for i, c := range columns {
		if i > 0 {
			r.sb.WriteString(", ")
		}
		r.ident(c)
	}
	r.sb.WriteString(") VALUES ")
	for i, row := range s.rows {
		if i > 0 {
			r.sb.WriteString(", ")
		}
		r.sb.WriteString("(")
		for j, c := range columns {
			if j > 0 {
				r.sb.WriteString(", ")
			}
			v := row[c]
			if v.IsRaw() {
				r.sb.WriteString(v.s)
			} else {
				r.addParam(v)
			}
		}
		r.sb.WriteString(")")
	}
	return nil
}

func sortedColumns(row map[string]Value) []string {
	cols := make([]string, 0, len(row))
	for c := range row {
		cols = append(cols, c)
	}
	sort.Strings(cols)
	return cols
}

func sameColumns(want []string, row map[string]Value) bool {
	if len(want) != len(row) {
		return false
	}
	for _, c := range want {
		if _, ok := row[c]; !ok {
			return false
		}
	}
	return true
}

// --- UPDATE / DELETE --------------------------------------------------

func (r *renderer) renderUpdate(s UpdateStatement) error {
	if s.where.Empty() && !s.allRows {
		return &MissingPredicateError{Verb: "UPDATE", Table: s.table}
	}
	if len(s.sets) == 0 {
		return fmt.Errorf("update on %s has no assignments", s.table)
	}
	if err := validateGroup(s.where, 0); err != nil {
		return err
	}
	r.sb.WriteString("UPDATE ")
	r.ident(s.table)
	r.sb.WriteString(" SET ")
	for i, set := range s.sets {
		if i > 0 {
			r.sb.WriteString(", ")
		}
		r.ident(set.Column)
		r.sb.WriteString(" = ")
		if set.Value.IsRaw() {
			r.sb.WriteString(set.Value.s)
		} else {
			r.addParam(set.Value)
		}
	}
	return r.renderWriteGuard(s.where, s.allRows)
}

func (r *renderer) renderDelete(s DeleteStatement) error {
	if s.where.Empty() && !s.allRows {
		return &MissingPredicateError{Verb: "DELETE", Table: s.table}
	}
	if err := validateGroup(s.where, 0); err != nil {
		return err
	}
	r.sb.WriteString("DELETE FROM ")
	r.ident(s.table)
	return r.renderWriteGuard(s.where, s.allRows)
}

// renderWriteGuard writes the WHERE clause for a destructive statement.
// With no conditions and the AllRows marker it emits the tautology
// WHERE 1 = 1, keeping the full-table intent visible in the SQL itself.
func (r *renderer) renderWriteGuard(where Group, allRows bool) error {
	if where.Empty() {
		if allRows {
			r.sb.WriteString(" WHERE 1 = 1")
		}
		return nil
	}
	r.sb.WriteString(" WHERE ")
	return r.renderGroup(where, false)
}
