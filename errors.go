package arbalest

import (
	"fmt"
	"strings"
)

// InvalidOperatorError reports a token outside the allow-list that was
// not registered through Custom. Surfaced at render time.
type InvalidOperatorError struct {
	Token      string
	Suggestion string
}

func (e *InvalidOperatorError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown operator %q (did you mean %q?)", e.Token, e.Suggestion)
	}
	return fmt.Sprintf("unknown operator %q", e.Token)
}

// MissingPredicateError reports an UPDATE or DELETE that reached render
// with neither a condition nor the explicit AllRows marker.
type MissingPredicateError struct {
	Verb  string // "UPDATE" or "DELETE"
	Table string
}

func (e *MissingPredicateError) Error() string {
	return fmt.Sprintf("%s on %s has no predicate: add a condition or call AllRows to affect every row", e.Verb, e.Table)
}

// MismatchedColumnsError reports a batch-insert row whose key set differs
// from the batch's column set. Row is the 1-based position of the
// offending row.
type MismatchedColumnsError struct {
	Table string
	Row   int
	Want  []string
	Got   []string
}

func (e *MismatchedColumnsError) Error() string {
	return fmt.Sprintf("insert into %s: row %d has columns (%s), batch expects (%s)",
		e.Table, e.Row, strings.Join(e.Got, ", "), strings.Join(e.Want, ", "))
}

// MalformedSubqueryError wraps a validation failure from a nested
// statement so the outer render reports where it came from while the
// original error stays matchable through errors.As.
type MalformedSubqueryError struct {
	Err error
}

func (e *MalformedSubqueryError) Error() string {
	return fmt.Sprintf("subquery: %s", e.Err)
}

func (e *MalformedSubqueryError) Unwrap() error { return e.Err }

// TransactionStateError reports an operation attempted against a
// transaction that cannot accept it: a terminal or inactive state, an
// unknown savepoint name, or an invalid savepoint identifier.
type TransactionStateError struct {
	Op        string
	State     TxState
	Savepoint string
	Reason    string
}

func (e *TransactionStateError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Reason)
	}
	if e.Savepoint != "" {
		return fmt.Sprintf("%s: unknown savepoint %q", e.Op, e.Savepoint)
	}
	return fmt.Sprintf("%s: transaction is %s", e.Op, e.State)
}
