// Package arbalest is a fluent builder that turns chained method calls
// into parameterized SQL for SELECT, INSERT, UPDATE and DELETE statements.
//
// Statements are immutable values: every builder method copies the
// statement it is called on and returns the extension, so two chains
// built from a shared ancestor never interfere. Nothing is validated
// during construction; ToSQL performs one consolidated validation pass
// over the whole statement, then renders dialect text and collects
// positional parameters in strict left-to-right emission order.
//
//	sql, params, err := arbalest.Table("users").
//		Select("id", "name").
//		Where(arbalest.C("age", arbalest.OpGt, 18)).
//		AndWhere(arbalest.Eq("status", "active")).
//		ToSQL(arbalest.Postgres)
//
//	// SELECT id, name FROM users WHERE age > $1 AND status = $2
//
// Column and table names are opaque text: the builder never checks them
// against a catalog, which is what lets an inner statement reference an
// outer statement's columns (correlated subqueries) without ceremony.
// Parameter values are always bound, never interpolated; the only escape
// hatch is Raw, which is reserved for trusted fragments such as NOW().
//
// The exec subpackage adapts rendered statements to database/sql and to
// pgx. The core never calls it.
package arbalest
