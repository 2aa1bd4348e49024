// Package exec runs rendered statements against real databases. It is a
// thin adapter: the builder produces (SQL, params, kind) and exec sends
// that triple over database/sql or pgx, choosing Query or Exec by the
// statement kind. The dialect is fixed when the adapter is created, so
// call sites never repeat it.
package exec

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/zoobzio/arbalest"
)

// DB wraps a database/sql pool with the dialect its driver speaks.
type DB struct {
	db      *sql.DB
	dialect arbalest.Dialect
}

// Open opens a database/sql pool for the driver and binds the dialect.
func Open(driver, dsn string, d arbalest.Dialect) (*DB, error) {
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	return &DB{db: db, dialect: d}, nil
}

// NewDB wraps an existing pool.
func NewDB(db *sql.DB, d arbalest.Dialect) *DB {
	return &DB{db: db, dialect: d}
}

// Unwrap returns the underlying pool.
func (d *DB) Unwrap() *sql.DB { return d.db }

// Close closes the underlying pool.
func (d *DB) Close() error { return d.db.Close() }

// Query renders and runs a row-producing statement.
func (d *DB) Query(ctx context.Context, stmt arbalest.Statement) (*sql.Rows, error) {
	q, params, err := render(stmt, d.dialect, arbalest.KindRows)
	if err != nil {
		return nil, err
	}
	return d.db.QueryContext(ctx, q, params...)
}

// Exec renders and runs an affecting statement.
func (d *DB) Exec(ctx context.Context, stmt arbalest.Statement) (sql.Result, error) {
	q, params, err := render(stmt, d.dialect, arbalest.KindAffected)
	if err != nil {
		return nil, err
	}
	return d.db.ExecContext(ctx, q, params...)
}

// Begin pins a connection, opens a transaction on it, and returns a Txn
// that sends the coordinator's text verbatim over that connection.
func (d *DB) Begin(ctx context.Context, level arbalest.IsolationLevel) (*Txn, error) {
	conn, err := d.db.Conn(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	coord := arbalest.NewTransaction(level)
	text, err := coord.Begin()
	if err != nil {
		conn.Close()
		return nil, err
	}
	if _, err := conn.ExecContext(ctx, text); err != nil {
		conn.Close()
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &Txn{conn: conn, coord: coord, dialect: d.dialect}, nil
}

// Txn is an open transaction over a pinned connection. Transaction
// control text comes from the coordinator; misuse (double commit, an
// unknown savepoint) fails locally before anything reaches the server.
type Txn struct {
	conn    *sql.Conn
	coord   *arbalest.Transaction
	dialect arbalest.Dialect
}

// State returns the coordinator's lifecycle state.
func (t *Txn) State() arbalest.TxState { return t.coord.State() }

// Query renders and runs a row-producing statement inside the
// transaction.
func (t *Txn) Query(ctx context.Context, stmt arbalest.Statement) (*sql.Rows, error) {
	q, params, err := render(stmt, t.dialect, arbalest.KindRows)
	if err != nil {
		return nil, err
	}
	return t.conn.QueryContext(ctx, q, params...)
}

// Exec renders and runs an affecting statement inside the transaction.
func (t *Txn) Exec(ctx context.Context, stmt arbalest.Statement) (sql.Result, error) {
	q, params, err := render(stmt, t.dialect, arbalest.KindAffected)
	if err != nil {
		return nil, err
	}
	return t.conn.ExecContext(ctx, q, params...)
}

// Savepoint creates a named savepoint.
func (t *Txn) Savepoint(ctx context.Context, name string) error {
	return t.control(ctx)(t.coord.Savepoint(name))
}

// RollbackTo rewinds to the named savepoint, keeping it open.
func (t *Txn) RollbackTo(ctx context.Context, name string) error {
	return t.control(ctx)(t.coord.RollbackTo(name))
}

// Release releases the named savepoint, keeping the work done since.
func (t *Txn) Release(ctx context.Context, name string) error {
	return t.control(ctx)(t.coord.Release(name))
}

// Commit commits and returns the connection to the pool.
func (t *Txn) Commit(ctx context.Context) error {
	defer t.conn.Close()
	return t.control(ctx)(t.coord.Commit())
}

// Rollback rolls back and returns the connection to the pool.
func (t *Txn) Rollback(ctx context.Context) error {
	defer t.conn.Close()
	return t.control(ctx)(t.coord.Rollback())
}

// control sends one coordinator-produced control statement, skipping
// the server round trip when the coordinator already rejected it.
func (t *Txn) control(ctx context.Context) func(string, error) error {
	return func(text string, err error) error {
		if err != nil {
			return err
		}
		if _, err := t.conn.ExecContext(ctx, text); err != nil {
			return fmt.Errorf("%s: %w", text, err)
		}
		return nil
	}
}

// render compiles a statement and checks its kind against what the call
// site expects, so a SELECT cannot slip through Exec or an UPDATE
// through Query.
func render(stmt arbalest.Statement, d arbalest.Dialect, want arbalest.StatementKind) (string, []any, error) {
	if stmt.Kind() != want {
		return "", nil, fmt.Errorf("statement produces %s, call site expects %s", stmt.Kind(), want)
	}
	q, params, err := stmt.ToSQL(d)
	if err != nil {
		return "", nil, err
	}
	return q, driverArgs(params), nil
}

func driverArgs(params []arbalest.Value) []any {
	if len(params) == 0 {
		return nil
	}
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p.Arg()
	}
	return out
}
