package exec

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/zoobzio/arbalest"
)

// Querier is the slice of pgx this package needs. *pgx.Conn,
// *pgxpool.Pool and *pgxpool.Conn all satisfy it.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// Pgx runs statements over a pgx connection or pool. The dialect is
// always Postgres; pgx speaks nothing else.
type Pgx struct {
	q Querier
}

// NewPgx wraps a pgx querier.
func NewPgx(q Querier) *Pgx { return &Pgx{q: q} }

// Query renders and runs a row-producing statement.
func (p *Pgx) Query(ctx context.Context, stmt arbalest.Statement) (pgx.Rows, error) {
	q, params, err := render(stmt, arbalest.Postgres, arbalest.KindRows)
	if err != nil {
		return nil, err
	}
	return p.q.Query(ctx, q, params...)
}

// Exec renders and runs an affecting statement.
func (p *Pgx) Exec(ctx context.Context, stmt arbalest.Statement) (pgconn.CommandTag, error) {
	q, params, err := render(stmt, arbalest.Postgres, arbalest.KindAffected)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return p.q.Exec(ctx, q, params...)
}

// Begin opens a transaction over the querier. The querier must be a
// single connection, not a pool: transaction control statements have to
// land on the connection that ran BEGIN. Acquire a *pgxpool.Conn first
// when working from a pool.
func (p *Pgx) Begin(ctx context.Context, level arbalest.IsolationLevel) (*PgxTxn, error) {
	coord := arbalest.NewTransaction(level)
	text, err := coord.Begin()
	if err != nil {
		return nil, err
	}
	if _, err := p.q.Exec(ctx, text); err != nil {
		return nil, fmt.Errorf("begin: %w", err)
	}
	return &PgxTxn{q: p.q, coord: coord}, nil
}

// PgxTxn is an open transaction over a single pgx connection.
type PgxTxn struct {
	q     Querier
	coord *arbalest.Transaction
}

// State returns the coordinator's lifecycle state.
func (t *PgxTxn) State() arbalest.TxState { return t.coord.State() }

// Query renders and runs a row-producing statement inside the
// transaction.
func (t *PgxTxn) Query(ctx context.Context, stmt arbalest.Statement) (pgx.Rows, error) {
	q, params, err := render(stmt, arbalest.Postgres, arbalest.KindRows)
	if err != nil {
		return nil, err
	}
	return t.q.Query(ctx, q, params...)
}

// Exec renders and runs an affecting statement inside the transaction.
func (t *PgxTxn) Exec(ctx context.Context, stmt arbalest.Statement) (pgconn.CommandTag, error) {
	q, params, err := render(stmt, arbalest.Postgres, arbalest.KindAffected)
	if err != nil {
		return pgconn.CommandTag{}, err
	}
	return t.q.Exec(ctx, q, params...)
}

// Savepoint creates a named savepoint.
func (t *PgxTxn) Savepoint(ctx context.Context, name string) error {
	return t.control(ctx)(t.coord.Savepoint(name))
}

// RollbackTo rewinds to the named savepoint, keeping it open.
func (t *PgxTxn) RollbackTo(ctx context.Context, name string) error {
	return t.control(ctx)(t.coord.RollbackTo(name))
}

// Release releases the named savepoint.
func (t *PgxTxn) Release(ctx context.Context, name string) error {
	return t.control(ctx)(t.coord.Release(name))
}

// Commit commits the transaction.
func (t *PgxTxn) Commit(ctx context.Context) error {
	return t.control(ctx)(t.coord.Commit())
}

// Rollback rolls back the transaction.
func (t *PgxTxn) Rollback(ctx context.Context) error {
	return t.control(ctx)(t.coord.Rollback())
}

func (t *PgxTxn) control(ctx context.Context) func(string, error) error {
	return func(text string, err error) error {
		if err != nil {
			return err
		}
		if _, err := t.q.Exec(ctx, text); err != nil {
			return fmt.Errorf("%s: %w", text, err)
		}
		return nil
	}
}
