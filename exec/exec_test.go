package exec_test

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/arbalest"
	"github.com/zoobzio/arbalest/exec"
)

func newMock(t *testing.T) (*exec.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return exec.NewDB(db, arbalest.Postgres), mock
}

func TestQuerySendsRenderedStatement(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM users WHERE age > $1")).
		WithArgs(int64(18)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(1, "bob"))

	rows, err := db.Query(context.Background(), arbalest.Table("users").
		Select("id", "name").
		Where(arbalest.C("age", arbalest.OpGt, 18)))
	require.NoError(t, err)
	defer rows.Close()

	require.True(t, rows.Next())
	var id int64
	var name string
	require.NoError(t, rows.Scan(&id, &name))
	assert.Equal(t, int64(1), id)
	assert.Equal(t, "bob", name)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestExecSendsRenderedStatement(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET status = $1 WHERE id = $2")).
		WithArgs("inactive", int64(7)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	res, err := db.Exec(context.Background(), arbalest.Update("users").
		Set("status", "inactive").
		Where(arbalest.Eq("id", 7)))
	require.NoError(t, err)

	affected, err := res.RowsAffected()
	require.NoError(t, err)
	assert.Equal(t, int64(1), affected)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestKindMismatchFailsBeforeTheServer(t *testing.T) {
	db, mock := newMock(t)

	_, err := db.Exec(context.Background(), arbalest.Table("users"))
	require.Error(t, err)

	_, err = db.Query(context.Background(), arbalest.Delete("users").AllRows())
	require.Error(t, err)

	// Nothing reached the mock.
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRenderErrorFailsBeforeTheServer(t *testing.T) {
	db, mock := newMock(t)

	_, err := db.Query(context.Background(), arbalest.Table("users").
		Where(arbalest.C("name", arbalest.Op("LIEK"), "bob")))

	var invalid *arbalest.InvalidOperatorError
	require.ErrorAs(t, err, &invalid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxnSendsCoordinatorTextVerbatim(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("BEGIN").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name) VALUES ($1)")).
		WithArgs("bob").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("SAVEPOINT sp1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name) VALUES ($1)")).
		WithArgs("eve").
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("ROLLBACK TO SAVEPOINT sp1").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("COMMIT").WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	txn, err := db.Begin(ctx, arbalest.LevelDefault)
	require.NoError(t, err)
	assert.Equal(t, arbalest.TxActive, txn.State())

	_, err = txn.Exec(ctx, arbalest.Insert("users").Row(map[string]any{"name": "bob"}))
	require.NoError(t, err)
	require.NoError(t, txn.Savepoint(ctx, "sp1"))
	_, err = txn.Exec(ctx, arbalest.Insert("users").Row(map[string]any{"name": "eve"}))
	require.NoError(t, err)
	require.NoError(t, txn.RollbackTo(ctx, "sp1"))
	require.NoError(t, txn.Commit(ctx))
	assert.Equal(t, arbalest.TxCommitted, txn.State())

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxnIsolationLevelInBegin(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("BEGIN ISOLATION LEVEL SERIALIZABLE").
		WillReturnResult(sqlmock.NewResult(0, 0))

	txn, err := db.Begin(context.Background(), arbalest.Serializable)
	require.NoError(t, err)
	assert.Equal(t, arbalest.TxActive, txn.State())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTxnMisuseFailsLocally(t *testing.T) {
	db, mock := newMock(t)

	mock.ExpectExec("BEGIN").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("COMMIT").WillReturnResult(sqlmock.NewResult(0, 0))

	ctx := context.Background()
	txn, err := db.Begin(ctx, arbalest.LevelDefault)
	require.NoError(t, err)

	// Unknown savepoint never reaches the server.
	var stateErr *arbalest.TransactionStateError
	require.ErrorAs(t, txn.RollbackTo(ctx, "nope"), &stateErr)

	require.NoError(t, txn.Commit(ctx))
	require.ErrorAs(t, txn.Commit(ctx), &stateErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}
