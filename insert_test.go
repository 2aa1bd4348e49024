package arbalest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/arbalest"
)

func TestInsertSingleRow(t *testing.T) {
	sql, params, err := arbalest.Insert("users").
		Row(map[string]any{"name": "bob", "age": 30}).
		ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	// Columns sort for deterministic output.
	assert.Equal(t, "INSERT INTO users (age, name) VALUES ($1, $2)", sql)
	assert.Equal(t, []any{int64(30), "bob"}, args(params))
}

func TestInsertBatchRowMajorParams(t *testing.T) {
	sql, params, err := arbalest.Insert("users").
		Rows(
			map[string]any{"name": "bob", "age": 30},
			map[string]any{"name": "eve", "age": 25},
		).
		ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (age, name) VALUES ($1, $2), ($3, $4)", sql)
	assert.Equal(t, []any{int64(30), "bob", int64(25), "eve"}, args(params))
}

func TestInsertMismatchedColumnsReportsRow(t *testing.T) {
	_, _, err := arbalest.Insert("users").
		Rows(
			map[string]any{"name": "bob", "age": 30},
			map[string]any{"name": "eve", "email": "eve@example.com"},
		).
		ToSQL(arbalest.Postgres)
	require.Error(t, err)

	var mismatch *arbalest.MismatchedColumnsError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, "users", mismatch.Table)
	assert.Equal(t, 2, mismatch.Row)
	assert.Equal(t, []string{"age", "name"}, mismatch.Want)
	assert.Equal(t, []string{"email", "name"}, mismatch.Got)
}

func TestInsertRawValueSplices(t *testing.T) {
	sql, params, err := arbalest.Insert("events").
		Row(map[string]any{"kind": "login", "at": arbalest.Raw("NOW()")}).
		ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO events (at, kind) VALUES (NOW(), $1)", sql)
	assert.Equal(t, []any{"login"}, args(params))
}

func TestInsertNoRowsFails(t *testing.T) {
	_, _, err := arbalest.Insert("users").ToSQL(arbalest.Postgres)
	require.Error(t, err)
}

func TestInsertPositionalPlaceholders(t *testing.T) {
	sql, _, err := arbalest.Insert("users").
		Row(map[string]any{"name": "bob"}).
		ToSQL(arbalest.SQLite)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (name) VALUES (?)", sql)
}

func TestInsertIsImmutable(t *testing.T) {
	base := arbalest.Insert("users").Row(map[string]any{"name": "bob"})
	_ = base.Row(map[string]any{"name": "eve"})

	sql, params, err := base.ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO users (name) VALUES ($1)", sql)
	assert.Equal(t, []any{"bob"}, args(params))
}

func TestInsertKind(t *testing.T) {
	assert.Equal(t, arbalest.KindAffected, arbalest.Insert("users").Kind())
}
