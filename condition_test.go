package arbalest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zoobzio/arbalest"
)

func TestGroupAppendsAreCopies(t *testing.T) {
	base := arbalest.And(arbalest.Eq("status", "active"))
	a := base.And(arbalest.C("age", arbalest.OpGt, 18))
	b := base.Or(arbalest.IsNull("deleted_at"))

	assert.Equal(t, 1, base.Len())
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, 2, b.Len())
}

func TestGroupEmpty(t *testing.T) {
	assert.True(t, arbalest.Group{}.Empty())
	assert.False(t, arbalest.And(arbalest.Eq("a", 1)).Empty())
}

func TestMixedCombinatorsFoldInAppendOrder(t *testing.T) {
	// Mixed AND/OR chains left-fold with explicit parentheses so they
	// evaluate in append order, never by native precedence: the OR pair
	// binds before the AND here.
	inner := arbalest.And(arbalest.Eq("a", 1)).
		Or(arbalest.Eq("b", 2)).
		And(arbalest.Eq("c", 3))
	sql, params, err := arbalest.Table("t").Where(inner).ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE ((a = $1 OR b = $2) AND c = $3)", sql)
	assert.Equal(t, []any{int64(1), int64(2), int64(3)}, args(params))
}

func TestMixedCombinatorsFoldDeepChains(t *testing.T) {
	chain := arbalest.And(arbalest.Eq("a", 1)).
		Or(arbalest.Eq("b", 2)).
		And(arbalest.Eq("c", 3)).
		Or(arbalest.Eq("d", 4))
	sql, _, err := arbalest.Table("t").Where(chain).ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE (((a = $1 OR b = $2) AND c = $3) OR d = $4)", sql)
}

func TestHomogeneousChainsStayFlat(t *testing.T) {
	sql, _, err := arbalest.Table("t").
		Where(arbalest.Eq("a", 1)).
		AndWhere(arbalest.Eq("b", 2)).
		AndWhere(arbalest.Eq("c", 3)).
		ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 AND b = $2 AND c = $3", sql)

	sql, _, err = arbalest.Table("t").
		Where(arbalest.Eq("a", 1)).
		OrWhere(arbalest.Eq("b", 2)).
		OrWhere(arbalest.Eq("c", 3)).
		ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM t WHERE a = $1 OR b = $2 OR c = $3", sql)
}

func TestInHelperBindsEachElement(t *testing.T) {
	sql, params, err := arbalest.Table("users").
		Where(arbalest.In("role", "admin", "editor")).
		ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE role IN ($1, $2)", sql)
	assert.Equal(t, []any{"admin", "editor"}, args(params))
}

func TestEmptyInMatchesNothing(t *testing.T) {
	sql, params, err := arbalest.Table("users").
		Where(arbalest.In("role")).
		ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE 1 = 0", sql)
	assert.Empty(t, params)

	sql, _, err = arbalest.Table("users").
		Where(arbalest.NotIn("role")).
		ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE 1 = 1", sql)
}

func TestNullHelpers(t *testing.T) {
	sql, params, err := arbalest.Table("users").
		Where(arbalest.IsNull("deleted_at")).
		AndWhere(arbalest.NotNull("email")).
		ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM users WHERE deleted_at IS NULL AND email IS NOT NULL", sql)
	assert.Empty(t, params)
}

func TestExprBindsPositionalArgs(t *testing.T) {
	sql, params, err := arbalest.Table("events").
		Where(arbalest.Expr("created_at > NOW() - make_interval(days => ?)", 7)).
		ToSQL(arbalest.Postgres)
	require.NoError(t, err)
	assert.Equal(t, "SELECT * FROM events WHERE created_at > NOW() - make_interval(days => $1)", sql)
	assert.Equal(t, []any{int64(7)}, args(params))
}

func TestExprArgumentCountMustMatch(t *testing.T) {
	// Too many arguments for the fragment's placeholders.
	sql, params, err := arbalest.Table("t").
		Where(arbalest.Expr("a = ?", 1, 2)).
		ToSQL(arbalest.Postgres)
	require.Error(t, err)
	assert.Empty(t, sql)
	assert.Empty(t, params)

	// Too few.
	_, _, err = arbalest.Table("t").
		Where(arbalest.Expr("a = ? AND b = ?", 1)).
		ToSQL(arbalest.Postgres)
	require.Error(t, err)

	// DELETE validates raw fragments the same way.
	_, _, err = arbalest.Delete("t").
		Where(arbalest.Expr("a = ?", 1, 2)).
		ToSQL(arbalest.Postgres)
	require.Error(t, err)
}

// args flattens rendered parameters to their driver arguments.
func args(params []arbalest.Value) []any {
	if len(params) == 0 {
		return nil
	}
	out := make([]any, len(params))
	for i, p := range params {
		out[i] = p.Arg()
	}
	return out
}
