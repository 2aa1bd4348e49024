package arbalest_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zoobzio/arbalest"
)

func TestVConvertsHostValues(t *testing.T) {
	cases := []struct {
		name string
		in   any
		arg  any
	}{
		{"nil", nil, nil},
		{"bool", true, true},
		{"int", 42, int64(42)},
		{"int8", int8(7), int64(7)},
		{"int64", int64(-9), int64(-9)},
		{"uint32", uint32(3), int64(3)},
		{"float32", float32(1.5), float64(1.5)},
		{"float64", 2.25, 2.25},
		{"string", "hello", "hello"},
		{"bytes", []byte{0x01, 0x02}, []byte{0x01, 0x02}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.arg, arbalest.V(tc.in).Arg())
		})
	}
}

func TestVPassesValueThrough(t *testing.T) {
	v := arbalest.Int(5)
	assert.Equal(t, v, arbalest.V(v))
}

func TestVFallsBackToText(t *testing.T) {
	type point struct{ X, Y int }
	v := arbalest.V(point{1, 2})
	assert.Equal(t, "TEXT", v.TypeName())
	assert.Equal(t, "{1 2}", v.Arg())
}

func TestNullAndRaw(t *testing.T) {
	assert.True(t, arbalest.Null().IsNull())
	assert.Nil(t, arbalest.Null().Arg())

	raw := arbalest.Raw("NOW()")
	assert.True(t, raw.IsRaw())
	// Raw fragments are spliced, never bound.
	assert.Nil(t, raw.Arg())
}

func TestTypeNames(t *testing.T) {
	cases := map[string]arbalest.Value{
		"NULL":             arbalest.Null(),
		"BOOLEAN":          arbalest.Bool(true),
		"BIGINT":           arbalest.Int(1),
		"DOUBLE PRECISION": arbalest.Float(1.5),
		"TEXT":             arbalest.Text("x"),
		"BYTEA":            arbalest.Bytes([]byte("x")),
		"SQL":              arbalest.Raw("DEFAULT"),
		"TUPLE":            arbalest.Tuple(arbalest.Int(1)),
	}
	for want, v := range cases {
		assert.Equal(t, want, v.TypeName())
	}
}
