package arbalest

import "fmt"

// valueKind discriminates the Value union.
type valueKind uint8

const (
	kindNull valueKind = iota
	kindBool
	kindInt
	kindFloat
	kindText
	kindBytes
	kindRaw
	kindTuple
)

// Value is an immutable SQL parameter value. Values are cheap to copy and
// share; a Value never changes after construction.
//
// Raw values are the one exception to parameterization: their fragment is
// spliced into the SQL text verbatim. They exist for trusted internal
// fragments (NOW(), DEFAULT) and must never carry user input.
type Value struct {
	kind  valueKind
	b     bool
	i     int64
	f     float64
	s     string
	bytes []byte
	tuple []Value
}

// Null returns the SQL NULL value.
func Null() Value { return Value{kind: kindNull} }

// Bool wraps a boolean.
func Bool(b bool) Value { return Value{kind: kindBool, b: b} }

// Int wraps a 64-bit integer.
func Int(i int64) Value { return Value{kind: kindInt, i: i} }

// Float wraps a 64-bit float.
func Float(f float64) Value { return Value{kind: kindFloat, f: f} }

// Text wraps a string.
func Text(s string) Value { return Value{kind: kindText, s: s} }

// Bytes wraps a byte slice.
func Bytes(b []byte) Value { return Value{kind: kindBytes, bytes: b} }

// Raw wraps a trusted SQL fragment that is emitted verbatim instead of
// being bound as a parameter. Never pass user input to Raw.
func Raw(fragment string) Value { return Value{kind: kindRaw, s: fragment} }

// Tuple wraps an ordered list of values, used by the IN and NOT IN
// helpers. Each element binds as its own parameter.
func Tuple(values ...Value) Value { return Value{kind: kindTuple, tuple: values} }

// V converts a host value into a Value. Booleans, integers, floats,
// strings, byte slices and nil convert losslessly; a Value passes
// through; a []any becomes a Tuple. Anything else is rendered with
// fmt.Sprint and bound as text.
func V(v any) Value {
	switch t := v.(type) {
	case nil:
		return Null()
	case Value:
		return t
	case bool:
		return Bool(t)
	case int:
		return Int(int64(t))
	case int8:
		return Int(int64(t))
	case int16:
		return Int(int64(t))
	case int32:
		return Int(int64(t))
	case int64:
		return Int(t)
	case uint:
		return Int(int64(t))
	case uint8:
		return Int(int64(t))
	case uint16:
		return Int(int64(t))
	case uint32:
		return Int(int64(t))
	case uint64:
		return Int(int64(t))
	case float32:
		return Float(float64(t))
	case float64:
		return Float(t)
	case string:
		return Text(t)
	case []byte:
		return Bytes(t)
	case []any:
		vals := make([]Value, len(t))
		for i, e := range t {
			vals[i] = V(e)
		}
		return Tuple(vals...)
	default:
		return Text(fmt.Sprint(t))
	}
}

// IsNull reports whether the value is SQL NULL.
func (v Value) IsNull() bool { return v.kind == kindNull }

// IsRaw reports whether the value is a verbatim SQL fragment.
func (v Value) IsRaw() bool { return v.kind == kindRaw }

// Arg returns the driver-level argument for a bound parameter: nil, bool,
// int64, float64, string or []byte. Raw and Tuple values never appear in
// a rendered parameter list, so Arg returns nil for them.
func (v Value) Arg() any {
	switch v.kind {
	case kindBool:
		return v.b
	case kindInt:
		return v.i
	case kindFloat:
		return v.f
	case kindText:
		return v.s
	case kindBytes:
		return v.bytes
	default:
		return nil
	}
}

// TypeName returns the SQL type name for the value.
func (v Value) TypeName() string {
	switch v.kind {
	case kindNull:
		return "NULL"
	case kindBool:
		return "BOOLEAN"
	case kindInt:
		return "BIGINT"
	case kindFloat:
		return "DOUBLE PRECISION"
	case kindText:
		return "TEXT"
	case kindBytes:
		return "BYTEA"
	case kindRaw:
		return "SQL"
	default:
		return "TUPLE"
	}
}
