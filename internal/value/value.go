// Package value defines the tagged-union Value ADT that crosses every
// public boundary in bud: manager to provider, provider to guest (after
// marshalling), and back.
package value

import "fmt"

// Kind discriminates the variants of Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindI32
	KindI64
	KindF32
	KindF64
	KindString
	KindArray
	KindObject
)

// String returns the kind's name, used in error messages that must name
// the offending variant (e.g. "Bool not supported; use I32(0)/I32(1)").
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "Null"
	case KindBool:
		return "Bool"
	case KindI32:
		return "I32"
	case KindI64:
		return "I64"
	case KindF32:
		return "F32"
	case KindF64:
		return "F64"
	case KindString:
		return "String"
	case KindArray:
		return "Array"
	case KindObject:
		return "Object"
	default:
		return "Unknown"
	}
}

// Pair is a single (key, value) entry of an Object. Object preserves key
// order: it is conceptually an ordered sequence of pairs, not a mapping.
type Pair struct {
	Key   string
	Value Value
}

// Value is the closed sum type shared across the host/guest boundary.
// Only the numeric variants (I32, I64, F32, F64) cross into WASM; the
// richer variants exist so future providers (e.g. JS runtimes) can share
// the ADT without bud's core needing to change.
type Value struct {
	kind   Kind
	b      bool
	i32    int32
	i64    int64
	f32    float32
	f64    float64
	str    string
	arr    []Value
	fields []Pair
}

// Null is the sole Null value.
var Null = Value{kind: KindNull}

// Bool constructs a Bool variant.
func Bool(v bool) Value { return Value{kind: KindBool, b: v} }

// I32 constructs an I32 variant.
func I32(v int32) Value { return Value{kind: KindI32, i32: v} }

// I64 constructs an I64 variant.
func I64(v int64) Value { return Value{kind: KindI64, i64: v} }

// F32 constructs an F32 variant.
func F32(v float32) Value { return Value{kind: KindF32, f32: v} }

// F64 constructs an F64 variant.
func F64(v float64) Value { return Value{kind: KindF64, f64: v} }

// String constructs a String variant.
func String(v string) Value { return Value{kind: KindString, str: v} }

// Array constructs an Array variant from its elements, in order.
func Array(elems ...Value) Value {
	cp := make([]Value, len(elems))
	copy(cp, elems)
	return Value{kind: KindArray, arr: cp}
}

// Object constructs an Object variant, preserving the order of pairs given.
func Object(pairs ...Pair) Value {
	cp := make([]Pair, len(pairs))
	copy(cp, pairs)
	return Value{kind: KindObject, fields: cp}
}

// Kind reports which variant this Value holds.
func (v Value) Kind() Kind { return v.kind }

// AsBool returns the Bool payload and whether v is a Bool.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsI32 returns the I32 payload and whether v is an I32.
func (v Value) AsI32() (int32, bool) { return v.i32, v.kind == KindI32 }

// AsI64 returns the I64 payload and whether v is an I64.
func (v Value) AsI64() (int64, bool) { return v.i64, v.kind == KindI64 }

// AsF32 returns the F32 payload and whether v is an F32.
func (v Value) AsF32() (float32, bool) { return v.f32, v.kind == KindF32 }

// AsF64 returns the F64 payload and whether v is an F64.
func (v Value) AsF64() (float64, bool) { return v.f64, v.kind == KindF64 }

// AsString returns the String payload and whether v is a String.
func (v Value) AsString() (string, bool) { return v.str, v.kind == KindString }

// AsArray returns the Array payload and whether v is an Array.
func (v Value) AsArray() ([]Value, bool) { return v.arr, v.kind == KindArray }

// AsObject returns the Object payload (ordered pairs) and whether v is an Object.
func (v Value) AsObject() ([]Pair, bool) { return v.fields, v.kind == KindObject }

// IsNumeric reports whether v is one of the four variants allowed to cross
// the WASM boundary (I32, I64, F32, F64).
func (v Value) IsNumeric() bool {
	switch v.kind {
	case KindI32, KindI64, KindF32, KindF64:
		return true
	default:
		return false
	}
}

// Equal reports structural equality. Composite equality (Array, Object) is
// element-wise in order.
func Equal(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindNull:
		return true
	case KindBool:
		return a.b == b.b
	case KindI32:
		return a.i32 == b.i32
	case KindI64:
		return a.i64 == b.i64
	case KindF32:
		return f32BitsEqual(a.f32, b.f32)
	case KindF64:
		return f64BitsEqual(a.f64, b.f64)
	case KindString:
		return a.str == b.str
	case KindArray:
		if len(a.arr) != len(b.arr) {
			return false
		}
		for i := range a.arr {
			if !Equal(a.arr[i], b.arr[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.fields) != len(b.fields) {
			return false
		}
		for i := range a.fields {
			if a.fields[i].Key != b.fields[i].Key || !Equal(a.fields[i].Value, b.fields[i].Value) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// String renders a debug form of v, primarily for error messages and logs.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return fmt.Sprintf("%t", v.b)
	case KindI32:
		return fmt.Sprintf("%d", v.i32)
	case KindI64:
		return fmt.Sprintf("%d", v.i64)
	case KindF32:
		return fmt.Sprintf("%v", v.f32)
	case KindF64:
		return fmt.Sprintf("%v", v.f64)
	case KindString:
		return fmt.Sprintf("%q", v.str)
	case KindArray:
		return fmt.Sprintf("%v", v.arr)
	case KindObject:
		return fmt.Sprintf("%v", v.fields)
	default:
		return "<invalid>"
	}
}
