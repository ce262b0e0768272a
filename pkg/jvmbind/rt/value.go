package rt

import (
	"fmt"
	"math"
)

// Kind enumerates the value shapes that may cross the boundary. The set is
// closed: it mirrors the runtime's fixed-width primitive set plus the opaque
// object reference. There is no open-ended "any" kind.
type Kind uint8

const (
	KindVoid Kind = iota
	KindBool
	KindInt8
	KindInt16
	KindChar16
	KindInt32
	KindInt64
	KindFloat32
	KindFloat64
	KindObject
)

func (k Kind) String() string {
	switch k {
	case KindVoid:
		return "void"
	case KindBool:
		return "boolean"
	case KindInt8:
		return "byte"
	case KindInt16:
		return "short"
	case KindChar16:
		return "char"
	case KindInt32:
		return "int"
	case KindInt64:
		return "long"
	case KindFloat32:
		return "float"
	case KindFloat64:
		return "double"
	case KindObject:
		return "object"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Ref is an opaque handle to an entry in one of the runtime's reference
// tables. The zero value is the null reference. A Ref says nothing about
// lifetime; ownership semantics live in pkg/jvmbind.
type Ref uint64

// MethodID identifies a resolved method within one runtime instance. IDs stay
// valid for the lifetime of the defining class.
type MethodID uint64

// FieldID identifies a resolved field within one runtime instance.
type FieldID uint64

// Value is the tagged union carried across the boundary in both directions.
// Primitive kinds store their payload in Bits (sign-extended for the signed
// integer kinds, IEEE bit patterns for the float kinds); KindObject stores a
// reference table handle in Ref.
type Value struct {
	Kind Kind
	Bits uint64
	Ref  Ref
}

// Void is the unit value returned by void-typed calls.
func Void() Value { return Value{Kind: KindVoid} }

func BoolValue(v bool) Value {
	var bits uint64
	if v {
		bits = 1
	}
	return Value{Kind: KindBool, Bits: bits}
}

func Int8Value(v int8) Value   { return Value{Kind: KindInt8, Bits: uint64(int64(v))} }
func Int16Value(v int16) Value { return Value{Kind: KindInt16, Bits: uint64(int64(v))} }

// Char16Value carries one UTF-16 code unit, the runtime's unsigned 16-bit
// code-point type.
func Char16Value(v uint16) Value { return Value{Kind: KindChar16, Bits: uint64(v)} }

func Int32Value(v int32) Value   { return Value{Kind: KindInt32, Bits: uint64(int64(v))} }
func Int64Value(v int64) Value   { return Value{Kind: KindInt64, Bits: uint64(v)} }
func Float32Value(v float32) Value {
	return Value{Kind: KindFloat32, Bits: uint64(math.Float32bits(v))}
}
func Float64Value(v float64) Value {
	return Value{Kind: KindFloat64, Bits: math.Float64bits(v)}
}

// ObjectValue wraps a reference handle. A zero ref produces the null object.
func ObjectValue(r Ref) Value { return Value{Kind: KindObject, Ref: r} }

// The typed accessors panic on a kind mismatch. Callers are expected to have
// checked Kind already; a mismatch here is a contract violation, not a
// recoverable condition.

func (v Value) Bool() bool {
	v.mustBe(KindBool)
	return v.Bits != 0
}

func (v Value) Int8() int8 {
	v.mustBe(KindInt8)
	return int8(v.Bits)
}

func (v Value) Int16() int16 {
	v.mustBe(KindInt16)
	return int16(v.Bits)
}

func (v Value) Char16() uint16 {
	v.mustBe(KindChar16)
	return uint16(v.Bits)
}

func (v Value) Int32() int32 {
	v.mustBe(KindInt32)
	return int32(v.Bits)
}

func (v Value) Int64() int64 {
	v.mustBe(KindInt64)
	return int64(v.Bits)
}

func (v Value) Float32() float32 {
	v.mustBe(KindFloat32)
	return math.Float32frombits(uint32(v.Bits))
}

func (v Value) Float64() float64 {
	v.mustBe(KindFloat64)
	return math.Float64frombits(v.Bits)
}

func (v Value) Object() Ref {
	v.mustBe(KindObject)
	return v.Ref
}

// IsNull reports whether v is an object value holding the null reference.
func (v Value) IsNull() bool { return v.Kind == KindObject && v.Ref == 0 }

func (v Value) mustBe(k Kind) {
	if v.Kind != k {
		panic(fmt.Sprintf("rt: value kind is %s, want %s", v.Kind, k))
	}
}
