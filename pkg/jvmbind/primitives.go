package jvmbind

import (
	"math"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// The primitive bindings convert directly, allocate nothing, and produce no
// references. Widths match the runtime's fixed primitive set exactly; there
// is no implicit narrowing, and widening lives behind the Resolver policy.

// Bool returns the binding for the runtime's boolean type.
func Bool() Binding[bool] { return boolBinding{} }

// Int8 returns the binding for the runtime's 8-bit signed integer.
func Int8() Binding[int8] { return int8Binding{} }

// Int16 returns the binding for the runtime's 16-bit signed integer.
func Int16() Binding[int16] { return int16Binding{} }

// Char16 returns the binding for the runtime's 16-bit unsigned code-point
// type (one UTF-16 code unit).
func Char16() Binding[uint16] { return char16Binding{} }

// Int32 returns the binding for the runtime's 32-bit signed integer.
func Int32() Binding[int32] { return int32Binding{} }

// Int64 returns the binding for the runtime's 64-bit signed integer.
func Int64() Binding[int64] { return int64Binding{} }

// Float32 returns the binding for the runtime's 32-bit float.
func Float32() Binding[float32] { return float32Binding{} }

// Float64 returns the binding for the runtime's 64-bit float.
func Float64() Binding[float64] { return float64Binding{} }

type boolBinding struct{}

func (boolBinding) Descriptor() string { return "Z" }

func (boolBinding) ToManaged(_ rt.Env, v bool) (rt.Value, error) {
	return rt.BoolValue(v), nil
}

func (boolBinding) ToNative(_ rt.Env, val rt.Value) (bool, error) {
	if val.Kind != rt.KindBool {
		return false, kindError("Z", val.Kind)
	}
	return val.Bool(), nil
}

func (b boolBinding) boxed() Binding[bool] {
	return boxedBinding[bool]{prim: b, spec: boxSpecs["Z"]}
}

type int8Binding struct{}

func (int8Binding) Descriptor() string { return "B" }

func (int8Binding) ToManaged(_ rt.Env, v int8) (rt.Value, error) {
	return rt.Int8Value(v), nil
}

func (int8Binding) ToNative(_ rt.Env, val rt.Value) (int8, error) {
	if val.Kind != rt.KindInt8 {
		return 0, kindError("B", val.Kind)
	}
	return val.Int8(), nil
}

func (b int8Binding) boxed() Binding[int8] {
	return boxedBinding[int8]{prim: b, spec: boxSpecs["B"]}
}

type int16Binding struct{}

func (int16Binding) Descriptor() string { return "S" }

func (int16Binding) ToManaged(_ rt.Env, v int16) (rt.Value, error) {
	return rt.Int16Value(v), nil
}

func (int16Binding) ToNative(_ rt.Env, val rt.Value) (int16, error) {
	if val.Kind != rt.KindInt16 {
		return 0, kindError("S", val.Kind)
	}
	return val.Int16(), nil
}

func (b int16Binding) boxed() Binding[int16] {
	return boxedBinding[int16]{prim: b, spec: boxSpecs["S"]}
}

type char16Binding struct{}

func (char16Binding) Descriptor() string { return "C" }

func (char16Binding) ToManaged(_ rt.Env, v uint16) (rt.Value, error) {
	return rt.Char16Value(v), nil
}

func (char16Binding) ToNative(_ rt.Env, val rt.Value) (uint16, error) {
	if val.Kind != rt.KindChar16 {
		return 0, kindError("C", val.Kind)
	}
	return val.Char16(), nil
}

func (b char16Binding) boxed() Binding[uint16] {
	return boxedBinding[uint16]{prim: b, spec: boxSpecs["C"]}
}

type int32Binding struct{}

func (int32Binding) Descriptor() string { return "I" }

func (int32Binding) ToManaged(_ rt.Env, v int32) (rt.Value, error) {
	return rt.Int32Value(v), nil
}

func (int32Binding) ToNative(_ rt.Env, val rt.Value) (int32, error) {
	if val.Kind != rt.KindInt32 {
		return 0, kindError("I", val.Kind)
	}
	return val.Int32(), nil
}

func (b int32Binding) boxed() Binding[int32] {
	return boxedBinding[int32]{prim: b, spec: boxSpecs["I"]}
}

type int64Binding struct{}

func (int64Binding) Descriptor() string { return "J" }

func (int64Binding) ToManaged(_ rt.Env, v int64) (rt.Value, error) {
	return rt.Int64Value(v), nil
}

func (int64Binding) ToNative(_ rt.Env, val rt.Value) (int64, error) {
	if val.Kind != rt.KindInt64 {
		return 0, kindError("J", val.Kind)
	}
	return val.Int64(), nil
}

func (b int64Binding) boxed() Binding[int64] {
	return boxedBinding[int64]{prim: b, spec: boxSpecs["J"]}
}

type float32Binding struct{}

func (float32Binding) Descriptor() string { return "F" }

func (float32Binding) ToManaged(_ rt.Env, v float32) (rt.Value, error) {
	return rt.Float32Value(v), nil
}

func (float32Binding) ToNative(_ rt.Env, val rt.Value) (float32, error) {
	if val.Kind != rt.KindFloat32 {
		return 0, kindError("F", val.Kind)
	}
	return val.Float32(), nil
}

func (b float32Binding) boxed() Binding[float32] {
	return boxedBinding[float32]{prim: b, spec: boxSpecs["F"]}
}

type float64Binding struct{}

func (float64Binding) Descriptor() string { return "D" }

func (float64Binding) ToManaged(_ rt.Env, v float64) (rt.Value, error) {
	return rt.Float64Value(v), nil
}

func (float64Binding) ToNative(_ rt.Env, val rt.Value) (float64, error) {
	if val.Kind != rt.KindFloat64 {
		return 0, kindError("D", val.Kind)
	}
	return val.Float64(), nil
}

func (b float64Binding) boxed() Binding[float64] {
	return boxedBinding[float64]{prim: b, spec: boxSpecs["D"]}
}

// Widening bindings, available through the Resolver only. Each maps an
// unsigned native type to the next wider signed runtime type, and rejects
// values outside the unsigned range on the way back.

type uint8Binding struct{}

func (uint8Binding) Descriptor() string { return "S" }

func (uint8Binding) ToManaged(_ rt.Env, v uint8) (rt.Value, error) {
	return rt.Int16Value(int16(v)), nil
}

func (uint8Binding) ToNative(_ rt.Env, val rt.Value) (uint8, error) {
	if val.Kind != rt.KindInt16 {
		return 0, kindError("S", val.Kind)
	}
	n := val.Int16()
	if n < 0 || n > math.MaxUint8 {
		return 0, errorf("ToNative", "%w: %d does not fit uint8", ErrOutOfRange, n)
	}
	return uint8(n), nil
}

type uint16Binding struct{}

func (uint16Binding) Descriptor() string { return "I" }

func (uint16Binding) ToManaged(_ rt.Env, v uint16) (rt.Value, error) {
	return rt.Int32Value(int32(v)), nil
}

func (uint16Binding) ToNative(_ rt.Env, val rt.Value) (uint16, error) {
	if val.Kind != rt.KindInt32 {
		return 0, kindError("I", val.Kind)
	}
	n := val.Int32()
	if n < 0 || n > math.MaxUint16 {
		return 0, errorf("ToNative", "%w: %d does not fit uint16", ErrOutOfRange, n)
	}
	return uint16(n), nil
}

type uint32Binding struct{}

func (uint32Binding) Descriptor() string { return "J" }

func (uint32Binding) ToManaged(_ rt.Env, v uint32) (rt.Value, error) {
	return rt.Int64Value(int64(v)), nil
}

func (uint32Binding) ToNative(_ rt.Env, val rt.Value) (uint32, error) {
	if val.Kind != rt.KindInt64 {
		return 0, kindError("J", val.Kind)
	}
	n := val.Int64()
	if n < 0 || n > math.MaxUint32 {
		return 0, errorf("ToNative", "%w: %d does not fit uint32", ErrOutOfRange, n)
	}
	return uint32(n), nil
}
