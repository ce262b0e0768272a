package jvmbind

import (
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// Array returns the binding between []T and the runtime's primitive array of
// the matching element kind, descriptor "[" followed by the element code
// ("[I", "[D", ...). The element binding must be a direct primitive; arrays
// of object-shaped elements cross as List instead. A non-primitive element
// binding is a registration-time programming error and panics.
func Array[T any](elem Binding[T]) Binding[[]T] {
	kind, ok := primitiveKind(elem.Descriptor())
	if !ok {
		panic("jvmbind: Array element descriptor " + elem.Descriptor() + " is not a primitive code")
	}
	return arrayBinding[T]{elem: elem, kind: kind}
}

// primitiveKind maps a primitive descriptor code to its value kind.
func primitiveKind(desc string) (rt.Kind, bool) {
	switch desc {
	case "Z":
		return rt.KindBool, true
	case "B":
		return rt.KindInt8, true
	case "S":
		return rt.KindInt16, true
	case "C":
		return rt.KindChar16, true
	case "I":
		return rt.KindInt32, true
	case "J":
		return rt.KindInt64, true
	case "F":
		return rt.KindFloat32, true
	case "D":
		return rt.KindFloat64, true
	default:
		return rt.KindVoid, false
	}
}

type arrayBinding[T any] struct {
	elem Binding[T]
	kind rt.Kind
}

func (b arrayBinding[T]) Descriptor() string { return "[" + b.elem.Descriptor() }

func (b arrayBinding[T]) ToManaged(env rt.Env, v []T) (rt.Value, error) {
	arr := env.NewArray(b.kind, len(v))
	if err := checkPending(env, "NewArray"); err != nil {
		return rt.Value{}, err
	}
	for i, e := range v {
		ev, err := b.elem.ToManaged(env, e)
		if err != nil {
			return rt.Value{}, err
		}
		env.SetArrayElement(arr, i, ev)
		if err := checkPending(env, "SetArrayElement"); err != nil {
			return rt.Value{}, err
		}
	}
	return rt.ObjectValue(arr), nil
}

func (b arrayBinding[T]) ToNative(env rt.Env, val rt.Value) ([]T, error) {
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return nil, err
	}
	n := env.GetArrayLength(ref)
	if err := checkPending(env, "GetArrayLength"); err != nil {
		return nil, err
	}
	out := make([]T, n)
	for i := range out {
		ev := env.GetArrayElement(ref, i)
		if err := checkPending(env, "GetArrayElement"); err != nil {
			return nil, err
		}
		out[i], err = b.elem.ToNative(env, ev)
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}
