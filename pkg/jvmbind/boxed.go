package jvmbind

import (
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// boxSpec names the wrapper class for one primitive kind and the two methods
// that cross between the primitive and its box.
type boxSpec struct {
	class      string
	valueOfSig string
	unboxName  string
	unboxSig   string
}

var boxSpecs = map[string]boxSpec{
	"Z": {"java/lang/Boolean", "(Z)Ljava/lang/Boolean;", "booleanValue", "()Z"},
	"B": {"java/lang/Byte", "(B)Ljava/lang/Byte;", "byteValue", "()B"},
	"C": {"java/lang/Character", "(C)Ljava/lang/Character;", "charValue", "()C"},
	"S": {"java/lang/Short", "(S)Ljava/lang/Short;", "shortValue", "()S"},
	"I": {"java/lang/Integer", "(I)Ljava/lang/Integer;", "intValue", "()I"},
	"J": {"java/lang/Long", "(J)Ljava/lang/Long;", "longValue", "()J"},
	"F": {"java/lang/Float", "(F)Ljava/lang/Float;", "floatValue", "()F"},
	"D": {"java/lang/Double", "(D)Ljava/lang/Double;", "doubleValue", "()D"},
}

// boxable is implemented by the primitive bindings that have a wrapper-class
// counterpart.
type boxable[T any] interface {
	boxed() Binding[T]
}

// Boxed lifts a primitive binding to its wrapper-class representation
// (java/lang/Integer for "I" and so on). The boxed binding is object-shaped:
// conversions allocate on the managed side and produce a reference in the
// caller's frame. Lifting a binding without a boxed counterpart panics; the
// set of boxable primitives is closed and known at bind time.
func Boxed[T any](prim Binding[T]) Binding[T] {
	bx, ok := prim.(boxable[T])
	if !ok {
		panic("jvmbind: no boxed counterpart for descriptor " + prim.Descriptor())
	}
	return bx.boxed()
}

type boxedBinding[T any] struct {
	prim Binding[T]
	spec boxSpec
}

func (b boxedBinding[T]) Descriptor() string { return "L" + b.spec.class + ";" }

func (b boxedBinding[T]) ToManaged(env rt.Env, v T) (rt.Value, error) {
	raw, err := b.prim.ToManaged(env, v)
	if err != nil {
		return rt.Value{}, err
	}
	cls, err := classFor(env, b.spec.class)
	if err != nil {
		return rt.Value{}, err
	}
	m := env.GetStaticMethodID(cls, "valueOf", b.spec.valueOfSig)
	if err := checkPending(env, "GetStaticMethodID"); err != nil {
		return rt.Value{}, err
	}
	obj := env.CallStaticMethod(cls, m, raw)
	if err := checkPending(env, "CallStaticMethod"); err != nil {
		return rt.Value{}, err
	}
	return obj, nil
}

func (b boxedBinding[T]) ToNative(env rt.Env, val rt.Value) (T, error) {
	var zero T
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return zero, err
	}
	cls, err := classFor(env, b.spec.class)
	if err != nil {
		return zero, err
	}
	if !env.IsInstanceOf(ref, cls) {
		return zero, errorf("ToNative", "%w: object is not a %s", ErrClassCast, b.spec.class)
	}
	m := env.GetMethodID(cls, b.spec.unboxName, b.spec.unboxSig)
	if err := checkPending(env, "GetMethodID"); err != nil {
		return zero, err
	}
	raw := env.CallMethod(ref, m)
	if err := checkPending(env, "CallMethod"); err != nil {
		return zero, err
	}
	return b.prim.ToNative(env, raw)
}
