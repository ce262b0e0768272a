package jvmbind

import (
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// Records cross the boundary by value, field by field. Marshaling out
// allocates the managed instance without running a constructor and writes
// each declared field directly; marshaling in reads each field back. The
// managed class must declare exactly the fields listed here with matching
// descriptors, which the stub generator guarantees when both sides are
// produced from the same declaration.

// RecordField binds one field of a record type T: the managed field name and
// descriptor, plus accessors into the native struct.
type RecordField[T any] struct {
	name string
	desc string

	write func(env rt.Env, obj rt.Ref, f rt.FieldID, v *T) error
	read  func(env rt.Env, obj rt.Ref, f rt.FieldID, v *T) error
}

// Field declares a record field of type F, accessed on the native side
// through get and set.
func Field[T any, F any](name string, elem Binding[F], get func(*T) F, set func(*T, F)) RecordField[T] {
	return RecordField[T]{
		name: name,
		desc: elem.Descriptor(),
		write: func(env rt.Env, obj rt.Ref, f rt.FieldID, v *T) error {
			fv, err := elem.ToManaged(env, get(v))
			if err != nil {
				return err
			}
			env.SetField(obj, f, fv)
			return checkPending(env, "SetField")
		},
		read: func(env rt.Env, obj rt.Ref, f rt.FieldID, v *T) error {
			fv := env.GetField(obj, f)
			if err := checkPending(env, "GetField"); err != nil {
				return err
			}
			nv, err := elem.ToNative(env, fv)
			if err != nil {
				return err
			}
			set(v, nv)
			return nil
		},
	}
}

// RecordInfo describes a record binding's managed shape for stub generation.
type RecordInfo struct {
	Class  string
	Fields []FieldInfo
}

// FieldInfo is one field of a record's managed shape.
type FieldInfo struct {
	Name       string
	Descriptor string
}

// Record returns the binding between struct type T and the managed class at
// classPath, transferring the listed fields.
func Record[T any](classPath string, fields ...RecordField[T]) *RecordBinding[T] {
	return &RecordBinding[T]{class: classPath, fields: fields}
}

// RecordBinding is the Binding for a record type. It additionally exposes the
// managed shape for stub generation.
type RecordBinding[T any] struct {
	class  string
	fields []RecordField[T]
}

func (b *RecordBinding[T]) Descriptor() string { return "L" + b.class + ";" }

// Info returns the managed shape of the record.
func (b *RecordBinding[T]) Info() RecordInfo {
	info := RecordInfo{Class: b.class}
	for _, f := range b.fields {
		info.Fields = append(info.Fields, FieldInfo{Name: f.name, Descriptor: f.desc})
	}
	return info
}

func (b *RecordBinding[T]) ToManaged(env rt.Env, v T) (rt.Value, error) {
	cls, err := classFor(env, b.class)
	if err != nil {
		return rt.Value{}, err
	}
	obj := env.AllocObject(cls)
	if err := checkPending(env, "AllocObject"); err != nil {
		return rt.Value{}, err
	}
	for _, f := range b.fields {
		id := env.GetFieldID(cls, f.name, f.desc)
		if err := checkPending(env, "GetFieldID"); err != nil {
			return rt.Value{}, err
		}
		if err := f.write(env, obj, id, &v); err != nil {
			return rt.Value{}, err
		}
	}
	return rt.ObjectValue(obj), nil
}

func (b *RecordBinding[T]) ToNative(env rt.Env, val rt.Value) (T, error) {
	var out T
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return out, err
	}
	cls, err := classFor(env, b.class)
	if err != nil {
		return out, err
	}
	if !env.IsInstanceOf(ref, cls) {
		return out, errorf("ToNative", "%w: value is not a %s", ErrClassCast, b.class)
	}
	for _, f := range b.fields {
		id := env.GetFieldID(cls, f.name, f.desc)
		if err := checkPending(env, "GetFieldID"); err != nil {
			return out, err
		}
		if err := f.read(env, ref, id, &out); err != nil {
			return out, err
		}
	}
	return out, nil
}
