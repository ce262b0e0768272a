package mockjvm

import (
	"strings"
	"unicode/utf16"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// objID is an object's heap identity. References are handles onto objIDs;
// many references may denote one object.
type objID uint64

// slot is a field's stored value. Object fields hold heap identity, not
// reference handles, so stored objects survive any frame.
type slot struct {
	kind rt.Kind
	bits uint64
	obj  objID
}

type object struct {
	class   *class
	fields  map[string]slot
	payload any
}

// Built-in payloads. None of them store reference handles.

type stringPayload struct{ units []uint16 }

type boxPayload struct{ val rt.Value }

type listPayload struct{ elems []objID }

// arrayPayload backs primitive arrays; elements are raw bit patterns of one
// fixed kind.
type arrayPayload struct {
	elem rt.Kind
	bits []uint64
}

// setPayload backs HashSet (insertion order) and TreeSet (key order).
type setPayload struct {
	sorted bool
	keys   []valueKey
	elems  []objID
}

// mapPayload backs HashMap (insertion order) and TreeMap (key order).
type mapPayload struct {
	sorted bool
	keys   []valueKey
	kObjs  []objID
	vObjs  []objID
}

type entryPayload struct{ k, v objID }

type iterPayload struct {
	elems []objID
	idx   int
}

type classPayload struct{ c *class }

type throwablePayload struct{ msg string }

// valueKey is the equality identity of an object when used as a set element
// or map key. Wrapper and string instances compare by value; everything else
// by heap identity.
type valueKey struct {
	class string
	bits  uint64
	str   string
	id    objID
}

func (vm *VM) keyOf(id objID) valueKey {
	o := vm.heap[id]
	switch p := o.payload.(type) {
	case stringPayload:
		return valueKey{class: o.class.name, str: string(utf16.Decode(p.units))}
	case boxPayload:
		return valueKey{class: o.class.name, bits: p.val.Bits}
	default:
		return valueKey{class: o.class.name, id: id}
	}
}

// compareKeys orders two value keys for the sorted containers. Both must be
// value classes of the same type; ok reports whether they are comparable.
func compareKeys(a, b valueKey) (n int, ok bool) {
	if a.class != b.class || a.id != 0 || b.id != 0 {
		return 0, false
	}
	if a.class == "java/lang/String" {
		return strings.Compare(a.str, b.str), true
	}
	switch a.class {
	case "java/lang/Boolean", "java/lang/Character":
		return cmpOrdered(a.bits, b.bits), true
	case "java/lang/Byte", "java/lang/Short", "java/lang/Integer", "java/lang/Long":
		return cmpOrdered(int64(a.bits), int64(b.bits)), true
	case "java/lang/Float":
		return cmpOrdered(rt.Value{Kind: rt.KindFloat32, Bits: a.bits}.Float32(),
			rt.Value{Kind: rt.KindFloat32, Bits: b.bits}.Float32()), true
	case "java/lang/Double":
		return cmpOrdered(rt.Value{Kind: rt.KindFloat64, Bits: a.bits}.Float64(),
			rt.Value{Kind: rt.KindFloat64, Bits: b.bits}.Float64()), true
	}
	return 0, false
}

func cmpOrdered[T interface {
	~uint64 | ~int64 | ~float32 | ~float64
}](a, b T) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// refs returns every heap identity this object keeps reachable.
func (o *object) refs() []objID {
	var out []objID
	for _, s := range o.fields {
		if s.kind == rt.KindObject && s.obj != 0 {
			out = append(out, s.obj)
		}
	}
	switch p := o.payload.(type) {
	case listPayload:
		out = append(out, p.elems...)
	case setPayload:
		out = append(out, p.elems...)
	case mapPayload:
		out = append(out, p.kObjs...)
		out = append(out, p.vObjs...)
	case entryPayload:
		out = append(out, p.k, p.v)
	case iterPayload:
		out = append(out, p.elems[p.idx:]...)
	}
	return out
}
