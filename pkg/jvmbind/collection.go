package jvmbind

import (
	"cmp"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// Collection marshaling applies the element bindings item by item and inserts
// into a managed collection of the matching category. Sortedness and hashing
// semantics of the native container are preserved in the managed counterpart:
// an OrderedMap crosses as a sorted map, never a hash map, so round-tripping
// cannot silently change iteration order. Primitive element bindings are
// lifted to their boxed counterparts automatically.

const (
	arrayListClass = "java/util/ArrayList"
	hashSetClass   = "java/util/HashSet"
	treeSetClass   = "java/util/TreeSet"
	hashMapClass   = "java/util/HashMap"
	treeMapClass   = "java/util/TreeMap"

	iteratorSig      = "()Ljava/util/Iterator;"
	hasNextSig       = "()Z"
	nextSig          = "()Ljava/lang/Object;"
	entrySetSig      = "()Ljava/util/Set;"
	entryAccessorSig = "()Ljava/lang/Object;"
	putSig           = "(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;"
	noArgCtorSig     = "()V"
	addSig           = "(Ljava/lang/Object;)Z"
)

// List returns the binding between []T and the runtime's ordered sequence
// (java/util/ArrayList behind a List descriptor).
func List[T any](elem Binding[T]) Binding[[]T] {
	return listBinding[T]{elem: objectShaped(elem)}
}

// HashSet returns the binding between map[T]struct{} and the runtime's
// hash-based set.
func HashSet[T comparable](elem Binding[T]) Binding[map[T]struct{}] {
	return hashSetBinding[T]{elem: objectShaped(elem)}
}

// SortedSet returns the binding between *OrderedSet[T] and the runtime's
// sorted set.
func SortedSet[T cmp.Ordered](elem Binding[T]) Binding[*OrderedSet[T]] {
	return sortedSetBinding[T]{elem: objectShaped(elem)}
}

// HashMap returns the binding between map[K]V and the runtime's hash-based
// map.
func HashMap[K comparable, V any](key Binding[K], val Binding[V]) Binding[map[K]V] {
	return hashMapBinding[K, V]{key: objectShaped(key), val: objectShaped(val)}
}

// SortedMap returns the binding between *OrderedMap[K, V] and the runtime's
// sorted map.
func SortedMap[K cmp.Ordered, V any](key Binding[K], val Binding[V]) Binding[*OrderedMap[K, V]] {
	return sortedMapBinding[K, V]{key: objectShaped(key), val: objectShaped(val)}
}

// newEmpty constructs an empty managed collection of the given class via its
// no-argument constructor and returns the instance with its class.
func newEmpty(env rt.Env, class string) (obj, cls rt.Ref, err error) {
	cls, err = classFor(env, class)
	if err != nil {
		return 0, 0, err
	}
	ctor := env.GetMethodID(cls, "<init>", noArgCtorSig)
	if err := checkPending(env, "GetMethodID"); err != nil {
		return 0, 0, err
	}
	obj = env.NewObject(cls, ctor)
	if err := checkPending(env, "NewObject"); err != nil {
		return 0, 0, err
	}
	return obj, cls, nil
}

// appendAll inserts every element through the collection's add method.
func appendAll[T any](env rt.Env, obj, cls rt.Ref, elem Binding[T], items []T) error {
	add := env.GetMethodID(cls, "add", addSig)
	if err := checkPending(env, "GetMethodID"); err != nil {
		return err
	}
	for _, it := range items {
		ev, err := elem.ToManaged(env, it)
		if err != nil {
			return err
		}
		env.CallMethod(obj, add, ev)
		if err := checkPending(env, "CallMethod add"); err != nil {
			return err
		}
	}
	return nil
}

// forEachElement drives the managed Iterator protocol over a collection,
// handing each element value to fn.
func forEachElement(env rt.Env, obj rt.Ref, fn func(rt.Value) error) error {
	cls := env.GetObjectClass(obj)
	if err := checkPending(env, "GetObjectClass"); err != nil {
		return err
	}
	iterID := env.GetMethodID(cls, "iterator", iteratorSig)
	if err := checkPending(env, "GetMethodID iterator"); err != nil {
		return err
	}
	it := env.CallMethod(obj, iterID)
	if err := checkPending(env, "CallMethod iterator"); err != nil {
		return err
	}
	itRef, err := requireObject("Ljava/util/Iterator;", it)
	if err != nil {
		return err
	}
	itCls := env.GetObjectClass(itRef)
	if err := checkPending(env, "GetObjectClass"); err != nil {
		return err
	}
	hasNext := env.GetMethodID(itCls, "hasNext", hasNextSig)
	if err := checkPending(env, "GetMethodID hasNext"); err != nil {
		return err
	}
	next := env.GetMethodID(itCls, "next", nextSig)
	if err := checkPending(env, "GetMethodID next"); err != nil {
		return err
	}
	for {
		more := env.CallMethod(itRef, hasNext)
		if err := checkPending(env, "CallMethod hasNext"); err != nil {
			return err
		}
		if !more.Bool() {
			return nil
		}
		elem := env.CallMethod(itRef, next)
		if err := checkPending(env, "CallMethod next"); err != nil {
			return err
		}
		if err := fn(elem); err != nil {
			return err
		}
	}
}

type listBinding[T any] struct {
	elem Binding[T]
}

func (listBinding[T]) Descriptor() string { return "Ljava/util/List;" }

func (b listBinding[T]) ToManaged(env rt.Env, v []T) (rt.Value, error) {
	obj, cls, err := newEmpty(env, arrayListClass)
	if err != nil {
		return rt.Value{}, err
	}
	if err := appendAll(env, obj, cls, b.elem, v); err != nil {
		return rt.Value{}, err
	}
	return rt.ObjectValue(obj), nil
}

func (b listBinding[T]) ToNative(env rt.Env, val rt.Value) ([]T, error) {
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return nil, err
	}
	out := []T{}
	err = forEachElement(env, ref, func(ev rt.Value) error {
		e, err := b.elem.ToNative(env, ev)
		if err != nil {
			return err
		}
		out = append(out, e)
		return nil
	})
	return out, err
}

type hashSetBinding[T comparable] struct {
	elem Binding[T]
}

func (hashSetBinding[T]) Descriptor() string { return "Ljava/util/Set;" }

func (b hashSetBinding[T]) ToManaged(env rt.Env, v map[T]struct{}) (rt.Value, error) {
	obj, cls, err := newEmpty(env, hashSetClass)
	if err != nil {
		return rt.Value{}, err
	}
	items := make([]T, 0, len(v))
	for e := range v {
		items = append(items, e)
	}
	if err := appendAll(env, obj, cls, b.elem, items); err != nil {
		return rt.Value{}, err
	}
	return rt.ObjectValue(obj), nil
}

func (b hashSetBinding[T]) ToNative(env rt.Env, val rt.Value) (map[T]struct{}, error) {
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return nil, err
	}
	out := make(map[T]struct{})
	err = forEachElement(env, ref, func(ev rt.Value) error {
		e, err := b.elem.ToNative(env, ev)
		if err != nil {
			return err
		}
		out[e] = struct{}{}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type sortedSetBinding[T cmp.Ordered] struct {
	elem Binding[T]
}

func (sortedSetBinding[T]) Descriptor() string { return "Ljava/util/SortedSet;" }

func (b sortedSetBinding[T]) ToManaged(env rt.Env, v *OrderedSet[T]) (rt.Value, error) {
	obj, cls, err := newEmpty(env, treeSetClass)
	if err != nil {
		return rt.Value{}, err
	}
	if err := appendAll(env, obj, cls, b.elem, v.Values()); err != nil {
		return rt.Value{}, err
	}
	return rt.ObjectValue(obj), nil
}

func (b sortedSetBinding[T]) ToNative(env rt.Env, val rt.Value) (*OrderedSet[T], error) {
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return nil, err
	}
	out := NewOrderedSet[T]()
	err = forEachElement(env, ref, func(ev rt.Value) error {
		e, err := b.elem.ToNative(env, ev)
		if err != nil {
			return err
		}
		out.Add(e)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// putAll inserts key/value pairs through the map's put method.
func putAll[K, V any](env rt.Env, obj, cls rt.Ref, key Binding[K], val Binding[V], keys []K, get func(K) V) error {
	put := env.GetMethodID(cls, "put", putSig)
	if err := checkPending(env, "GetMethodID put"); err != nil {
		return err
	}
	for _, k := range keys {
		kv, err := key.ToManaged(env, k)
		if err != nil {
			return err
		}
		vv, err := val.ToManaged(env, get(k))
		if err != nil {
			return err
		}
		env.CallMethod(obj, put, kv, vv)
		if err := checkPending(env, "CallMethod put"); err != nil {
			return err
		}
	}
	return nil
}

// forEachEntry iterates a managed map through entrySet().iterator().
func forEachEntry(env rt.Env, obj rt.Ref, fn func(k, v rt.Value) error) error {
	cls := env.GetObjectClass(obj)
	if err := checkPending(env, "GetObjectClass"); err != nil {
		return err
	}
	esID := env.GetMethodID(cls, "entrySet", entrySetSig)
	if err := checkPending(env, "GetMethodID entrySet"); err != nil {
		return err
	}
	es := env.CallMethod(obj, esID)
	if err := checkPending(env, "CallMethod entrySet"); err != nil {
		return err
	}
	esRef, err := requireObject("Ljava/util/Set;", es)
	if err != nil {
		return err
	}
	return forEachElement(env, esRef, func(entry rt.Value) error {
		eRef, err := requireObject("Ljava/util/Map$Entry;", entry)
		if err != nil {
			return err
		}
		eCls := env.GetObjectClass(eRef)
		if err := checkPending(env, "GetObjectClass"); err != nil {
			return err
		}
		getKey := env.GetMethodID(eCls, "getKey", entryAccessorSig)
		if err := checkPending(env, "GetMethodID getKey"); err != nil {
			return err
		}
		getValue := env.GetMethodID(eCls, "getValue", entryAccessorSig)
		if err := checkPending(env, "GetMethodID getValue"); err != nil {
			return err
		}
		kv := env.CallMethod(eRef, getKey)
		if err := checkPending(env, "CallMethod getKey"); err != nil {
			return err
		}
		vv := env.CallMethod(eRef, getValue)
		if err := checkPending(env, "CallMethod getValue"); err != nil {
			return err
		}
		return fn(kv, vv)
	})
}

type hashMapBinding[K comparable, V any] struct {
	key Binding[K]
	val Binding[V]
}

func (hashMapBinding[K, V]) Descriptor() string { return "Ljava/util/Map;" }

func (b hashMapBinding[K, V]) ToManaged(env rt.Env, v map[K]V) (rt.Value, error) {
	obj, cls, err := newEmpty(env, hashMapClass)
	if err != nil {
		return rt.Value{}, err
	}
	keys := make([]K, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	if err := putAll(env, obj, cls, b.key, b.val, keys, func(k K) V { return v[k] }); err != nil {
		return rt.Value{}, err
	}
	return rt.ObjectValue(obj), nil
}

func (b hashMapBinding[K, V]) ToNative(env rt.Env, val rt.Value) (map[K]V, error) {
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return nil, err
	}
	out := make(map[K]V)
	err = forEachEntry(env, ref, func(kv, vv rt.Value) error {
		k, err := b.key.ToNative(env, kv)
		if err != nil {
			return err
		}
		v, err := b.val.ToNative(env, vv)
		if err != nil {
			return err
		}
		out[k] = v
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

type sortedMapBinding[K cmp.Ordered, V any] struct {
	key Binding[K]
	val Binding[V]
}

func (sortedMapBinding[K, V]) Descriptor() string { return "Ljava/util/SortedMap;" }

func (b sortedMapBinding[K, V]) ToManaged(env rt.Env, v *OrderedMap[K, V]) (rt.Value, error) {
	obj, cls, err := newEmpty(env, treeMapClass)
	if err != nil {
		return rt.Value{}, err
	}
	get := func(k K) V {
		val, _ := v.Get(k)
		return val
	}
	if err := putAll(env, obj, cls, b.key, b.val, v.Keys(), get); err != nil {
		return rt.Value{}, err
	}
	return rt.ObjectValue(obj), nil
}

func (b sortedMapBinding[K, V]) ToNative(env rt.Env, val rt.Value) (*OrderedMap[K, V], error) {
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return nil, err
	}
	out := NewOrderedMap[K, V]()
	err = forEachEntry(env, ref, func(kv, vv rt.Value) error {
		k, err := b.key.ToNative(env, kv)
		if err != nil {
			return err
		}
		v, err := b.val.ToNative(env, vv)
		if err != nil {
			return err
		}
		out.Set(k, v)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
