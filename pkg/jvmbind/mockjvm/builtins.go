package mockjvm

import (
	"unicode/utf16"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// installBuiltins populates the class table with the library the bindings
// depend on. Object and Class bootstrap each other by hand; everything else
// goes through addBuiltin.
func (vm *VM) installBuiltins() {
	objectC := &class{name: "java/lang/Object"}
	classC := &class{name: "java/lang/Class", super: objectC}
	vm.classes[objectC.name] = objectC
	vm.classes[classC.name] = classC
	objectC.classObj = vm.allocLocked(classC)
	vm.heap[objectC.classObj].payload = classPayload{c: objectC}
	classC.classObj = vm.allocLocked(classC)
	vm.heap[classC.classObj].payload = classPayload{c: classC}

	getName := bmethod("getName", "()Ljava/lang/String;", false, classGetName)
	getName.owner = classC
	classC.methods = append(classC.methods, getName)

	vm.addBuiltin("java/lang/String", "java/lang/Object", nil, false, nil)

	vm.installThrowables()
	vm.installWrappers()
	vm.installFunctionInterfaces()
	vm.installCollections()
}

func bmethod(name, sig string, static bool, fn builtinFn) *method {
	return &method{
		def:     rt.MethodDef{Name: name, Sig: sig, Static: static},
		builtin: fn,
	}
}

func (vm *VM) addBuiltin(name, super string, ifaces []string, iface bool, alloc func(*object), methods ...*method) *class {
	var sup *class
	if !iface {
		sup = vm.classes[super]
		if sup == nil {
			panic("mockjvm: builtin " + name + " installed before its super " + super)
		}
	}
	c := &class{name: name, super: sup, ifaces: ifaces, iface: iface, alloc: alloc}
	for _, m := range methods {
		m.owner = c
		c.methods = append(c.methods, m)
	}
	vm.classes[name] = c
	c.classObj = vm.allocLocked(vm.classes["java/lang/Class"])
	vm.heap[c.classObj].payload = classPayload{c: c}
	return c
}

func (vm *VM) installThrowables() {
	getMessage := bmethod("getMessage", "()Ljava/lang/String;", false, throwableGetMessage)
	vm.addBuiltin("java/lang/Throwable", "java/lang/Object", nil, false, nil, getMessage)
	// Parents first: addBuiltin resolves the super eagerly.
	for _, p := range []struct{ name, super string }{
		{"java/lang/Exception", "java/lang/Throwable"},
		{"java/lang/Error", "java/lang/Throwable"},
		{"java/lang/RuntimeException", "java/lang/Exception"},
		{"java/lang/ClassNotFoundException", "java/lang/Exception"},
		{"java/lang/NullPointerException", "java/lang/RuntimeException"},
		{"java/lang/ClassCastException", "java/lang/RuntimeException"},
		{"java/lang/IllegalStateException", "java/lang/RuntimeException"},
		{"java/lang/ArrayIndexOutOfBoundsException", "java/lang/RuntimeException"},
		{"java/lang/NegativeArraySizeException", "java/lang/RuntimeException"},
		{"java/lang/IllegalArgumentException", "java/lang/RuntimeException"},
		{"java/lang/UnsupportedOperationException", "java/lang/RuntimeException"},
		{"java/lang/AbstractMethodError", "java/lang/Error"},
		{"java/lang/InstantiationError", "java/lang/Error"},
		{"java/lang/NoSuchMethodError", "java/lang/Error"},
		{"java/lang/NoSuchFieldError", "java/lang/Error"},
	} {
		vm.addBuiltin(p.name, p.super, nil, false, nil)
	}
}

func classGetName(vm *VM, e *env, recv objID, _ []rt.Value) rt.Value {
	p := vm.heap[recv].payload.(classPayload)
	// Slash-separated, matching what FindClass accepts.
	return rt.ObjectValue(e.newRefLocked(e.newStringLocked(utf16.Encode([]rune(p.c.name)))))
}

func throwableGetMessage(vm *VM, e *env, recv objID, _ []rt.Value) rt.Value {
	p, ok := vm.heap[recv].payload.(throwablePayload)
	if !ok || p.msg == "" {
		return rt.ObjectValue(0)
	}
	return rt.ObjectValue(e.newRefLocked(e.newStringLocked(utf16.Encode([]rune(p.msg)))))
}

// wrapperSpec describes one primitive wrapper class.
type wrapperSpec struct {
	class     string
	prim      string
	unboxName string
}

var wrapperSpecs = []wrapperSpec{
	{"java/lang/Boolean", "Z", "booleanValue"},
	{"java/lang/Byte", "B", "byteValue"},
	{"java/lang/Character", "C", "charValue"},
	{"java/lang/Short", "S", "shortValue"},
	{"java/lang/Integer", "I", "intValue"},
	{"java/lang/Long", "J", "longValue"},
	{"java/lang/Float", "F", "floatValue"},
	{"java/lang/Double", "D", "doubleValue"},
}

func (vm *VM) installWrappers() {
	for _, w := range wrapperSpecs {
		w := w
		valueOf := bmethod("valueOf", "("+w.prim+")L"+w.class+";", true,
			func(vm *VM, e *env, _ objID, args []rt.Value) rt.Value {
				if len(args) != 1 || args[0].Kind != descKind(w.prim) {
					e.pendLocked("java/lang/IllegalArgumentException", w.class+".valueOf")
					return rt.Void()
				}
				id := vm.allocLocked(vm.classes[w.class])
				vm.heap[id].payload = boxPayload{val: args[0]}
				return rt.ObjectValue(e.newRefLocked(id))
			})
		unbox := bmethod(w.unboxName, "()"+w.prim, false,
			func(vm *VM, e *env, recv objID, _ []rt.Value) rt.Value {
				return vm.heap[recv].payload.(boxPayload).val
			})
		vm.addBuiltin(w.class, "java/lang/Object", nil, false, nil, valueOf, unbox)
	}
}

func (vm *VM) installFunctionInterfaces() {
	ifaces := []struct{ name, method, sig string }{
		{"java/util/function/Predicate", "test", "(Ljava/lang/Object;)Z"},
		{"java/util/function/IntPredicate", "test", "(I)Z"},
		{"java/util/function/LongPredicate", "test", "(J)Z"},
		{"java/util/function/DoublePredicate", "test", "(D)Z"},
		{"java/util/function/Function", "apply", "(Ljava/lang/Object;)Ljava/lang/Object;"},
		{"java/util/function/IntFunction", "apply", "(I)Ljava/lang/Object;"},
		{"java/util/function/LongFunction", "apply", "(J)Ljava/lang/Object;"},
		{"java/util/function/DoubleFunction", "apply", "(D)Ljava/lang/Object;"},
		{"java/util/function/ToIntFunction", "applyAsInt", "(Ljava/lang/Object;)I"},
		{"java/util/function/ToLongFunction", "applyAsLong", "(Ljava/lang/Object;)J"},
		{"java/util/function/ToDoubleFunction", "applyAsDouble", "(Ljava/lang/Object;)D"},
	}
	for _, in := range ifaces {
		abstract := &method{def: rt.MethodDef{Name: in.method, Sig: in.sig}}
		vm.addBuiltin(in.name, "", nil, true, nil, abstract)
	}
}

func (vm *VM) installCollections() {
	for _, in := range []string{
		"java/util/Collection", "java/util/List", "java/util/Set",
		"java/util/SortedSet", "java/util/Map", "java/util/SortedMap",
	} {
		vm.addBuiltin(in, "", nil, true, nil)
	}

	noopCtor := func() *method {
		return bmethod("<init>", "()V", false,
			func(_ *VM, _ *env, _ objID, _ []rt.Value) rt.Value { return rt.Void() })
	}

	vm.addBuiltin("java/util/Iterator", "java/lang/Object", nil, false, nil,
		bmethod("hasNext", "()Z", false, iterHasNext),
		bmethod("next", "()Ljava/lang/Object;", false, iterNext))

	vm.addBuiltin("java/util/Map$Entry", "java/lang/Object", nil, false, nil,
		bmethod("getKey", "()Ljava/lang/Object;", false, entryGetKey),
		bmethod("getValue", "()Ljava/lang/Object;", false, entryGetValue))

	vm.addBuiltin("java/util/ArrayList", "java/lang/Object",
		[]string{"java/util/List", "java/util/Collection"}, false,
		func(o *object) { o.payload = listPayload{} },
		noopCtor(),
		bmethod("add", "(Ljava/lang/Object;)Z", false, listAdd),
		bmethod("size", "()I", false, collSize),
		bmethod("iterator", "()Ljava/util/Iterator;", false, collIterator))

	setAlloc := func(sorted bool) func(*object) {
		return func(o *object) { o.payload = setPayload{sorted: sorted} }
	}
	setMethods := func() []*method {
		return []*method{
			noopCtor(),
			bmethod("add", "(Ljava/lang/Object;)Z", false, setAdd),
			bmethod("size", "()I", false, collSize),
			bmethod("iterator", "()Ljava/util/Iterator;", false, collIterator),
		}
	}
	vm.addBuiltin("java/util/HashSet", "java/lang/Object",
		[]string{"java/util/Set", "java/util/Collection"}, false, setAlloc(false), setMethods()...)
	vm.addBuiltin("java/util/TreeSet", "java/lang/Object",
		[]string{"java/util/SortedSet", "java/util/Set", "java/util/Collection"}, false, setAlloc(true), setMethods()...)

	mapAlloc := func(sorted bool) func(*object) {
		return func(o *object) { o.payload = mapPayload{sorted: sorted} }
	}
	mapMethods := func() []*method {
		return []*method{
			noopCtor(),
			bmethod("put", "(Ljava/lang/Object;Ljava/lang/Object;)Ljava/lang/Object;", false, mapPut),
			bmethod("size", "()I", false, collSize),
			bmethod("entrySet", "()Ljava/util/Set;", false, mapEntrySet),
		}
	}
	vm.addBuiltin("java/util/HashMap", "java/lang/Object",
		[]string{"java/util/Map"}, false, mapAlloc(false), mapMethods()...)
	vm.addBuiltin("java/util/TreeMap", "java/lang/Object",
		[]string{"java/util/SortedMap", "java/util/Map"}, false, mapAlloc(true), mapMethods()...)

	// Hidden backing class for Map.entrySet results; iterable like any
	// collection.
	vm.addBuiltin("java/util/Map$EntrySet", "java/lang/Object",
		[]string{"java/util/Set", "java/util/Collection"}, false,
		func(o *object) { o.payload = listPayload{} },
		bmethod("size", "()I", false, collSize),
		bmethod("iterator", "()Ljava/util/Iterator;", false, collIterator))
}

func listAdd(vm *VM, e *env, recv objID, args []rt.Value) rt.Value {
	p := vm.heap[recv].payload.(listPayload)
	p.elems = append(p.elems, e.resolveLocked(args[0].Object()))
	vm.heap[recv].payload = p
	return rt.BoolValue(true)
}

func setAdd(vm *VM, e *env, recv objID, args []rt.Value) rt.Value {
	p := vm.heap[recv].payload.(setPayload)
	id := e.resolveLocked(args[0].Object())
	k := vm.keyOf(id)
	if !p.sorted {
		for _, have := range p.keys {
			if have == k {
				return rt.BoolValue(false)
			}
		}
		p.keys = append(p.keys, k)
		p.elems = append(p.elems, id)
		vm.heap[recv].payload = p
		return rt.BoolValue(true)
	}
	pos := 0
	for ; pos < len(p.keys); pos++ {
		n, ok := compareKeys(k, p.keys[pos])
		if !ok {
			e.pendLocked("java/lang/ClassCastException", vm.heap[id].class.name)
			return rt.Void()
		}
		if n == 0 {
			return rt.BoolValue(false)
		}
		if n < 0 {
			break
		}
	}
	p.keys = append(p.keys[:pos], append([]valueKey{k}, p.keys[pos:]...)...)
	p.elems = append(p.elems[:pos], append([]objID{id}, p.elems[pos:]...)...)
	vm.heap[recv].payload = p
	return rt.BoolValue(true)
}

func mapPut(vm *VM, e *env, recv objID, args []rt.Value) rt.Value {
	p := vm.heap[recv].payload.(mapPayload)
	kID := e.resolveLocked(args[0].Object())
	vID := e.resolveLocked(args[1].Object())
	k := vm.keyOf(kID)
	pos := len(p.keys)
	for i := range p.keys {
		if !p.sorted {
			if p.keys[i] == k {
				old := p.vObjs[i]
				p.vObjs[i] = vID
				vm.heap[recv].payload = p
				return rt.ObjectValue(e.newRefLocked(old))
			}
			continue
		}
		n, ok := compareKeys(k, p.keys[i])
		if !ok {
			e.pendLocked("java/lang/ClassCastException", vm.heap[kID].class.name)
			return rt.Void()
		}
		if n == 0 {
			old := p.vObjs[i]
			p.vObjs[i] = vID
			vm.heap[recv].payload = p
			return rt.ObjectValue(e.newRefLocked(old))
		}
		if n < 0 {
			pos = i
			break
		}
	}
	p.keys = append(p.keys[:pos], append([]valueKey{k}, p.keys[pos:]...)...)
	p.kObjs = append(p.kObjs[:pos], append([]objID{kID}, p.kObjs[pos:]...)...)
	p.vObjs = append(p.vObjs[:pos], append([]objID{vID}, p.vObjs[pos:]...)...)
	vm.heap[recv].payload = p
	return rt.ObjectValue(0)
}

func collSize(vm *VM, _ *env, recv objID, _ []rt.Value) rt.Value {
	switch p := vm.heap[recv].payload.(type) {
	case listPayload:
		return rt.Int32Value(int32(len(p.elems)))
	case setPayload:
		return rt.Int32Value(int32(len(p.elems)))
	case mapPayload:
		return rt.Int32Value(int32(len(p.keys)))
	default:
		return rt.Int32Value(0)
	}
}

func collIterator(vm *VM, e *env, recv objID, _ []rt.Value) rt.Value {
	var elems []objID
	switch p := vm.heap[recv].payload.(type) {
	case listPayload:
		elems = append(elems, p.elems...)
	case setPayload:
		elems = append(elems, p.elems...)
	default:
		panic("mockjvm: iterator on a non-collection payload")
	}
	id := vm.allocLocked(vm.classes["java/util/Iterator"])
	vm.heap[id].payload = iterPayload{elems: elems}
	return rt.ObjectValue(e.newRefLocked(id))
}

func iterHasNext(vm *VM, _ *env, recv objID, _ []rt.Value) rt.Value {
	p := vm.heap[recv].payload.(iterPayload)
	return rt.BoolValue(p.idx < len(p.elems))
}

func iterNext(vm *VM, e *env, recv objID, _ []rt.Value) rt.Value {
	p := vm.heap[recv].payload.(iterPayload)
	if p.idx >= len(p.elems) {
		e.pendLocked("java/lang/IllegalStateException", "iterator exhausted")
		return rt.Void()
	}
	out := p.elems[p.idx]
	p.idx++
	vm.heap[recv].payload = p
	return rt.ObjectValue(e.newRefLocked(out))
}

func mapEntrySet(vm *VM, e *env, recv objID, _ []rt.Value) rt.Value {
	p := vm.heap[recv].payload.(mapPayload)
	entryC := vm.classes["java/util/Map$Entry"]
	var entries []objID
	for i := range p.keys {
		id := vm.allocLocked(entryC)
		vm.heap[id].payload = entryPayload{k: p.kObjs[i], v: p.vObjs[i]}
		entries = append(entries, id)
	}
	id := vm.allocLocked(vm.classes["java/util/Map$EntrySet"])
	vm.heap[id].payload = listPayload{elems: entries}
	return rt.ObjectValue(e.newRefLocked(id))
}

func entryGetKey(vm *VM, e *env, recv objID, _ []rt.Value) rt.Value {
	return rt.ObjectValue(e.newRefLocked(vm.heap[recv].payload.(entryPayload).k))
}

func entryGetValue(vm *VM, e *env, recv objID, _ []rt.Value) rt.Value {
	return rt.ObjectValue(e.newRefLocked(vm.heap[recv].payload.(entryPayload).v))
}
