package jvmbind

import (
	"runtime"

	"github.com/jvmbind/jvmbind-go/internal/handles"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// Function values cross the boundary in both directions through the standard
// functional interfaces.
//
// Native to managed: the function is wrapped in a proxy object of one of the
// io/jvmbind/Native* classes installed by InstallProxies. The proxy stores a
// registry handle in its nativePointer field; its single abstract method is a
// native method that resolves the handle and invokes the Go function. The
// proxy's release hook retires the handle when the managed side is done with
// it.
//
// Managed to native: the functional object is pinned with a durable reference
// held by a wrapper whose finalizer releases it once the returned Go function
// becomes unreachable. Each invocation attaches no new context; callers pass
// the context of the thread they are on.
//
// Primitive arguments and results select the primitive-specialized interface
// (IntPredicate rather than Predicate<Integer>) so crossing does not box.

// Fn is the native shape of a bridged unary function. The env parameter is
// the foreign-call context of the invoking thread.
type Fn[A, R any] func(env rt.Env, arg A) (R, error)

// dispatcher is what a proxy's nativePointer handle resolves to: the
// type-erased invocation path of one wrapped Go function.
type dispatcher func(env rt.Env, args []rt.Value) (rt.Value, error)

const nativePointerField = "nativePointer"

// proxySpec ties one proxy class to the functional interface it implements.
type proxySpec struct {
	class  string // proxy class path under io/jvmbind
	iface  string // functional interface the proxy implements
	method string // the interface's single abstract method
	sig    string // its signature
}

var proxySpecs = []proxySpec{
	{"io/jvmbind/NativePredicate", "java/util/function/Predicate", "test", "(Ljava/lang/Object;)Z"},
	{"io/jvmbind/NativeIntPredicate", "java/util/function/IntPredicate", "test", "(I)Z"},
	{"io/jvmbind/NativeLongPredicate", "java/util/function/LongPredicate", "test", "(J)Z"},
	{"io/jvmbind/NativeDoublePredicate", "java/util/function/DoublePredicate", "test", "(D)Z"},
	{"io/jvmbind/NativeFunction", "java/util/function/Function", "apply", "(Ljava/lang/Object;)Ljava/lang/Object;"},
	{"io/jvmbind/NativeIntFunction", "java/util/function/IntFunction", "apply", "(I)Ljava/lang/Object;"},
	{"io/jvmbind/NativeLongFunction", "java/util/function/LongFunction", "apply", "(J)Ljava/lang/Object;"},
	{"io/jvmbind/NativeDoubleFunction", "java/util/function/DoubleFunction", "apply", "(D)Ljava/lang/Object;"},
	{"io/jvmbind/NativeToIntFunction", "java/util/function/ToIntFunction", "applyAsInt", "(Ljava/lang/Object;)I"},
	{"io/jvmbind/NativeToLongFunction", "java/util/function/ToLongFunction", "applyAsLong", "(Ljava/lang/Object;)J"},
	{"io/jvmbind/NativeToDoubleFunction", "java/util/function/ToDoubleFunction", "applyAsDouble", "(Ljava/lang/Object;)D"},
}

// ProxyClasses returns the managed shape of the function-bridging proxy
// classes. Stub-generation input.
func ProxyClasses() []ClassInfo {
	out := make([]ClassInfo, 0, len(proxySpecs))
	for _, s := range proxySpecs {
		out = append(out, ClassInfo{
			Name:   s.class,
			Native: true,
			Ifaces: []string{s.iface},
			Methods: []MethodInfo{
				{Name: s.method, Signature: s.sig},
			},
		})
	}
	return out
}

func proxyFor(iface string) proxySpec {
	for _, s := range proxySpecs {
		if s.iface == iface {
			return s
		}
	}
	panic("jvmbind: no proxy for interface " + iface)
}

// dispatch is the shared native entry point of every proxy's abstract method.
// It resolves the receiver's handle and forwards. Failures are raised on env;
// no Go panic crosses the boundary.
func dispatch(env rt.Env, recv rt.Ref, args []rt.Value) (out rt.Value) {
	defer func() {
		if r := recover(); r != nil {
			throwNative(env, errorf("dispatch", "panic in bridged function: %v", r))
			out = rt.Void()
		}
	}()
	d, err := resolveDispatcher(env, recv)
	if err != nil {
		throwNative(env, err)
		return rt.Void()
	}
	res, err := d(env, args)
	if err != nil {
		throwNative(env, err)
		return rt.Void()
	}
	return res
}

// release is the shared native implementation of every proxy's release hook.
func release(env rt.Env, recv rt.Ref, _ []rt.Value) rt.Value {
	h, err := pointerField(env, recv)
	if err == nil {
		handles.Delete(handles.Handle(h))
	}
	return rt.Void()
}

func pointerField(env rt.Env, recv rt.Ref) (uint64, error) {
	cls := env.GetObjectClass(recv)
	if err := checkPending(env, "GetObjectClass"); err != nil {
		return 0, err
	}
	fid := env.GetFieldID(cls, nativePointerField, "J")
	if err := checkPending(env, "GetFieldID"); err != nil {
		return 0, err
	}
	v := env.GetField(recv, fid)
	if err := checkPending(env, "GetField"); err != nil {
		return 0, err
	}
	return uint64(v.Int64()), nil
}

func resolveDispatcher(env rt.Env, recv rt.Ref) (dispatcher, error) {
	h, err := pointerField(env, recv)
	if err != nil {
		return nil, err
	}
	v, ok := handles.Get(handles.Handle(h))
	if !ok {
		return nil, errorf("dispatch", "stale native function handle %d", h)
	}
	d, ok := v.(dispatcher)
	if !ok {
		return nil, errorf("dispatch", "handle %d does not hold a function", h)
	}
	return d, nil
}

// InstallProxies defines the proxy classes and binds their native methods.
// Must run once per runtime before any function binding converts toward the
// managed side.
func InstallProxies(env rt.Env) error {
	for _, s := range proxySpecs {
		def := rt.ClassDef{
			Name:   s.class,
			Ifaces: []string{s.iface},
			Fields: []rt.FieldDef{{Name: nativePointerField, Sig: "J"}},
			Methods: []rt.MethodDef{
				{Name: s.method, Sig: s.sig, Native: true},
				{Name: "release", Sig: "()V", Native: true},
			},
		}
		if err := env.DefineClass(def); err != nil {
			return &Error{Op: "DefineClass", Err: err}
		}
		cls, err := classFor(env, s.class)
		if err != nil {
			return err
		}
		natives := []rt.NativeMethod{
			{Name: s.method, Sig: s.sig, Fn: dispatch},
			{Name: "release", Sig: "()V", Fn: release},
		}
		if err := env.RegisterNatives(cls, natives); err != nil {
			return &Error{Op: "RegisterNatives", Err: err}
		}
	}
	return nil
}

// Predicate returns the binding between Fn[A, bool] and the predicate
// interface matching the argument binding: IntPredicate, LongPredicate,
// DoublePredicate for the corresponding primitives, Predicate otherwise.
func Predicate[A any](arg Binding[A]) Binding[Fn[A, bool]] {
	var iface string
	switch arg.Descriptor() {
	case "I":
		iface = "java/util/function/IntPredicate"
	case "J":
		iface = "java/util/function/LongPredicate"
	case "D":
		iface = "java/util/function/DoublePredicate"
	default:
		iface = "java/util/function/Predicate"
		arg = objectShaped(arg)
	}
	return funcBinding[A, bool]{spec: proxyFor(iface), arg: arg, res: Bool()}
}

// Func returns the binding between Fn[A, R] and the function interface
// matching the argument and result bindings: the primitive-specialized
// IntFunction/ToLongFunction family where one side is a matching primitive,
// Function otherwise. Sides not covered by a primitive specialization are
// lifted to their boxed form.
func Func[A, R any](arg Binding[A], res Binding[R]) Binding[Fn[A, R]] {
	argDesc, resDesc := arg.Descriptor(), res.Descriptor()
	// A specialization fixes one side's shape; the other side rides in an
	// object slot and must be object-shaped.
	var iface string
	switch {
	case argDesc == "I":
		iface = "java/util/function/IntFunction"
		res = objectShaped(res)
	case argDesc == "J":
		iface = "java/util/function/LongFunction"
		res = objectShaped(res)
	case argDesc == "D":
		iface = "java/util/function/DoubleFunction"
		res = objectShaped(res)
	case resDesc == "I":
		iface = "java/util/function/ToIntFunction"
		arg = objectShaped(arg)
	case resDesc == "J":
		iface = "java/util/function/ToLongFunction"
		arg = objectShaped(arg)
	case resDesc == "D":
		iface = "java/util/function/ToDoubleFunction"
		arg = objectShaped(arg)
	default:
		iface = "java/util/function/Function"
		arg = objectShaped(arg)
		res = objectShaped(res)
	}
	return funcBinding[A, R]{spec: proxyFor(iface), arg: arg, res: res}
}

type funcBinding[A, R any] struct {
	spec proxySpec
	arg  Binding[A]
	res  Binding[R]
}

func (b funcBinding[A, R]) Descriptor() string { return "L" + b.spec.iface + ";" }

// ToManaged wraps fn in a proxy instance. The handle written to nativePointer
// keeps fn reachable until the managed side runs the proxy's release hook.
func (b funcBinding[A, R]) ToManaged(env rt.Env, fn Fn[A, R]) (rt.Value, error) {
	cls, err := classFor(env, b.spec.class)
	if err != nil {
		return rt.Value{}, err
	}
	obj := env.AllocObject(cls)
	if err := checkPending(env, "AllocObject"); err != nil {
		return rt.Value{}, err
	}
	fid := env.GetFieldID(cls, nativePointerField, "J")
	if err := checkPending(env, "GetFieldID"); err != nil {
		return rt.Value{}, err
	}
	d := dispatcher(func(env rt.Env, args []rt.Value) (rt.Value, error) {
		if len(args) != 1 {
			return rt.Value{}, errorf("dispatch", "want 1 argument, got %d", len(args))
		}
		a, err := b.arg.ToNative(env, args[0])
		if err != nil {
			return rt.Value{}, err
		}
		r, err := fn(env, a)
		if err != nil {
			return rt.Value{}, err
		}
		return b.res.ToManaged(env, r)
	})
	h := handles.Put(d)
	env.SetField(obj, fid, rt.Int64Value(int64(h)))
	if err := checkPending(env, "SetField"); err != nil {
		handles.Delete(h)
		return rt.Value{}, err
	}
	return rt.ObjectValue(obj), nil
}

// managedFn pins a managed functional object for the lifetime of the Go
// closure wrapping it.
type managedFn struct {
	vm  rt.VM
	ref DurableRef
}

func (m *managedFn) close() {
	if m.ref.IsNil() {
		return
	}
	env := m.vm.Attach()
	m.ref.Release(env)
	env.Detach()
}

// ToNative wraps a managed functional object in a Go function. The object is
// pinned by a durable reference released when the Go function becomes
// unreachable.
func (b funcBinding[A, R]) ToNative(env rt.Env, val rt.Value) (Fn[A, R], error) {
	ref, err := requireObject(b.Descriptor(), val)
	if err != nil {
		return nil, err
	}
	cls := env.GetObjectClass(ref)
	if err := checkPending(env, "GetObjectClass"); err != nil {
		return nil, err
	}
	m := env.GetMethodID(cls, b.spec.method, b.spec.sig)
	if err := checkPending(env, "GetMethodID"); err != nil {
		return nil, err
	}
	holder := &managedFn{vm: env.VM(), ref: globalize(env, ref)}
	runtime.SetFinalizer(holder, func(h *managedFn) { h.close() })
	fn := func(env rt.Env, a A) (R, error) {
		var zero R
		av, err := b.arg.ToManaged(env, a)
		if err != nil {
			return zero, err
		}
		rv := env.CallMethod(holder.ref.Ref(), m, av)
		if err := checkPending(env, "CallMethod"); err != nil {
			return zero, err
		}
		r, err := b.res.ToNative(env, rv)
		runtime.KeepAlive(holder)
		return r, err
	}
	return fn, nil
}
