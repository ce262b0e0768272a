package jvmbind

import (
	"context"
	"fmt"

	"github.com/jvmbind/jvmbind-go/internal/handles"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// Registry collects class declarations to install into a runtime. A static
// class exposes Go functions as static native methods; a native class wraps a
// Go value per instance, reached through the instance's nativePointer handle;
// a record class is plain managed data the record bindings marshal by field.
//
// Declaration is single-threaded setup; Install defines every declared class
// plus the exception and proxy infrastructure in one pass. The same Registry
// may be installed into multiple runtimes.
type Registry struct {
	cfg     Config
	classes []*Class
	records []RecordInfo
}

// NewRegistry returns an empty registry applying the given policy.
func NewRegistry(cfg Config) *Registry {
	return &Registry{cfg: cfg}
}

// Class is one declared managed class accumulating method declarations.
// Overloads are permitted: two declarations may share a name as long as their
// signatures differ.
type Class struct {
	name    string
	native  bool // instances carry a nativePointer handle
	methods []methodDecl
}

type methodDecl struct {
	def rt.MethodDef
	fn  rt.NativeFunc
}

// StaticClass declares a class with only static native methods.
func (r *Registry) StaticClass(name string) *Class {
	c := &Class{name: name}
	r.classes = append(r.classes, c)
	return c
}

// NativeClass declares a class whose instances each own one native value.
// Instances are produced by declared factory methods; the generated stub's
// close() releases the native value through the class's release hook.
func (r *Registry) NativeClass(name string) *Class {
	c := &Class{name: name, native: true}
	r.classes = append(r.classes, c)
	return c
}

// Record declares a record class so Install defines it and the stub generator
// emits it.
func (r *Registry) Record(info RecordInfo) {
	r.records = append(r.records, info)
}

// Records returns the declared record shapes. Stub-generation input.
func (r *Registry) Records() []RecordInfo { return r.records }

// Classes returns the declared class shapes. Stub-generation input.
func (r *Registry) Classes() []ClassInfo {
	out := make([]ClassInfo, 0, len(r.classes))
	for _, c := range r.classes {
		info := ClassInfo{Name: c.name, Native: c.native}
		for _, m := range c.methods {
			info.Methods = append(info.Methods, MethodInfo{
				Name:      m.def.Name,
				Signature: m.def.Sig,
				Static:    m.def.Static,
			})
		}
		out = append(out, info)
	}
	return out
}

// ClassInfo describes a declared class's managed shape for stub generation.
type ClassInfo struct {
	Name    string
	Native  bool
	Ifaces  []string
	Methods []MethodInfo
}

// MethodInfo is one method of a declared class's managed shape.
type MethodInfo struct {
	Name      string
	Signature string
	Static    bool
}

func (c *Class) add(name, sig string, static bool, fn rt.NativeFunc) *Class {
	for _, m := range c.methods {
		if m.def.Name == name && m.def.Sig == sig {
			panic(fmt.Sprintf("jvmbind: duplicate method %s.%s%s", c.name, name, sig))
		}
	}
	c.methods = append(c.methods, methodDecl{
		def: rt.MethodDef{Name: name, Sig: sig, Static: static, Native: true},
		fn:  fn,
	})
	return c
}

// guard runs one boundary invocation: failures and panics become a managed
// exception on env, never a Go panic unwinding into the runtime.
func guard(env rt.Env, op string, fn func() (rt.Value, error)) (out rt.Value) {
	defer func() {
		if r := recover(); r != nil {
			throwNative(env, errorf(op, "panic in native method: %v", r))
			out = rt.Void()
		}
	}()
	v, err := fn()
	if err != nil {
		throwNative(env, err)
		return rt.Void()
	}
	return v
}

func arity(env rt.Env, op string, args []rt.Value, want int) error {
	if len(args) != want {
		return errorf(op, "want %d arguments, got %d", want, len(args))
	}
	return nil
}

// receiver resolves an instance's nativePointer handle to its Go value.
func receiver[T any](env rt.Env, op string, recv rt.Ref) (*T, error) {
	h, err := pointerField(env, recv)
	if err != nil {
		return nil, err
	}
	v, ok := handles.Get(handles.Handle(h))
	if !ok {
		return nil, errorf(op, "stale native handle %d", h)
	}
	t, ok := v.(*T)
	if !ok {
		return nil, errorf(op, "native handle %d holds %T", h, v)
	}
	return t, nil
}

// attach allocates a managed instance of cls and binds it to the native
// value.
func attach[T any](env rt.Env, cls rt.Ref, v *T) (rt.Value, error) {
	obj := env.AllocObject(cls)
	if err := checkPending(env, "AllocObject"); err != nil {
		return rt.Value{}, err
	}
	fid := env.GetFieldID(cls, nativePointerField, "J")
	if err := checkPending(env, "GetFieldID"); err != nil {
		return rt.Value{}, err
	}
	h := handles.Put(v)
	env.SetField(obj, fid, rt.Int64Value(int64(h)))
	if err := checkPending(env, "SetField"); err != nil {
		handles.Delete(h)
		return rt.Value{}, err
	}
	return rt.ObjectValue(obj), nil
}

// Static0 declares a static method with no parameters.
func Static0[R any](c *Class, name string, res Binding[R], fn func(env rt.Env) (R, error)) *Class {
	sig := methodDescriptor(res.Descriptor())
	return c.add(name, sig, true, func(env rt.Env, _ rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 0); err != nil {
				return rt.Value{}, err
			}
			r, err := fn(env)
			if err != nil {
				return rt.Value{}, err
			}
			return res.ToManaged(env, r)
		})
	})
}

// Static1 declares a static method with one parameter.
func Static1[A, R any](c *Class, name string, arg Binding[A], res Binding[R], fn func(env rt.Env, a A) (R, error)) *Class {
	sig := methodDescriptor(res.Descriptor(), arg.Descriptor())
	return c.add(name, sig, true, func(env rt.Env, _ rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 1); err != nil {
				return rt.Value{}, err
			}
			a, err := arg.ToNative(env, args[0])
			if err != nil {
				return rt.Value{}, err
			}
			r, err := fn(env, a)
			if err != nil {
				return rt.Value{}, err
			}
			return res.ToManaged(env, r)
		})
	})
}

// Static2 declares a static method with two parameters.
func Static2[A, B, R any](c *Class, name string, a1 Binding[A], a2 Binding[B], res Binding[R], fn func(env rt.Env, a A, b B) (R, error)) *Class {
	sig := methodDescriptor(res.Descriptor(), a1.Descriptor(), a2.Descriptor())
	return c.add(name, sig, true, func(env rt.Env, _ rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 2); err != nil {
				return rt.Value{}, err
			}
			a, err := a1.ToNative(env, args[0])
			if err != nil {
				return rt.Value{}, err
			}
			b, err := a2.ToNative(env, args[1])
			if err != nil {
				return rt.Value{}, err
			}
			r, err := fn(env, a, b)
			if err != nil {
				return rt.Value{}, err
			}
			return res.ToManaged(env, r)
		})
	})
}

// StaticVoid0 declares a static method with no parameters and no result.
func StaticVoid0(c *Class, name string, fn func(env rt.Env) error) *Class {
	sig := methodDescriptor("V")
	return c.add(name, sig, true, func(env rt.Env, _ rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 0); err != nil {
				return rt.Value{}, err
			}
			return rt.Void(), fn(env)
		})
	})
}

// StaticVoid1 declares a static method with one parameter and no result.
func StaticVoid1[A any](c *Class, name string, arg Binding[A], fn func(env rt.Env, a A) error) *Class {
	sig := methodDescriptor("V", arg.Descriptor())
	return c.add(name, sig, true, func(env rt.Env, _ rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 1); err != nil {
				return rt.Value{}, err
			}
			a, err := arg.ToNative(env, args[0])
			if err != nil {
				return rt.Value{}, err
			}
			return rt.Void(), fn(env, a)
		})
	})
}

// Constructor0 declares a static factory with no parameters producing an
// instance bound to the returned native value.
func Constructor0[T any](c *Class, name string, fn func(env rt.Env) (*T, error)) *Class {
	sig := methodDescriptor("L" + c.name + ";")
	return c.add(name, sig, true, func(env rt.Env, cls rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 0); err != nil {
				return rt.Value{}, err
			}
			v, err := fn(env)
			if err != nil {
				return rt.Value{}, err
			}
			return attach(env, cls, v)
		})
	})
}

// Constructor1 declares a static factory with one parameter.
func Constructor1[T, A any](c *Class, name string, arg Binding[A], fn func(env rt.Env, a A) (*T, error)) *Class {
	sig := methodDescriptor("L"+c.name+";", arg.Descriptor())
	return c.add(name, sig, true, func(env rt.Env, cls rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 1); err != nil {
				return rt.Value{}, err
			}
			a, err := arg.ToNative(env, args[0])
			if err != nil {
				return rt.Value{}, err
			}
			v, err := fn(env, a)
			if err != nil {
				return rt.Value{}, err
			}
			return attach(env, cls, v)
		})
	})
}

// Constructor2 declares a static factory with two parameters.
func Constructor2[T, A, B any](c *Class, name string, a1 Binding[A], a2 Binding[B], fn func(env rt.Env, a A, b B) (*T, error)) *Class {
	sig := methodDescriptor("L"+c.name+";", a1.Descriptor(), a2.Descriptor())
	return c.add(name, sig, true, func(env rt.Env, cls rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 2); err != nil {
				return rt.Value{}, err
			}
			a, err := a1.ToNative(env, args[0])
			if err != nil {
				return rt.Value{}, err
			}
			b, err := a2.ToNative(env, args[1])
			if err != nil {
				return rt.Value{}, err
			}
			v, err := fn(env, a, b)
			if err != nil {
				return rt.Value{}, err
			}
			return attach(env, cls, v)
		})
	})
}

// Method0 declares an instance method with no parameters.
func Method0[T, R any](c *Class, name string, res Binding[R], fn func(env rt.Env, recv *T) (R, error)) *Class {
	sig := methodDescriptor(res.Descriptor())
	return c.add(name, sig, false, func(env rt.Env, recv rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 0); err != nil {
				return rt.Value{}, err
			}
			t, err := receiver[T](env, name, recv)
			if err != nil {
				return rt.Value{}, err
			}
			r, err := fn(env, t)
			if err != nil {
				return rt.Value{}, err
			}
			return res.ToManaged(env, r)
		})
	})
}

// Method1 declares an instance method with one parameter.
func Method1[T, A, R any](c *Class, name string, arg Binding[A], res Binding[R], fn func(env rt.Env, recv *T, a A) (R, error)) *Class {
	sig := methodDescriptor(res.Descriptor(), arg.Descriptor())
	return c.add(name, sig, false, func(env rt.Env, recv rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 1); err != nil {
				return rt.Value{}, err
			}
			t, err := receiver[T](env, name, recv)
			if err != nil {
				return rt.Value{}, err
			}
			a, err := arg.ToNative(env, args[0])
			if err != nil {
				return rt.Value{}, err
			}
			r, err := fn(env, t, a)
			if err != nil {
				return rt.Value{}, err
			}
			return res.ToManaged(env, r)
		})
	})
}

// MethodVoid1 declares an instance method with one parameter and no result.
func MethodVoid1[T, A any](c *Class, name string, arg Binding[A], fn func(env rt.Env, recv *T, a A) error) *Class {
	sig := methodDescriptor("V", arg.Descriptor())
	return c.add(name, sig, false, func(env rt.Env, recv rt.Ref, args []rt.Value) rt.Value {
		return guard(env, name, func() (rt.Value, error) {
			if err := arity(env, name, args, 1); err != nil {
				return rt.Value{}, err
			}
			t, err := receiver[T](env, name, recv)
			if err != nil {
				return rt.Value{}, err
			}
			a, err := arg.ToNative(env, args[0])
			if err != nil {
				return rt.Value{}, err
			}
			return rt.Void(), fn(env, t, a)
		})
	})
}

// Install defines every declared class into the runtime behind env, along
// with the shared infrastructure: the NativeException marker class and the
// function-bridging proxy classes. Setup-time; not safe to interleave with
// boundary traffic on the same runtime.
func (r *Registry) Install(env rt.Env) error {
	ctx := context.Background()
	log := r.cfg.logger()

	exc := rt.ClassDef{Name: NativeExceptionClass, Super: "java/lang/RuntimeException"}
	if err := env.DefineClass(exc); err != nil {
		return &Error{Op: "DefineClass", Err: err}
	}
	if err := InstallProxies(env); err != nil {
		return err
	}

	for _, rec := range r.records {
		def := rt.ClassDef{Name: rec.Class}
		for _, f := range rec.Fields {
			def.Fields = append(def.Fields, rt.FieldDef{Name: f.Name, Sig: f.Descriptor})
		}
		if err := env.DefineClass(def); err != nil {
			return &Error{Op: "DefineClass", Err: err}
		}
		log.Debug(ctx, "defined record class", "class", rec.Class, "fields", len(rec.Fields))
	}

	for _, c := range r.classes {
		def := rt.ClassDef{Name: c.name}
		natives := make([]rt.NativeMethod, 0, len(c.methods)+1)
		for _, m := range c.methods {
			def.Methods = append(def.Methods, m.def)
			natives = append(natives, rt.NativeMethod{Name: m.def.Name, Sig: m.def.Sig, Fn: m.fn})
		}
		if c.native {
			def.Fields = append(def.Fields, rt.FieldDef{Name: nativePointerField, Sig: "J"})
			def.Methods = append(def.Methods, rt.MethodDef{Name: "release", Sig: "()V", Native: true})
			natives = append(natives, rt.NativeMethod{Name: "release", Sig: "()V", Fn: release})
		}
		if err := env.DefineClass(def); err != nil {
			return &Error{Op: "DefineClass", Err: err}
		}
		cls, err := classFor(env, c.name)
		if err != nil {
			return err
		}
		if err := env.RegisterNatives(cls, natives); err != nil {
			return &Error{Op: "RegisterNatives", Err: err}
		}
		log.Debug(ctx, "installed class", "class", c.name, "methods", len(c.methods), "native", c.native)
	}
	log.Info(ctx, "registry installed", "classes", len(r.classes), "records", len(r.records))
	return nil
}
