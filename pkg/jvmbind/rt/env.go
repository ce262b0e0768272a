package rt

// NativeFunc is the entry point the runtime invokes when managed code calls a
// native method. The runtime pushes a fresh local frame before the call and
// pops it afterwards; any object arguments and the returned object reference
// are local references in that frame. Implementations report failure by
// raising an exception on env, never by panicking across the boundary.
type NativeFunc func(env Env, recv Ref, args []Value) Value

// NativeMethod binds one native method slot of a defined class to its Go
// implementation.
type NativeMethod struct {
	Name string
	Sig  string
	Fn   NativeFunc
}

// FieldDef declares one instance field of a defined class.
type FieldDef struct {
	Name string
	Sig  string
}

// MethodDef declares one method slot of a defined class. Native slots must be
// bound with RegisterNatives before the first invocation.
type MethodDef struct {
	Name   string
	Sig    string
	Static bool
	Native bool
}

// ClassDef describes a class the native side installs into the runtime, in
// place of loading compiled managed source. The shape must match what the
// stub generator emits for the same class, byte for byte in names and
// signatures, or dynamic lookup diverges between the two surfaces.
type ClassDef struct {
	Name    string // slash-separated path, e.g. "io/jvmbind/NativePredicate"
	Super   string // slash-separated path of the superclass; "" means java/lang/Object
	Ifaces  []string
	Fields  []FieldDef
	Methods []MethodDef
}

// Env is one thread's foreign-call context: its local reference frames and
// its pending-exception slot. An Env must only be used from the flow of
// execution that obtained it via VM.Attach (or that received it from the
// runtime in a native method invocation).
//
// Every method that performs a foreign call can leave an exception pending;
// callers check ExceptionCheck immediately afterwards. Issuing any further
// call while an exception is pending is undefined behavior on the managed
// side, and conforming runtimes are free to abort.
type Env interface {
	// VM returns the owning runtime instance, usable to attach other threads
	// or to reach the runtime from contexts that only hold an Env.
	VM() VM

	// FindClass resolves a class by slash-separated path, returning a local
	// reference to the class object. On failure the null ref is returned and
	// a class-not-found exception is pending.
	FindClass(name string) Ref

	// GetMethodID resolves an instance method by name and signature.
	GetMethodID(cls Ref, name, sig string) MethodID

	// GetStaticMethodID resolves a static method by name and signature.
	GetStaticMethodID(cls Ref, name, sig string) MethodID

	// GetFieldID resolves an instance field by name and signature.
	GetFieldID(cls Ref, name, sig string) FieldID

	// AllocObject allocates an instance without running any constructor.
	AllocObject(cls Ref) Ref

	// NewObject allocates an instance and runs the given constructor.
	NewObject(cls Ref, ctor MethodID, args ...Value) Ref

	// CallMethod invokes an instance method. Object arguments are borrowed;
	// an object result is a new local reference owned by the caller's frame.
	CallMethod(obj Ref, m MethodID, args ...Value) Value

	// CallStaticMethod invokes a static method on a class.
	CallStaticMethod(cls Ref, m MethodID, args ...Value) Value

	GetField(obj Ref, f FieldID) Value
	SetField(obj Ref, f FieldID, v Value)

	// NewString builds a managed string from UTF-16 code units.
	NewString(units []uint16) Ref

	// GetString copies out the UTF-16 code units of a managed string.
	GetString(s Ref) []uint16

	// NewArray allocates a primitive array of the given element kind, zeroed.
	NewArray(elem Kind, length int) Ref

	// GetArrayLength reports the length of a primitive array.
	GetArrayLength(arr Ref) int

	// GetArrayElement reads one element. An out-of-range index leaves an
	// index exception pending and returns the void value.
	GetArrayElement(arr Ref, index int) Value

	// SetArrayElement writes one element of the array's kind.
	SetArrayElement(arr Ref, index int, v Value)

	GetObjectClass(obj Ref) Ref
	IsInstanceOf(obj Ref, cls Ref) bool

	// PushLocalFrame opens a nested local-reference frame with the given
	// capacity; PopLocalFrame releases every reference created in the frame.
	// Frames release strictly innermost-first.
	PushLocalFrame(capacity int)
	PopLocalFrame()

	NewLocalRef(r Ref) Ref
	DeleteLocalRef(r Ref)
	NewGlobalRef(r Ref) Ref
	DeleteGlobalRef(r Ref)

	// ExceptionCheck reports whether an exception is pending on this context.
	ExceptionCheck() bool

	// ExceptionOccurred returns a local reference to the pending throwable,
	// or the null ref. The exception stays pending.
	ExceptionOccurred() Ref

	// ExceptionClear consumes the pending exception.
	ExceptionClear()

	// Throw makes the given throwable pending.
	Throw(obj Ref)

	// ThrowNew constructs an instance of the given throwable class with the
	// message and makes it pending.
	ThrowNew(cls Ref, msg string)

	// DefineClass installs a class definition. Setup-time operation.
	DefineClass(def ClassDef) error

	// RegisterNatives binds native method slots of cls. Setup-time operation.
	RegisterNatives(cls Ref, methods []NativeMethod) error

	// Detach releases this context's per-thread bookkeeping. The Env must not
	// be used afterwards.
	Detach()
}

// VM is the process-wide runtime instance.
type VM interface {
	// Attach creates a foreign-call context for the current flow of
	// execution. A context obtained here must be released with Env.Detach.
	Attach() Env

	// GC requests a collection cycle, running finalization hooks for
	// unreachable objects. Runtimes may also collect spontaneously; tests use
	// the explicit trigger to make lifetime observable.
	GC()
}
