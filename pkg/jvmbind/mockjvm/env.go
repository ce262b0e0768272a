package mockjvm

import (
	"fmt"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

const (
	baseFrameCapacity   = 512
	nativeFrameCapacity = 64
)

type localFrame struct {
	capacity int
	refs     map[rt.Ref]objID
}

func newFrame(capacity int) *localFrame {
	return &localFrame{capacity: capacity, refs: map[rt.Ref]objID{}}
}

// env is one attached context: a stack of local frames and the pending
// exception slot.
type env struct {
	vm       *VM
	frames   []*localFrame
	pending  objID
	detached bool
}

var _ rt.Env = (*env)(nil)

func (e *env) VM() rt.VM { return e.vm }

// locked internals

func (e *env) mustLiveLocked() {
	if e.detached {
		panic("mockjvm: use of detached context")
	}
}

func (e *env) mustNoPendingLocked(op string) {
	if e.pending != 0 {
		panic("mockjvm: " + op + " issued with an exception pending")
	}
}

func (e *env) newRefLocked(id objID) rt.Ref {
	if id == 0 {
		return 0
	}
	return e.addToFrameLocked(e.frames[len(e.frames)-1], id)
}

// addToFrameLocked stores a new handle in one frame. The per-frame table is a
// fixed resource; overflowing it is fatal, the way a real runtime aborts on
// local reference table overflow. Callers that hold many references release
// them eagerly or open a frame sized for the work.
func (e *env) addToFrameLocked(f *localFrame, id objID) rt.Ref {
	if len(f.refs) >= f.capacity {
		panic(fmt.Sprintf("mockjvm: local reference table overflow (capacity %d)", f.capacity))
	}
	e.vm.refSeq++
	f.refs[e.vm.refSeq] = id
	return e.vm.refSeq
}

// resolveLocked maps a reference handle to heap identity, searching the
// context's frames innermost first, then the global table. An unknown handle
// is a use of a released reference and panics.
func (e *env) resolveLocked(r rt.Ref) objID {
	if r == 0 {
		return 0
	}
	for i := len(e.frames) - 1; i >= 0; i-- {
		if id, ok := e.frames[i].refs[r]; ok {
			return id
		}
	}
	if id, ok := e.vm.globals[r]; ok {
		return id
	}
	panic(fmt.Sprintf("mockjvm: reference %d is not live in this context", r))
}

func (e *env) objLocked(r rt.Ref) *object {
	return e.vm.heap[e.resolveLocked(r)]
}

// pendLocked raises a built-in throwable.
func (e *env) pendLocked(class, msg string) {
	c, ok := e.vm.classes[class]
	if !ok {
		panic("mockjvm: missing throwable class " + class)
	}
	id := e.vm.allocLocked(c)
	e.vm.heap[id].payload = throwablePayload{msg: msg}
	e.pending = id
}

// classOfLocked narrows a reference to the class its class object denotes.
func (e *env) classOfLocked(r rt.Ref) *class {
	o := e.objLocked(r)
	p, ok := o.payload.(classPayload)
	if !ok {
		panic("mockjvm: reference does not denote a class object")
	}
	return p.c
}

// migrateLocked moves an object result from the top frame into the frame
// below it, so popping the top frame does not invalidate the result.
func (e *env) migrateLocked(v rt.Value) rt.Value {
	if v.Kind != rt.KindObject || v.Ref == 0 {
		return v
	}
	id := e.resolveLocked(v.Ref)
	return rt.ObjectValue(e.addToFrameLocked(e.frames[len(e.frames)-2], id))
}

func (e *env) popFrameLocked() {
	if len(e.frames) == 1 {
		panic("mockjvm: pop of the base local frame")
	}
	e.frames = e.frames[:len(e.frames)-1]
}

// adopt creates a local reference to a heap identity. Used by the collector
// to hand unreachable objects to their release hooks.
func (e *env) adopt(id objID) rt.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	return e.newRefLocked(id)
}

// callLocked dispatches one resolved method. The VM lock is held on entry and
// on exit; native implementations run with the lock released, inside a frame
// of their own.
func (e *env) callLocked(m *method, recvRef rt.Ref, args []rt.Value) rt.Value {
	switch {
	case m.builtin != nil:
		return m.builtin(e.vm, e, e.resolveLocked(recvRef), args)
	case m.def.Native && m.fn != nil:
		e.frames = append(e.frames, newFrame(nativeFrameCapacity))
		e.vm.mu.Unlock()
		out := m.fn(e, recvRef, args)
		e.vm.mu.Lock()
		out = e.migrateLocked(out)
		e.popFrameLocked()
		return out
	default:
		e.pendLocked("java/lang/AbstractMethodError", m.owner.name+"."+m.def.Name)
		return rt.Void()
	}
}

// rt.Env implementation

func (e *env) FindClass(name string) rt.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("FindClass")
	c, ok := e.vm.classes[name]
	if !ok {
		e.pendLocked("java/lang/ClassNotFoundException", name)
		return 0
	}
	return e.newRefLocked(c.classObj)
}

func (e *env) GetMethodID(cls rt.Ref, name, sig string) rt.MethodID {
	return e.methodID("GetMethodID", cls, name, sig, false)
}

func (e *env) GetStaticMethodID(cls rt.Ref, name, sig string) rt.MethodID {
	return e.methodID("GetStaticMethodID", cls, name, sig, true)
}

func (e *env) methodID(op string, cls rt.Ref, name, sig string, static bool) rt.MethodID {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked(op)
	c := e.classOfLocked(cls)
	m := e.vm.lookup(c, name, sig)
	if m == nil || m.def.Static != static {
		e.pendLocked("java/lang/NoSuchMethodError", c.name+"."+name+sig)
		return 0
	}
	return e.vm.internMethod(m)
}

func (e *env) GetFieldID(cls rt.Ref, name, sig string) rt.FieldID {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("GetFieldID")
	c := e.classOfLocked(cls)
	f := e.vm.lookupField(c, name, sig)
	if f == nil {
		e.pendLocked("java/lang/NoSuchFieldError", c.name+"."+name+" "+sig)
		return 0
	}
	return e.vm.internField(f)
}

func (e *env) AllocObject(cls rt.Ref) rt.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("AllocObject")
	c := e.classOfLocked(cls)
	if c.iface {
		e.pendLocked("java/lang/InstantiationError", c.name)
		return 0
	}
	return e.newRefLocked(e.vm.allocLocked(c))
}

func (e *env) NewObject(cls rt.Ref, ctor rt.MethodID, args ...rt.Value) rt.Ref {
	e.vm.mu.Lock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("NewObject")
	c := e.classOfLocked(cls)
	if c.iface {
		e.pendLocked("java/lang/InstantiationError", c.name)
		e.vm.mu.Unlock()
		return 0
	}
	obj := e.newRefLocked(e.vm.allocLocked(c))
	m := e.vm.methodByID(ctor)
	e.callLocked(m, obj, args)
	e.vm.mu.Unlock()
	if e.ExceptionCheck() {
		return 0
	}
	return obj
}

func (e *env) CallMethod(obj rt.Ref, id rt.MethodID, args ...rt.Value) rt.Value {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("CallMethod")
	m := e.vm.methodByID(id)
	recv := e.resolveLocked(obj)
	if recv == 0 {
		e.pendLocked("java/lang/NullPointerException", m.def.Name)
		return rt.Void()
	}
	// Virtual dispatch: the identifier may name an interface or superclass
	// slot; the receiver's dynamic class decides the implementation.
	if impl := e.vm.lookup(e.vm.heap[recv].class, m.def.Name, m.def.Sig); impl != nil {
		m = impl
	}
	return e.callLocked(m, obj, args)
}

func (e *env) CallStaticMethod(cls rt.Ref, id rt.MethodID, args ...rt.Value) rt.Value {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("CallStaticMethod")
	m := e.vm.methodByID(id)
	if !m.def.Static {
		panic("mockjvm: CallStaticMethod on an instance method")
	}
	return e.callLocked(m, cls, args)
}

func (e *env) GetField(obj rt.Ref, id rt.FieldID) rt.Value {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("GetField")
	f := e.vm.fieldByID(id)
	o := e.objLocked(obj)
	s := o.fields[f.def.Name]
	if s.kind == rt.KindObject || descKind(f.def.Sig) == rt.KindObject {
		return rt.ObjectValue(e.newRefLocked(s.obj))
	}
	if s.kind == rt.KindVoid {
		// Unwritten primitive field reads as the type's zero.
		return rt.Value{Kind: descKind(f.def.Sig)}
	}
	return rt.Value{Kind: s.kind, Bits: s.bits}
}

func (e *env) SetField(obj rt.Ref, id rt.FieldID, v rt.Value) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("SetField")
	f := e.vm.fieldByID(id)
	o := e.objLocked(obj)
	if v.Kind == rt.KindObject {
		o.fields[f.def.Name] = slot{kind: rt.KindObject, obj: e.resolveLocked(v.Ref)}
		return
	}
	o.fields[f.def.Name] = slot{kind: v.Kind, bits: v.Bits}
}

func (e *env) NewString(units []uint16) rt.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("NewString")
	return e.newRefLocked(e.newStringLocked(units))
}

func (e *env) newStringLocked(units []uint16) objID {
	id := e.vm.allocLocked(e.vm.classes["java/lang/String"])
	e.vm.heap[id].payload = stringPayload{units: append([]uint16(nil), units...)}
	return id
}

func (e *env) GetString(s rt.Ref) []uint16 {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("GetString")
	p, ok := e.objLocked(s).payload.(stringPayload)
	if !ok {
		panic("mockjvm: GetString on a non-string object")
	}
	return append([]uint16(nil), p.units...)
}

func (e *env) NewArray(elem rt.Kind, length int) rt.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("NewArray")
	if elem == rt.KindVoid || elem == rt.KindObject {
		panic("mockjvm: NewArray of non-primitive kind " + elem.String())
	}
	if length < 0 {
		e.pendLocked("java/lang/NegativeArraySizeException", fmt.Sprintf("%d", length))
		return 0
	}
	id := e.vm.allocLocked(e.vm.arrayClassLocked(elem))
	e.vm.heap[id].payload = arrayPayload{elem: elem, bits: make([]uint64, length)}
	return e.newRefLocked(id)
}

func (e *env) arrayLocked(arr rt.Ref) arrayPayload {
	p, ok := e.objLocked(arr).payload.(arrayPayload)
	if !ok {
		panic("mockjvm: array operation on a non-array object")
	}
	return p
}

func (e *env) GetArrayLength(arr rt.Ref) int {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("GetArrayLength")
	return len(e.arrayLocked(arr).bits)
}

func (e *env) GetArrayElement(arr rt.Ref, index int) rt.Value {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("GetArrayElement")
	p := e.arrayLocked(arr)
	if index < 0 || index >= len(p.bits) {
		e.pendLocked("java/lang/ArrayIndexOutOfBoundsException",
			fmt.Sprintf("index %d, length %d", index, len(p.bits)))
		return rt.Void()
	}
	return rt.Value{Kind: p.elem, Bits: p.bits[index]}
}

func (e *env) SetArrayElement(arr rt.Ref, index int, v rt.Value) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("SetArrayElement")
	p := e.arrayLocked(arr)
	if v.Kind != p.elem {
		panic("mockjvm: SetArrayElement of " + v.Kind.String() + " into " + p.elem.String() + " array")
	}
	if index < 0 || index >= len(p.bits) {
		e.pendLocked("java/lang/ArrayIndexOutOfBoundsException",
			fmt.Sprintf("index %d, length %d", index, len(p.bits)))
		return
	}
	p.bits[index] = v.Bits
}

func (e *env) GetObjectClass(obj rt.Ref) rt.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("GetObjectClass")
	return e.newRefLocked(e.objLocked(obj).class.classObj)
}

func (e *env) IsInstanceOf(obj rt.Ref, cls rt.Ref) bool {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.mustNoPendingLocked("IsInstanceOf")
	id := e.resolveLocked(obj)
	if id == 0 {
		return false
	}
	return e.vm.assignable(e.vm.heap[id].class, e.classOfLocked(cls))
}

func (e *env) PushLocalFrame(capacity int) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	if capacity <= 0 {
		panic("mockjvm: PushLocalFrame capacity must be positive")
	}
	e.frames = append(e.frames, newFrame(capacity))
}

func (e *env) PopLocalFrame() {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.popFrameLocked()
}

func (e *env) NewLocalRef(r rt.Ref) rt.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	return e.newRefLocked(e.resolveLocked(r))
}

func (e *env) DeleteLocalRef(r rt.Ref) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	for i := len(e.frames) - 1; i >= 0; i-- {
		if _, ok := e.frames[i].refs[r]; ok {
			delete(e.frames[i].refs, r)
			return
		}
	}
	panic(fmt.Sprintf("mockjvm: DeleteLocalRef of unknown reference %d", r))
}

func (e *env) NewGlobalRef(r rt.Ref) rt.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	id := e.resolveLocked(r)
	if id == 0 {
		return 0
	}
	e.vm.refSeq++
	e.vm.globals[e.vm.refSeq] = id
	return e.vm.refSeq
}

func (e *env) DeleteGlobalRef(r rt.Ref) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	if _, ok := e.vm.globals[r]; !ok {
		panic(fmt.Sprintf("mockjvm: DeleteGlobalRef of unknown reference %d", r))
	}
	delete(e.vm.globals, r)
}

func (e *env) ExceptionCheck() bool {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	return e.pending != 0
}

func (e *env) ExceptionOccurred() rt.Ref {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	return e.newRefLocked(e.pending)
}

func (e *env) ExceptionClear() {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.pending = 0
}

func (e *env) Throw(obj rt.Ref) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	e.pending = e.resolveLocked(obj)
}

func (e *env) ThrowNew(cls rt.Ref, msg string) {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	c := e.classOfLocked(cls)
	id := e.vm.allocLocked(c)
	e.vm.heap[id].payload = throwablePayload{msg: msg}
	e.pending = id
}

func (e *env) DefineClass(def rt.ClassDef) error {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	return e.vm.defineLocked(def)
}

func (e *env) RegisterNatives(cls rt.Ref, methods []rt.NativeMethod) error {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	c := e.classOfLocked(cls)
	for _, n := range methods {
		bound := false
		for _, m := range c.methods {
			if m.def.Name == n.Name && m.def.Sig == n.Sig && m.def.Native {
				m.fn = n.Fn
				bound = true
				break
			}
		}
		if !bound {
			return fmt.Errorf("mockjvm: %s declares no native method %s%s", c.name, n.Name, n.Sig)
		}
	}
	return nil
}

func (e *env) Detach() {
	e.vm.mu.Lock()
	defer e.vm.mu.Unlock()
	e.mustLiveLocked()
	delete(e.vm.envs, e)
	e.frames = nil
	e.detached = true
}

// kindSig maps a primitive value kind to its descriptor code.
func kindSig(k rt.Kind) string {
	switch k {
	case rt.KindBool:
		return "Z"
	case rt.KindInt8:
		return "B"
	case rt.KindInt16:
		return "S"
	case rt.KindChar16:
		return "C"
	case rt.KindInt32:
		return "I"
	case rt.KindInt64:
		return "J"
	case rt.KindFloat32:
		return "F"
	case rt.KindFloat64:
		return "D"
	default:
		panic("mockjvm: no descriptor code for kind " + k.String())
	}
}

// descKind maps a field descriptor to its value kind.
func descKind(sig string) rt.Kind {
	switch sig {
	case "Z":
		return rt.KindBool
	case "B":
		return rt.KindInt8
	case "S":
		return rt.KindInt16
	case "C":
		return rt.KindChar16
	case "I":
		return rt.KindInt32
	case "J":
		return rt.KindInt64
	case "F":
		return rt.KindFloat32
	case "D":
		return rt.KindFloat64
	default:
		return rt.KindObject
	}
}
