package mockjvm

import (
	"sync"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// VM is one mock runtime instance: a heap, the class table, the global
// reference table, and the set of attached contexts.
type VM struct {
	mu sync.Mutex

	heap    map[objID]*object
	classes map[string]*class
	globals map[rt.Ref]objID
	envs    map[*env]struct{}

	methodTab []*method
	fieldTab  []*field

	objSeq objID
	refSeq rt.Ref
}

var _ rt.VM = (*VM)(nil)

// New returns a runtime with the built-in class library installed.
func New() *VM {
	vm := &VM{
		heap:    map[objID]*object{},
		classes: map[string]*class{},
		globals: map[rt.Ref]objID{},
		envs:    map[*env]struct{}{},
	}
	vm.installBuiltins()
	return vm
}

// Attach creates a context for the current flow of execution, with one base
// local frame already open.
func (vm *VM) Attach() rt.Env {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	e := &env{vm: vm, frames: []*localFrame{newFrame(baseFrameCapacity)}}
	vm.envs[e] = struct{}{}
	return e
}

// arrayClassLocked returns the class backing arrays of the given primitive
// element kind, installing it on first use. Array classes are named by their
// descriptor, e.g. "[I".
func (vm *VM) arrayClassLocked(elem rt.Kind) *class {
	name := "[" + kindSig(elem)
	if c, ok := vm.classes[name]; ok {
		return c
	}
	return vm.addBuiltin(name, "java/lang/Object", nil, false, nil)
}

// allocLocked creates a heap object of class c, running the class's payload
// initializer.
func (vm *VM) allocLocked(c *class) objID {
	vm.objSeq++
	o := &object{class: c, fields: map[string]slot{}}
	for k := c; k != nil; k = k.super {
		if k.alloc != nil {
			k.alloc(o)
		}
	}
	vm.heap[vm.objSeq] = o
	return vm.objSeq
}

func (vm *VM) methodByID(id rt.MethodID) *method {
	if id == 0 || int(id) > len(vm.methodTab) {
		panic("mockjvm: invalid method id")
	}
	return vm.methodTab[id-1]
}

func (vm *VM) fieldByID(id rt.FieldID) *field {
	if id == 0 || int(id) > len(vm.fieldTab) {
		panic("mockjvm: invalid field id")
	}
	return vm.fieldTab[id-1]
}

func (vm *VM) internMethod(m *method) rt.MethodID {
	for i, t := range vm.methodTab {
		if t == m {
			return rt.MethodID(i + 1)
		}
	}
	vm.methodTab = append(vm.methodTab, m)
	return rt.MethodID(len(vm.methodTab))
}

func (vm *VM) internField(f *field) rt.FieldID {
	for i, t := range vm.fieldTab {
		if t.owner == f.owner && t.def == f.def {
			return rt.FieldID(i + 1)
		}
	}
	vm.fieldTab = append(vm.fieldTab, f)
	return rt.FieldID(len(vm.fieldTab))
}

// GC runs a full mark-sweep cycle. Roots are every attached context's local
// frames and pending exception, the global table, and every class object.
// Unreachable objects whose class binds a native release hook have the hook
// run once, on a context attached for the sweep, before being dropped.
func (vm *VM) GC() {
	vm.mu.Lock()
	marked := map[objID]struct{}{}
	var stack []objID
	push := func(id objID) {
		if id == 0 {
			return
		}
		if _, ok := marked[id]; !ok {
			marked[id] = struct{}{}
			stack = append(stack, id)
		}
	}
	for e := range vm.envs {
		for _, f := range e.frames {
			for _, id := range f.refs {
				push(id)
			}
		}
		push(e.pending)
	}
	for _, id := range vm.globals {
		push(id)
	}
	for _, c := range vm.classes {
		push(c.classObj)
	}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, r := range vm.heap[id].refs() {
			push(r)
		}
	}
	var dead []objID
	for id := range vm.heap {
		if _, ok := marked[id]; !ok {
			dead = append(dead, id)
		}
	}
	type hook struct {
		id objID
		m  *method
	}
	var hooks []hook
	for _, id := range dead {
		if m := vm.lookup(vm.heap[id].class, "release", "()V"); m != nil && m.fn != nil {
			hooks = append(hooks, hook{id: id, m: m})
		}
	}
	vm.mu.Unlock()

	if len(hooks) > 0 {
		e := vm.Attach().(*env)
		for _, h := range hooks {
			h.m.fn(e, e.adopt(h.id), nil)
			if e.ExceptionCheck() {
				e.ExceptionClear()
			}
		}
		e.Detach()
	}

	vm.mu.Lock()
	for _, id := range dead {
		delete(vm.heap, id)
	}
	vm.mu.Unlock()
}

// LiveObjects reports the number of heap objects, class objects included.
// Test instrumentation.
func (vm *VM) LiveObjects() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.heap)
}

// LiveLocalRefs reports local references across every attached context. Test
// instrumentation.
func (vm *VM) LiveLocalRefs() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	n := 0
	for e := range vm.envs {
		for _, f := range e.frames {
			n += len(f.refs)
		}
	}
	return n
}

// LiveGlobalRefs reports entries in the global reference table. Test
// instrumentation.
func (vm *VM) LiveGlobalRefs() int {
	vm.mu.Lock()
	defer vm.mu.Unlock()
	return len(vm.globals)
}
