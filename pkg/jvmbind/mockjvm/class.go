package mockjvm

import (
	"fmt"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// builtinFn is the implementation of a built-in library method. Built-ins run
// under the VM lock and use the locked internals directly; they report
// failure by pending an exception on e.
type builtinFn func(vm *VM, e *env, recv objID, args []rt.Value) rt.Value

type method struct {
	owner   *class
	def     rt.MethodDef
	fn      rt.NativeFunc // bound native implementation
	builtin builtinFn     // built-in library implementation
}

type field struct {
	owner *class
	def   rt.FieldDef
}

type class struct {
	name    string
	super   *class
	ifaces  []string
	iface   bool // declared as an interface; instances cannot be allocated
	fields  []rt.FieldDef
	methods []*method

	// alloc initializes a built-in class's payload on allocation.
	alloc func(o *object)

	classObj objID
}

// lookup resolves a method by name and signature on c, walking the superclass
// chain and then declared interfaces.
func (vm *VM) lookup(c *class, name, sig string) *method {
	for k := c; k != nil; k = k.super {
		for _, m := range k.methods {
			if m.def.Name == name && m.def.Sig == sig {
				return m
			}
		}
	}
	for k := c; k != nil; k = k.super {
		for _, in := range k.ifaces {
			if ic, ok := vm.classes[in]; ok {
				if m := vm.lookup(ic, name, sig); m != nil {
					return m
				}
			}
		}
	}
	return nil
}

// lookupField resolves an instance field by name and signature, walking the
// superclass chain.
func (vm *VM) lookupField(c *class, name, sig string) *field {
	for k := c; k != nil; k = k.super {
		for _, f := range k.fields {
			if f.Name == name && f.Sig == sig {
				return &field{owner: k, def: f}
			}
		}
	}
	return nil
}

// assignable reports whether an instance of c may stand where target is
// required.
func (vm *VM) assignable(c, target *class) bool {
	for k := c; k != nil; k = k.super {
		if k == target {
			return true
		}
		for _, in := range k.ifaces {
			if ic, ok := vm.classes[in]; ok && vm.assignable(ic, target) {
				return true
			}
		}
	}
	return false
}

// defineLocked installs a class and allocates its class object. Callers hold
// the VM lock.
func (vm *VM) defineLocked(def rt.ClassDef) error {
	if _, ok := vm.classes[def.Name]; ok {
		return fmt.Errorf("mockjvm: class %s already defined", def.Name)
	}
	superName := def.Super
	if superName == "" {
		superName = "java/lang/Object"
	}
	super, ok := vm.classes[superName]
	if !ok {
		return fmt.Errorf("mockjvm: class %s extends unknown class %s", def.Name, superName)
	}
	c := &class{
		name:   def.Name,
		super:  super,
		ifaces: append([]string(nil), def.Ifaces...),
		fields: append([]rt.FieldDef(nil), def.Fields...),
	}
	for _, m := range def.Methods {
		c.methods = append(c.methods, &method{owner: c, def: m})
	}
	vm.classes[def.Name] = c
	c.classObj = vm.allocLocked(vm.classes["java/lang/Class"])
	vm.heap[c.classObj].payload = classPayload{c: c}
	return nil
}
