// Package mockjvm is an in-memory managed runtime implementing rt.VM and
// rt.Env, sufficient to exercise every binding and ownership path without a
// real virtual machine in the process.
//
// The mock models the parts of the contract the bindings depend on: a heap of
// objects with identity, local reference frames and global references as
// distinct handle tables over that heap, dynamic method and field lookup by
// name and signature, the pending-exception slot per attached context, and an
// explicit collection cycle that runs native release hooks for unreachable
// objects.
//
// It ships the small built-in class library the bindings touch: Object,
// Class, String, the eight primitive wrapper classes with valueOf and the
// unboxing accessors, the collection classes ArrayList, HashSet, TreeSet,
// HashMap and TreeMap with iterator and entrySet access, and a throwable
// hierarchy rooted at java/lang/Throwable.
//
// Protocol violations that a real runtime declares undefined are hard
// failures here: issuing a foreign call while an exception is pending,
// resolving a reference that no frame or global table holds, or releasing a
// global reference twice all panic. Tests lean on this strictness.
//
// A VM is safe for concurrent use; each Env must stay confined to the flow of
// execution that attached it.
package mockjvm
