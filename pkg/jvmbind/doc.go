// Package jvmbind is a type-driven marshaling bridge between native Go code
// and an embedded JVM-style managed runtime. It converts Go values
// (primitives, strings, records, collections, closures) to and from the
// runtime's object model, manages the lifetime of references to managed
// objects across native call frames, bridges callable values in both
// directions, and translates exceptions across the boundary.
//
// The bridge is written against the foreign-call ABI declared in the rt
// subpackage and never against a concrete runtime. The mockjvm subpackage
// provides an in-memory reference runtime for tests and examples.
//
// # Bindings
//
// A Binding[T] carries the conversion rules for one native type: a descriptor
// string for the runtime's dynamic method and field lookup, and the two
// conversion directions. Bindings compose: collection and record bindings are
// built from element bindings, and callable bindings from argument and result
// bindings. Resolution happens once, when the binding value is constructed;
// there is no reflection on the call path.
//
//	desc := jvmbind.SortedMap(jvmbind.String(), jvmbind.Int32())
//	val, err := desc.ToManaged(env, m) // m is an *OrderedMap[string, int32]
//
// # Reference ownership
//
// Conversions that produce an object reference return it in the caller's
// current local frame. Open a frame with WithFrame; everything created inside
// is released when the frame unwinds, on success, error, and panic paths
// alike. A reference that must outlive the frame is promoted to a DurableRef,
// which has exactly one owner and is released exactly once.
//
// # Exceptions
//
// Every foreign call is followed by a pending-exception check. A managed
// exception surfaces to Go as a *ThrowableError; a Go error returned from a
// native-exposed function is raised on the managed side as a NativeException
// before control crosses back.
package jvmbind
