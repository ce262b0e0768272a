// Package rt declares the foreign-call ABI between native Go code and a
// JVM-style managed runtime. The bridge in pkg/jvmbind is written entirely
// against these interfaces and never against a concrete runtime, so the same
// marshaling, ownership, and exception machinery works with any runtime that
// honors the contract.
//
// The contract follows the invocation-interface shape of the JVM: calls and
// member lookups go through an Env bound to one thread of execution, object
// references live in per-frame local tables or a process-wide global table,
// and failures surface as a pending exception that the caller must check
// after every call. The package deliberately does not design this surface; it
// records the platform contract the runtime already imposes.
//
// Runtimes signal per-call failure by setting the pending exception, not by
// returning Go errors. Only setup operations that happen outside the call
// path (DefineClass, RegisterNatives) return errors directly.
package rt
