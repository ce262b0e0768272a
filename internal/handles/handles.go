// Package handles keeps a process-wide registry of native values that are
// referenced from the managed runtime by opaque integer handle. Managed
// objects store the handle in a long field; the registry owns the only
// mapping back to the live Go value, which keeps the value reachable for the
// Go garbage collector while the managed side holds the handle.
package handles

import "sync"

// Handle is an opaque, non-zero identifier for a registered value. Zero is
// reserved for "null" so an uninitialized managed field never resolves.
type Handle uint64

var (
	mu   sync.Mutex
	next Handle = 1
	reg         = map[Handle]any{}
)

// Put registers v and returns its handle.
func Put(v any) Handle {
	mu.Lock()
	h := next
	next++
	reg[h] = v
	mu.Unlock()
	return h
}

// Get resolves a handle. The boolean reports whether the handle is live.
func Get(h Handle) (any, bool) {
	mu.Lock()
	v, ok := reg[h]
	mu.Unlock()
	return v, ok
}

// Delete releases a handle. Deleting an unknown or already-released handle is
// a no-op, which lets finalization hooks stay idempotent even if the runtime
// runs them more than once.
func Delete(h Handle) {
	mu.Lock()
	delete(reg, h)
	mu.Unlock()
}

// Live reports the number of registered values. Test instrumentation.
func Live() int {
	mu.Lock()
	n := len(reg)
	mu.Unlock()
	return n
}
