package jvmbind

import (
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// DefaultFrameCapacity is the local-reference capacity requested for frames
// opened by WithFrame. The runtime's per-call reference table is a fixed
// resource; leaking scoped references exhausts it.
const DefaultFrameCapacity = 64

// Frame is one scoped extent of local references. Every reference adopted
// into the frame is released when the frame unwinds, innermost frame first.
type Frame struct {
	env rt.Env
}

// WithFrame opens a local-reference frame, runs fn inside it, and releases
// every scoped reference created in the frame on all exit paths: normal
// return, error return, and panic.
func WithFrame(env rt.Env, fn func(*Frame) error) error {
	env.PushLocalFrame(DefaultFrameCapacity)
	defer env.PopLocalFrame()
	return fn(&Frame{env: env})
}

// Env returns the foreign-call context this frame belongs to.
func (f *Frame) Env() rt.Env { return f.env }

// Scoped adopts a raw handle into the frame, taking ownership. The handle
// must already live in the runtime's current local table (every object handle
// returned by a foreign call does).
func (f *Frame) Scoped(r rt.Ref) ScopedRef {
	return ScopedRef{ref: r}
}

// ScopedRef owns one local reference, valid only within the dynamic extent of
// the frame that created it. It never escapes the frame: storing one beyond
// the frame is a use-after-scope bug. Promote converts it into a reference
// that survives.
//
// ScopedRef is move-only: consuming operations zero the receiver, and
// operating on a consumed or zero ref panics. Ownership violations are
// programming errors, not recoverable conditions.
type ScopedRef struct {
	ref rt.Ref
}

// Ref borrows the underlying handle without transferring ownership.
func (s *ScopedRef) Ref() rt.Ref { return s.ref }

// IsNil reports whether the ref is null or already consumed.
func (s *ScopedRef) IsNil() bool { return s.ref == 0 }

// Promote consumes the scoped reference and returns a durable one referring
// to the same object. The local slot is released eagerly rather than waiting
// for the frame to unwind.
func (s *ScopedRef) Promote(env rt.Env) DurableRef {
	if s.ref == 0 {
		panic("jvmbind: promote of null or consumed scoped reference")
	}
	g := env.NewGlobalRef(s.ref)
	env.DeleteLocalRef(s.ref)
	s.ref = 0
	return DurableRef{ref: g}
}

// Release consumes the scoped reference, returning its local slot to the
// frame before the frame unwinds. Optional: the frame releases everything it
// still owns at unwind.
func (s *ScopedRef) Release(env rt.Env) {
	if s.ref == 0 {
		panic("jvmbind: double release of scoped reference")
	}
	env.DeleteLocalRef(s.ref)
	s.ref = 0
}

// globalize creates a durable reference from a borrowed handle without
// consuming the borrowed slot. Internal building block for bindings that
// need to retain an argument beyond the current call.
func globalize(env rt.Env, r rt.Ref) DurableRef {
	return DurableRef{ref: env.NewGlobalRef(r)}
}

// DurableRef owns one global reference, valid until explicitly released.
// Exactly one owner is responsible for the release at all times: transfer
// with Move, never by copying. Releasing twice panics.
type DurableRef struct {
	ref rt.Ref
}

// Ref borrows the underlying handle without transferring ownership.
func (d *DurableRef) Ref() rt.Ref { return d.ref }

// IsNil reports whether the ref is null or already consumed.
func (d *DurableRef) IsNil() bool { return d.ref == 0 }

// Move transfers ownership to the returned value and zeroes the receiver.
// Use when storing the reference, e.g. inside a closure, so exactly one owner
// remains responsible for the release.
func (d *DurableRef) Move() DurableRef {
	if d.ref == 0 {
		panic("jvmbind: move of null or consumed durable reference")
	}
	n := DurableRef{ref: d.ref}
	d.ref = 0
	return n
}

// Release consumes the durable reference. A DurableRef created on one thread
// may be released from another only after that thread attached its own
// context.
func (d *DurableRef) Release(env rt.Env) {
	if d.ref == 0 {
		panic("jvmbind: double release of durable reference")
	}
	env.DeleteGlobalRef(d.ref)
	d.ref = 0
}
