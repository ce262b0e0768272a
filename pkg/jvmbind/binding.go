package jvmbind

import (
	"fmt"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

// Binding carries the conversion rules between a native type T and its
// managed representation: a descriptor string for the runtime's dynamic
// method and field lookup, and the two conversion directions.
//
// Bindings are stateless, safe for concurrent use, and resolved once when
// constructed. For a given binding the mapping T to descriptor is total and
// injective: a native type always serializes to exactly one managed-side type
// identity, so dynamic overload lookup is deterministic.
//
// Conversions that produce an object reference return it in the caller's
// current local frame; conversions that receive one borrow it.
type Binding[T any] interface {
	// Descriptor returns the runtime's type-signature encoding for the
	// managed representation: a primitive code such as "I", or an object
	// descriptor such as "Ljava/lang/String;".
	Descriptor() string

	ToManaged(env rt.Env, v T) (rt.Value, error)
	ToNative(env rt.Env, val rt.Value) (T, error)
}

// Resolver hands out bindings whose availability depends on marshaling
// policy. Policy is an explicit configuration value, not a process-wide
// toggle: two resolvers with different configs coexist in one process.
type Resolver struct {
	cfg Config
}

// NewResolver returns a resolver applying the given policy.
func NewResolver(cfg Config) *Resolver {
	return &Resolver{cfg: cfg}
}

// Uint8 returns a widening binding mapping uint8 to the runtime's 16-bit
// signed type. Requires Config.AllowWidening.
func (r *Resolver) Uint8() (Binding[uint8], error) {
	if !r.cfg.AllowWidening {
		return nil, ErrWideningDisabled
	}
	return uint8Binding{}, nil
}

// Uint16 returns a widening binding mapping uint16 to the runtime's 32-bit
// signed type. Requires Config.AllowWidening.
func (r *Resolver) Uint16() (Binding[uint16], error) {
	if !r.cfg.AllowWidening {
		return nil, ErrWideningDisabled
	}
	return uint16Binding{}, nil
}

// Uint32 returns a widening binding mapping uint32 to the runtime's 64-bit
// signed type. Requires Config.AllowWidening.
func (r *Resolver) Uint32() (Binding[uint32], error) {
	if !r.cfg.AllowWidening {
		return nil, ErrWideningDisabled
	}
	return uint32Binding{}, nil
}

// kindError reports a raw boundary value whose kind contradicts the binding's
// descriptor. This is a conversion error, recoverable by the caller.
func kindError(desc string, got rt.Kind) error {
	return fmt.Errorf("%w: descriptor %q, got %s value", ErrKindMismatch, desc, got)
}

// requireObject narrows a raw value to a non-null object reference.
func requireObject(desc string, val rt.Value) (rt.Ref, error) {
	if val.Kind != rt.KindObject {
		return 0, kindError(desc, val.Kind)
	}
	if val.Ref == 0 {
		return 0, ErrNullObject
	}
	return val.Ref, nil
}

// objectShaped lifts a primitive binding to its boxed counterpart so it can
// live in generic object positions (collection elements, generic functional
// interfaces). Object-shaped bindings pass through unchanged.
func objectShaped[T any](b Binding[T]) Binding[T] {
	if bx, ok := b.(boxable[T]); ok {
		return bx.boxed()
	}
	return b
}

// classFor resolves a class and folds the pending check into one call.
func classFor(env rt.Env, name string) (rt.Ref, error) {
	cls := env.FindClass(name)
	if err := checkPending(env, "FindClass"); err != nil {
		return 0, err
	}
	return cls, nil
}
