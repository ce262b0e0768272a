package jvmbind_test

import (
	"errors"
	"testing"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/mockjvm"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

func newEnv(t *testing.T) (*mockjvm.VM, rt.Env) {
	t.Helper()
	vm := mockjvm.New()
	env := vm.Attach()
	t.Cleanup(env.Detach)
	return vm, env
}

func roundTrip[T comparable](t *testing.T, env rt.Env, b jvmbind.Binding[T], v T) {
	t.Helper()
	raw, err := b.ToManaged(env, v)
	if err != nil {
		t.Fatalf("ToManaged(%v): %v", v, err)
	}
	got, err := b.ToNative(env, raw)
	if err != nil {
		t.Fatalf("ToNative(%v): %v", v, err)
	}
	if got != v {
		t.Fatalf("round trip = %v, want %v", got, v)
	}
}

func TestPrimitiveRoundTrips(t *testing.T) {
	_, env := newEnv(t)

	roundTrip(t, env, jvmbind.Bool(), true)
	roundTrip(t, env, jvmbind.Bool(), false)
	roundTrip(t, env, jvmbind.Int8(), int8(-128))
	roundTrip(t, env, jvmbind.Int16(), int16(-32768))
	roundTrip(t, env, jvmbind.Char16(), uint16(0xFFFF))
	roundTrip(t, env, jvmbind.Int32(), int32(-2147483648))
	roundTrip(t, env, jvmbind.Int64(), int64(-9223372036854775808))
	roundTrip(t, env, jvmbind.Float32(), float32(1.5))
	roundTrip(t, env, jvmbind.Float64(), 2.25)
}

func TestPrimitiveKindMismatch(t *testing.T) {
	_, env := newEnv(t)

	_, err := jvmbind.Int32().ToNative(env, rt.BoolValue(true))
	if !errors.Is(err, jvmbind.ErrKindMismatch) {
		t.Fatalf("err = %v, want ErrKindMismatch", err)
	}
}

func TestWideningRequiresOptIn(t *testing.T) {
	r := jvmbind.NewResolver(jvmbind.Config{})
	if _, err := r.Uint8(); !errors.Is(err, jvmbind.ErrWideningDisabled) {
		t.Fatalf("Uint8 err = %v, want ErrWideningDisabled", err)
	}
	if _, err := r.Uint16(); !errors.Is(err, jvmbind.ErrWideningDisabled) {
		t.Fatalf("Uint16 err = %v, want ErrWideningDisabled", err)
	}
	if _, err := r.Uint32(); !errors.Is(err, jvmbind.ErrWideningDisabled) {
		t.Fatalf("Uint32 err = %v, want ErrWideningDisabled", err)
	}
}

func TestWideningRoundTrips(t *testing.T) {
	_, env := newEnv(t)
	r := jvmbind.NewResolver(jvmbind.Config{AllowWidening: true})

	u8, err := r.Uint8()
	if err != nil {
		t.Fatal(err)
	}
	if u8.Descriptor() != "S" {
		t.Fatalf("uint8 descriptor = %q, want S", u8.Descriptor())
	}
	roundTrip(t, env, u8, uint8(255))

	u16, err := r.Uint16()
	if err != nil {
		t.Fatal(err)
	}
	roundTrip(t, env, u16, uint16(65535))

	u32, err := r.Uint32()
	if err != nil {
		t.Fatal(err)
	}
	roundTrip(t, env, u32, uint32(4294967295))
}

func TestWideningRejectsOutOfRange(t *testing.T) {
	_, env := newEnv(t)
	r := jvmbind.NewResolver(jvmbind.Config{AllowWidening: true})

	u8, err := r.Uint8()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := u8.ToNative(env, rt.Int16Value(-1)); !errors.Is(err, jvmbind.ErrOutOfRange) {
		t.Fatalf("negative err = %v, want ErrOutOfRange", err)
	}
	if _, err := u8.ToNative(env, rt.Int16Value(256)); !errors.Is(err, jvmbind.ErrOutOfRange) {
		t.Fatalf("overflow err = %v, want ErrOutOfRange", err)
	}
}
