package jvmbind_test

import (
	"errors"
	"testing"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

func TestBoxedRoundTrips(t *testing.T) {
	_, env := newEnv(t)

	roundTrip(t, env, jvmbind.Boxed(jvmbind.Bool()), true)
	roundTrip(t, env, jvmbind.Boxed(jvmbind.Int8()), int8(-7))
	roundTrip(t, env, jvmbind.Boxed(jvmbind.Int16()), int16(-300))
	roundTrip(t, env, jvmbind.Boxed(jvmbind.Char16()), uint16('€'))
	roundTrip(t, env, jvmbind.Boxed(jvmbind.Int32()), int32(123456))
	roundTrip(t, env, jvmbind.Boxed(jvmbind.Int64()), int64(1)<<40)
	roundTrip(t, env, jvmbind.Boxed(jvmbind.Float32()), float32(0.5))
	roundTrip(t, env, jvmbind.Boxed(jvmbind.Float64()), -0.25)
}

func TestBoxedDescriptor(t *testing.T) {
	if got := jvmbind.Boxed(jvmbind.Int32()).Descriptor(); got != "Ljava/lang/Integer;" {
		t.Fatalf("descriptor = %q", got)
	}
}

func TestBoxedRejectsWrongClass(t *testing.T) {
	_, env := newEnv(t)

	asLong, err := jvmbind.Boxed(jvmbind.Int64()).ToManaged(env, int64(1))
	if err != nil {
		t.Fatal(err)
	}
	_, err = jvmbind.Boxed(jvmbind.Int32()).ToNative(env, asLong)
	if !errors.Is(err, jvmbind.ErrClassCast) {
		t.Fatalf("err = %v, want ErrClassCast", err)
	}
}

func TestBoxedRejectsNull(t *testing.T) {
	_, env := newEnv(t)

	_, err := jvmbind.Boxed(jvmbind.Int32()).ToNative(env, rt.ObjectValue(0))
	if !errors.Is(err, jvmbind.ErrNullObject) {
		t.Fatalf("err = %v, want ErrNullObject", err)
	}
}
