package jvmbind_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
	"github.com/jvmbind/jvmbind-go/pkg/jvmbind/rt"
)

func TestArrayDescriptors(t *testing.T) {
	require.Equal(t, "[I", jvmbind.Array(jvmbind.Int32()).Descriptor())
	require.Equal(t, "[J", jvmbind.Array(jvmbind.Int64()).Descriptor())
	require.Equal(t, "[D", jvmbind.Array(jvmbind.Float64()).Descriptor())
	require.Equal(t, "[Z", jvmbind.Array(jvmbind.Bool()).Descriptor())
	require.Equal(t, "[C", jvmbind.Array(jvmbind.Char16()).Descriptor())
}

func TestArrayRoundTrip(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.Array(jvmbind.Int32())
	in := []int32{3, 1, 4, 1, 5}
	raw, err := b.ToManaged(env, in)
	require.NoError(t, err)
	out, err := b.ToNative(env, raw)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(in, out))
}

func TestArrayRoundTripFloats(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.Array(jvmbind.Float64())
	in := []float64{0, -1.5, 2.25}
	raw, err := b.ToManaged(env, in)
	require.NoError(t, err)
	out, err := b.ToNative(env, raw)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(in, out))
}

func TestEmptyArrayRoundTrip(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.Array(jvmbind.Bool())
	raw, err := b.ToManaged(env, nil)
	require.NoError(t, err)
	out, err := b.ToNative(env, raw)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Len(t, out, 0)
}

func TestArrayRejectsNull(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.Array(jvmbind.Int32())
	_, err := b.ToNative(env, rt.ObjectValue(0))
	require.ErrorIs(t, err, jvmbind.ErrNullObject)
}

func TestArrayRejectsNonPrimitiveElement(t *testing.T) {
	require.Panics(t, func() {
		jvmbind.Array(jvmbind.String())
	})
}

func TestArrayIndexOutOfRangePends(t *testing.T) {
	_, env := newEnv(t)

	arr := env.NewArray(rt.KindInt32, 2)
	require.False(t, env.ExceptionCheck())
	env.SetArrayElement(arr, 5, rt.Int32Value(1))
	require.True(t, env.ExceptionCheck())
	env.ExceptionClear()
}
