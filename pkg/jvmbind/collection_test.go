package jvmbind_test

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"github.com/jvmbind/jvmbind-go/pkg/jvmbind"
)

func TestListRoundTrip(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.List(jvmbind.Int32())
	require.Equal(t, "Ljava/util/List;", b.Descriptor())

	in := []int32{3, 1, 4, 1, 5}
	raw, err := b.ToManaged(env, in)
	require.NoError(t, err)
	out, err := b.ToNative(env, raw)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(in, out))
}

func TestListOfStringsRoundTrip(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.List(jvmbind.String())
	in := []string{"a", "b", "a"}
	raw, err := b.ToManaged(env, in)
	require.NoError(t, err)
	out, err := b.ToNative(env, raw)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(in, out))
}

func TestNestedListRoundTrip(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.List(jvmbind.List(jvmbind.Int32()))
	in := [][]int32{{1, 2}, {}, {3}}
	raw, err := b.ToManaged(env, in)
	require.NoError(t, err)
	out, err := b.ToNative(env, raw)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(in, out))
}

func TestHashSetDeduplicates(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.HashSet(jvmbind.String())
	require.Equal(t, "Ljava/util/Set;", b.Descriptor())

	in := map[string]struct{}{"x": {}, "y": {}}
	raw, err := b.ToManaged(env, in)
	require.NoError(t, err)
	out, err := b.ToNative(env, raw)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(in, out))
}

func TestSortedSetKeepsOrder(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.SortedSet(jvmbind.Int32())
	require.Equal(t, "Ljava/util/SortedSet;", b.Descriptor())

	in := jvmbind.NewOrderedSet[int32](9, 2, 7, 2, 1)
	raw, err := b.ToManaged(env, in)
	require.NoError(t, err)
	out, err := b.ToNative(env, raw)
	require.NoError(t, err)
	require.Equal(t, []int32{1, 2, 7, 9}, out.Values())
}

func TestHashMapRoundTrip(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.HashMap(jvmbind.String(), jvmbind.Int32())
	require.Equal(t, "Ljava/util/Map;", b.Descriptor())

	in := map[string]int32{"one": 1, "two": 2, "three": 3}
	raw, err := b.ToManaged(env, in)
	require.NoError(t, err)
	out, err := b.ToNative(env, raw)
	require.NoError(t, err)
	require.Empty(t, cmp.Diff(in, out))
}

func TestSortedMapKeepsKeyOrder(t *testing.T) {
	_, env := newEnv(t)

	b := jvmbind.SortedMap(jvmbind.String(), jvmbind.List(jvmbind.Int32()))
	require.Equal(t, "Ljava/util/SortedMap;", b.Descriptor())

	in := jvmbind.NewOrderedMap[string, []int32]()
	in.Set("zebra", []int32{1})
	in.Set("apple", []int32{2, 3})
	in.Set("mango", nil)

	raw, err := b.ToManaged(env, in)
	require.NoError(t, err)
	out, err := b.ToNative(env, raw)
	require.NoError(t, err)

	require.Equal(t, []string{"apple", "mango", "zebra"}, out.Keys())
	got, ok := out.Get("apple")
	require.True(t, ok)
	require.Equal(t, []int32{2, 3}, got)
}

func TestEmptyCollections(t *testing.T) {
	_, env := newEnv(t)

	lb := jvmbind.List(jvmbind.Int32())
	raw, err := lb.ToManaged(env, nil)
	require.NoError(t, err)
	out, err := lb.ToNative(env, raw)
	require.NoError(t, err)
	require.NotNil(t, out)
	require.Len(t, out, 0)

	mb := jvmbind.HashMap(jvmbind.Int32(), jvmbind.Int32())
	mraw, err := mb.ToManaged(env, nil)
	require.NoError(t, err)
	mout, err := mb.ToNative(env, mraw)
	require.NoError(t, err)
	require.Len(t, mout, 0)
}
