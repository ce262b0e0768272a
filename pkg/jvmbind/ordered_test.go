package jvmbind

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestOrderedSetKeepsAscendingOrder(t *testing.T) {
	s := NewOrderedSet(9, 2, 7, 2, 1)
	if got, want := s.Len(), 4; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if diff := cmp.Diff([]int{1, 2, 7, 9}, s.Values()); diff != "" {
		t.Fatalf("Values() mismatch (-want +got):\n%s", diff)
	}
	if !s.Contains(7) || s.Contains(3) {
		t.Fatalf("Contains(7)=%v Contains(3)=%v", s.Contains(7), s.Contains(3))
	}
}

func TestOrderedSetValuesIsACopy(t *testing.T) {
	s := NewOrderedSet("b", "a")
	v := s.Values()
	v[0] = "z"
	if diff := cmp.Diff([]string{"a", "b"}, s.Values()); diff != "" {
		t.Fatalf("Values() mutated through copy (-want +got):\n%s", diff)
	}
}

func TestOrderedMapKeepsKeyOrder(t *testing.T) {
	m := NewOrderedMap[string, int32]()
	m.Set("mango", 2)
	m.Set("apple", 1)
	m.Set("zebra", 3)
	m.Set("apple", 4) // replace keeps one key

	if got, want := m.Len(), 3; got != want {
		t.Fatalf("Len() = %d, want %d", got, want)
	}
	if diff := cmp.Diff([]string{"apple", "mango", "zebra"}, m.Keys()); diff != "" {
		t.Fatalf("Keys() mismatch (-want +got):\n%s", diff)
	}
	if v, ok := m.Get("apple"); !ok || v != 4 {
		t.Fatalf("Get(apple) = %d, %v", v, ok)
	}
	if _, ok := m.Get("pear"); ok {
		t.Fatal("Get(pear) reported presence")
	}
}
