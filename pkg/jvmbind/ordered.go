package jvmbind

import (
	"cmp"
	"slices"
)

// OrderedSet is the native counterpart of the runtime's sorted set category:
// elements iterate in ascending order. Marshaling preserves the category, so
// a sorted native container never degrades to a hash container on the managed
// side (or back).
type OrderedSet[T cmp.Ordered] struct {
	keys []T
}

// NewOrderedSet builds a set from the given elements.
func NewOrderedSet[T cmp.Ordered](elems ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{}
	for _, e := range elems {
		s.Add(e)
	}
	return s
}

// Add inserts an element, keeping ascending order. Duplicates are ignored.
func (s *OrderedSet[T]) Add(v T) {
	i, ok := slices.BinarySearch(s.keys, v)
	if ok {
		return
	}
	s.keys = slices.Insert(s.keys, i, v)
}

// Contains reports membership.
func (s *OrderedSet[T]) Contains(v T) bool {
	_, ok := slices.BinarySearch(s.keys, v)
	return ok
}

// Len returns the number of elements.
func (s *OrderedSet[T]) Len() int { return len(s.keys) }

// Values returns the elements in ascending order. The slice is a copy.
func (s *OrderedSet[T]) Values() []T {
	return slices.Clone(s.keys)
}

// OrderedMap is the native counterpart of the runtime's sorted map category:
// keys iterate in ascending order.
type OrderedMap[K cmp.Ordered, V any] struct {
	keys []K
	vals map[K]V
}

// NewOrderedMap returns an empty ordered map.
func NewOrderedMap[K cmp.Ordered, V any]() *OrderedMap[K, V] {
	return &OrderedMap[K, V]{vals: make(map[K]V)}
}

// Set inserts or replaces the value for key, keeping keys sorted.
func (m *OrderedMap[K, V]) Set(k K, v V) {
	if _, exists := m.vals[k]; !exists {
		i, _ := slices.BinarySearch(m.keys, k)
		m.keys = slices.Insert(m.keys, i, k)
	}
	m.vals[k] = v
}

// Get returns the value for key and whether it is present.
func (m *OrderedMap[K, V]) Get(k K) (V, bool) {
	v, ok := m.vals[k]
	return v, ok
}

// Len returns the number of entries.
func (m *OrderedMap[K, V]) Len() int { return len(m.keys) }

// Keys returns the keys in ascending order. The slice is a copy.
func (m *OrderedMap[K, V]) Keys() []K {
	return slices.Clone(m.keys)
}
