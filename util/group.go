// Package util - Small helpers shared across the pipeline.
package util

// Groups is an insertion-ordered multimap. Keys appear in the order they were
// first added and values keep their relative order within a key, which lets
// grouped data stay index-aligned with companion slices.
type Groups[K comparable, V any] struct {
	keys   []K
	values map[K][]V
}

// NewGroups returns an empty ordered group collection.
func NewGroups[K comparable, V any]() *Groups[K, V] {
	return &Groups[K, V]{values: make(map[K][]V)}
}

// Add appends v to the group for key, creating the group on first use.
func (g *Groups[K, V]) Add(key K, v V) {
	if _, ok := g.values[key]; !ok {
		g.keys = append(g.keys, key)
	}
	g.values[key] = append(g.values[key], v)
}

// Keys returns the group keys in first-insertion order.
func (g *Groups[K, V]) Keys() []K {
	return g.keys
}

// Get returns the values accumulated for key, in insertion order.
func (g *Groups[K, V]) Get(key K) []V {
	return g.values[key]
}

// Len returns the number of distinct keys.
func (g *Groups[K, V]) Len() int {
	return len(g.keys)
}

// GroupBy partitions values into ordered groups using the supplied key
// function. Every value lands in exactly one group; no values are dropped or
// duplicated.
func GroupBy[K comparable, V any](values []V, key func(V) K) *Groups[K, V] {
	g := NewGroups[K, V]()
	for _, v := range values {
		g.Add(key(v), v)
	}
	return g
}
