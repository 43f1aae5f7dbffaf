package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGroupByOrderAndTotality validates that grouping preserves first
// insertion order of keys, relative order of values, and partitions the
// input with no loss or duplication.
func TestGroupByOrderAndTotality(t *testing.T) {
	values := []int{10, 21, 12, 33, 14, 25}
	groups := GroupBy(values, func(v int) int { return v % 10 })

	require.Equal(t, []int{0, 1, 2, 3, 4, 5}, groups.Keys())
	assert.Equal(t, []int{10}, groups.Get(0))
	assert.Equal(t, []int{21}, groups.Get(1))

	total := 0
	for _, k := range groups.Keys() {
		total += len(groups.Get(k))
	}
	assert.Equal(t, len(values), total)
}

func TestGroupsInsertionOrder(t *testing.T) {
	g := NewGroups[string, int]()
	g.Add("b", 1)
	g.Add("a", 2)
	g.Add("b", 3)

	assert.Equal(t, []string{"b", "a"}, g.Keys())
	assert.Equal(t, []int{1, 3}, g.Get("b"))
	assert.Equal(t, []int{2}, g.Get("a"))
	assert.Equal(t, 2, g.Len())
}

func TestGroupsMissingKey(t *testing.T) {
	g := NewGroups[string, int]()
	assert.Empty(t, g.Get("absent"))
	assert.Equal(t, 0, g.Len())
}
