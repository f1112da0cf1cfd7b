package multimap

import (
	"golang.org/x/exp/constraints"
	"golang.org/x/exp/slices"
)

// SortedKeys returns the keys of mm in ascending order. Useful when a
// deterministic traversal over the hash-backed map is needed.
func SortedKeys[K constraints.Ordered, V any](mm *MultiMap[K, V]) []K {
	keys := mm.Keys()
	slices.Sort(keys)
	return keys
}
