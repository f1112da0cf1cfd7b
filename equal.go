package multimap

import "golang.org/x/exp/slices"

// Equal reports whether a and b hold the same keys and, for every key, the
// same value sequence in the same order. The insertion interleaving across
// different keys does not matter, only the per-key sequences do.
func Equal[K, V comparable](a, b *MultiMap[K, V]) bool {
	return EqualFunc(a, b, func(x, y V) bool { return x == y })
}

// EqualFunc is Equal with a custom value comparison, for value types that
// are not comparable.
func EqualFunc[K comparable, V any](a, b *MultiMap[K, V], eq func(V, V) bool) bool {
	if len(a.items) != len(b.items) {
		return false
	}

	for key, values := range a.items {
		other, found := b.items[key]
		if !found {
			return false
		}
		if !slices.EqualFunc(values, other, eq) {
			return false
		}
	}

	return true
}
