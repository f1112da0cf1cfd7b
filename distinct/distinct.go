package distinct

import (
	mapset "github.com/deckarep/golang-set/v2"
	"golang.org/x/exp/maps"
)

// MultiMap associates every key with a set of distinct values: inserting
// the same value under the same key twice stores it once. Unlike the
// sequence-backed multimap types, values of a key are unordered. A key
// never maps to an empty set; removing the last value removes the key.
//
// MultiMap is not safe for concurrent use.
type MultiMap[K comparable, V comparable] struct {
	items map[K]mapset.Set[V]
	size  int
}

func New[K comparable, V comparable]() *MultiMap[K, V] {
	return &MultiMap[K, V]{items: make(map[K]mapset.Set[V])}
}

// Insert adds value to the set stored under key,
// reporting whether the set was modified.
func (mm *MultiMap[K, V]) Insert(key K, value V) (added bool) {
	s, found := mm.items[key]
	if !found {
		s = mapset.NewThreadUnsafeSet[V]()
		mm.items[key] = s
	}

	if s.Add(value) {
		mm.size++
		added = true
	}

	return added
}

// Remove deletes value from the set stored under key, removing the key
// entirely when its set becomes empty.
func (mm *MultiMap[K, V]) Remove(key K, value V) (removed bool) {
	s, found := mm.items[key]
	if !found || !s.Contains(value) {
		return false
	}

	s.Remove(value)
	mm.size--
	if s.Cardinality() == 0 {
		delete(mm.items, key)
	}

	return true
}

// RemoveKey drops the key with all its values.
func (mm *MultiMap[K, V]) RemoveKey(key K) bool {
	s, found := mm.items[key]
	if !found {
		return false
	}

	delete(mm.items, key)
	mm.size -= s.Cardinality()

	return true
}

func (mm *MultiMap[K, V]) Has(key K) bool {
	_, found := mm.items[key]
	return found
}

// Contains reports whether value is stored under key.
func (mm *MultiMap[K, V]) Contains(key K, value V) bool {
	s, found := mm.items[key]
	return found && s.Contains(value)
}

// Get returns the values stored under key in unspecified order.
func (mm *MultiMap[K, V]) Get(key K) ([]V, bool) {
	s, found := mm.items[key]
	if !found {
		return nil, false
	}

	return s.ToSlice(), true
}

// Len is the total number of stored values across all keys.
func (mm *MultiMap[K, V]) Len() int {
	return mm.size
}

func (mm *MultiMap[K, V]) IsEmpty() bool {
	return mm.size == 0
}

// Keys returns the distinct keys in unspecified order.
func (mm *MultiMap[K, V]) Keys() []K {
	return maps.Keys(mm.items)
}

// Values returns every stored value in unspecified order.
func (mm *MultiMap[K, V]) Values() []V {
	values := make([]V, 0, mm.size)
	for _, s := range mm.items {
		values = append(values, s.ToSlice()...)
	}
	return values
}
