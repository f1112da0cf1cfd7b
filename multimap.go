package multimap

import (
	"context"
	"fmt"

	"github.com/samber/lo"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

type (
	// ForEachFn is invoked once per stored value.
	ForEachFn[K comparable, V any] func(key K, value V)

	// UpdateFn receives the current value sequence of a key and returns
	// its replacement. Returning an empty slice removes the key.
	UpdateFn[V any] func(values []V) []V
)

// MultiMap associates every key with an ordered sequence of one or more
// values. Values inserted under the same key keep their insertion order;
// keys themselves are unordered. A key never maps to an empty sequence:
// any operation that would leave one behind removes the key instead.
//
// The zero value is an empty MultiMap ready to use.
// MultiMap is not safe for concurrent use.
type MultiMap[K comparable, V any] struct {
	items map[K][]V
	size  int
}

func New[K comparable, V any]() *MultiMap[K, V] {
	return &MultiMap[K, V]{items: make(map[K][]V)}
}

// NewWithCapacity sizes the key table up front.
func NewWithCapacity[K comparable, V any](capacity int) *MultiMap[K, V] {
	return &MultiMap[K, V]{items: make(map[K][]V, capacity)}
}

// From builds a MultiMap by inserting the pairs in slice order, so values
// sharing a key keep their relative input order.
func From[K comparable, V any](pairs []Pair[K, V]) *MultiMap[K, V] {
	mm := NewWithCapacity[K, V](len(pairs))
	for _, p := range pairs {
		mm.Insert(p.Key, p.Value)
	}
	return mm
}

// FromMap builds a MultiMap holding a single value per key.
func FromMap[K comparable, V any](m map[K]V) *MultiMap[K, V] {
	mm := NewWithCapacity[K, V](len(m))
	for k, v := range m {
		mm.Insert(k, v)
	}
	return mm
}

// Insert appends value to the sequence stored under key, creating the
// sequence if the key is new. Repeated values are kept without comparison.
func (mm *MultiMap[K, V]) Insert(key K, value V) {
	if mm.items == nil {
		mm.items = make(map[K][]V)
	}

	mm.items[key] = append(mm.items[key], value)
	mm.size++
}

// InsertVec appends all values to the sequence stored under key.
// An empty values slice leaves the map untouched.
func (mm *MultiMap[K, V]) InsertVec(key K, values []V) {
	if len(values) == 0 {
		return
	}
	if mm.items == nil {
		mm.items = make(map[K][]V)
	}

	mm.items[key] = append(mm.items[key], values...)
	mm.size += len(values)
}

// Get returns the first value stored under key in insertion order.
func (mm *MultiMap[K, V]) Get(key K) (V, bool) {
	values, found := mm.items[key]
	if !found {
		return getZero[V](), false
	}

	return values[0], true
}

// GetPtr returns a pointer to the first value stored under key, allowing
// in-place update without reinserting. The pointer is valid until the next
// structural mutation of the key.
func (mm *MultiMap[K, V]) GetPtr(key K) (*V, bool) {
	values, found := mm.items[key]
	if !found {
		return nil, false
	}

	return &values[0], true
}

// GetVec returns the full value sequence stored under key. The returned
// slice is a live view: element assignments are visible to the map, but
// appends are not. Use Insert or UpdateVec to change the sequence length.
func (mm *MultiMap[K, V]) GetVec(key K) ([]V, bool) {
	values, found := mm.items[key]
	return values, found
}

// UpdateVec applies f to the sequence stored under key and stores the
// result, enabling bulk edits with a single lookup. When f returns an
// empty slice the key is removed. Returns the stored sequence and whether
// the key existed.
func (mm *MultiMap[K, V]) UpdateVec(key K, f UpdateFn[V]) ([]V, bool) {
	values, found := mm.items[key]
	if !found {
		return nil, false
	}

	updated := f(values)
	mm.size += len(updated) - len(values)
	if len(updated) == 0 {
		delete(mm.items, key)
		return nil, true
	}

	mm.items[key] = updated
	return updated, true
}

// Set replaces the sequence stored under key with values. An empty values
// slice removes the key.
func (mm *MultiMap[K, V]) Set(key K, values []V) {
	mm.size += len(values) - len(mm.items[key])
	if len(values) == 0 {
		delete(mm.items, key)
		return
	}
	if mm.items == nil {
		mm.items = make(map[K][]V)
	}

	mm.items[key] = values
}

// MustGet returns the first value stored under key and panics when the key
// is absent. Callers that need graceful handling use Get instead.
func (mm *MultiMap[K, V]) MustGet(key K) V {
	values, found := mm.items[key]
	if !found {
		panic(fmt.Sprintf("multimap: no values stored under key %v", key))
	}

	return values[0]
}

func (mm *MultiMap[K, V]) Has(key K) bool {
	_, found := mm.items[key]
	return found
}

// HasRemove removes the key and returns its whole value sequence.
func (mm *MultiMap[K, V]) HasRemove(key K) ([]V, bool) {
	values, found := mm.items[key]
	if !found {
		return nil, false
	}

	delete(mm.items, key)
	mm.size -= len(values)

	return values, true
}

// Remove removes the key and returns its whole value sequence,
// or nil when the key is absent.
func (mm *MultiMap[K, V]) Remove(key K) []V {
	values, _ := mm.HasRemove(key)
	return values
}

// Len is the total number of stored values across all keys,
// not the number of keys.
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

// Values returns every stored value. Values of the same key stay adjacent
// and in insertion order; key groups are unordered.
func (mm *MultiMap[K, V]) Values() []V {
	return lo.Flatten(maps.Values(mm.items))
}

// Clone returns a deep copy: the sequences of the clone are independent of
// the original.
func (mm *MultiMap[K, V]) Clone() *MultiMap[K, V] {
	clone := NewWithCapacity[K, V](len(mm.items))
	for key, values := range mm.items {
		clone.items[key] = slices.Clone(values)
	}
	clone.size = mm.size

	return clone
}

// ForEach calls f once per stored value, values of a key in insertion
// order, keys in unspecified order.
func (mm *MultiMap[K, V]) ForEach(f ForEachFn[K, V]) {
	for key, values := range mm.items {
		for _, value := range values {
			f(key, value)
		}
	}
}

// Pairs lazily emits one pair per stored value. Every call starts a fresh
// iteration over the current contents. The map must not be mutated until
// the channel is drained or ctx is cancelled.
func (mm *MultiMap[K, V]) Pairs(ctx context.Context) <-chan Pair[K, V] {
	resultCh := make(chan Pair[K, V])

	go func() {
		defer close(resultCh)

		for key, values := range mm.items {
			for _, value := range values {
				select {
				case resultCh <- Pair[K, V]{Key: key, Value: value}:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return resultCh
}

func getZero[T any]() T {
	var result T
	return result
}
