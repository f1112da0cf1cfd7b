package ordered

import (
	"context"

	"github.com/denismitr/dll"
	"github.com/havarnov/multimap"
)

type (
	// MultiMap keeps values of a key in insertion order like the root
	// multimap type, and additionally iterates keys in the order they were
	// first inserted. Removing a key and inserting it again moves it to
	// the back.
	//
	// MultiMap is not safe for concurrent use.
	MultiMap[K comparable, V any] struct {
		m    map[K]*dll.Element[multimap.Pair[K, []V]]
		list *dll.DoublyLinkedList[multimap.Pair[K, []V]]
		size int
	}

	ForEachFn[K comparable, V any]      func(key K, value V, order int)
	ForEachUntilFn[K comparable, V any] func(key K, value V, order int) bool
	LessFn[K comparable, V any]         func(a, b multimap.Pair[K, []V]) (less bool)
)

func New[K comparable, V any]() *MultiMap[K, V] {
	return &MultiMap[K, V]{
		m:    make(map[K]*dll.Element[multimap.Pair[K, []V]]),
		list: dll.New[multimap.Pair[K, []V]](),
	}
}

// From builds an ordered MultiMap by inserting the pairs in slice order.
func From[K comparable, V any](pairs []multimap.Pair[K, V]) *MultiMap[K, V] {
	mm := New[K, V]()
	for _, p := range pairs {
		mm.Insert(p.Key, p.Value)
	}
	return mm
}

// Insert appends value to the sequence stored under key. A new key goes to
// the back of the key order.
func (mm *MultiMap[K, V]) Insert(key K, value V) {
	existingEl, found := mm.m[key]
	if !found {
		p := multimap.Pair[K, []V]{Key: key, Value: []V{value}}
		newEl := dll.NewElement(p)
		mm.m[key] = newEl
		mm.list.PushTail(newEl)
		mm.size++
		return
	}

	p := existingEl.Value()
	p.Value = append(p.Value, value)
	existingEl.ReplaceValue(p)
	mm.size++
}

// Get returns the first value stored under key in insertion order.
func (mm *MultiMap[K, V]) Get(key K) (V, bool) {
	el, found := mm.m[key]
	if !found {
		return getZero[V](), false
	}

	return el.Value().Value[0], true
}

// GetVec returns the full value sequence stored under key.
func (mm *MultiMap[K, V]) GetVec(key K) ([]V, bool) {
	el, found := mm.m[key]
	if !found {
		return nil, false
	}

	return el.Value().Value, true
}

func (mm *MultiMap[K, V]) Has(key K) bool {
	_, found := mm.m[key]
	return found
}

// HasRemove removes the key and returns its whole value sequence.
func (mm *MultiMap[K, V]) HasRemove(key K) ([]V, bool) {
	el, exists := mm.m[key]
	if !exists {
		return nil, false
	}

	values := el.Value().Value
	delete(mm.m, key)
	mm.list.Remove(el)
	mm.size -= len(values)

	return values, true
}

// Remove removes the key and returns its whole value sequence,
// or nil when the key is absent.
func (mm *MultiMap[K, V]) Remove(key K) []V {
	values, _ := mm.HasRemove(key)
	return values
}

// Len is the total number of stored values across all keys.
func (mm *MultiMap[K, V]) Len() int {
	return mm.size
}

func (mm *MultiMap[K, V]) IsEmpty() bool {
	return mm.size == 0
}

// Keys returns the distinct keys in first-insertion order.
func (mm *MultiMap[K, V]) Keys() []K {
	keys := make([]K, 0, len(mm.m))
	curr := mm.list.Head()
	for curr != nil {
		keys = append(keys, curr.Value().Key)
		curr = curr.Next()
	}
	return keys
}

// ForEach calls f once per stored value: keys in first-insertion order,
// values of a key in insertion order. order counts emitted values.
func (mm *MultiMap[K, V]) ForEach(f ForEachFn[K, V]) {
	curr := mm.list.Head()
	order := 0
	for curr != nil {
		p := curr.Value()
		for _, value := range p.Value {
			f(p.Key, value, order)
			order++
		}
		curr = curr.Next()
	}
}

// ForEachUntil walks like ForEach but stops as soon as f returns false.
func (mm *MultiMap[K, V]) ForEachUntil(f ForEachUntilFn[K, V]) {
	curr := mm.list.Head()
	order := 0
	for curr != nil {
		p := curr.Value()
		for _, value := range p.Value {
			if !f(p.Key, value, order) {
				return
			}
			order++
		}
		curr = curr.Next()
	}
}

// Pairs lazily emits one pair per stored value in deterministic order:
// keys in first-insertion order, values of a key in insertion order. The
// map must not be mutated until the channel is drained or ctx is
// cancelled.
func (mm *MultiMap[K, V]) Pairs(ctx context.Context) <-chan multimap.Pair[K, V] {
	resultCh := make(chan multimap.Pair[K, V])

	go func() {
		defer close(resultCh)

		curr := mm.list.Head()
		for curr != nil {
			p := curr.Value()
			for _, value := range p.Value {
				select {
				case resultCh <- multimap.Pair[K, V]{Key: p.Key, Value: value}:
				case <-ctx.Done():
					return
				}
			}
			curr = curr.Next()
		}
	}()

	return resultCh
}

// Clone returns a deep copy preserving key order.
func (mm *MultiMap[K, V]) Clone() *MultiMap[K, V] {
	result := New[K, V]()

	curr := mm.list.Head()
	for curr != nil {
		p := curr.Value()
		for _, value := range p.Value {
			result.Insert(p.Key, value)
		}
		curr = curr.Next()
	}

	return result
}

// SortBy sorts the key order of a clone and returns the clone.
func (mm *MultiMap[K, V]) SortBy(lessFn LessFn[K, V]) *MultiMap[K, V] {
	clone := mm.Clone()
	clone.list.Sort(dll.LessFn[multimap.Pair[K, []V]](lessFn))
	return clone
}

// SortInPlaceBy sorts the key order in place.
func (mm *MultiMap[K, V]) SortInPlaceBy(lessFn LessFn[K, V]) *MultiMap[K, V] {
	mm.list.Sort(dll.LessFn[multimap.Pair[K, []V]](lessFn))
	return mm
}

func getZero[T any]() T {
	var result T
	return result
}
