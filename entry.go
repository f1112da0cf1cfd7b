package multimap

// Entry is a view into the sequence stored under a single key, occupied or
// vacant. It avoids repeated lookups when a caller wants to read or create
// in one step.
type Entry[K comparable, V any] struct {
	mm  *MultiMap[K, V]
	key K
}

func (mm *MultiMap[K, V]) Entry(key K) Entry[K, V] {
	return Entry[K, V]{mm: mm, key: key}
}

// OrInsert inserts def when the key is vacant and returns a pointer to the
// first value of the sequence. The pointer is valid until the next
// structural mutation of the key.
func (e Entry[K, V]) OrInsert(def V) *V {
	if !e.mm.Has(e.key) {
		e.mm.Insert(e.key, def)
	}

	ptr, _ := e.mm.GetPtr(e.key)
	return ptr
}

// OrInsertVec inserts defaults when the key is vacant and returns the
// stored sequence. An empty defaults slice on a vacant key stores nothing
// and returns nil.
func (e Entry[K, V]) OrInsertVec(defaults []V) []V {
	if !e.mm.Has(e.key) {
		e.mm.InsertVec(e.key, defaults)
	}

	values, _ := e.mm.GetVec(e.key)
	return values
}

// Insert appends value to the entry's sequence.
func (e Entry[K, V]) Insert(value V) {
	e.mm.Insert(e.key, value)
}

// Remove takes the whole sequence out of the map and returns it.
func (e Entry[K, V]) Remove() ([]V, bool) {
	return e.mm.HasRemove(e.key)
}
