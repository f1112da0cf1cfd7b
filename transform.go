package multimap

type (
	// ValueEffector transforms a single value, keeping its key.
	ValueEffector[K comparable, V any] func(k K, v V) V

	// Predicate allows to filter key value pairs.
	Predicate[K comparable, V any] func(k K, v V) bool

	// Reducer takes a carry from the previous iteration, a key and a value
	// and returns a new version of the carry.
	Reducer[K comparable, V, R any] func(carry R, k K, v V) R
)

// Map produces a new MultiMap with every value replaced by mvf(k, v).
// Per-key value order is preserved.
func Map[K comparable, V any](
	in *MultiMap[K, V],
	mvf ValueEffector[K, V],
) *MultiMap[K, V] {
	result := NewWithCapacity[K, V](len(in.items))
	for k, values := range in.items {
		mapped := make([]V, len(values))
		for i, v := range values {
			mapped[i] = mvf(k, v)
		}
		result.items[k] = mapped
	}
	result.size = in.size

	return result
}

// Filter produces a new MultiMap holding only the pairs matched by pred.
// Keys whose every value is rejected are absent from the result.
func Filter[K comparable, V any](
	in *MultiMap[K, V],
	pred Predicate[K, V],
) *MultiMap[K, V] {
	result := NewWithCapacity[K, V](len(in.items))
	for k, values := range in.items {
		for _, v := range values {
			if pred(k, v) {
				result.Insert(k, v)
			}
		}
	}

	return result
}

// Reduce folds every stored pair into a single value, starting from
// initial. Per-key value order is respected; key order is not defined.
func Reduce[K comparable, V, R any](
	in *MultiMap[K, V],
	reducer Reducer[K, V, R],
	initial R,
) R {
	carry := initial
	for k, values := range in.items {
		for _, v := range values {
			carry = reducer(carry, k, v)
		}
	}

	return carry
}
