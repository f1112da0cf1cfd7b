package multimap

// Pair is a single key/value association. A key holding N values
// produces N pairs during iteration.
type Pair[K comparable, V any] struct {
	Key   K
	Value V
}
