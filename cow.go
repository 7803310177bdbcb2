package cow

import "github.com/npillmayer/cow/maybe"

// Forkable is implemented by collections which are able to produce an independent
// version of themselves in constant time.
type Forkable[T any] interface {
	Fork() T
}

// Map is the contract of the map collections of this module.
//
// Lookups of absent keys are not errors: Get reports false, and Remove
// reports an unchanged map.
type Map[K any, V any] interface {
	Len() int
	IsEmpty() bool
	Get(key K) (V, bool)
	ContainsKey(key K) bool
	ContainsValue(value V) bool
	Put(key K, value V) Change[V]
	Remove(key K) Change[V]
	RemoveIf(key K, value V) bool // remove key only if it is mapped to value
	Clear()
	Range(f func(K, V) bool)
}

// OrderedMap is a Map which keeps its keys sorted.
type OrderedMap[K any, V any] interface {
	Map[K, V]
	PutIfAbsent(key K, value V) (V, bool)
	First() maybe.Maybe[Entry[K, V]]
	Last() maybe.Maybe[Entry[K, V]]
}

// Sequence is the contract of index-ordered collections.
// Indices outside of [0, Len()) panic with an error wrapping ErrIndexOutOfBounds.
type Sequence[T any] interface {
	Len() int
	IsEmpty() bool
	Get(i int) T
	Set(i int, value T) T
	Push(value T)
	Insert(i int, value T)
	InsertAll(i int, values ...T)
	Remove(i int) T
	RemoveRange(from, to int)
	Clear()
	Range(f func(int, T) bool)
}

// --- Entry -----------------------------------------------------------------

// Entry is a key/value pair, as produced by map iteration.
type Entry[K, V any] struct {
	Key   K
	Value V
}

// E creates an entry.
func E[K, V any](k K, v V) Entry[K, V] {
	return Entry[K, V]{k, v}
}

// Decompose returns key and value of an entry.
func (e Entry[K, V]) Decompose() (K, V) {
	return e.Key, e.Value
}

// Matches is true if e and other hold equal keys and equal values, as decided by Equal.
func (e Entry[K, V]) Matches(other Entry[K, V]) bool {
	return Equal(e.Key, other.Key) && Equal(e.Value, other.Value)
}
