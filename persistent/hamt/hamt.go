package hamt

import (
	"iter"

	"github.com/npillmayer/cow"
	"github.com/npillmayer/cow/internal/debug"
)

// Map is a copy-on-write hash map. The zero value is an empty map ready to use.
//
// A Map must not be written to concurrently. Forks of a map are independent of each
// other and may be handed to different goroutines.
type Map[K comparable, V any] struct {
	root       node[K, V]
	size       int
	generation uint64
	hasher     func(K) uint32
}

// Option configures a map at creation time.
type Option[K comparable] func(*config[K])

type config[K comparable] struct {
	hasher func(K) uint32
}

// WithHasher sets the hash function for keys. Keys which are equal must produce equal
// hash values. Default is cow.Hash.
func WithHasher[K comparable](h func(K) uint32) Option[K] {
	return func(c *config[K]) {
		c.hasher = h
	}
}

// New creates an empty map.
//
//     m := hamt.New[string, int]()
//     m.Put("answer", 42)
//
func New[K comparable, V any](opts ...Option[K]) *Map[K, V] {
	c := config[K]{}
	for _, option := range opts {
		option(&c)
	}
	m := &Map[K, V]{hasher: c.hasher}
	m.init()
	return m
}

// FromMap creates a map holding the entries of a Go map.
func FromMap[K comparable, V any](gomap map[K]V, opts ...Option[K]) *Map[K, V] {
	m := New[K, V](opts...)
	for k, v := range gomap {
		m.Put(k, v)
	}
	return m
}

func (m *Map[K, V]) init() {
	if m.hasher == nil {
		m.hasher = cow.Hash[K]
	}
	if m.root == nil {
		m.root = emptyNode[K, V](m.generation)
	}
}

// Fork returns an independent version of m in constant time.
// Subsequent writes to either m or the fork copy the parts of the trie they touch.
func (m *Map[K, V]) Fork() *Map[K, V] {
	m.init()
	m.generation++
	return &Map[K, V]{
		root:       m.root,
		size:       m.size,
		generation: m.generation,
		hasher:     m.hasher,
	}
}

// Len returns the number of entries in m.
func (m *Map[K, V]) Len() int {
	return m.size
}

// IsEmpty is true for maps without entries.
func (m *Map[K, V]) IsEmpty() bool {
	return m.size == 0
}

// Get returns the value mapped to key, if any.
func (m *Map[K, V]) Get(key K) (V, bool) {
	if m.root == nil {
		var zero V
		return zero, false
	}
	return m.root.find(key, m.hasher(key), 0)
}

// ContainsKey is true if m holds an entry for key.
func (m *Map[K, V]) ContainsKey(key K) bool {
	_, ok := m.Get(key)
	return ok
}

// ContainsValue is true if m holds an entry with a value equal to value, as defined
// by cow.Equal. This is a linear operation.
func (m *Map[K, V]) ContainsValue(value V) bool {
	found := false
	m.Range(func(_ K, v V) bool {
		found = cow.Equal(v, value)
		return !found
	})
	return found
}

// Put maps key to value. The change reports either an insertion or the replacement
// of a previous value.
func (m *Map[K, V]) Put(key K, value V) cow.Change[V] {
	m.init()
	e := entry[K, V]{key: key, value: value, hash: m.hasher(key)}
	root, change := m.root.put(m.generation, e, 0)
	m.root = root
	if change.Modified() && !change.Replaced() {
		m.size++
	}
	m.verifyInDebugMode()
	return change
}

// PutIfAbsent maps key to value only if key is not present. It returns the value
// key is mapped to after the call, and whether that value has been inserted.
func (m *Map[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	if v, ok := m.Get(key); ok {
		return v, false
	}
	m.Put(key, value)
	return value, true
}

// Remove drops the entry for key. Removing an absent key leaves m unchanged.
func (m *Map[K, V]) Remove(key K) cow.Change[V] {
	if m.root == nil {
		return cow.Unchanged[V]()
	}
	return m.removeHashed(key, m.hasher(key))
}

func (m *Map[K, V]) removeHashed(key K, hash uint32) cow.Change[V] {
	root, change := m.root.remove(m.generation, key, hash, 0)
	m.root = root
	if change.Modified() {
		m.size--
	}
	m.verifyInDebugMode()
	return change
}

// RemoveIf drops the entry for key if its value is equal to value.
func (m *Map[K, V]) RemoveIf(key K, value V) bool {
	if v, ok := m.Get(key); !ok || !cow.Equal(v, value) {
		return false
	}
	return m.Remove(key).Modified()
}

// Clear drops all entries. Forks of m are not affected.
func (m *Map[K, V]) Clear() {
	m.init()
	m.root = emptyNode[K, V](m.generation)
	m.size = 0
}

// Range calls f for every entry of m, in trie order, until f returns false.
// f must not modify m; use an Iterator for removing entries during iteration.
func (m *Map[K, V]) Range(f func(K, V) bool) {
	if m.root != nil {
		rangeNode(m.root, f)
	}
}

func rangeNode[K comparable, V any](n node[K, V], f func(K, V) bool) bool {
	for i := 0; i < n.payloadArity(); i++ {
		e := n.payload(i)
		if !f(e.key, e.value) {
			return false
		}
	}
	for i := 0; i < n.nodeArity(); i++ {
		if !rangeNode(n.child(i), f) {
			return false
		}
	}
	return true
}

// All returns an iterator over the entries of m, to be used with range-over-func.
func (m *Map[K, V]) All() iter.Seq2[K, V] {
	return m.Range
}

// Keys returns a live view of the keys of m.
func (m *Map[K, V]) Keys() cow.KeySet[K, V] {
	return cow.Keys[K, V](m)
}

// Values returns a live view of the values of m.
func (m *Map[K, V]) Values() cow.Values[K, V] {
	return cow.ValuesOf[K, V](m)
}

// Entries returns a live view of the entries of m.
func (m *Map[K, V]) Entries() cow.EntrySet[K, V] {
	return cow.Entries[K, V](m)
}

// Equal is true if other holds the same keys mapped to equal values, regardless of
// iteration order.
func (m *Map[K, V]) Equal(other cow.Map[K, V]) bool {
	return cow.EqualMaps[K, V](m, other)
}

// HashCode returns a hash of the content of m, consistent with Equal.
func (m *Map[K, V]) HashCode() uint32 {
	return cow.HashMap[K, V](m)
}

func (m *Map[K, V]) String() string {
	return cow.FormatMap[K, V](m)
}

func (m *Map[K, V]) verifyInDebugMode() {
	if debug.Enabled {
		if err := m.verify(); err != nil {
			panic(err)
		}
	}
}

var _ cow.Map[string, int] = &Map[string, int]{}
var _ cow.Forkable[*Map[string, int]] = &Map[string, int]{}
