package btree

import (
	"iter"

	"github.com/npillmayer/cow"
	"github.com/npillmayer/cow/internal/debug"
	"github.com/npillmayer/cow/maybe"
	"golang.org/x/exp/constraints"
)

const defaultDegree = 16 // minimum number of children of inner nodes

// Map is an ordered map, implemented as a copy-on-write B-tree.
// Keys are ordered by a comparator function given at creation time.
//
// A Map must not be written to concurrently. Forks of a map are independent of each
// other and may be handed to different goroutines.
type Map[K, V any] struct {
	root       *xnode[K, V]
	size       int
	generation uint64
	cmp        func(K, K) int
	props
}

type props struct {
	minKeys int // every node but the root holds at least minKeys items
	maxKeys int // every node holds at most maxKeys = 2·minKeys+1 items
}

// Option is a type to help initializing maps at creation time.
type Option struct {
	config func(props) props
}

// Degree is an option to set the minimum number of children of inner nodes (except for the
// root). Inner nodes will hold between n and 2n children. Minimum is 2, default is 16.
//
// Use it like this:
//
//     m := btree.New[string, int](strings.Compare, btree.Degree(8))
//
func Degree(n int) Option {
	conf := func(p props) props {
		if n < 2 {
			n = 2
		}
		return props{minKeys: n - 1, maxKeys: 2*n - 1}
	}
	return Option{config: conf}
}

// New creates an empty map with keys ordered by cmp. cmp(a, b) has to return a negative
// number if a < b, 0 if a and b are equal, and a positive number if a > b.
//
//     m := btree.New[string, int](strings.Compare)
//     m.Put("Galaxy", 42)
//     value, found := m.Get("Galaxy")   // returns 42
//
func New[K, V any](cmp func(K, K) int, opts ...Option) *Map[K, V] {
	assertThat(cmp != nil, "map needs a comparator")
	t := &Map[K, V]{cmp: cmp, props: Degree(defaultDegree).config(props{})}
	for _, option := range opts {
		t.props = option.config(t.props)
	}
	t.root = &xnode[K, V]{gen: t.generation}
	return t
}

// NewOrdered creates an empty map for keys of an ordered type, i.e. keys with a natural
// order defined by Go's `<` operator.
func NewOrdered[K constraints.Ordered, V any](opts ...Option) *Map[K, V] {
	return New[K, V](cow.Compare[K], opts...)
}

// Fork returns an independent version of t in constant time.
func (t *Map[K, V]) Fork() *Map[K, V] {
	t.generation++
	return &Map[K, V]{
		root:       t.root,
		size:       t.size,
		generation: t.generation,
		cmp:        t.cmp,
		props:      t.props,
	}
}

// Len returns the number of entries in t.
func (t *Map[K, V]) Len() int {
	return t.size
}

// IsEmpty is true for maps without entries.
func (t *Map[K, V]) IsEmpty() bool {
	return t.size == 0
}

// Get returns the value mapped to key, if any.
func (t *Map[K, V]) Get(key K) (V, bool) {
	node := t.root
	for node != nil {
		found, index := node.findSlot(key, t.cmp)
		if found {
			return node.items[index].value, true
		}
		if node.isLeaf() {
			break
		}
		node = node.children[index]
	}
	var zero V
	return zero, false
}

// ContainsKey is true if t holds an entry for key.
func (t *Map[K, V]) ContainsKey(key K) bool {
	_, ok := t.Get(key)
	return ok
}

// ContainsValue is true if t holds an entry with a value equal to value, as defined by
// cow.Equal. This is a linear operation.
func (t *Map[K, V]) ContainsValue(value V) bool {
	found := false
	t.Range(func(_ K, v V) bool {
		found = cow.Equal(v, value)
		return !found
	})
	return found
}

// Put maps key to value. The change reports either an insertion or the replacement
// of a previous value.
func (t *Map[K, V]) Put(key K, value V) cow.Change[V] {
	old, replaced := t.insert(key, value)
	t.verifyInDebugMode()
	if replaced {
		return cow.Replaced(old)
	}
	return cow.Inserted[V]()
}

// PutIfAbsent maps key to value only if key is not present. It returns the value
// key is mapped to after the call, and whether that value has been inserted.
func (t *Map[K, V]) PutIfAbsent(key K, value V) (V, bool) {
	if v, ok := t.Get(key); ok {
		return v, false
	}
	t.Put(key, value)
	return value, true
}

// insert splits full nodes on the way down. The real root is kept as the only child
// of a faux root, which will always have room for a median item of a split.
func (t *Map[K, V]) insert(key K, value V) (old V, replaced bool) {
	gen := t.generation
	if len(t.root.items) == t.maxKeys {
		tracer().Debugf("root is full, tree grows by one level")
		top := &xnode[K, V]{gen: gen, children: []*xnode[K, V]{t.root}}
		t.root = top.splitChildAt(gen, 0, t.minKeys)
	}
	faux := &xnode[K, V]{gen: gen, children: []*xnode[K, V]{t.root}}
	parent, pinx, node := faux, 0, t.root
	for {
		found, index := node.findSlot(key, t.cmp)
		if found {
			old, replaced = node.items[index].value, true
			parent.children[pinx] = node.withValueAt(gen, index, value)
			break
		}
		if node.isLeaf() {
			parent.children[pinx] = node.withItemInsertedAt(gen, index, xitem[K, V]{key: key, value: value})
			t.size++
			break
		}
		if len(node.children[index].items) == t.maxKeys {
			node = node.splitChildAt(gen, index, t.minKeys)
			parent.children[pinx] = node
			// the promoted median may be key itself, or key may belong right of it
			if c := t.cmp(key, node.items[index].key); c == 0 {
				old, replaced = node.items[index].value, true
				parent.children[pinx] = node.withValueAt(gen, index, value)
				break
			} else if c > 0 {
				index++
			}
		} else {
			node = node.editable(gen)
			parent.children[pinx] = node
		}
		parent, pinx, node = node, index, node.children[index]
	}
	t.root = faux.children[0]
	return
}

// Remove drops the entry for key. Removing an absent key leaves t unchanged.
func (t *Map[K, V]) Remove(key K) cow.Change[V] {
	if !t.ContainsKey(key) {
		return cow.Unchanged[V]()
	}
	old := t.delete(key)
	t.verifyInDebugMode()
	return cow.Replaced(old)
}

// RemoveIf drops the entry for key only if it is mapped to a value equal to expected.
func (t *Map[K, V]) RemoveIf(key K, expected V) bool {
	if v, ok := t.Get(key); !ok || !cow.Equal(v, expected) {
		return false
	}
	t.delete(key)
	t.verifyInDebugMode()
	return true
}

// delete removes a key known to be present. Nodes on the way down are enlarged to hold more
// than the minimum number of items, thus removal from a leaf never leaves it underfull.
func (t *Map[K, V]) delete(key K) (old V) {
	gen := t.generation
	faux := &xnode[K, V]{gen: gen, children: []*xnode[K, V]{t.root}}
	parent, pinx, node := faux, 0, t.root
	for {
		found, index := node.findSlot(key, t.cmp)
		if found {
			old = node.items[index].value
			if node.isLeaf() {
				parent.children[pinx] = node.withItemRemovedAt(gen, index)
			} else {
				parent.children[pinx] = node.replaceWithChildValueAt(gen, index, t.minKeys)
			}
			t.size--
			break
		}
		assertThat(!node.isLeaf(), "key to delete not found")
		if len(node.children[index].items) == t.minKeys {
			node = node.enlargeChildAt(gen, index, t.minKeys)
			parent.children[pinx] = node
			continue // items of node have moved, search again
		}
		node = node.editable(gen)
		parent.children[pinx] = node
		parent, pinx, node = node, index, node.children[index]
	}
	t.root = faux.children[0].squash()
	return
}

// Clear drops all entries. Forks of t are not affected.
func (t *Map[K, V]) Clear() {
	t.root = &xnode[K, V]{gen: t.generation}
	t.size = 0
}

// First returns the entry with the smallest key, if any.
func (t *Map[K, V]) First() maybe.Maybe[cow.Entry[K, V]] {
	path := slotPath[K, V]{}.leftmost(t.root)
	if len(path) == 0 {
		return maybe.Nothing[cow.Entry[K, V]]()
	}
	item := path.item()
	return maybe.Just(cow.E(item.key, item.value))
}

// Last returns the entry with the largest key, if any.
func (t *Map[K, V]) Last() maybe.Maybe[cow.Entry[K, V]] {
	path := slotPath[K, V]{}.rightmost(t.root)
	if len(path) == 0 {
		return maybe.Nothing[cow.Entry[K, V]]()
	}
	item := path.item()
	return maybe.Just(cow.E(item.key, item.value))
}

// Range calls f for every entry of t in ascending key order, until f returns false.
// f must not modify t; use a Cursor for removing entries during iteration.
func (t *Map[K, V]) Range(f func(K, V) bool) {
	rangeNode(t.root, f)
}

func rangeNode[K, V any](node *xnode[K, V], f func(K, V) bool) bool {
	for i, item := range node.items {
		if !node.isLeaf() && !rangeNode(node.children[i], f) {
			return false
		}
		if !f(item.key, item.value) {
			return false
		}
	}
	if !node.isLeaf() {
		return rangeNode(node.children[len(node.items)], f)
	}
	return true
}

// All returns an iterator over the entries of t in ascending order, to be used with
// range-over-func.
func (t *Map[K, V]) All() iter.Seq2[K, V] {
	return t.Range
}

// Backward returns an iterator over the entries of t in descending order.
func (t *Map[K, V]) Backward() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		path := slotPath[K, V]{}.rightmost(t.root)
		for len(path) > 0 {
			item := path.item()
			if !yield(item.key, item.value) {
				return
			}
			path = path.prev()
		}
	}
}

// Keys returns a live view of the keys of t.
func (t *Map[K, V]) Keys() cow.KeySet[K, V] {
	return cow.Keys[K, V](t)
}

// Values returns a live view of the values of t.
func (t *Map[K, V]) Values() cow.Values[K, V] {
	return cow.ValuesOf[K, V](t)
}

// Entries returns a live view of the entries of t.
func (t *Map[K, V]) Entries() cow.EntrySet[K, V] {
	return cow.Entries[K, V](t)
}

// Equal is true if other holds the same keys mapped to equal values.
func (t *Map[K, V]) Equal(other cow.Map[K, V]) bool {
	return cow.EqualMaps[K, V](t, other)
}

// HashCode returns a hash of the content of t, consistent with Equal.
func (t *Map[K, V]) HashCode() uint32 {
	return cow.HashMap[K, V](t)
}

func (t *Map[K, V]) String() string {
	return cow.FormatMap[K, V](t)
}

func (t *Map[K, V]) verifyInDebugMode() {
	if debug.Enabled {
		if err := t.verify(); err != nil {
			panic(err)
		}
	}
}

var _ cow.OrderedMap[string, int] = &Map[string, int]{}
var _ cow.Forkable[*Map[string, int]] = &Map[string, int]{}
