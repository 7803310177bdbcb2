package hamt

import (
	"math/bits"

	"github.com/npillmayer/cow"
	"github.com/npillmayer/cow/internal/splice"
)

const (
	bitsPerLevel = 5
	branching    = 1 << bitsPerLevel
	levelMask    = branching - 1
	maxDepth     = 7 // ⌈32/5⌉ levels until a hash is exhausted
)

// chunk extracts the 5-bit portion of hash relevant for the trie level at shift.
// Chunks are consumed starting with the least significant bits.
func chunk(hash uint32, shift uint) uint32 {
	return (hash >> shift) & levelMask
}

func bitpos(hash uint32, shift uint) uint32 {
	return 1 << chunk(hash, shift)
}

// index is the position in a packed slice of the slot flagged by bit.
func index(bitmap, bit uint32) int {
	return bits.OnesCount32(bitmap & (bit - 1))
}

type entry[K comparable, V any] struct {
	key   K
	value V
	hash  uint32
}

// node is either an *indexNode or a *collisionNode. Every operation receives the
// generation of the calling map and returns the node to be linked into the parent,
// which is the receiver itself if the receiver is owned by that generation.
type node[K comparable, V any] interface {
	find(key K, hash uint32, shift uint) (V, bool)
	put(gen uint64, e entry[K, V], shift uint) (node[K, V], cow.Change[V])
	remove(gen uint64, key K, hash uint32, shift uint) (node[K, V], cow.Change[V])
	payloadArity() int
	payload(i int) *entry[K, V]
	nodeArity() int
	child(i int) node[K, V]
	generation() uint64
}

// isSingleton is true for nodes which have to be inlined into their parents.
func isSingleton[K comparable, V any](n node[K, V]) bool {
	return n.payloadArity() == 1 && n.nodeArity() == 0
}

// --- Index nodes -----------------------------------------------------------

// indexNode holds up to 32 slots. Slots flagged in dataMap hold entries, stored
// packed in data; slots flagged in nodeMap hold sub-tries, stored packed in children.
type indexNode[K comparable, V any] struct {
	gen      uint64
	dataMap  uint32
	nodeMap  uint32
	data     []entry[K, V]
	children []node[K, V]
}

func emptyNode[K comparable, V any](gen uint64) *indexNode[K, V] {
	return &indexNode[K, V]{gen: gen}
}

func (n *indexNode[K, V]) generation() uint64 { return n.gen }
func (n *indexNode[K, V]) payloadArity() int { return len(n.data) }
func (n *indexNode[K, V]) payload(i int) *entry[K, V] { return &n.data[i] }
func (n *indexNode[K, V]) nodeArity() int { return len(n.children) }
func (n *indexNode[K, V]) child(i int) node[K, V] { return n.children[i] }

func (n *indexNode[K, V]) find(key K, hash uint32, shift uint) (V, bool) {
	bit := bitpos(hash, shift)
	if n.dataMap&bit != 0 {
		e := &n.data[index(n.dataMap, bit)]
		if e.hash == hash && e.key == key {
			return e.value, true
		}
	} else if n.nodeMap&bit != 0 {
		return n.children[index(n.nodeMap, bit)].find(key, hash, shift+bitsPerLevel)
	}
	var zero V
	return zero, false
}

func (n *indexNode[K, V]) put(gen uint64, e entry[K, V], shift uint) (node[K, V], cow.Change[V]) {
	bit := bitpos(e.hash, shift)
	if n.dataMap&bit != 0 {
		i := index(n.dataMap, bit)
		cur := n.data[i]
		if cur.hash == e.hash && cur.key == e.key {
			m := n.editable(gen)
			m.data[i].value = e.value
			return m, cow.Replaced(cur.value)
		}
		// migrate inline → node
		sub := mergeEntries(gen, cur, e, shift+bitsPerLevel)
		j := index(n.nodeMap, bit)
		tracer().Debugf("migrating entry at slot %d into a sub-node", chunk(e.hash, shift))
		return n.update(gen, n.dataMap^bit, n.nodeMap|bit,
			splice.Remove(n.data, i),
			splice.Insert(n.children, j, sub)), cow.Inserted[V]()
	}
	if n.nodeMap&bit != 0 {
		j := index(n.nodeMap, bit)
		c := n.children[j]
		sub, change := c.put(gen, e, shift+bitsPerLevel)
		if sub == c {
			return n, change
		}
		m := n.editable(gen)
		m.children[j] = sub
		return m, change
	}
	i := index(n.dataMap, bit)
	return n.update(gen, n.dataMap|bit, n.nodeMap,
		splice.Insert(n.data, i, e),
		n.ownChildren(gen)), cow.Inserted[V]()
}

func (n *indexNode[K, V]) remove(gen uint64, key K, hash uint32, shift uint) (node[K, V], cow.Change[V]) {
	bit := bitpos(hash, shift)
	if n.dataMap&bit != 0 {
		i := index(n.dataMap, bit)
		cur := n.data[i]
		if cur.hash != hash || cur.key != key {
			return n, cow.Unchanged[V]()
		}
		return n.update(gen, n.dataMap^bit, n.nodeMap,
			splice.Remove(n.data, i),
			n.ownChildren(gen)), cow.Replaced(cur.value)
	}
	if n.nodeMap&bit != 0 {
		j := index(n.nodeMap, bit)
		c := n.children[j]
		sub, change := c.remove(gen, key, hash, shift+bitsPerLevel)
		if !change.Modified() {
			return n, change
		}
		if isSingleton(sub) { // migrate node → inline
			e := *sub.payload(0)
			tracer().Debugf("inlining single entry of sub-node at slot %d", chunk(hash, shift))
			return n.update(gen, n.dataMap|bit, n.nodeMap^bit,
				splice.Insert(n.data, index(n.dataMap, bit), e),
				splice.Remove(n.children, j)), change
		}
		if sub == c {
			return n, change
		}
		m := n.editable(gen)
		m.children[j] = sub
		return m, change
	}
	return n, cow.Unchanged[V]()
}

// editable returns n, if owned by gen, or a copy of n stamped with gen.
func (n *indexNode[K, V]) editable(gen uint64) *indexNode[K, V] {
	if n.gen == gen {
		return n
	}
	return &indexNode[K, V]{
		gen:      gen,
		dataMap:  n.dataMap,
		nodeMap:  n.nodeMap,
		data:     splice.Clone(n.data, len(n.data)),
		children: splice.Clone(n.children, len(n.children)),
	}
}

// update installs bitmaps and slices either in n (if n is owned by gen) or in a new
// node. The slices handed in must not be referenced by any other node.
func (n *indexNode[K, V]) update(gen uint64, dataMap, nodeMap uint32, data []entry[K, V],
	children []node[K, V]) *indexNode[K, V] {
	//
	if n.gen == gen {
		n.dataMap, n.nodeMap, n.data, n.children = dataMap, nodeMap, data, children
		return n
	}
	return &indexNode[K, V]{gen: gen, dataMap: dataMap, nodeMap: nodeMap, data: data, children: children}
}

func (n *indexNode[K, V]) ownChildren(gen uint64) []node[K, V] {
	if n.gen == gen {
		return n.children
	}
	return splice.Clone(n.children, len(n.children))
}

// mergeEntries creates a sub-trie for two entries which collide at the previous level.
func mergeEntries[K comparable, V any](gen uint64, a, b entry[K, V], shift uint) node[K, V] {
	if a.hash == b.hash {
		tracer().Debugf("full hash collision for %#x", a.hash)
		return &collisionNode[K, V]{gen: gen, hash: a.hash, entries: []entry[K, V]{a, b}}
	}
	assertThat(shift < maxDepth*bitsPerLevel, "hashes %#x and %#x not separated at shift %d", a.hash, b.hash, shift)
	ca, cb := chunk(a.hash, shift), chunk(b.hash, shift)
	if ca == cb {
		sub := mergeEntries(gen, a, b, shift+bitsPerLevel)
		return &indexNode[K, V]{gen: gen, nodeMap: 1 << ca, children: []node[K, V]{sub}}
	}
	if ca > cb {
		a, b = b, a
		ca, cb = cb, ca
	}
	return &indexNode[K, V]{gen: gen, dataMap: 1<<ca | 1<<cb, data: []entry[K, V]{a, b}}
}

// --- Collision nodes -------------------------------------------------------

// collisionNode holds entries whose keys all share the same hash value.
type collisionNode[K comparable, V any] struct {
	gen     uint64
	hash    uint32
	entries []entry[K, V]
}

func (n *collisionNode[K, V]) generation() uint64 { return n.gen }
func (n *collisionNode[K, V]) payloadArity() int { return len(n.entries) }
func (n *collisionNode[K, V]) payload(i int) *entry[K, V] { return &n.entries[i] }
func (n *collisionNode[K, V]) nodeArity() int { return 0 }

func (n *collisionNode[K, V]) child(i int) node[K, V] {
	panic("hamt: collision nodes do not have children")
}

func (n *collisionNode[K, V]) lookup(key K) int {
	for i := range n.entries {
		if n.entries[i].key == key {
			return i
		}
	}
	return -1
}

func (n *collisionNode[K, V]) find(key K, hash uint32, shift uint) (V, bool) {
	if hash == n.hash {
		if i := n.lookup(key); i >= 0 {
			return n.entries[i].value, true
		}
	}
	var zero V
	return zero, false
}

func (n *collisionNode[K, V]) put(gen uint64, e entry[K, V], shift uint) (node[K, V], cow.Change[V]) {
	if e.hash != n.hash {
		// push n one level down, below a new index node which will receive e
		wrapper := &indexNode[K, V]{
			gen:      gen,
			nodeMap:  bitpos(n.hash, shift),
			children: []node[K, V]{n},
		}
		return wrapper.put(gen, e, shift)
	}
	if i := n.lookup(e.key); i >= 0 {
		old := n.entries[i].value
		m := n.editable(gen)
		m.entries[i].value = e.value
		return m, cow.Replaced(old)
	}
	return n.update(gen, splice.Append(n.entries, e)), cow.Inserted[V]()
}

func (n *collisionNode[K, V]) remove(gen uint64, key K, hash uint32, shift uint) (node[K, V], cow.Change[V]) {
	if hash != n.hash {
		return n, cow.Unchanged[V]()
	}
	i := n.lookup(key)
	if i < 0 {
		return n, cow.Unchanged[V]()
	}
	old := n.entries[i].value
	return n.update(gen, splice.Remove(n.entries, i)), cow.Replaced(old)
}

func (n *collisionNode[K, V]) editable(gen uint64) *collisionNode[K, V] {
	if n.gen == gen {
		return n
	}
	return &collisionNode[K, V]{gen: gen, hash: n.hash, entries: splice.Clone(n.entries, len(n.entries))}
}

func (n *collisionNode[K, V]) update(gen uint64, entries []entry[K, V]) *collisionNode[K, V] {
	if n.gen == gen {
		n.entries = entries
		return n
	}
	return &collisionNode[K, V]{gen: gen, hash: n.hash, entries: entries}
}

var _ node[int, int] = &indexNode[int, int]{}
var _ node[int, int] = &collisionNode[int, int]{}
