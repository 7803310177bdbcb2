package vector

import (
	"fmt"
	"strings"

	"github.com/npillmayer/cow/internal/splice"
)

const (
	bits  = 5 // index bits per level of the trie
	width = 1 << bits
	mask  = width - 1
)

// vnode is a node in the trie a vector is made of. Leaves carry elements, all other
// nodes carry children. Leaves in the trie are always full; inner nodes are packed
// from the left.
type vnode[T any] struct {
	gen      uint64
	children []*vnode[T]
	leafs    []T
}

func newLeaf[T any](gen uint64, elems ...T) *vnode[T] {
	leafs := make([]T, len(elems), width)
	copy(leafs, elems)
	return &vnode[T]{gen: gen, leafs: leafs}
}

// newPath wraps leaf into a chain of single-child nodes, reaching up to level.
func newPath[T any](gen uint64, level uint, leaf *vnode[T]) *vnode[T] {
	if level == 0 {
		return leaf
	}
	return &vnode[T]{gen: gen, children: []*vnode[T]{newPath(gen, level-bits, leaf)}}
}

// editable returns node, if owned by gen, or a copy of node stamped with gen.
func (node *vnode[T]) editable(gen uint64) *vnode[T] {
	if node.gen == gen {
		return node
	}
	cow := &vnode[T]{gen: gen}
	if node.leafs != nil {
		cow.leafs = splice.Clone(node.leafs, width)
	}
	if node.children != nil {
		cow.children = splice.Clone(node.children, width)
	}
	return cow
}

// truncateLeafs cuts an owned node down to n elements. Dropped slots are zeroed so
// they do not keep elements alive.
func (node *vnode[T]) truncateLeafs(n int) {
	var zero T
	for i := n; i < len(node.leafs); i++ {
		node.leafs[i] = zero
	}
	node.leafs = node.leafs[:n]
}

func (node *vnode[T]) dropLastChild() {
	last := len(node.children) - 1
	node.children[last] = nil
	node.children = node.children[:last]
}

func (node *vnode[T]) String() string {
	b := strings.Builder{}
	b.WriteByte('[')
	if node.children == nil {
		for i, l := range node.leafs {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(fmt.Sprintf("%v", l))
		}
	} else {
		for i := range node.children {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString("▪︎")
		}
	}
	b.WriteByte(']')
	return b.String()
}

// --- Trie operations -------------------------------------------------------

// leafFor returns the leaf holding index i, which may be the tail.
func (v *Vector[T]) leafFor(i int) *vnode[T] {
	if i >= v.tailOffset() {
		return v.tail
	}
	node := v.root
	for level := v.shift; level > 0; level -= bits {
		node = node.children[(i>>level)&mask]
	}
	return node
}

// setInTrie replaces the element at index i, copying the path down to its leaf if
// necessary.
func (v *Vector[T]) setInTrie(node *vnode[T], level uint, i int, value T) (*vnode[T], T) {
	cow := node.editable(v.generation)
	if level == 0 {
		return cow, splice.SwapOut(cow.leafs, i&mask, value)
	}
	sub := (i >> level) & mask
	child, old := v.setInTrie(cow.children[sub], level-bits, i, value)
	cow.children[sub] = child
	return cow, old
}

// pushTail moves a full leaf into the trie, growing the trie by one level if the
// root is at capacity.
func (v *Vector[T]) pushTail(leaf *vnode[T]) {
	gen := v.generation
	triesize := v.size - len(v.tail.leafs)
	if triesize == 1<<(v.shift+bits) {
		tracer().Debugf("trie is full, growing to shift %d", v.shift+bits)
		v.root = &vnode[T]{gen: gen, children: []*vnode[T]{v.root, newPath(gen, v.shift, leaf)}}
		v.shift += bits
		return
	}
	v.root = v.pushLeaf(v.root, v.shift, triesize, leaf)
}

func (v *Vector[T]) pushLeaf(node *vnode[T], level uint, i int, leaf *vnode[T]) *vnode[T] {
	cow := node.editable(v.generation)
	sub := (i >> level) & mask
	switch {
	case level == bits:
		cow.children = append(cow.children, leaf)
	case sub < len(cow.children):
		cow.children[sub] = v.pushLeaf(cow.children[sub], level-bits, i, leaf)
	default:
		cow.children = append(cow.children, newPath(v.generation, level-bits, leaf))
	}
	return cow
}

// pullTail makes the rightmost leaf of the trie the new tail. The tail has to be
// empty and the trie non-empty.
func (v *Vector[T]) pullTail() {
	root, leaf := v.popLeaf(v.root, v.shift)
	if root == nil {
		root, v.shift = &vnode[T]{gen: v.generation}, bits
	}
	for v.shift > bits && len(root.children) == 1 {
		tracer().Debugf("trie shrinks to shift %d", v.shift-bits)
		root = root.children[0]
		v.shift -= bits
	}
	v.root, v.tail = root, leaf
}

// popLeaf removes the rightmost leaf from the sub-trie of node. It returns the new
// sub-trie, or nil if it has become empty.
func (v *Vector[T]) popLeaf(node *vnode[T], level uint) (*vnode[T], *vnode[T]) {
	last := len(node.children) - 1
	var leaf, child *vnode[T]
	if level == bits {
		leaf = node.children[last]
	} else {
		child, leaf = v.popLeaf(node.children[last], level-bits)
	}
	if child == nil && last == 0 {
		return nil, leaf
	}
	cow := node.editable(v.generation)
	if child == nil {
		cow.dropLastChild()
	} else {
		cow.children[last] = child
	}
	return cow, leaf
}

// appendLeaf appends a full leaf, which must not be modified by anyone else,
// to a vector with a full tail.
func (v *Vector[T]) appendLeaf(leaf *vnode[T]) {
	assertThat(v.size&mask == 0, "appending leaf to vector with partial tail")
	if v.size > 0 {
		v.pushTail(v.tail)
	}
	v.tail = leaf
	v.size += width
}

// --- Helpers ---------------------------------------------------------------

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("vector: "+msg, msgargs...)
		panic(msg)
	}
}
