package btree

import (
	"fmt"
	"sort"
	"strings"

	"github.com/npillmayer/cow/internal/splice"
)

/*
Remarks:
--------

- Every method receiving a generation `gen` returns the node to be linked into the
  parent. This is the receiver itself if it is owned by gen, or a copy otherwise.

- Children handed out by rebalancing operations (rotations, merges, splits) are always
  fresh nodes owned by gen.

- Rebalancing never walks up: callers make sure a child has room (on insertion) or
  slack (on deletion) before descending into it.
*/

type xitem[K, V any] struct {
	key   K
	value V
}

type xnode[K, V any] struct {
	gen      uint64
	items    []xitem[K, V]
	children []*xnode[K, V]
}

func (node *xnode[K, V]) isLeaf() bool {
	return len(node.children) == 0
}

func (node *xnode[K, V]) String() string {
	var sb strings.Builder
	sb.WriteRune('[')
	for i, item := range node.items {
		if i > 0 {
			sb.WriteRune(',')
		}
		sb.WriteString(fmt.Sprintf("%v", item.key))
	}
	sb.WriteRune(']')
	return sb.String()
}

// findSlot searches for key with a binary search. If key is not found, the index returned
// is the position where key would have to be inserted.
func (node *xnode[K, V]) findSlot(key K, cmp func(K, K) int) (bool, int) {
	items, itemcnt := node.items, len(node.items)
	slotinx := sort.Search(itemcnt, func(i int) bool {
		return cmp(items[i].key, key) >= 0 // sort.Search will find the smallest i for which this is true
	})
	return slotinx < itemcnt && cmp(items[slotinx].key, key) == 0, slotinx
}

// editable returns node, if owned by gen, or a copy of node stamped with gen.
func (node *xnode[K, V]) editable(gen uint64) *xnode[K, V] {
	if node.gen == gen {
		return node
	}
	cow := &xnode[K, V]{gen: gen, items: splice.Clone(node.items, len(node.items))}
	if !node.isLeaf() {
		cow.children = splice.Clone(node.children, len(node.children))
	}
	return cow
}

// update installs items and children either in node (if owned by gen) or in a new
// node. Slices handed in must not be referenced by any other node.
func (node *xnode[K, V]) update(gen uint64, items []xitem[K, V], children []*xnode[K, V]) *xnode[K, V] {
	if node.gen == gen {
		node.items, node.children = items, children
		return node
	}
	return &xnode[K, V]{gen: gen, items: items, children: children}
}

func (node *xnode[K, V]) ownChildren(gen uint64) []*xnode[K, V] {
	if node.gen == gen || node.isLeaf() {
		return node.children
	}
	return splice.Clone(node.children, len(node.children))
}

func (node *xnode[K, V]) withValueAt(gen uint64, at int, value V) *xnode[K, V] {
	cow := node.editable(gen)
	cow.items[at].value = value
	return cow
}

// withItemInsertedAt inserts an item into a leaf.
func (node *xnode[K, V]) withItemInsertedAt(gen uint64, at int, item xitem[K, V]) *xnode[K, V] {
	assertThat(node.isLeaf(), "attempt to insert item into inner node")
	return node.update(gen, splice.Insert(node.items, at, item), nil)
}

// withItemRemovedAt removes an item from a leaf.
func (node *xnode[K, V]) withItemRemovedAt(gen uint64, at int) *xnode[K, V] {
	assertThat(node.isLeaf(), "attempt to remove item from inner node")
	return node.update(gen, splice.Remove(node.items, at), nil)
}

// splitChildAt splits the full child at index ci into two halves of minKeys items each,
// promoting the median item into node.
func (node *xnode[K, V]) splitChildAt(gen uint64, ci int, minKeys int) *xnode[K, V] {
	child := node.children[ci]
	assertThat(len(child.items) == 2*minKeys+1, "split of non-full child %s", child)
	median := child.items[minKeys]
	left := &xnode[K, V]{gen: gen, items: splice.Slice(child.items, 0, minKeys)}
	right := &xnode[K, V]{gen: gen, items: splice.Slice(child.items, minKeys+1, len(child.items))}
	if !child.isLeaf() {
		left.children = splice.Slice(child.children, 0, minKeys+1)
		right.children = splice.Slice(child.children, minKeys+1, len(child.children))
	}
	tracer().Debugf("split %s into %s ⟨%v⟩ %s", child, left, median.key, right)
	return node.update(gen,
		splice.Insert(node.items, ci, median),
		splice.Splice(node.children, ci, ci+1, left, right))
}

// enlargeChildAt makes sure the child at index ci has more than minKeys items, either
// by rotating an item in from a sibling with slack, or by merging with a sibling.
// After a merge with the left sibling the enlarged child is located at ci-1.
func (node *xnode[K, V]) enlargeChildAt(gen uint64, ci int, minKeys int) *xnode[K, V] {
	switch {
	case ci > 0 && len(node.children[ci-1].items) > minKeys:
		return node.rotateRight(gen, ci)
	case ci < len(node.items) && len(node.children[ci+1].items) > minKeys:
		return node.rotateLeft(gen, ci)
	case ci < len(node.items):
		return node.mergeChildren(gen, ci)
	}
	return node.mergeChildren(gen, ci-1)
}

// rotateRight moves the last item of the left sibling of child ci up into node, and the
// separating item down into child ci.
func (node *xnode[K, V]) rotateRight(gen uint64, ci int) *xnode[K, V] {
	cow := node.editable(gen)
	lsbl, child := cow.children[ci-1], cow.children[ci]
	last := len(lsbl.items) - 1
	newChild := &xnode[K, V]{gen: gen, items: splice.Insert(child.items, 0, cow.items[ci-1])}
	newLsbl := &xnode[K, V]{gen: gen, items: splice.Slice(lsbl.items, 0, last)}
	if !child.isLeaf() {
		newChild.children = splice.Insert(child.children, 0, lsbl.children[last+1])
		newLsbl.children = splice.Slice(lsbl.children, 0, last+1)
	}
	tracer().Debugf("rotate right: %s → %s", lsbl, child)
	cow.items[ci-1] = lsbl.items[last]
	cow.children[ci-1], cow.children[ci] = newLsbl, newChild
	return cow
}

// rotateLeft moves the first item of the right sibling of child ci up into node, and the
// separating item down into child ci.
func (node *xnode[K, V]) rotateLeft(gen uint64, ci int) *xnode[K, V] {
	cow := node.editable(gen)
	child, rsbl := cow.children[ci], cow.children[ci+1]
	newChild := &xnode[K, V]{gen: gen, items: splice.Append(child.items, cow.items[ci])}
	newRsbl := &xnode[K, V]{gen: gen, items: splice.Slice(rsbl.items, 1, len(rsbl.items))}
	if !child.isLeaf() {
		newChild.children = splice.Append(child.children, rsbl.children[0])
		newRsbl.children = splice.Slice(rsbl.children, 1, len(rsbl.children))
	}
	tracer().Debugf("rotate left: %s ← %s", child, rsbl)
	cow.items[ci] = rsbl.items[0]
	cow.children[ci], cow.children[ci+1] = newChild, newRsbl
	return cow
}

// mergeChildren merges children at index at and at+1, pulling down the separating item.
func (node *xnode[K, V]) mergeChildren(gen uint64, at int) *xnode[K, V] {
	left, right := node.children[at], node.children[at+1]
	merged := &xnode[K, V]{
		gen:   gen,
		items: splice.Concat(left.items, node.items[at:at+1], right.items),
	}
	if !left.isLeaf() {
		merged.children = splice.Concat(left.children, right.children)
	}
	tracer().Debugf("merge %s and %s into %s", left, right, merged)
	return node.update(gen,
		splice.Remove(node.items, at),
		splice.Splice(node.children, at, at+2, merged))
}

// replaceWithChildValueAt deletes the item at index at from an inner node. The item is
// replaced by its in-order successor or predecessor, which is deleted from its leaf.
func (node *xnode[K, V]) replaceWithChildValueAt(gen uint64, at int, minKeys int) *xnode[K, V] {
	left, right := node.children[at], node.children[at+1]
	if len(left.items) == minKeys && len(right.items) == minKeys {
		cow := node.mergeChildren(gen, at)
		merged := cow.children[at] // item to delete is now at merged.items[minKeys]
		if merged.isLeaf() {
			cow.children[at] = merged.withItemRemovedAt(gen, minKeys)
		} else {
			cow.children[at] = merged.replaceWithChildValueAt(gen, minKeys, minKeys)
		}
		return cow
	}
	if len(right.items) > minKeys {
		return node.replaceWithSuccessor(gen, at, minKeys)
	}
	return node.replaceWithPredecessor(gen, at, minKeys)
}

func (node *xnode[K, V]) replaceWithSuccessor(gen uint64, at int, minKeys int) *xnode[K, V] {
	cow := node.editable(gen)
	parent, ci := cow, at+1
	cur := cow.children[ci]
	for !cur.isLeaf() {
		if len(cur.children[0].items) == minKeys {
			cur = cur.enlargeChildAt(gen, 0, minKeys)
		} else {
			cur = cur.editable(gen)
		}
		parent.children[ci] = cur
		parent, ci, cur = cur, 0, cur.children[0]
	}
	cow.items[at] = cur.items[0]
	parent.children[ci] = cur.withItemRemovedAt(gen, 0)
	return cow
}

func (node *xnode[K, V]) replaceWithPredecessor(gen uint64, at int, minKeys int) *xnode[K, V] {
	cow := node.editable(gen)
	parent, ci := cow, at
	cur := cow.children[ci]
	for !cur.isLeaf() {
		last := len(cur.items)
		if len(cur.children[last].items) == minKeys {
			cur = cur.enlargeChildAt(gen, last, minKeys)
		} else {
			cur = cur.editable(gen)
		}
		parent.children[ci] = cur
		last = len(cur.items)
		parent, ci, cur = cur, last, cur.children[last]
	}
	last := len(cur.items) - 1
	cow.items[at] = cur.items[last]
	parent.children[ci] = cur.withItemRemovedAt(gen, last)
	return cow
}

// squash replaces an inner root without items by its only child.
func (node *xnode[K, V]) squash() *xnode[K, V] {
	if len(node.items) == 0 && !node.isLeaf() {
		tracer().Debugf("root collapses, tree shrinks by one level")
		return node.children[0]
	}
	return node
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("btree: "+msg, msgargs...)
		panic(msg)
	}
}
