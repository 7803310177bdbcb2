package btree

import (
	"fmt"
	"strconv"
	"strings"
)

// --- Slot ------------------------------------------------------------------

// slot holds a step of a path. For the last step of a path, index denotes an item of
// node; for all other steps it denotes the child the path continues with.
type slot[K, V any] struct {
	node  *xnode[K, V]
	index int
}

func (s slot[K, V]) String() string {
	return strconv.Itoa(s.index) + "@" + s.node.String()
}

// --- Path ------------------------------------------------------------------

// slotPath is a path from the root of a tree down to an item. It serves as the stack
// of a cursor moving through the tree in key order.
type slotPath[K, V any] []slot[K, V]

func (path slotPath[K, V]) String() string {
	var sb = strings.Builder{}
	sb.WriteRune('[')
	for _, s := range path {
		sb.WriteString(fmt.Sprintf("⟨%s⟩", s))
	}
	sb.WriteRune(']')
	return sb.String()
}

func (path slotPath[K, V]) last() slot[K, V] {
	if len(path) == 0 {
		return slot[K, V]{}
	}
	return path[len(path)-1]
}

func (path slotPath[K, V]) dropLast() slotPath[K, V] {
	if len(path) == 0 {
		return path
	}
	return path[:len(path)-1]
}

// item returns the item the path points to.
func (path slotPath[K, V]) item() xitem[K, V] {
	s := path.last()
	return s.node.items[s.index]
}

// leftmost extends path down to the smallest item in the sub-tree of node.
func (path slotPath[K, V]) leftmost(node *xnode[K, V]) slotPath[K, V] {
	for !node.isLeaf() {
		path = append(path, slot[K, V]{node: node, index: 0})
		node = node.children[0]
	}
	if len(node.items) == 0 { // empty root
		return path
	}
	return append(path, slot[K, V]{node: node, index: 0})
}

// rightmost extends path down to the largest item in the sub-tree of node.
func (path slotPath[K, V]) rightmost(node *xnode[K, V]) slotPath[K, V] {
	for !node.isLeaf() {
		path = append(path, slot[K, V]{node: node, index: len(node.items)})
		node = node.children[len(node.items)]
	}
	if len(node.items) == 0 { // empty root
		return path
	}
	return append(path, slot[K, V]{node: node, index: len(node.items) - 1})
}

// next moves path to the in-order successor of its item. If there is none, the
// resulting path is empty.
//
// Steps above the last one denote the child the path descended into; returning to
// such a step at child index i means continuing with item i.
func (path slotPath[K, V]) next() slotPath[K, V] {
	top := &path[len(path)-1]
	top.index++
	if !top.node.isLeaf() {
		return path.leftmost(top.node.children[top.index])
	}
	return path.forward()
}

// forward pops exhausted steps until the last step denotes an item.
func (path slotPath[K, V]) forward() slotPath[K, V] {
	for len(path) > 0 {
		if s := path.last(); s.index < len(s.node.items) {
			return path
		}
		path = path.dropLast()
	}
	return path
}

// prev moves path to the in-order predecessor of its item. If there is none, the
// resulting path is empty.
//
// Steps above the last one denote the child the path descended into; returning to
// such a step at child index i means continuing with item i-1.
func (path slotPath[K, V]) prev() slotPath[K, V] {
	top := &path[len(path)-1]
	if !top.node.isLeaf() {
		return path.rightmost(top.node.children[top.index])
	}
	top.index--
	return path.backward()
}

// backward pops exhausted steps until the last step denotes an item.
func (path slotPath[K, V]) backward() slotPath[K, V] {
	for len(path) > 0 {
		if path.last().index >= 0 {
			return path
		}
		path = path.dropLast()
		if len(path) > 0 {
			path[len(path)-1].index--
		}
	}
	return path
}

// after creates a path to the smallest item with a key greater than bound.
func after[K, V any](root *xnode[K, V], bound K, cmp func(K, K) int) slotPath[K, V] {
	var path slotPath[K, V]
	node := root
	for {
		found, index := node.findSlot(bound, cmp)
		path = append(path, slot[K, V]{node: node, index: index})
		if found {
			return path.next()
		}
		if node.isLeaf() {
			return path.forward()
		}
		node = node.children[index]
	}
}

// before creates a path to the largest item with a key less than bound.
func before[K, V any](root *xnode[K, V], bound K, cmp func(K, K) int) slotPath[K, V] {
	var path slotPath[K, V]
	node := root
	for {
		found, index := node.findSlot(bound, cmp)
		if found {
			path = append(path, slot[K, V]{node: node, index: index})
			return path.prev()
		}
		if node.isLeaf() {
			path = append(path, slot[K, V]{node: node, index: index - 1})
			return path.backward()
		}
		path = append(path, slot[K, V]{node: node, index: index})
		node = node.children[index]
	}
}
