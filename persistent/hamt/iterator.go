package hamt

import (
	"github.com/npillmayer/cow"
	"github.com/pkg/errors"
)

// Iterator walks the entries of a map in trie order. Entries may be removed during
// iteration with Remove.
//
//     it := m.Iterator()
//     for it.Next() {
//         if it.Value() < 0 {
//             it.Remove()
//         }
//     }
//
type Iterator[K comparable, V any] struct {
	m     *Map[K, V]
	stack []frame[K, V]
	cur   entry[K, V]
	state iteratorState
}

type iteratorState uint8

const (
	beforeFirst iteratorState = iota
	onEntry
	entryRemoved
	exhausted
)

// frame records the progress of the iteration at one node: the next entry and the
// next child to visit.
type frame[K comparable, V any] struct {
	n        node[K, V]
	payload  int
	children int
}

// Iterator creates an iterator over the entries of m.
//
// The iterator walks the trie as it was at the time of creation: m starts a new
// generation, so writes to m, including removals through the iterator, do not alter
// nodes the iterator has yet to visit.
func (m *Map[K, V]) Iterator() *Iterator[K, V] {
	m.init()
	m.generation++
	it := &Iterator[K, V]{m: m, stack: make([]frame[K, V], 0, maxDepth+1)}
	it.stack = append(it.stack, frame[K, V]{n: m.root})
	return it
}

// Next advances to the next entry. It returns false if there are no more entries.
func (it *Iterator[K, V]) Next() bool {
	for len(it.stack) > 0 {
		top := &it.stack[len(it.stack)-1]
		if top.payload < top.n.payloadArity() {
			it.cur = *top.n.payload(top.payload)
			top.payload++
			it.state = onEntry
			return true
		}
		if top.children < top.n.nodeArity() {
			c := top.n.child(top.children)
			top.children++
			it.stack = append(it.stack, frame[K, V]{n: c})
			continue
		}
		it.stack = it.stack[:len(it.stack)-1]
	}
	it.state = exhausted
	return false
}

// Key returns the key of the current entry.
func (it *Iterator[K, V]) Key() K {
	return it.cur.key
}

// Value returns the value of the current entry.
func (it *Iterator[K, V]) Value() V {
	return it.cur.value
}

// Entry returns the current entry.
func (it *Iterator[K, V]) Entry() cow.Entry[K, V] {
	return cow.E(it.cur.key, it.cur.value)
}

// Remove drops the current entry from the map. It is an error to call Remove before
// the first call to Next, after Next returned false, or twice for the same entry.
func (it *Iterator[K, V]) Remove() error {
	switch it.state {
	case beforeFirst:
		return errors.Wrap(cow.ErrIteratorState, "remove called before next")
	case entryRemoved:
		return errors.Wrap(cow.ErrIteratorState, "entry already removed")
	case exhausted:
		return errors.Wrap(cow.ErrIteratorState, "iteration exhausted")
	}
	it.m.removeHashed(it.cur.key, it.cur.hash)
	it.state = entryRemoved
	return nil
}
