package btree

import (
	"github.com/npillmayer/cow"
	"github.com/pkg/errors"
)

// Cursor moves through the entries of a map in ascending or descending key order.
// Entries may be removed during iteration with Remove.
//
//     c := m.AscendingAfter("k")
//     for c.Next() {
//         fmt.Printf("%s = %d\n", c.Key(), c.Value())
//     }
//
type Cursor[K, V any] struct {
	t          *Map[K, V]
	path       slotPath[K, V]
	descending bool
	primed     bool // path points to an item not yet handed out
	cur        xitem[K, V]
	state      cursorState
}

type cursorState uint8

const (
	beforeFirst cursorState = iota
	onEntry
	entryRemoved
	exhausted
)

// newCursor creates a cursor for path. The map starts a new generation, thus the cursor
// walks nodes which will not be modified by later writes, including removals through
// the cursor itself.
func (t *Map[K, V]) newCursor(path slotPath[K, V], descending bool) *Cursor[K, V] {
	t.generation++
	return &Cursor[K, V]{t: t, path: path, descending: descending, primed: true}
}

// Ascending returns a cursor starting at the smallest key of t.
func (t *Map[K, V]) Ascending() *Cursor[K, V] {
	return t.newCursor(slotPath[K, V]{}.leftmost(t.root), false)
}

// Descending returns a cursor starting at the largest key of t.
func (t *Map[K, V]) Descending() *Cursor[K, V] {
	return t.newCursor(slotPath[K, V]{}.rightmost(t.root), true)
}

// AscendingAfter returns a cursor starting at the smallest key greater than bound.
func (t *Map[K, V]) AscendingAfter(bound K) *Cursor[K, V] {
	return t.newCursor(after(t.root, bound, t.cmp), false)
}

// DescendingBefore returns a cursor starting at the largest key less than bound.
func (t *Map[K, V]) DescendingBefore(bound K) *Cursor[K, V] {
	return t.newCursor(before(t.root, bound, t.cmp), true)
}

// Next advances the cursor to the next entry. It returns false if there are no
// more entries.
func (c *Cursor[K, V]) Next() bool {
	if c.primed {
		c.primed = false
	} else if len(c.path) > 0 {
		if c.descending {
			c.path = c.path.prev()
		} else {
			c.path = c.path.next()
		}
	}
	if len(c.path) == 0 {
		c.state = exhausted
		return false
	}
	c.cur = c.path.item()
	c.state = onEntry
	return true
}

// Key returns the key of the current entry.
func (c *Cursor[K, V]) Key() K {
	return c.cur.key
}

// Value returns the value of the current entry.
func (c *Cursor[K, V]) Value() V {
	return c.cur.value
}

// Entry returns the current entry.
func (c *Cursor[K, V]) Entry() cow.Entry[K, V] {
	return cow.E(c.cur.key, c.cur.value)
}

// Remove drops the current key from the map, regardless of the value it is
// mapped to by now. It is an error to call Remove before
// the first call to Next, after Next returned false, or twice for the same entry.
func (c *Cursor[K, V]) Remove() error {
	switch c.state {
	case beforeFirst:
		return errors.Wrap(cow.ErrIteratorState, "remove called before next")
	case entryRemoved:
		return errors.Wrap(cow.ErrIteratorState, "entry already removed")
	case exhausted:
		return errors.Wrap(cow.ErrIteratorState, "iteration exhausted")
	}
	c.t.Remove(c.cur.key)
	c.state = entryRemoved
	return nil
}
