package vector

import (
	"fmt"
	"iter"

	"github.com/npillmayer/cow"
	"github.com/npillmayer/cow/internal/debug"
	"github.com/npillmayer/cow/maybe"
)

// Vector is a sequence of elements, indexed from 0 to Len()-1.
// The zero value is an empty vector ready to use.
//
// A Vector must not be written to concurrently. Forks of a vector are independent
// of each other and may be handed to different goroutines.
type Vector[T any] struct {
	root       *vnode[T]
	tail       *vnode[T]
	size       int
	shift      uint // level of the root; 5 for a trie of leaves below the root
	generation uint64
}

// New creates an empty vector.
func New[T any]() *Vector[T] {
	v := &Vector[T]{}
	v.init()
	return v
}

// From creates a vector holding items.
func From[T any](items ...T) *Vector[T] {
	v := New[T]()
	for _, x := range items {
		v.Push(x)
	}
	return v
}

// Collect creates a vector from the elements of seq, in order.
//
//     v := vector.Collect(maps.Keys(m))
//
func Collect[T any](seq iter.Seq[T]) *Vector[T] {
	v := New[T]()
	for x := range seq {
		v.Push(x)
	}
	return v
}

func (v *Vector[T]) init() {
	if v.root == nil {
		v.root = &vnode[T]{gen: v.generation}
		v.tail = newLeaf[T](v.generation)
		v.shift = bits
	}
}

// Fork returns an independent version of v in constant time.
func (v *Vector[T]) Fork() *Vector[T] {
	v.init()
	v.generation++
	return &Vector[T]{
		root:       v.root,
		tail:       v.tail,
		size:       v.size,
		shift:      v.shift,
		generation: v.generation,
	}
}

// Len returns the number of elements of v.
func (v *Vector[T]) Len() int {
	return v.size
}

// IsEmpty is true for vectors without elements.
func (v *Vector[T]) IsEmpty() bool {
	return v.size == 0
}

func (v *Vector[T]) tailOffset() int {
	if v.size == 0 {
		return 0
	}
	return (v.size - 1) &^ mask
}

// Get returns the element at index i.
func (v *Vector[T]) Get(i int) T {
	cow.CheckIndex(i, v.size)
	return v.leafFor(i).leafs[i&mask]
}

// Last returns the last element of v, if any.
func (v *Vector[T]) Last() maybe.Maybe[T] {
	if v.size == 0 {
		return maybe.Nothing[T]()
	}
	return maybe.Just(v.tail.leafs[len(v.tail.leafs)-1])
}

// Set replaces the element at index i and returns the previous one.
func (v *Vector[T]) Set(i int, value T) T {
	cow.CheckIndex(i, v.size)
	var old T
	if i >= v.tailOffset() {
		v.tail = v.tail.editable(v.generation)
		old = v.tail.leafs[i&mask]
		v.tail.leafs[i&mask] = value
	} else {
		v.root, old = v.setInTrie(v.root, v.shift, i, value)
	}
	return old
}

// Push appends value at the end of v.
func (v *Vector[T]) Push(value T) {
	v.init()
	if v.size-v.tailOffset() < width {
		v.tail = v.tail.editable(v.generation)
		v.tail.leafs = append(v.tail.leafs, value)
	} else {
		v.pushTail(v.tail)
		v.tail = newLeaf(v.generation, value)
	}
	v.size++
}

// Pop removes the last element of v and returns it. Popping from an empty vector
// returns Nothing.
func (v *Vector[T]) Pop() maybe.Maybe[T] {
	if v.size == 0 {
		return maybe.Nothing[T]()
	}
	last := v.tail.leafs[len(v.tail.leafs)-1]
	v.removeFromBack(1)
	v.verifyInDebugMode()
	return maybe.Just(last)
}

// Insert inserts value at index i, shifting the elements from i on to the right.
// i may be Len(), which appends value.
func (v *Vector[T]) Insert(i int, value T) {
	v.InsertAll(i, value)
}

// InsertAll inserts items at index i, in order.
func (v *Vector[T]) InsertAll(i int, items ...T) {
	cow.CheckIndex(i, v.size+1)
	if i == v.size {
		for _, x := range items {
			v.Push(x)
		}
	} else if len(items) > 0 {
		v.rebuild(i, i, items)
	}
	v.verifyInDebugMode()
}

// Remove removes the element at index i and returns it.
func (v *Vector[T]) Remove(i int) T {
	old := v.Get(i)
	v.RemoveRange(i, i+1)
	return old
}

// RemoveRange removes the elements at indices from (inclusive) to to (exclusive).
func (v *Vector[T]) RemoveRange(from, to int) {
	cow.CheckRange(from, to, v.size)
	if from == to {
		return
	}
	if to == v.size {
		v.removeFromBack(to - from)
	} else {
		v.rebuild(from, to, nil)
	}
	v.verifyInDebugMode()
}

// rebuild replaces the elements in [from, to) by items. Leaves in front of from are
// shared with the previous state of v, everything else is re-appended.
func (v *Vector[T]) rebuild(from, to int, items []T) {
	tracer().Debugf("rebuilding vector of size %d from index %d", v.size, from)
	old := *v
	v.Clear()
	i := 0
	for i+width <= from && i+width <= old.tailOffset() {
		v.appendLeaf(old.leafFor(i))
		i += width
	}
	old.rangeFrom(i, func(j int, x T) bool {
		if j >= from {
			return false
		}
		v.Push(x)
		return true
	})
	for _, x := range items {
		v.Push(x)
	}
	old.rangeFrom(to, func(_ int, x T) bool {
		v.Push(x)
		return true
	})
}

// removeFromBack drops the last n elements. Whole leaves are dropped without
// looking at their elements.
func (v *Vector[T]) removeFromBack(n int) {
	for n > 0 {
		t := len(v.tail.leafs)
		if n < t {
			v.tail = v.tail.editable(v.generation)
			v.tail.truncateLeafs(t - n)
			v.size -= n
			return
		}
		n -= t
		v.size -= t
		if v.size == 0 {
			v.Clear()
			return
		}
		v.pullTail()
	}
}

// Clear removes all elements. Forks of v are not affected.
func (v *Vector[T]) Clear() {
	v.root = &vnode[T]{gen: v.generation}
	v.tail = newLeaf[T](v.generation)
	v.size = 0
	v.shift = bits
}

// Range calls f for every element of v in index order, until f returns false.
// f must not modify v.
func (v *Vector[T]) Range(f func(int, T) bool) {
	v.rangeFrom(0, f)
}

func (v *Vector[T]) rangeFrom(start int, f func(int, T) bool) {
	for base := start &^ mask; base < v.size; base += width {
		leaf := v.leafFor(base).leafs
		for j := (start - base) & mask; j < len(leaf); j++ {
			if !f(base+j, leaf[j]) {
				return
			}
		}
		start = base + width
	}
}

// All returns an iterator over indices and elements of v, to be used with
// range-over-func.
func (v *Vector[T]) All() iter.Seq2[int, T] {
	return v.Range
}

// Values returns an iterator over the elements of v.
func (v *Vector[T]) Values() iter.Seq[T] {
	return func(yield func(T) bool) {
		v.Range(func(_ int, x T) bool { return yield(x) })
	}
}

// Slice copies the elements of v into a Go slice.
func (v *Vector[T]) Slice() []T {
	s := make([]T, 0, v.size)
	v.Range(func(_ int, x T) bool {
		s = append(s, x)
		return true
	})
	return s
}

// Equal is true if v and other have the same length and pairwise equal elements,
// as decided by cow.Equal.
func (v *Vector[T]) Equal(other *Vector[T]) bool {
	if v.size != other.size {
		return false
	}
	eq := true
	v.Range(func(i int, x T) bool {
		eq = cow.Equal(x, other.Get(i))
		return eq
	})
	return eq
}

// HashCode returns a hash of the elements of v, consistent with Equal.
func (v *Vector[T]) HashCode() uint32 {
	h := uint32(1)
	v.Range(func(_ int, x T) bool {
		h = 31*h + cow.Hash(x)
		return true
	})
	return h
}

func (v *Vector[T]) String() string {
	return fmt.Sprintf("%v", v.Slice())
}

func (v *Vector[T]) verifyInDebugMode() {
	if debug.Enabled {
		if err := v.verify(); err != nil {
			panic(err)
		}
	}
}

var _ cow.Sequence[int] = &Vector[int]{}
var _ cow.Forkable[*Vector[int]] = &Vector[int]{}
