package vector

import "github.com/npillmayer/cow"

// Iterator walks the elements of a vector by index. It may be positioned at any
// index with Seek.
//
//     it := v.Iterator()
//     for it.Next() {
//         fmt.Printf("v[%d] = %v\n", it.Index(), it.Value())
//     }
//
// The iterator sees the vector as it was at the time of creation; later writes to
// the vector do not affect it.
type Iterator[T any] struct {
	v     Vector[T] // frozen copy of the vector header
	index int
	base  int // index of leaf[0]
	leaf  []T
}

// Iterator creates an iterator positioned before the first element of v.
func (v *Vector[T]) Iterator() *Iterator[T] {
	v.init()
	v.generation++
	return &Iterator[T]{v: *v, index: -1, base: -1}
}

// Next advances to the next element. It returns false if there are no more elements.
func (it *Iterator[T]) Next() bool {
	if it.index >= it.v.size {
		return false
	}
	it.index++
	return it.index < it.v.size
}

// Index returns the index of the current element.
func (it *Iterator[T]) Index() int {
	return it.index
}

// Value returns the current element.
func (it *Iterator[T]) Value() T {
	cow.CheckIndex(it.index, it.v.size)
	if base := it.index &^ mask; base != it.base {
		it.base, it.leaf = base, it.v.leafFor(base).leafs
	}
	return it.leaf[it.index-it.base]
}

// Seek positions the iterator before index i, so that the next call to Next moves to
// element i. i may be Len(), which exhausts the iterator.
func (it *Iterator[T]) Seek(i int) {
	cow.CheckIndex(i, it.v.size+1)
	it.index = i - 1
}

// Len returns the length of the vector at the time the iterator was created.
func (it *Iterator[T]) Len() int {
	return it.v.size
}
