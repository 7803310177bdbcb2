/*
Package set implements copy-on-write sets on top of the maps of this module.

A Set is a thin adapter around a map whose values carry no information. Hashed
sets are backed by a hamt.Map, ordered sets by a btree.Map:

    s := set.OrderedOf[string]()
    s.Add("b")
    s.Add("a")
    fmt.Println(s)   // prints {a, b}

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package set

import (
	"fmt"
	"iter"
	"strings"

	"github.com/npillmayer/cow"
	"github.com/npillmayer/cow/persistent/btree"
	"github.com/npillmayer/cow/persistent/hamt"
	"golang.org/x/exp/constraints"
)

// Present is the value type of the maps backing a set.
type Present = struct{}

// Backing is a map able to hold the elements of a set.
type Backing[K any, M any] interface {
	cow.Map[K, Present]
	Fork() M
}

// Set is a collection of unique elements.
type Set[K any, M Backing[K, M]] struct {
	m M
}

// Of wraps a map into a set. The set takes ownership of m.
func Of[K any, M Backing[K, M]](m M) *Set[K, M] {
	return &Set[K, M]{m: m}
}

// Hashed creates an empty set backed by a hash trie.
func Hashed[K comparable](opts ...hamt.Option[K]) *Set[K, *hamt.Map[K, Present]] {
	return Of[K](hamt.New[K, Present](opts...))
}

// Ordered creates an empty set, iterating its elements in the order given by cmp.
func Ordered[K any](cmp func(K, K) int, opts ...btree.Option) *Set[K, *btree.Map[K, Present]] {
	return Of[K](btree.New[K, Present](cmp, opts...))
}

// OrderedOf creates an empty set for elements of an ordered type.
func OrderedOf[K constraints.Ordered](opts ...btree.Option) *Set[K, *btree.Map[K, Present]] {
	return Of[K](btree.NewOrdered[K, Present](opts...))
}

// Collect creates a hashed set from the elements of seq.
func Collect[K comparable](seq iter.Seq[K]) *Set[K, *hamt.Map[K, Present]] {
	s := Hashed[K]()
	for k := range seq {
		s.Add(k)
	}
	return s
}

// CollectOrdered creates an ordered set from the elements of seq.
func CollectOrdered[K constraints.Ordered](seq iter.Seq[K]) *Set[K, *btree.Map[K, Present]] {
	s := OrderedOf[K]()
	for k := range seq {
		s.Add(k)
	}
	return s
}

// Fork returns an independent version of s in constant time.
func (s *Set[K, M]) Fork() *Set[K, M] {
	return &Set[K, M]{m: s.m.Fork()}
}

func (s *Set[K, M]) Len() int {
	return s.m.Len()
}

func (s *Set[K, M]) IsEmpty() bool {
	return s.m.IsEmpty()
}

func (s *Set[K, M]) Contains(k K) bool {
	return s.m.ContainsKey(k)
}

// Add adds k to s. It returns false if k already has been an element of s.
func (s *Set[K, M]) Add(k K) bool {
	if s.m.ContainsKey(k) {
		return false
	}
	s.m.Put(k, Present{})
	return true
}

// Remove removes k from s. It returns false if k has not been an element of s.
func (s *Set[K, M]) Remove(k K) bool {
	return s.m.Remove(k).Modified()
}

func (s *Set[K, M]) Clear() {
	s.m.Clear()
}

// Range calls f for every element of s, in the iteration order of the backing map,
// until f returns false.
func (s *Set[K, M]) Range(f func(K) bool) {
	s.m.Range(func(k K, _ Present) bool { return f(k) })
}

// All returns an iterator over the elements of s, to be used with range-over-func.
func (s *Set[K, M]) All() iter.Seq[K] {
	return s.Range
}

// Slice copies the elements of s into a Go slice.
func (s *Set[K, M]) Slice() []K {
	r := make([]K, 0, s.Len())
	s.Range(func(k K) bool {
		r = append(r, k)
		return true
	})
	return r
}

// Container is anything able to tell its size and its elements.
type Container[K any] interface {
	Len() int
	Contains(K) bool
}

// Equal is true if s and other hold the same elements. The kind of backing map does
// not matter.
func (s *Set[K, M]) Equal(other Container[K]) bool {
	if s.Len() != other.Len() {
		return false
	}
	eq := true
	s.Range(func(k K) bool {
		eq = other.Contains(k)
		return eq
	})
	return eq
}

// HashCode returns a hash of the elements of s, independent of iteration order.
func (s *Set[K, M]) HashCode() uint32 {
	h := uint32(s.Len())
	s.Range(func(k K) bool {
		h += cow.Hash(k)
		return true
	})
	return h
}

func (s *Set[K, M]) String() string {
	var sb strings.Builder
	sb.WriteRune('{')
	first := true
	s.Range(func(k K) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(fmt.Sprintf("%v", k))
		return true
	})
	sb.WriteRune('}')
	return sb.String()
}
