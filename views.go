package cow

import (
	"fmt"
	"strings"
)

// KeySet is a live view on the keys of a map. Removing a key from the view removes
// the key's entry from the map.
type KeySet[K, V any] struct {
	m Map[K, V]
}

// Keys returns a key view on m.
func Keys[K, V any](m Map[K, V]) KeySet[K, V] {
	return KeySet[K, V]{m: m}
}

func (ks KeySet[K, V]) Len() int { return ks.m.Len() }
func (ks KeySet[K, V]) Contains(key K) bool { return ks.m.ContainsKey(key) }
func (ks KeySet[K, V]) Remove(key K) bool { return ks.m.Remove(key).Modified() }
func (ks KeySet[K, V]) Clear() { ks.m.Clear() }
func (ks KeySet[K, V]) Range(f func(K) bool) { ks.m.Range(func(k K, _ V) bool { return f(k) }) }
func (ks KeySet[K, V]) Slice() []K { return collect(ks.m, func(k K, _ V) K { return k }) }

// Values is a live view on the values of a map.
type Values[K, V any] struct {
	m Map[K, V]
}

// ValuesOf returns a value view on m.
func ValuesOf[K, V any](m Map[K, V]) Values[K, V] {
	return Values[K, V]{m: m}
}

func (vs Values[K, V]) Len() int { return vs.m.Len() }
func (vs Values[K, V]) Contains(value V) bool { return vs.m.ContainsValue(value) }
func (vs Values[K, V]) Range(f func(V) bool) { vs.m.Range(func(_ K, v V) bool { return f(v) }) }
func (vs Values[K, V]) Slice() []V { return collect(vs.m, func(_ K, v V) V { return v }) }

// Remove drops the first entry (in iteration order) holding value.
func (vs Values[K, V]) Remove(value V) bool {
	var key K
	var found bool
	vs.m.Range(func(k K, v V) bool {
		if Equal(v, value) {
			key, found = k, true
			return false
		}
		return true
	})
	return found && vs.m.RemoveIf(key, value)
}

// EntrySet is a live view on the entries of a map.
type EntrySet[K, V any] struct {
	m Map[K, V]
}

// Entries returns an entry view on m.
func Entries[K, V any](m Map[K, V]) EntrySet[K, V] {
	return EntrySet[K, V]{m: m}
}

func (es EntrySet[K, V]) Len() int { return es.m.Len() }

// Contains is true if the map holds e's key, mapped to a value equal to e's value.
func (es EntrySet[K, V]) Contains(e Entry[K, V]) bool {
	v, ok := es.m.Get(e.Key)
	return ok && Equal(v, e.Value)
}

// Remove drops e from the map, if present with an equal value.
func (es EntrySet[K, V]) Remove(e Entry[K, V]) bool {
	return es.m.RemoveIf(e.Key, e.Value)
}

// Add puts e into the map and reports whether the map changed.
func (es EntrySet[K, V]) Add(e Entry[K, V]) bool {
	if es.Contains(e) {
		return false
	}
	return es.m.Put(e.Key, e.Value).Modified()
}

func (es EntrySet[K, V]) Range(f func(Entry[K, V]) bool) {
	es.m.Range(func(k K, v V) bool { return f(Entry[K, V]{k, v}) })
}

func (es EntrySet[K, V]) Slice() []Entry[K, V] {
	return collect(es.m, func(k K, v V) Entry[K, V] { return Entry[K, V]{k, v} })
}

func collect[K, V, T any](m Map[K, V], f func(K, V) T) []T {
	r := make([]T, 0, m.Len())
	m.Range(func(k K, v V) bool {
		r = append(r, f(k, v))
		return true
	})
	return r
}

// --- Content based equality ------------------------------------------------

// EqualMaps is true if a and b hold the same keys mapped to equal values.
// Iteration order does not matter.
func EqualMaps[K, V any](a, b Map[K, V]) bool {
	if a.Len() != b.Len() {
		return false
	}
	eq := true
	a.Range(func(k K, v V) bool {
		w, ok := b.Get(k)
		eq = ok && Equal(v, w)
		return eq
	})
	return eq
}

// HashMap computes a content hash of m, independent of iteration order.
func HashMap[K, V any](m Map[K, V]) uint32 {
	h := uint32(m.Len())
	m.Range(func(k K, v V) bool {
		h += Hash(k) ^ Hash(v)
		return true
	})
	return h
}

// FormatMap prints m in the form `{k1: v1, k2: v2}`, in iteration order.
func FormatMap[K, V any](m Map[K, V]) string {
	var sb strings.Builder
	sb.WriteRune('{')
	first := true
	m.Range(func(k K, v V) bool {
		if !first {
			sb.WriteString(", ")
		}
		first = false
		sb.WriteString(fmt.Sprintf("%v: %v", k, v))
		return true
	})
	sb.WriteRune('}')
	return sb.String()
}
