/*
Package splice builds slices from other slices by inserting, removing or replacing
elements at given offsets.

Every function except SwapOut returns a freshly allocated slice and leaves its
argument untouched, which is what copy-on-write nodes need when they have to
change a slice they do not own. Offsets out of range panic.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package splice

import "fmt"

// Splice returns a copy of s with s[from:to] replaced by values.
func Splice[T any](s []T, from, to int, values ...T) []T {
	assertThat(from >= 0 && from <= to && to <= len(s), "range [%d, %d) out of bounds for length %d",
		from, to, len(s))
	r := make([]T, len(s)-(to-from)+len(values))
	n := copy(r, s[:from])
	n += copy(r[n:], values)
	copy(r[n:], s[to:])
	return r
}

// Insert returns a copy of s with values inserted at position i.
// Position len(s) appends.
func Insert[T any](s []T, i int, values ...T) []T {
	return Splice(s, i, i, values...)
}

// Remove returns a copy of s without the element at i.
func Remove[T any](s []T, i int) []T {
	return Splice(s, i, i+1)
}

// Append returns a copy of s with values appended.
func Append[T any](s []T, values ...T) []T {
	return Splice(s, len(s), len(s), values...)
}

// Concat returns a new slice holding the elements of all parts in order.
func Concat[T any](parts ...[]T) []T {
	l := 0
	for _, p := range parts {
		l += len(p)
	}
	r := make([]T, 0, l)
	for _, p := range parts {
		r = append(r, p...)
	}
	return r
}

// Slice returns a copy of s[from:to].
func Slice[T any](s []T, from, to int) []T {
	assertThat(from >= 0 && from <= to && to <= len(s), "range [%d, %d) out of bounds for length %d",
		from, to, len(s))
	r := make([]T, to-from)
	copy(r, s[from:to])
	return r
}

// Clone returns a copy of s with at least the given capacity.
func Clone[T any](s []T, capacity int) []T {
	if capacity < len(s) {
		capacity = len(s)
	}
	r := make([]T, len(s), capacity)
	copy(r, s)
	return r
}

// SwapOut sets s[i] to v in place and returns the previous element.
func SwapOut[T any](s []T, i int, v T) T {
	assertThat(i >= 0 && i < len(s), "index %d out of bounds for length %d", i, len(s))
	old := s[i]
	s[i] = v
	return old
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("splice: "+msg, msgargs...)
		panic(msg)
	}
}
