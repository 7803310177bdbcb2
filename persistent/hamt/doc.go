/*
Package hamt implements a copy-on-write hash array mapped trie.

A Map is a 32-way trie over the hash values of its keys, in the compressed
variant of Michael Steindorfer (CHAMP): each node keeps two bitmaps, one for
entries stored inline and one for child nodes. Keys whose complete 32-bit hash
values collide end up in a collision node, which holds an unordered list of
entries.

Maps are mutable, but may be forked in constant time:

    m := hamt.New[string, int]()
    m.Put("a", 1)
    f := m.Fork()
    f.Put("a", 2)  // m still maps "a" to 1

Iteration order is trie order, which is stable for a given set of keys and a
given hash function, but otherwise unspecified.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package hamt

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cow.hamt'.
func tracer() tracing.Trace {
	return tracing.Select("cow.hamt")
}

func assertThat(that bool, msg string, msgargs ...interface{}) {
	if !that {
		msg = fmt.Sprintf("hamt: "+msg, msgargs...)
		panic(msg)
	}
}
