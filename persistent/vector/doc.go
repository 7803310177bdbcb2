/*
Package vector implements a copy-on-write vector, designed for use-cases similar
to Go slices.

A Vector is a bit-partitioned trie of 32-way nodes, with a separate tail leaf
holding the last 1 to 32 elements. Appending and removing at the end are
amortized constant time operations, as is indexed access (for practical vector
sizes the trie is at most 6 levels deep). Inserting or removing in the middle
rebuilds the vector from the point of change, sharing the leaves in front of it.

Vectors are mutable, but may be forked in constant time. A fork shares all of
its structure with the original; nodes are copied only when one of them is
written to:

    v := vector.From(1, 2, 3)
    w := v.Fork()
    w.Set(0, 100)   // v.Get(0) is still 1

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package vector

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cow.vector'.
func tracer() tracing.Trace {
	return tracing.Select("cow.vector")
}
