/*
Package btree implements a copy-on-write in-memory B-tree, used as an ordered map.

A good introduction to B-trees and their algorithms may be found at
https://algorithmtutor.com/Data-Structures/Tree/B-Trees/.

Insertion splits full nodes on the way down, deletion enlarges minimal nodes on the
way down (by rotating an item in from a sibling, or by merging with a sibling), so
neither ever has to walk back up the tree. Nodes are stamped with the generation of
the map which created them; writes copy nodes of older generations and modify nodes
of their own generation in place. Forking a map is therefore a constant-time
operation:

    m := btree.NewOrdered[string, int]()
    m.Put("a", 1)
    f := m.Fork()
    f.Put("b", 2)  // m does not see "b"

Maps may be traversed in ascending or descending key order, starting at either end
of the map or at a given (exclusive) bound.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package btree

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'cow.btree'.
func tracer() tracing.Trace {
	return tracing.Select("cow.btree")
}
