/*
Package cow holds the contracts shared by the copy-on-write collections of this module.

The collections live in sub-packages of persistent:

    persistent/hamt     hash array mapped trie, an unordered map
    persistent/btree    B-tree, an ordered map with range cursors
    persistent/vector   bit-partitioned vector with a tail buffer
    persistent/set      sets backed by one of the maps above

All of them are mutable in place, but may be forked in constant time. A fork is an
independent version of a collection which shares all of its storage with the original.
Writes to either version copy only the nodes on the path they touch, and only the
first time they touch them.

Generations

Every collection instance owns a generation counter, and every node is stamped with the
generation it was created in. A write may modify a node in place only if the node's
stamp equals the instance's generation; otherwise the node is cloned and the clone is
stamped. Fork increments the generation, thus turning every existing node read-only
for both handles.

A single instance must not be written to from more than one goroutine at a time.
Forking before handing a collection to another goroutine is the safe pattern.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package cow
