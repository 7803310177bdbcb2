/*
Persistent data structures are data structures which can be copied and modified
efficiently, leaving the original unchanged. Functional programming languages like Lisp have long
relied on using them.
This package offers a selection of data structures with similar properties, implemented
copy-on-write.

The collections of the sub-packages are mutable, but may be forked in constant time.
Forks offer structural sharing: if two collections are mostly copies of each other,
most of the memory they take up will be shared between them. A write to either of them
copies the nodes it touches once, and modifies its own copies in place afterwards.
Thus a series of writes costs about the same as for an ephemeral data structure, while
handing out a snapshot costs nothing.

    hamt     unordered map, hash array mapped trie
    btree    ordered map, B-tree
    vector   indexed sequence, bit-partitioned trie with tail
    set      sets on top of hamt or btree

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package persistent
