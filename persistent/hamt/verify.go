package hamt

import (
	"math/bits"

	"github.com/pkg/errors"
)

// verify checks the structural invariants of m: bitmaps agree with the packed slices,
// every entry sits in the slot its hash demands, collision nodes are really colliding,
// no node but the root is empty or reducible to a single inline entry, no node is
// younger than m, and the size is correct.
func (m *Map[K, V]) verify() error {
	if m.root == nil {
		if m.size != 0 {
			return errors.Errorf("nil root with size %d", m.size)
		}
		return nil
	}
	if _, ok := m.root.(*indexNode[K, V]); !ok {
		return errors.New("root is not an index node")
	}
	count, err := m.verifyNode(m.root, 0, 0, true)
	if err != nil {
		return err
	}
	if count != m.size {
		return errors.Errorf("map has size %d, but holds %d entries", m.size, count)
	}
	return nil
}

func (m *Map[K, V]) verifyNode(n node[K, V], shift uint, prefix uint32, isRoot bool) (int, error) {
	if n.generation() > m.generation {
		return 0, errors.Errorf("node of generation %d in map of generation %d", n.generation(), m.generation)
	}
	if !isRoot && (isSingleton(n) || n.payloadArity()+n.nodeArity() == 0) {
		return 0, errors.Errorf("non-canonical sub-node at shift %d", shift)
	}
	prefixMask := uint32(1)<<shift - 1
	for i := 0; i < n.payloadArity(); i++ {
		e := n.payload(i)
		if e.hash != m.hasher(e.key) {
			return 0, errors.Errorf("cached hash of key %v is stale", e.key)
		}
		if e.hash&prefixMask != prefix {
			return 0, errors.Errorf("key %v misplaced at shift %d", e.key, shift)
		}
	}
	switch n := n.(type) {
	case *collisionNode[K, V]:
		if len(n.entries) < 2 {
			return 0, errors.Errorf("collision node with %d entries", len(n.entries))
		}
		for i, e := range n.entries {
			if e.hash != n.hash {
				return 0, errors.Errorf("collision node %#x holds key %v with hash %#x", n.hash, e.key, e.hash)
			}
			for _, f := range n.entries[i+1:] {
				if f.key == e.key {
					return 0, errors.Errorf("collision node holds key %v twice", e.key)
				}
			}
		}
		return len(n.entries), nil
	case *indexNode[K, V]:
		if n.dataMap&n.nodeMap != 0 {
			return 0, errors.Errorf("bitmaps overlap at shift %d", shift)
		}
		if bits.OnesCount32(n.dataMap) != len(n.data) || bits.OnesCount32(n.nodeMap) != len(n.children) {
			return 0, errors.Errorf("bitmaps do not match slice lengths at shift %d", shift)
		}
		count := len(n.data)
		var d, c int
		for slot := uint32(0); slot < branching; slot++ {
			bit := uint32(1) << slot
			if n.dataMap&bit != 0 {
				if chunk(n.data[d].hash, shift) != slot {
					return 0, errors.Errorf("entry %d in wrong slot at shift %d", d, shift)
				}
				d++
			} else if n.nodeMap&bit != 0 {
				sub, err := m.verifyNode(n.children[c], shift+bitsPerLevel, prefix|slot<<shift, false)
				if err != nil {
					return 0, err
				}
				count += sub
				c++
			}
		}
		return count, nil
	}
	return 0, errors.New("unknown node type")
}
