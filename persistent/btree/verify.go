package btree

import (
	"github.com/pkg/errors"
)

// verify checks the structural invariants of t: node sizes are within the bounds set by
// the degree, keys are strictly ascending, every key lies between the keys separating
// its sub-tree, all leaves are at the same depth, no node is younger than t, and the
// size is correct.
func (t *Map[K, V]) verify() error {
	if t.root == nil {
		return errors.New("map without root")
	}
	if !t.root.isLeaf() && len(t.root.items) == 0 {
		return errors.New("inner root without items")
	}
	leafDepth := -1
	count, err := t.verifyNode(t.root, nil, nil, 0, &leafDepth)
	if err != nil {
		return err
	}
	if count != t.size {
		return errors.Errorf("map has size %d, but holds %d entries", t.size, count)
	}
	return nil
}

func (t *Map[K, V]) verifyNode(node *xnode[K, V], lo, hi *K, depth int, leafDepth *int) (int, error) {
	if node.gen > t.generation {
		return 0, errors.Errorf("node %s of generation %d in map of generation %d", node, node.gen, t.generation)
	}
	if len(node.items) > t.maxKeys {
		return 0, errors.Errorf("node %s overfull", node)
	}
	if node != t.root && len(node.items) < t.minKeys {
		return 0, errors.Errorf("node %s underfull", node)
	}
	for i, item := range node.items {
		if i > 0 && t.cmp(node.items[i-1].key, item.key) >= 0 {
			return 0, errors.Errorf("keys of node %s not ascending", node)
		}
		if (lo != nil && t.cmp(*lo, item.key) >= 0) || (hi != nil && t.cmp(item.key, *hi) >= 0) {
			return 0, errors.Errorf("key %v of node %s out of range of its parent", item.key, node)
		}
	}
	if node.isLeaf() {
		if *leafDepth < 0 {
			*leafDepth = depth
		} else if *leafDepth != depth {
			return 0, errors.Errorf("leaf %s at depth %d, expected %d", node, depth, *leafDepth)
		}
		return len(node.items), nil
	}
	if len(node.children) != len(node.items)+1 {
		return 0, errors.Errorf("node %s has %d children", node, len(node.children))
	}
	count := len(node.items)
	for i, child := range node.children {
		l, h := lo, hi
		if i > 0 {
			l = &node.items[i-1].key
		}
		if i < len(node.items) {
			h = &node.items[i].key
		}
		n, err := t.verifyNode(child, l, h, depth+1, leafDepth)
		if err != nil {
			return 0, err
		}
		count += n
	}
	return count, nil
}
