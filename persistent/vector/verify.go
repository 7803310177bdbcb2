package vector

import "github.com/pkg/errors"

// verify checks the structural invariants of v:
//
//   - the tail holds 1 to 32 elements, or none for an empty vector
//   - leaves in the trie are full, inner nodes are packed from the left
//   - the root has at least two children if the trie has more than one level
//   - no node is younger than v
//
func (v *Vector[T]) verify() error {
	if v.root == nil {
		if v.size != 0 {
			return errors.Errorf("uninitialized vector with size %d", v.size)
		}
		return nil
	}
	if v.shift < bits || v.shift%bits != 0 {
		return errors.Errorf("illegal shift %d", v.shift)
	}
	t := len(v.tail.leafs)
	if v.size == 0 && t != 0 || v.size > 0 && (t < 1 || t > width) {
		return errors.Errorf("tail of length %d in vector of size %d", t, v.size)
	}
	if t != v.size-v.tailOffset() {
		return errors.Errorf("tail of length %d, expected %d", t, v.size-v.tailOffset())
	}
	if v.tail.gen > v.generation {
		return errors.Errorf("tail of generation %d in vector of generation %d", v.tail.gen, v.generation)
	}
	if v.shift > bits && len(v.root.children) < 2 {
		return errors.Errorf("root at shift %d with %d children", v.shift, len(v.root.children))
	}
	n, err := v.verifyNode(v.root, v.shift)
	if err != nil {
		return err
	}
	if n != v.tailOffset() {
		return errors.Errorf("trie holds %d elements, expected %d", n, v.tailOffset())
	}
	return nil
}

// verifyNode checks the sub-trie of a node at level and returns the number of
// elements in it.
func (v *Vector[T]) verifyNode(node *vnode[T], level uint) (int, error) {
	if node.gen > v.generation {
		return 0, errors.Errorf("node %s of generation %d in vector of generation %d", node, node.gen, v.generation)
	}
	if level == 0 {
		if len(node.children) > 0 || len(node.leafs) != width {
			return 0, errors.Errorf("leaf %s is not full", node)
		}
		return width, nil
	}
	if len(node.leafs) > 0 || len(node.children) > width {
		return 0, errors.Errorf("malformed inner node %s at level %d", node, level)
	}
	count := 0
	for i, child := range node.children {
		if child == nil {
			return 0, errors.Errorf("nil child in node %s at level %d", node, level)
		}
		n, err := v.verifyNode(child, level-bits)
		if err != nil {
			return 0, err
		}
		if i < len(node.children)-1 && n != 1<<level {
			return 0, errors.Errorf("inner child %d at level %d holds %d elements", i, level, n)
		}
		count += n
	}
	if count == 0 && node != v.root {
		return 0, errors.Errorf("empty inner node at level %d", level)
	}
	return count, nil
}
