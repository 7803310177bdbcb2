package cow

import "github.com/npillmayer/cow/maybe"

// Change reports the effect of a single write operation on a collection.
// It is exactly one of
//
//     Unchanged      nothing happened, e.g. removing an absent key
//     Inserted       a new entry has been added
//     Replaced(old)  an existing value has been overwritten or removed
//
// Replaced implies modified.
type Change[V any] struct {
	kind changeKind
	old  V
}

type changeKind uint8

const (
	unchanged changeKind = iota
	inserted
	replaced
)

// Unchanged is the change of a write which did not modify the collection.
func Unchanged[V any]() Change[V] {
	return Change[V]{}
}

// Inserted is the change of a write which added a new entry.
func Inserted[V any]() Change[V] {
	return Change[V]{kind: inserted}
}

// Replaced is the change of a write which overwrote or dropped value old.
func Replaced[V any](old V) Change[V] {
	return Change[V]{kind: replaced, old: old}
}

// Modified is true if the write did change the collection.
func (c Change[V]) Modified() bool {
	return c.kind != unchanged
}

// Replaced is true if the write did overwrite or drop an existing value.
func (c Change[V]) Replaced() bool {
	return c.kind == replaced
}

// Old returns the overwritten or dropped value, if any.
func (c Change[V]) Old() maybe.Maybe[V] {
	if c.kind == replaced {
		return maybe.Just(c.old)
	}
	return maybe.Nothing[V]()
}

func (c Change[V]) String() string {
	switch c.kind {
	case inserted:
		return "inserted"
	case replaced:
		return "replaced"
	}
	return "unchanged"
}

// --- Matching --------------------------------------------------------------

// ChangeMatcher lets clients switch over the variants of a change:
//
//     var old string
//     switch m := change.Match(); m {
//     case m.Replaced(&old):
//         fmt.Printf("dropped %q\n", old)
//     case m.Inserted():
//     case m.Unchanged():
//     }
//
type ChangeMatcher[V any] interface {
	Unchanged() ChangeMatcher[V]
	Inserted() ChangeMatcher[V]
	Replaced(*V) ChangeMatcher[V]
}

// Match returns a matcher for c.
func (c Change[V]) Match() ChangeMatcher[V] {
	return &changeMatcher[V]{c: c}
}

// changeMatcher is handed out as a pointer: comparing matchers in a switch
// statement must not compare values of type V.
type changeMatcher[V any] struct {
	c Change[V]
}

func (cm *changeMatcher[V]) Unchanged() ChangeMatcher[V] {
	if cm.c.kind == unchanged {
		return cm
	}
	return nil
}

func (cm *changeMatcher[V]) Inserted() ChangeMatcher[V] {
	if cm.c.kind == inserted {
		return cm
	}
	return nil
}

func (cm *changeMatcher[V]) Replaced(old *V) ChangeMatcher[V] {
	if cm.c.kind == replaced {
		if old != nil {
			*old = cm.c.old
		}
		return cm
	}
	return nil
}
