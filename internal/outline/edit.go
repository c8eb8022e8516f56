package outline

import (
	"errors"
	"fmt"
)

// ErrParentNotFound is returned when a parent id matches no row.
var ErrParentNotFound = errors.New("parent row not found")

// Normalize returns rows in tree order: every parent directly followed by its
// subtree, siblings by sequence. When the order changes, sequences are
// renumbered 1..n to match and changed is true.
//
// If some rows cannot be reached from a root, rows is returned untouched.
func Normalize[R Node](rows []R) (ordered []R, changed bool) {
	if len(rows) == 0 {
		return rows, false
	}

	ordered = buildTree(rows).preorder()
	if len(ordered) != len(rows) {
		return rows, false
	}

	for i := range rows {
		if rows[i].Node() != ordered[i].Node() {
			changed = true
			break
		}
	}
	if !changed {
		return rows, false
	}

	for i, r := range ordered {
		r.Node().Sequence = i + 1
	}
	return ordered, true
}

// AddChild appends child as the last child of the row identified by parentID
// and returns the collection in tree order. The child gets a new id when it
// has none and its depth is set one below its parent.
func AddChild[R Node](rows []R, parentID string, child R) ([]R, error) {
	var parent *Row
	last := 0
	for _, r := range rows {
		n := r.Node()
		if n.ID == parentID && parentID != "" {
			parent = n
		}
		last = max(last, n.Sequence)
	}
	if parent == nil {
		return rows, fmt.Errorf("%w: %s", ErrParentNotFound, parentID)
	}

	c := child.Node()
	if c.ID == "" {
		c.ID = NewID()
	}
	c.ParentID = parent.ID
	c.Depth = parent.Depth + 1
	c.Sequence = last + 1

	rows = append(rows, child)
	ordered, _ := Normalize(rows)
	return ordered, nil
}

// HasChildren reports whether any row names id as its parent.
func HasChildren[R Node](rows []R, id string) bool {
	if id == "" {
		return false
	}
	for _, r := range rows {
		if r.Node().ParentID == id {
			return true
		}
	}
	return false
}

// Collapsed is the set of row ids whose subtrees are folded away.
type Collapsed map[string]bool

// Toggle flips the collapse state of id.
func (c Collapsed) Toggle(id string) {
	if c[id] {
		delete(c, id)
		return
	}
	c[id] = true
}

// Hidden reports whether row sits below a collapsed ancestor.
func Hidden[R Node](rows []R, row R, collapsed Collapsed) bool {
	if len(collapsed) == 0 {
		return false
	}

	byID := make(map[string]*Row, len(rows))
	for _, r := range rows {
		byID[r.Node().ID] = r.Node()
	}

	seen := make(map[string]struct{})
	pid := row.Node().ParentID
	for pid != "" {
		if collapsed[pid] {
			return true
		}
		if _, ok := seen[pid]; ok {
			return false
		}
		seen[pid] = struct{}{}

		parent, ok := byID[pid]
		if !ok {
			return false
		}
		pid = parent.ParentID
	}
	return false
}

// Visible returns the rows to display, in tree order, leaving out everything
// below a collapsed row. The collapsed row itself stays visible.
func Visible[R Node](rows []R, collapsed Collapsed) []R {
	var out []R
	buildTree(rows).walk(func(r R, _ string) bool {
		out = append(out, r)
		return !collapsed[r.Node().ID]
	})
	return out
}
