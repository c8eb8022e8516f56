package outline

import (
	"cmp"
	"slices"
	"strconv"
)

// tree is the parent→children view of a flat collection.
type tree[R Node] struct {
	children map[string][]R
}

// buildTree buckets rows by parent id. A parent id that matches no row puts the
// row in the root bucket. Each bucket is stably sorted by sequence.
func buildTree[R Node](rows []R) tree[R] {
	byID := make(map[string]struct{}, len(rows))
	for _, r := range rows {
		byID[r.Node().ID] = struct{}{}
	}

	children := make(map[string][]R)
	for _, r := range rows {
		key := r.Node().ParentID
		if _, ok := byID[key]; !ok {
			key = rootKey
		}
		children[key] = append(children[key], r)
	}

	for _, kids := range children {
		slices.SortStableFunc(kids, func(a, b R) int {
			return cmp.Compare(a.Node().Sequence, b.Node().Sequence)
		})
	}
	return tree[R]{children: children}
}

type frame[R Node] struct {
	kids   []R
	prefix string
	next   int
}

// walk visits rows depth-first from the root bucket, handing each one its
// outline label. Returning false from visit skips the row's descendants.
// An explicit stack keeps deep chains off the call stack; a row is never
// visited twice even when duplicate ids would otherwise loop.
func (t tree[R]) walk(visit func(r R, label string) bool) {
	seen := make(map[*Row]struct{})
	stack := []frame[R]{{kids: t.children[rootKey]}}

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		if top.next == len(top.kids) {
			stack = stack[:len(stack)-1]
			continue
		}
		child := top.kids[top.next]
		top.next++

		label := strconv.Itoa(top.next)
		if top.prefix != "" {
			label = top.prefix + "." + label
		}

		n := child.Node()
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}

		if !visit(child, label) {
			continue
		}
		if n.ID == rootKey {
			continue
		}
		if kids := t.children[n.ID]; len(kids) > 0 {
			stack = append(stack, frame[R]{kids: kids, prefix: label})
		}
	}
}

// preorder returns the rows reachable from the root bucket in tree order.
func (t tree[R]) preorder() []R {
	var out []R
	t.walk(func(r R, _ string) bool {
		out = append(out, r)
		return true
	})
	return out
}
