package outline

import "strings"

// Label assigns ids, outline labels and depths to rows in place.
//
// Rows without an id get a new one; existing ids are never touched. Siblings
// are numbered from 1 in ascending sequence order, ties keeping their input
// order. A row whose parent id matches no row is labeled as a root. The slice
// itself is not reordered.
func Label[R Node](rows []R) {
	if len(rows) == 0 {
		return
	}

	for _, r := range rows {
		n := r.Node()
		if n.ID == "" {
			n.ID = NewID()
		}
	}

	buildTree(rows).walk(func(r R, label string) bool {
		n := r.Node()
		n.Label = label
		n.Depth = strings.Count(label, ".")
		return true
	})
}

// Detached returns the rows that Label cannot reach from any root, in input
// order. Only rows sitting on a parent cycle end up here.
func Detached[R Node](rows []R) []R {
	reached := make(map[*Row]struct{}, len(rows))
	for _, r := range buildTree(rows).preorder() {
		reached[r.Node()] = struct{}{}
	}

	var out []R
	for _, r := range rows {
		if _, ok := reached[r.Node()]; !ok {
			out = append(out, r)
		}
	}
	return out
}
