// Package outline rebuilds a tree from a flat, ordered collection of rows and
// assigns each row a dotted-decimal outline label ("1", "1.2", "1.2.3") and a
// depth derived from that label.
//
// Rows reference their parent by id. The package keeps no state between calls:
// every operation recomputes the tree from the rows it is given.
package outline

import "github.com/google/uuid"

// Row is one line item of a flat collection that logically forms a tree.
type Row struct {
	ID       string `json:"id"`
	ParentID string `json:"parent_id,omitempty"`
	Sequence int    `json:"sequence"`
	Depth    int    `json:"depth"`
	Label    string `json:"label,omitempty"`
}

// Node is implemented by anything carrying a Row. Domain records embed Row and
// get Node for free, so the functions in this package work on them directly.
type Node interface {
	Node() *Row
}

// Node returns r itself.
func (r *Row) Node() *Row { return r }

// NewID returns a fresh row identifier.
func NewID() string {
	return uuid.NewString()
}

// rootKey is the bucket key of rows without a resolvable parent.
const rootKey = ""
