package outline

import (
	"errors"
	"testing"
)

func ids(rows []*Row) []string {
	out := make([]string, len(rows))
	for i, r := range rows {
		out[i] = r.ID
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestNormalizeMovesChildrenUnderParent(t *testing.T) {
	rows := []*Row{
		{ID: "a", Sequence: 1},
		{ID: "b", Sequence: 2},
		{ID: "a1", ParentID: "a", Sequence: 3},
	}
	ordered, changed := Normalize(rows)
	if !changed {
		t.Fatal("expected Normalize to report a change")
	}

	if got, want := ids(ordered), []string{"a", "a1", "b"}; !equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
	for i, r := range ordered {
		if r.Sequence != i+1 {
			t.Errorf("%s.Sequence = %d, want %d", r.ID, r.Sequence, i+1)
		}
	}
}

func TestNormalizeAlreadyOrdered(t *testing.T) {
	rows := []*Row{
		{ID: "a", Sequence: 4},
		{ID: "a1", ParentID: "a", Sequence: 9},
		{ID: "b", Sequence: 10},
	}
	ordered, changed := Normalize(rows)
	if changed {
		t.Error("Normalize reported a change on ordered input")
	}
	if rows[0].Sequence != 4 {
		t.Errorf("sequence renumbered without a change: %d", rows[0].Sequence)
	}
	if &ordered[0] != &rows[0] {
		t.Error("expected the input slice back")
	}
}

func TestNormalizeCycleLeavesInputAlone(t *testing.T) {
	rows := []*Row{
		{ID: "b", Sequence: 2},
		{ID: "a", Sequence: 1},
		{ID: "x", ParentID: "y"},
		{ID: "y", ParentID: "x"},
	}
	ordered, changed := Normalize(rows)
	if changed {
		t.Error("Normalize reported a change with unreachable rows")
	}
	if got, want := ids(ordered), []string{"b", "a", "x", "y"}; !equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}
}

func TestAddChild(t *testing.T) {
	rows := []*Row{
		{ID: "a", Sequence: 1},
		{ID: "a1", ParentID: "a", Sequence: 2, Depth: 1},
		{ID: "b", Sequence: 3},
	}

	child := &Row{}
	rows, err := AddChild(rows, "a", child)
	if err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if child.ID == "" {
		t.Fatal("child has no id")
	}
	if child.ParentID != "a" || child.Depth != 1 {
		t.Errorf("child = %+v, want parent a depth 1", *child)
	}

	if got, want := ids(rows), []string{"a", "a1", child.ID, "b"}; !equal(got, want) {
		t.Errorf("order = %v, want %v", got, want)
	}

	Label(rows)
	if child.Label != "1.2" {
		t.Errorf("child.Label = %q, want %q", child.Label, "1.2")
	}
}

func TestAddChildUnknownParent(t *testing.T) {
	rows := []*Row{{ID: "a"}}
	out, err := AddChild(rows, "nope", &Row{})
	if !errors.Is(err, ErrParentNotFound) {
		t.Fatalf("err = %v, want ErrParentNotFound", err)
	}
	if len(out) != 1 {
		t.Errorf("rows grew to %d on error", len(out))
	}
}

func TestHasChildren(t *testing.T) {
	rows := []*Row{{ID: "a"}, {ID: "b", ParentID: "a"}}
	if !HasChildren(rows, "a") {
		t.Error("HasChildren(a) = false, want true")
	}
	if HasChildren(rows, "b") {
		t.Error("HasChildren(b) = true, want false")
	}
	if HasChildren(rows, "") {
		t.Error("HasChildren(\"\") = true, want false")
	}
}

func TestCollapsedToggle(t *testing.T) {
	c := Collapsed{}
	c.Toggle("a")
	if !c["a"] {
		t.Fatal("a not collapsed after first toggle")
	}
	c.Toggle("a")
	if _, ok := c["a"]; ok {
		t.Error("a still present after second toggle")
	}
}

func TestHidden(t *testing.T) {
	a := &Row{ID: "a"}
	b := &Row{ID: "b", ParentID: "a"}
	c := &Row{ID: "c", ParentID: "b"}
	x := &Row{ID: "x", ParentID: "y"}
	y := &Row{ID: "y", ParentID: "x"}
	rows := []*Row{a, b, c, x, y}

	collapsed := Collapsed{"a": true}
	if Hidden(rows, a, collapsed) {
		t.Error("collapsed row itself is hidden")
	}
	if !Hidden(rows, b, collapsed) || !Hidden(rows, c, collapsed) {
		t.Error("descendants of a collapsed row are visible")
	}
	if Hidden(rows, x, collapsed) {
		t.Error("cycle member reported hidden")
	}
	if Hidden(rows, c, nil) {
		t.Error("row hidden with no collapsed set")
	}
}

func TestVisible(t *testing.T) {
	rows := []*Row{
		{ID: "b", Sequence: 2},
		{ID: "b1", ParentID: "b", Sequence: 1},
		{ID: "a", Sequence: 1},
		{ID: "a1", ParentID: "a", Sequence: 1},
		{ID: "a1x", ParentID: "a1", Sequence: 1},
	}

	if got, want := ids(Visible(rows, nil)), []string{"a", "a1", "a1x", "b", "b1"}; !equal(got, want) {
		t.Errorf("Visible(nil) = %v, want %v", got, want)
	}
	if got, want := ids(Visible(rows, Collapsed{"a": true})), []string{"a", "b", "b1"}; !equal(got, want) {
		t.Errorf("Visible(a collapsed) = %v, want %v", got, want)
	}
}

func TestVisibleRowsWithoutIDs(t *testing.T) {
	rows := []*Row{{Sequence: 2}, {Sequence: 1}}
	got := Visible(rows, nil)
	if len(got) != 2 || got[0] != rows[1] {
		t.Errorf("Visible = %v, want both rows by sequence", got)
	}
}
