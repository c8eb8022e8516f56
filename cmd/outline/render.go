package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/lthms/outline/internal/outline"
	"github.com/lthms/outline/internal/store"
	"golang.org/x/term"
)

const (
	markerOpen   = "▾"
	markerFolded = "▸"
)

// renderOptions controls outline output.
type renderOptions struct {
	Indent int
	Width  int // 0 = no truncation
}

// displayLabel falls back to the row position for rows that were never labeled.
func displayLabel(it *store.Item) string {
	if it.Label != "" {
		return it.Label
	}
	return strconv.Itoa(it.Sequence)
}

// renderOrder writes the visible items of o, one per line, indented by depth.
// Items with children get a fold marker.
func renderOrder(w io.Writer, o *store.Order, collapsed outline.Collapsed, opts renderOptions) error {
	if _, err := fmt.Fprintf(w, "%s", o.Name); err != nil {
		return err
	}
	if o.Customer != "" {
		fmt.Fprintf(w, " (%s)", o.Customer)
	}
	fmt.Fprintln(w)

	visible := outline.Visible(o.Items, collapsed)
	labelWidth := 0
	for _, it := range visible {
		labelWidth = max(labelWidth, len(displayLabel(it)))
	}

	for _, it := range visible {
		marker := " "
		if outline.HasChildren(o.Items, it.ID) {
			marker = markerOpen
			if collapsed[it.ID] {
				marker = markerFolded
			}
		}

		var sb strings.Builder
		fmt.Fprintf(&sb, "%-*s %s%s %s", labelWidth, displayLabel(it),
			strings.Repeat(" ", it.Depth*opts.Indent), marker, it.ItemCode)
		if it.Qty != 0 || it.Rate != 0 {
			fmt.Fprintf(&sb, "  %g × %.2f = %.2f", it.Qty, it.Rate, it.Amount())
		}
		if it.Description != "" {
			fmt.Fprintf(&sb, "  (%s)", it.Description)
		}
		if _, err := fmt.Fprintln(w, truncateRunes(sb.String(), opts.Width)); err != nil {
			return err
		}
	}

	var total float64
	for _, it := range o.Items {
		total += it.Amount()
	}
	if hidden := len(o.Items) - len(visible); hidden > 0 {
		fmt.Fprintf(w, "(%d hidden)\n", hidden)
	}
	_, err := fmt.Fprintf(w, "total %.2f\n", total)
	return err
}

// truncateRunes shortens s to n runes, marking the cut with "…". n <= 0 keeps s.
func truncateRunes(s string, n int) string {
	if n <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n == 1 {
		return "…"
	}
	return string(r[:n-1]) + "…"
}

// outputWidth picks the configured width, or the terminal width when stdout
// is a terminal and no width is configured.
func outputWidth(configured int) int {
	if configured > 0 {
		return configured
	}
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return 0
	}
	w, _, err := term.GetSize(fd)
	if err != nil {
		return 0
	}
	return w
}
