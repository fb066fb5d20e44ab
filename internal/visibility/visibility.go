// Package visibility computes which rows of a category are shown in a given
// region. The decision combines each row's own display flags, its
// conditional expression, the existence of referenced panels, and the
// open/visible state of the enclosing section or subsection.
package visibility

import (
	"fmt"

	"github.com/yyyup/panelkit/internal/conditional"
	"github.com/yyyup/panelkit/internal/tree"
)

// Entry is the per-row outcome of a cascade pass. The slice a pass returns
// covers every row in order: downstream block operations depend on
// contiguous indices, so hidden rows are reported rather than filtered out.
type Entry struct {
	Index   int
	Row     *tree.Row
	Visible bool

	// Placeholder marks a row of unknown kind, rendered as an inert
	// placeholder instead of being dropped.
	Placeholder bool
}

// CategoryShown reports whether the category participates in a region at
// all: pinned there (global gate included) and active. Popup owners bypass
// pinning; only the active flag applies.
func CategoryShown(cat *tree.Category, region tree.Region) bool {
	if cat == nil {
		return false
	}
	if region == tree.RegionPopup {
		return cat.ActiveInRegion(region)
	}
	return cat.PinnedTo(region) && cat.ActiveInRegion(region)
}

// Rows runs the cascade for one category and region in a single linear
// pass. For a fixed tree and evaluator environment the result is
// deterministic.
func Rows(cat *tree.Category, region tree.Region, ev *conditional.Evaluator) []Entry {
	if cat == nil {
		return nil
	}
	out := make([]Entry, 0, len(cat.Rows))

	// Enclosing state defaults to visible and open so rows above the first
	// section still show.
	sectionVisible, sectionOpen := true, true
	subVisible, subOpen := true, true
	inSubsection := false

	for i, row := range cat.Rows {
		entry := Entry{Index: i, Row: row}
		switch row.Kind {
		case tree.RowSection, tree.RowPanel:
			visible := headVisible(cat, row, region, ev)
			if row.Subsection {
				inSubsection = true
				subVisible = visible
				subOpen = row.IsOpen(region)
				// A subsection header renders inside its parent, so it also
				// needs the parent visible and open.
				entry.Visible = visible && sectionVisible && sectionOpen
			} else {
				sectionVisible = visible
				sectionOpen = row.IsOpen(region)
				inSubsection = false
				subVisible, subOpen = true, true
				entry.Visible = visible
			}
		case tree.RowButton:
			entry.Visible = buttonVisible(cat, row, region, ev,
				sectionVisible && subVisible,
				sectionOpen && (!inSubsection || subOpen))
		default:
			// Unknown row kinds degrade to a visible placeholder wherever a
			// button row would show.
			entry.Placeholder = true
			entry.Visible = sectionVisible && subVisible &&
				sectionOpen && (!inSubsection || subOpen)
		}
		out = append(out, entry)
	}
	return out
}

// VisibleCount is a convenience for tests and status lines.
func VisibleCount(entries []Entry) int {
	n := 0
	for _, e := range entries {
		if e.Visible {
			n++
		}
	}
	return n
}

func headVisible(cat *tree.Category, row *tree.Row, region tree.Region, ev *conditional.Evaluator) bool {
	if !row.DisplayIn(region) {
		return false
	}
	if row.Kind == tree.RowPanel && !panelExists(row, ev) {
		return false
	}
	return ev.Visible(rowLabel(cat, row), row.Conditional)
}

func buttonVisible(cat *tree.Category, row *tree.Row, region tree.Region, ev *conditional.Evaluator, enclosingVisible, enclosingOpen bool) bool {
	if !row.DisplayIn(region) {
		return false
	}
	if !enclosingVisible || !enclosingOpen {
		return false
	}
	return ev.Visible(rowLabel(cat, row), row.Conditional)
}

func panelExists(row *tree.Row, ev *conditional.Evaluator) bool {
	if row.PanelID != "" {
		return ev.PanelExists(row.PanelID)
	}
	if row.CustomPanel != "" {
		return ev.PanelExists(row.CustomPanel)
	}
	return false
}

func rowLabel(cat *tree.Category, row *tree.Row) string {
	return fmt.Sprintf("category %q, row %q", cat.Name, row.Name)
}
