// Package table pads rows of cells into aligned columns for list views.
package table

import "strings"

// columnGap separates adjacent columns in the rendered output.
const columnGap = "  "

// Alignment controls which side of the column a cell hugs.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Format pads every cell to the widest entry of its column. Columns without
// an alignment entry default to AlignLeft. Widths are measured in runes, so
// glyph labels line up.
func Format(rows [][]string, alignments []Alignment) []string {
	if len(rows) == 0 {
		return nil
	}
	widths := columnWidths(rows)
	out := make([]string, len(rows))
	for i, row := range rows {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString(columnGap)
			}
			pad := widths[c] - len([]rune(cell))
			if pad < 0 {
				pad = 0
			}
			if c < len(alignments) && alignments[c] == AlignRight {
				b.WriteString(strings.Repeat(" ", pad))
				b.WriteString(cell)
			} else {
				b.WriteString(cell)
				b.WriteString(strings.Repeat(" ", pad))
			}
		}
		out[i] = b.String()
	}
	return out
}

func columnWidths(rows [][]string) []int {
	widths := make([]int, len(rows[0]))
	for _, row := range rows {
		for c, cell := range row {
			if c >= len(widths) {
				widths = append(widths, 0)
			}
			if w := len([]rune(cell)); w > widths[c] {
				widths[c] = w
			}
		}
	}
	return widths
}
