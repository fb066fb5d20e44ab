package tree

import "fmt"

// IsBlockHead reports whether the row starts a block: a top-level SECTION or
// PANEL. Subsections belong to the block of the nearest preceding head.
func IsBlockHead(row *Row) bool {
	if row == nil {
		return false
	}
	if row.Kind != RowSection && row.Kind != RowPanel {
		return false
	}
	return !row.Subsection
}

// BlockEnd returns the index of the last row belonging to the block headed
// at start. Rows after the head belong to the block until the next top-level
// SECTION/PANEL.
func (c *Category) BlockEnd(start int) int {
	end := start
	for i := start + 1; i < len(c.Rows); i++ {
		if IsBlockHead(c.Rows[i]) {
			break
		}
		end = i
	}
	return end
}

// BlockRange returns the [start, end] row span affected by a block-aware
// operation at index. For a block head that is the whole block; for any
// other row it is the row alone. Out-of-range indices yield ok=false.
func (c *Category) BlockRange(index int) (start, end int, ok bool) {
	if index < 0 || index >= len(c.Rows) {
		return 0, 0, false
	}
	if IsBlockHead(c.Rows[index]) {
		return index, c.BlockEnd(index), true
	}
	return index, index, true
}

// BlockHeadBefore returns the index of the nearest block head at or before
// index, or -1 when the rows above are all orphaned.
func (c *Category) BlockHeadBefore(index int) int {
	if index >= len(c.Rows) {
		index = len(c.Rows) - 1
	}
	for i := index; i >= 0; i-- {
		if IsBlockHead(c.Rows[i]) {
			return i
		}
	}
	return -1
}

// ValidateInsert rejects inserts that would create an orphan subsection: a
// subsection row with no top-level SECTION/PANEL above it has no block to
// belong to, and the renderer's nesting rules are undefined for it.
func (c *Category) ValidateInsert(index int, row *Row) error {
	if row == nil {
		return fmt.Errorf("cannot insert nil row")
	}
	if index < 0 || index > len(c.Rows) {
		return fmt.Errorf("insert index %d out of range [0,%d]", index, len(c.Rows))
	}
	if !row.Subsection {
		return nil
	}
	if c.BlockHeadBefore(index-1) == -1 {
		return fmt.Errorf("subsection %q needs a section or panel above it", row.Name)
	}
	return nil
}

// InsertRow places row at index after validation and keeps the active index
// pointing at the inserted row.
func (c *Category) InsertRow(index int, row *Row) error {
	if err := c.ValidateInsert(index, row); err != nil {
		return err
	}
	c.Rows = append(c.Rows, nil)
	copy(c.Rows[index+1:], c.Rows[index:])
	c.Rows[index] = row
	c.ActiveRow = index
	return nil
}

// RemoveRows deletes the span [start, end] and clamps the active index to a
// surviving neighbor.
func (c *Category) RemoveRows(start, end int) {
	if start < 0 || end >= len(c.Rows) || start > end {
		return
	}
	c.Rows = append(c.Rows[:start], c.Rows[end+1:]...)
	if c.ActiveRow > end {
		c.ActiveRow -= end - start + 1
	} else if c.ActiveRow >= start {
		c.ActiveRow = start
	}
	c.ClampActiveRow()
}
