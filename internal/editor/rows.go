package editor

import (
	"fmt"

	"github.com/yyyup/panelkit/internal/address"
	"github.com/yyyup/panelkit/internal/clipboard"
	"github.com/yyyup/panelkit/internal/logging/events"
	"github.com/yyyup/panelkit/internal/plain"
	"github.com/yyyup/panelkit/internal/tree"
)

// MoveRowUp moves the addressed row one position up. A block head takes
// its whole block past the previous block; a plain row swaps with its
// neighbor. Already at the top is a silent no-op.
func (e *Editor) MoveRowUp(addr address.Address) error {
	cat, idx, err := e.rowContext(addr)
	if err != nil {
		events.Editor.Rejected("row.move-up", err)
		return err
	}
	if err := guardEditable(cat); err != nil {
		events.Editor.Rejected("row.move-up", err)
		return err
	}

	if tree.IsBlockHead(cat.Rows[idx]) {
		start, end, _ := cat.BlockRange(idx)
		target := moveTargetUp(cat, start)
		if target >= start {
			return nil
		}
		moveSpan(cat, start, end, target)
		cat.ActiveRow = target
		events.Editor.Applied("row.move-up", cat.Rows[target].Name, end-start+1)
		return nil
	}

	if idx == 0 {
		return nil
	}
	// A subsection may not climb above the last block head covering it.
	if cat.Rows[idx].Subsection && cat.BlockHeadBefore(idx-2) == -1 {
		return nil
	}
	cat.Rows[idx-1], cat.Rows[idx] = cat.Rows[idx], cat.Rows[idx-1]
	cat.ActiveRow = idx - 1
	events.Editor.Applied("row.move-up", cat.Rows[idx-1].Name, 1)
	return nil
}

// MoveRowDown mirrors MoveRowUp: a block head hops past the next block, a
// plain row swaps downward.
func (e *Editor) MoveRowDown(addr address.Address) error {
	cat, idx, err := e.rowContext(addr)
	if err != nil {
		events.Editor.Rejected("row.move-down", err)
		return err
	}
	if err := guardEditable(cat); err != nil {
		events.Editor.Rejected("row.move-down", err)
		return err
	}

	if tree.IsBlockHead(cat.Rows[idx]) {
		start, end, _ := cat.BlockRange(idx)
		if end >= len(cat.Rows)-1 {
			return nil
		}
		// The row after end is the next block's head; the target is the
		// slot just past that block.
		target := cat.BlockEnd(end+1) + 1
		moveSpan(cat, start, end, target)
		newStart := target - (end - start + 1)
		cat.ActiveRow = newStart
		events.Editor.Applied("row.move-down", cat.Rows[newStart].Name, end-start+1)
		return nil
	}

	if idx >= len(cat.Rows)-1 {
		return nil
	}
	cat.Rows[idx], cat.Rows[idx+1] = cat.Rows[idx+1], cat.Rows[idx]
	cat.ActiveRow = idx + 1
	events.Editor.Applied("row.move-down", cat.Rows[idx+1].Name, 1)
	return nil
}

// DuplicateRow clones the addressed row after its block. A block head
// clones the whole block and suffixes the new head's name.
func (e *Editor) DuplicateRow(addr address.Address) error {
	cat, idx, err := e.rowContext(addr)
	if err != nil {
		events.Editor.Rejected("row.duplicate", err)
		return err
	}
	if err := guardEditable(cat); err != nil {
		events.Editor.Rejected("row.duplicate", err)
		return err
	}

	start, end, _ := cat.BlockRange(idx)
	clones := make([]*tree.Row, 0, end-start+1)
	for _, row := range cat.Rows[start : end+1] {
		clones = append(clones, row.Clone())
	}
	if tree.IsBlockHead(clones[0]) {
		clones[0].Name += " Copy"
	}
	insertRows(cat, end+1, clones)
	cat.ActiveRow = end + 1
	events.Editor.Applied("row.duplicate", clones[0].Name, len(clones))
	return nil
}

// DeleteRowSpan reports how many rows DeleteRow would remove, so the
// surface can ask for confirmation before a non-trivial block delete.
func (e *Editor) DeleteRowSpan(addr address.Address) (int, error) {
	cat, idx, err := e.rowContext(addr)
	if err != nil {
		return 0, err
	}
	start, end, _ := cat.BlockRange(idx)
	return end - start + 1, nil
}

// DeleteRow removes the addressed row, or its whole block when it is a
// head. The active index lands on a surviving neighbor.
func (e *Editor) DeleteRow(addr address.Address) error {
	cat, idx, err := e.rowContext(addr)
	if err != nil {
		events.Editor.Rejected("row.delete", err)
		return err
	}
	if err := guardEditable(cat); err != nil {
		events.Editor.Rejected("row.delete", err)
		return err
	}

	start, end, _ := cat.BlockRange(idx)
	name := cat.Rows[start].Name
	cat.RemoveRows(start, end)
	events.Editor.Applied("row.delete", name, end-start+1)
	return nil
}

// CopyRow serializes the addressed row to the clipboard. Block heads copy
// the whole block under the section_block discriminator; plain rows copy
// as a bare mapping.
func (e *Editor) CopyRow(addr address.Address) error {
	cat, idx, err := e.rowContext(addr)
	if err != nil {
		events.Editor.Rejected("row.copy", err)
		return err
	}

	var text string
	if tree.IsBlockHead(cat.Rows[idx]) {
		start, end, _ := cat.BlockRange(idx)
		content := make([]map[string]any, 0, end-start+1)
		for _, row := range cat.Rows[start : end+1] {
			m, err := plain.ToPlain(row)
			if err != nil {
				events.Editor.Rejected("row.copy", err)
				return err
			}
			content = append(content, m)
		}
		text, err = plain.Encode(plain.TypeSectionBlock, content)
	} else {
		var m map[string]any
		m, err = plain.ToPlain(cat.Rows[idx])
		if err == nil {
			text, err = plain.EncodeBare(m)
		}
	}
	if err != nil {
		events.Editor.Rejected("row.copy", err)
		return err
	}
	if err := clipboard.Write(text); err != nil {
		events.Editor.Rejected("row.copy", err)
		return err
	}
	events.Editor.Applied("row.copy", cat.Rows[idx].Name, 1)
	return nil
}

// PasteRow inserts clipboard content into the addressed category. A
// section_block payload pastes the whole block above the current selection
// with the head renamed; a bare row mapping pastes a single row after the
// current selection. Any other shape is rejected without touching the tree.
func (e *Editor) PasteRow(addr address.Address) error {
	cat, err := e.category(addr)
	if err != nil {
		events.Editor.Rejected("row.paste", err)
		return err
	}
	if err := guardEditable(cat); err != nil {
		events.Editor.Rejected("row.paste", err)
		return err
	}

	text, err := clipboard.Read()
	if err != nil {
		events.Editor.Rejected("row.paste", err)
		return err
	}
	payload, err := plain.Decode(text)
	if err != nil {
		events.Editor.Rejected("row.paste", err)
		return err
	}

	switch payload.Type {
	case plain.TypeSectionBlock:
		return e.pasteBlock(cat, payload)
	case "":
		m, err := plain.Mapping(payload.Content)
		if err != nil {
			err = fmt.Errorf("%w: bare clipboard content is not a row", plain.ErrShapeMismatch)
			events.Editor.Rejected("row.paste", err)
			return err
		}
		return e.pasteSingleRow(cat, m)
	default:
		err := payload.Expect(plain.TypeSectionBlock)
		events.Editor.Rejected("row.paste", err)
		return err
	}
}

func (e *Editor) pasteBlock(cat *tree.Category, payload plain.Payload) error {
	mappings, err := plain.RowsContent(payload.Content)
	if err != nil {
		events.Editor.Rejected("row.paste", err)
		return err
	}
	if len(mappings) == 0 {
		err := fmt.Errorf("section block payload has no rows")
		events.Editor.Rejected("row.paste", err)
		return err
	}
	rows := make([]*tree.Row, 0, len(mappings))
	for _, m := range mappings {
		row, err := plain.DecodeRow(m)
		if err != nil {
			events.Editor.Rejected("row.paste", err)
			return err
		}
		rows = append(rows, row)
	}
	if tree.IsBlockHead(rows[0]) {
		rows[0].Name += " Copy"
	}

	at := clampInsert(cat.ActiveRow, len(cat.Rows))
	if err := cat.ValidateInsert(at, rows[0]); err != nil {
		events.Editor.Rejected("row.paste", err)
		return err
	}
	insertRows(cat, at, rows)
	cat.ActiveRow = at
	events.Editor.Applied("row.paste", rows[0].Name, len(rows))
	return nil
}

func (e *Editor) pasteSingleRow(cat *tree.Category, m map[string]any) error {
	row, err := plain.DecodeRow(m)
	if err != nil {
		events.Editor.Rejected("row.paste", err)
		return err
	}
	at := clampInsert(cat.ActiveRow+1, len(cat.Rows))
	if err := cat.InsertRow(at, row); err != nil {
		events.Editor.Rejected("row.paste", err)
		return err
	}
	events.Editor.Applied("row.paste", row.Name, 1)
	return nil
}

// AddSection inserts a fresh SECTION row after the current selection.
func (e *Editor) AddSection(addr address.Address) error {
	return e.addRow(addr, "row.add-section", tree.NewSection("Section"))
}

// AddPanel inserts a fresh PANEL row after the current selection.
func (e *Editor) AddPanel(addr address.Address, panelID string) error {
	return e.addRow(addr, "row.add-panel", tree.NewPanel("Panel", panelID))
}

// AddButtonRow inserts a fresh BUTTON row after the current selection.
func (e *Editor) AddButtonRow(addr address.Address) error {
	return e.addRow(addr, "row.add-button", tree.NewButtonRow())
}

func (e *Editor) addRow(addr address.Address, op string, row *tree.Row) error {
	cat, err := e.category(addr)
	if err != nil {
		events.Editor.Rejected(op, err)
		return err
	}
	if err := guardEditable(cat); err != nil {
		events.Editor.Rejected(op, err)
		return err
	}
	at := clampInsert(cat.ActiveRow+1, len(cat.Rows))
	if err := cat.InsertRow(at, row); err != nil {
		events.Editor.Rejected(op, err)
		return err
	}
	events.Editor.Applied(op, row.Name, 1)
	return nil
}

// moveTargetUp finds where a block starting at start lands on an up move:
// the head of the previous block, which is also the slot just past the
// block before that. With nothing above, the very top.
func moveTargetUp(c *tree.Category, start int) int {
	prev := c.BlockHeadBefore(start - 1)
	if prev == -1 {
		return 0
	}
	before := c.BlockHeadBefore(prev - 1)
	if before == -1 {
		return 0
	}
	return c.BlockEnd(before) + 1
}

// moveSpan relocates the contiguous span [start, end] so its first row
// lands at target, measured in pre-removal indices.
func moveSpan(c *tree.Category, start, end, target int) {
	k := end - start + 1
	block := append([]*tree.Row(nil), c.Rows[start:end+1]...)
	c.Rows = append(c.Rows[:start], c.Rows[end+1:]...)
	if target > end {
		target -= k
	}
	insertRows(c, target, block)
}

func insertRows(c *tree.Category, at int, rows []*tree.Row) {
	c.Rows = append(c.Rows, make([]*tree.Row, len(rows))...)
	copy(c.Rows[at+len(rows):], c.Rows[at:])
	copy(c.Rows[at:], rows)
}
