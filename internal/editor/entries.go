package editor

import (
	"fmt"

	"github.com/yyyup/panelkit/internal/address"
	"github.com/yyyup/panelkit/internal/clipboard"
	"github.com/yyyup/panelkit/internal/logging/events"
	"github.com/yyyup/panelkit/internal/plain"
	"github.com/yyyup/panelkit/internal/tree"
)

// NewSpacerEntry returns the preset a spacer is born with.
func NewSpacerEntry() *tree.ButtonEntry {
	return &tree.ButtonEntry{ButtonID: tree.ButtonSpacer, SpacerWidth: 1.0}
}

// NewPropertyEntry returns the preset a property element is born with.
func NewPropertyEntry() *tree.ButtonEntry {
	return &tree.ButtonEntry{
		ButtonID:    tree.ButtonProperty,
		Name:        "Property",
		DisplayName: "Property",
		Icon:        "PROPERTIES",
	}
}

// NewOperatorEntry returns the preset an operator element is born with.
func NewOperatorEntry() *tree.ButtonEntry {
	return &tree.ButtonEntry{
		ButtonID:    tree.ButtonOperator,
		Name:        "Operator",
		DisplayName: "Operator",
		Icon:        "PLAY",
	}
}

// NewScriptEntry returns the preset a custom-script button is born with.
func NewScriptEntry() *tree.ButtonEntry {
	return &tree.ButtonEntry{ButtonID: tree.ButtonCustomScript, Icon: "USER"}
}

// NewRegisteredEntry returns an entry bound to a registered button id.
func NewRegisteredEntry(buttonID string) *tree.ButtonEntry {
	return &tree.ButtonEntry{ButtonID: buttonID, Name: buttonID}
}

// AddEntry inserts an entry after the row's active button.
func (e *Editor) AddEntry(addr address.Address, entry *tree.ButtonEntry) error {
	cat, idx, err := e.rowContext(addr)
	if err != nil {
		events.Editor.Rejected("entry.add", err)
		return err
	}
	if err := guardEditable(cat); err != nil {
		events.Editor.Rejected("entry.add", err)
		return err
	}
	row := cat.Rows[idx]
	if row.Kind != tree.RowButton {
		err := fmt.Errorf("row %q does not hold buttons", row.Name)
		events.Editor.Rejected("entry.add", err)
		return err
	}
	at := clampInsert(row.ActiveButton+1, len(row.Buttons))
	insertEntries(row, at, []*tree.ButtonEntry{entry})
	row.ActiveButton = at
	events.Editor.Applied("entry.add", entry.Label(), 1)
	return nil
}

// MoveEntryUp swaps the addressed entry with the one before it.
func (e *Editor) MoveEntryUp(addr address.Address) error {
	row, idx, err := e.editableEntryContext(addr, "entry.move-up")
	if err != nil {
		return err
	}
	if idx == 0 {
		return nil
	}
	row.Buttons[idx-1], row.Buttons[idx] = row.Buttons[idx], row.Buttons[idx-1]
	row.ActiveButton = idx - 1
	events.Editor.Applied("entry.move-up", row.Buttons[idx-1].Label(), 1)
	return nil
}

// MoveEntryDown swaps the addressed entry with the one after it.
func (e *Editor) MoveEntryDown(addr address.Address) error {
	row, idx, err := e.editableEntryContext(addr, "entry.move-down")
	if err != nil {
		return err
	}
	if idx >= len(row.Buttons)-1 {
		return nil
	}
	row.Buttons[idx], row.Buttons[idx+1] = row.Buttons[idx+1], row.Buttons[idx]
	row.ActiveButton = idx + 1
	events.Editor.Applied("entry.move-down", row.Buttons[idx+1].Label(), 1)
	return nil
}

// DeleteEntry removes the addressed entry and clamps the active index to a
// surviving neighbor.
func (e *Editor) DeleteEntry(addr address.Address) error {
	row, idx, err := e.editableEntryContext(addr, "entry.delete")
	if err != nil {
		return err
	}
	name := row.Buttons[idx].Label()
	row.Buttons = append(row.Buttons[:idx], row.Buttons[idx+1:]...)
	if row.ActiveButton >= idx {
		row.ActiveButton--
	}
	row.ClampActiveButton()
	events.Editor.Applied("entry.delete", name, 1)
	return nil
}

// DuplicateEntry clones the addressed entry after itself. Custom scripts
// get a suffixed display name so the copies stay tellable apart.
func (e *Editor) DuplicateEntry(addr address.Address) error {
	row, idx, err := e.editableEntryContext(addr, "entry.duplicate")
	if err != nil {
		return err
	}
	dup := row.Buttons[idx].Clone()
	if dup.ButtonID == tree.ButtonCustomScript {
		base := dup.DisplayName
		if base == "" {
			base = dup.Name
		}
		if base == "" {
			base = "Script"
		}
		dup.DisplayName = base + " Copy"
	}
	insertEntries(row, idx+1, []*tree.ButtonEntry{dup})
	row.ActiveButton = idx + 1
	events.Editor.Applied("entry.duplicate", dup.Label(), 1)
	return nil
}

// CopyEntry serializes the addressed entry to the clipboard under the
// button_entry discriminator.
func (e *Editor) CopyEntry(addr address.Address) error {
	row, idx, err := e.entryContext(addr)
	if err != nil {
		events.Editor.Rejected("entry.copy", err)
		return err
	}
	m, err := plain.ToPlain(row.Buttons[idx])
	if err != nil {
		events.Editor.Rejected("entry.copy", err)
		return err
	}
	text, err := plain.Encode(plain.TypeButtonEntry, m)
	if err != nil {
		events.Editor.Rejected("entry.copy", err)
		return err
	}
	if err := clipboard.Write(text); err != nil {
		events.Editor.Rejected("entry.copy", err)
		return err
	}
	events.Editor.Applied("entry.copy", row.Buttons[idx].Label(), 1)
	return nil
}

// PasteEntry inserts a button_entry payload after the row's active button.
// A mismatched discriminator leaves the row unmodified.
func (e *Editor) PasteEntry(addr address.Address) error {
	cat, idx, err := e.rowContext(addr)
	if err != nil {
		events.Editor.Rejected("entry.paste", err)
		return err
	}
	if err := guardEditable(cat); err != nil {
		events.Editor.Rejected("entry.paste", err)
		return err
	}
	row := cat.Rows[idx]
	if row.Kind != tree.RowButton {
		err := fmt.Errorf("row %q does not hold buttons", row.Name)
		events.Editor.Rejected("entry.paste", err)
		return err
	}

	text, err := clipboard.Read()
	if err != nil {
		events.Editor.Rejected("entry.paste", err)
		return err
	}
	payload, err := plain.Decode(text)
	if err != nil {
		events.Editor.Rejected("entry.paste", err)
		return err
	}
	if err := payload.Expect(plain.TypeButtonEntry); err != nil {
		events.Editor.Rejected("entry.paste", err)
		return err
	}
	m, err := plain.Mapping(payload.Content)
	if err != nil {
		events.Editor.Rejected("entry.paste", err)
		return err
	}
	entry, err := plain.DecodeEntry(m)
	if err != nil {
		events.Editor.Rejected("entry.paste", err)
		return err
	}

	at := clampInsert(row.ActiveButton+1, len(row.Buttons))
	insertEntries(row, at, []*tree.ButtonEntry{entry})
	row.ActiveButton = at
	events.Editor.Applied("entry.paste", entry.Label(), 1)
	return nil
}

func insertEntries(row *tree.Row, at int, entries []*tree.ButtonEntry) {
	row.Buttons = append(row.Buttons, make([]*tree.ButtonEntry, len(entries))...)
	copy(row.Buttons[at+len(entries):], row.Buttons[at:])
	copy(row.Buttons[at:], entries)
}
